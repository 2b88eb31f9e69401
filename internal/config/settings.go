// internal/config/settings.go
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"radar-ppi/pkg/utils"
)

var (
	ErrInvalidAntennaHeight = errors.New("antenna_height must be positive")
	ErrInvalidGain          = errors.New("gain must be within [0, 1]")
	ErrInvalidRange         = errors.New("max_range must not be negative")
	ErrInvalidMapSize       = errors.New("map_size must be positive")
	ErrInvalidDisplaySize   = errors.New("display_size must be positive")
	ErrInvalidTickRate      = errors.New("tick_rate must be positive")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrInvalidHeightmap     = errors.New("invalid heightmap source")
)

// Heightmap sources.
const (
	SourceFile   = "file"
	SourceRemote = "remote"
	SourceFlat   = "flat"
)

// Vec is written as [x, y, z] in YAML.
type Vec [3]float64

func (v Vec) V3() utils.Vec3 { return utils.V3(v[0], v[1], v[2]) }

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type OverlaySettings struct {
	Ticks  int     `yaml:"ticks"`
	Rings  int     `yaml:"rings"`
	Margin float64 `yaml:"margin"`
}

type RemoteSettings struct {
	URL     string   `yaml:"url"`
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Center  string   `yaml:"center"` // "lat,lon"
	Zoom    int      `yaml:"zoom"`
	MapType string   `yaml:"maptype"`
	Key     string   `yaml:"key"`
	Styles  []string `yaml:"styles"`
}

type HeightmapSettings struct {
	Source    string         `yaml:"source"` // file | remote | flat
	Path      string         `yaml:"path"`
	MaxHeight float64        `yaml:"max_height"`
	Remote    RemoteSettings `yaml:"remote"`
	CacheDir  string         `yaml:"cache_dir"`
}

type TargetSettings struct {
	Name         string   `yaml:"name"`
	Position     Vec      `yaml:"position"`
	Velocity     Vec      `yaml:"velocity"` // единиц в секунду
	Step         Vec      `yaml:"step"`
	StepInterval float64  `yaml:"step_interval"` // секунд; 0 — без шага
	Visibility   *float64 `yaml:"visibility"`    // nil — 1
}

// Weight is the visibility weight; an omitted value means a fully reflective target.
func (t TargetSettings) Weight() float64 {
	if t.Visibility == nil {
		return 1
	}
	return *t.Visibility
}

type RandomTargets struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"`
}

type LogSettings struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Settings — все настраиваемые параметры симулятора
type Settings struct {
	MapSize        float64           `yaml:"map_size"`
	AntennaHeight  float64           `yaml:"antenna_height"`
	Gain           float64           `yaml:"gain"`
	MaxRange       float64           `yaml:"max_range"` // 0 — половина map_size
	Sensor         Point             `yaml:"sensor"`
	DisplaySize    int               `yaml:"display_size"`
	TickRate       float64           `yaml:"tick_rate"`
	MaxDelta       float64           `yaml:"max_delta"`
	TimeScale      float64           `yaml:"time_scale"`
	SweepStepDeg   float64           `yaml:"sweep_step_deg"`
	SweepRateDeg   float64           `yaml:"sweep_rate_deg"`  // > 0 — вращение по времени
	RenderInterval float64           `yaml:"render_interval"` // 0 — каждый тик
	Workers        int               `yaml:"workers"`
	SweepLine      bool              `yaml:"sweep_line"`
	Overlay        OverlaySettings   `yaml:"overlay"`
	Heightmap      HeightmapSettings `yaml:"heightmap"`
	Targets        []TargetSettings  `yaml:"targets"`
	RandomTargets  RandomTargets     `yaml:"random_targets"`
	Log            LogSettings       `yaml:"log"`
}

// Default is the reference scene: terrain from assets/heightmap.png and three
// targets stepping north-east every seven seconds.
func Default() Settings {
	seed := func(name string, x, y, z float64) TargetSettings {
		w := DefaultTargetWeight
		return TargetSettings{
			Name:         name,
			Position:     Vec{x, y, z},
			Step:         Vec{3, 3, 0},
			StepInterval: DefaultStepInterval,
			Visibility:   &w,
		}
	}
	return Settings{
		MapSize:       DefaultMapSize,
		AntennaHeight: AntennaHeight,
		Gain:          DefaultGain,
		DisplaySize:   DefaultDisplaySize,
		TickRate:      DefaultTickRate,
		MaxDelta:      MaxDeltaTime,
		TimeScale:     1,
		SweepStepDeg:  SweepStepDeg,
		SweepLine:     true,
		Overlay:       OverlaySettings{Ticks: 36, Rings: 10, Margin: 18},
		Heightmap: HeightmapSettings{
			Source:    SourceFile,
			Path:      "assets/heightmap.png",
			MaxHeight: DefaultMaxHeight,
			Remote: RemoteSettings{
				Width:   800,
				Height:  800,
				Center:  "43.5853,39.7203",
				Zoom:    12,
				MapType: "terrain",
			},
		},
		Targets: []TargetSettings{
			seed("Target01", 100, 100, 100),
			seed("Target02", 170, 120, 180),
			seed("Target03", 70, 20, 80),
		},
		Log: LogSettings{Level: "info"},
	}
}

// Load reads YAML over Default. Keys missing from the file keep their defaults;
// a targets list in the file replaces the default targets.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// EffectiveRange resolves max_range 0 to half the map.
func (s Settings) EffectiveRange() float64 {
	if s.MaxRange > 0 {
		return s.MaxRange
	}
	return s.MapSize / 2
}

func (s Settings) Validate() error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
	switch {
	case !(s.AntennaHeight > 0) || bad(s.AntennaHeight):
		return fmt.Errorf("%w: got %v", ErrInvalidAntennaHeight, s.AntennaHeight)
	case !(s.Gain >= 0 && s.Gain <= 1):
		return fmt.Errorf("%w: got %v", ErrInvalidGain, s.Gain)
	case s.MaxRange < 0 || bad(s.MaxRange):
		return fmt.Errorf("%w: got %v", ErrInvalidRange, s.MaxRange)
	case !(s.MapSize > 0) || bad(s.MapSize):
		return fmt.Errorf("%w: got %v", ErrInvalidMapSize, s.MapSize)
	case s.DisplaySize <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidDisplaySize, s.DisplaySize)
	case !(s.TickRate > 0) || bad(s.TickRate):
		return fmt.Errorf("%w: got %v", ErrInvalidTickRate, s.TickRate)
	}

	switch s.Heightmap.Source {
	case SourceFile:
		if s.Heightmap.Path == "" {
			return fmt.Errorf("%w: file source without path", ErrInvalidHeightmap)
		}
	case SourceRemote:
		if s.Heightmap.Remote.Width <= 0 || s.Heightmap.Remote.Height <= 0 || s.Heightmap.Remote.Center == "" {
			return fmt.Errorf("%w: remote source needs width, height and center", ErrInvalidHeightmap)
		}
	case SourceFlat:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidHeightmap, s.Heightmap.Source)
	}
	if s.Heightmap.MaxHeight < 0 {
		return fmt.Errorf("%w: negative max_height %v", ErrInvalidHeightmap, s.Heightmap.MaxHeight)
	}

	for i, t := range s.Targets {
		if w := t.Weight(); !(w >= 0 && w <= 1) {
			return fmt.Errorf("%w: targets[%d] %q visibility %v outside [0, 1]", ErrInvalidTarget, i, t.Name, w)
		}
		if t.StepInterval < 0 {
			return fmt.Errorf("%w: targets[%d] %q negative step_interval", ErrInvalidTarget, i, t.Name)
		}
	}
	if s.RandomTargets.Count < 0 {
		return fmt.Errorf("%w: random_targets.count %d", ErrInvalidTarget, s.RandomTargets.Count)
	}
	return nil
}
