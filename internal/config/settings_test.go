package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radar-ppi/pkg/utils"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 500.0, s.EffectiveRange())
	require.Len(t, s.Targets, 3)
	assert.Equal(t, "Target02", s.Targets[1].Name)
	assert.Equal(t, utils.V3(170, 120, 180), s.Targets[1].Position.V3())
	assert.Equal(t, 0.8, s.Targets[1].Weight())
}

func TestValidate(t *testing.T) {
	weight := func(w float64) *float64 { return &w }
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"zero antenna", func(s *Settings) { s.AntennaHeight = 0 }, ErrInvalidAntennaHeight},
		{"NaN antenna", func(s *Settings) { s.AntennaHeight = math.NaN() }, ErrInvalidAntennaHeight},
		{"gain above one", func(s *Settings) { s.Gain = 1.2 }, ErrInvalidGain},
		{"negative gain", func(s *Settings) { s.Gain = -0.01 }, ErrInvalidGain},
		{"negative range", func(s *Settings) { s.MaxRange = -5 }, ErrInvalidRange},
		{"zero map", func(s *Settings) { s.MapSize = 0 }, ErrInvalidMapSize},
		{"zero display", func(s *Settings) { s.DisplaySize = 0 }, ErrInvalidDisplaySize},
		{"zero tick rate", func(s *Settings) { s.TickRate = 0 }, ErrInvalidTickRate},
		{"target weight", func(s *Settings) { s.Targets[0].Visibility = weight(1.5) }, ErrInvalidTarget},
		{"target step", func(s *Settings) { s.Targets[2].StepInterval = -1 }, ErrInvalidTarget},
		{"random count", func(s *Settings) { s.RandomTargets.Count = -1 }, ErrInvalidTarget},
		{"unknown source", func(s *Settings) { s.Heightmap.Source = "ftp" }, ErrInvalidHeightmap},
		{"file without path", func(s *Settings) { s.Heightmap.Path = "" }, ErrInvalidHeightmap},
		{"remote without center", func(s *Settings) {
			s.Heightmap.Source = SourceRemote
			s.Heightmap.Remote.Center = ""
		}, ErrInvalidHeightmap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), tt.want)
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gain: 0.5
max_range: 300
sweep_rate_deg: 90
heightmap:
  source: flat
targets:
  - name: Drone
    position: [10, -20, 40]
    velocity: [-6, -12, 0]
  - name: Ship
    position: [-100, 50, 5]
    visibility: 0.3
log:
  level: debug
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, s.Gain)
	assert.Equal(t, 300.0, s.EffectiveRange())
	assert.Equal(t, 90.0, s.SweepRateDeg)
	assert.Equal(t, SourceFlat, s.Heightmap.Source)
	assert.Equal(t, DefaultMaxHeight, s.Heightmap.MaxHeight, "untouched keys keep defaults")
	assert.Equal(t, AntennaHeight, s.AntennaHeight)
	assert.Equal(t, "debug", s.Log.Level)

	require.Len(t, s.Targets, 2)
	assert.Equal(t, utils.V3(-6, -12, 0), s.Targets[0].Velocity.V3())
	assert.Equal(t, 1.0, s.Targets[0].Weight())
	assert.Equal(t, 0.3, s.Targets[1].Weight())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gain: 3\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidGain)

	require.NoError(t, os.WriteFile(path, []byte("gain: [1, 2\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
