// pkg/render/pipeline.go
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"radar-ppi/pkg/utils"
	"radar-ppi/pkg/visibility"
)

var ErrInvalidSize = errors.New("render size must be positive")

// SnapshotSource is anything that can freeze the sensor parameters, usually
// *visibility.SensorState.
type SnapshotSource interface {
	Snapshot() visibility.Snapshot
}

// Config — параметры конвейера
type Config struct {
	Width, Height  int
	Workers        int // row bands rendered in parallel; 0 means NumCPU
	Palette        Palette
	SweepLine      bool
	SweepLineWidth float64 // pixels
}

// Frame is the output of one Render call. Images are owned by the pipeline and
// are overwritten by the next call.
type Frame struct {
	Snapshot visibility.Snapshot
	Rotation float64
	Capture  *image.RGBA // pass 1, radar video
	Image    *image.RGBA // pass 2, masked indicator
	Detected int         // blips above the gain threshold
}

// Pipeline runs the two render passes. Pass 1 evaluates the visibility function
// for every pixel of a top-down capture; pass 2 masks the capture to the
// indicator circle and draws the sweep line.
type Pipeline struct {
	cfg     Config
	capture *image.RGBA
	frame   *image.RGBA
	heights []float64
}

func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Palette == (Palette{}) {
		cfg.Palette = DefaultPalette
	}
	if cfg.SweepLineWidth <= 0 {
		cfg.SweepLineWidth = 1.5
	}
	rect := image.Rect(0, 0, cfg.Width, cfg.Height)
	return &Pipeline{
		cfg:     cfg,
		capture: image.NewRGBA(rect),
		frame:   image.NewRGBA(rect),
		heights: make([]float64, cfg.Width*cfg.Height),
	}, nil
}

func (p *Pipeline) Config() Config { return p.cfg }

// Render snapshots the sensor once and runs both passes against that snapshot.
func (p *Pipeline) Render(scene Scene, sensor SnapshotSource, rotation float64) Frame {
	snap := sensor.Snapshot()
	detected := p.Capture(scene, snap)
	return Frame{
		Snapshot: snap,
		Rotation: rotation,
		Capture:  p.capture,
		Image:    p.Composite(rotation),
		Detected: detected,
	}
}

// Camera returns the capture camera for a scene.
func (p *Pipeline) Camera(scene Scene) Camera {
	return Camera{MapSize: scene.MapSize(), Width: p.cfg.Width, Height: p.cfg.Height}
}

// CaptureImage is the latest pass 1 result.
func (p *Pipeline) CaptureImage() *image.RGBA { return p.capture }

// Capture is pass 1. It overwrites the capture buffer and returns how many blips
// were detected.
func (p *Pipeline) Capture(scene Scene, snap visibility.Snapshot) int {
	cam := p.Camera(scene)
	surface := scene.Surface()
	pal := p.cfg.Palette

	p.bands(func(y0, y1 int) {
		for py := y0; py < y1; py++ {
			row := p.capture.Pix[py*p.capture.Stride : py*p.capture.Stride+4*cam.Width]
			clear(row)
			for px := 0; px < cam.Width; px++ {
				i := py*cam.Width + px
				p.heights[i] = math.Inf(-1)
				if surface == nil {
					continue
				}
				x, y := cam.PixelToWorld(px, py)
				z, n, ok := surface.SampleAt(x, y)
				if !ok {
					continue
				}
				p.heights[i] = z
				if c, draw := snap.Terrain(utils.V3(x, y, z), n).Shade(pal.Reveal, pal.Dark); draw {
					p.capture.SetRGBA(px, py, c)
				}
			}
		}
	})

	detected := 0
	for _, b := range scene.Blips() {
		if snap.Target(b.Position, b.Weight).Detected {
			detected++
		}
		p.drawBlip(cam, snap, b)
	}
	return detected
}

// drawBlip shades every pixel of the blip disc as a point at the blip height.
// Terrain above the blip hides it.
func (p *Pipeline) drawBlip(cam Camera, snap visibility.Snapshot, b Blip) {
	upp := cam.UnitsPerPixel()
	// минимум один пиксель, даже если цель меньше пикселя
	r := max(b.Radius, 0.75*upp)
	cx, cy := cam.WorldToPixel(b.Position.X, b.Position.Y)
	rp := r / upp
	x0 := max(int(math.Floor(cx-rp)), 0)
	x1 := min(int(math.Ceil(cx+rp)), cam.Width-1)
	y0 := max(int(math.Floor(cy-rp)), 0)
	y1 := min(int(math.Ceil(cy+rp)), cam.Height-1)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			x, y := cam.PixelToWorld(px, py)
			if math.Hypot(x-b.Position.X, y-b.Position.Y) > r {
				continue
			}
			if p.heights[py*cam.Width+px] > b.Position.Z {
				continue
			}
			if c, draw := snap.Target(utils.V3(x, y, b.Position.Z), b.Weight).Shade(p.cfg.Palette.Reveal, p.cfg.Palette.Dark); draw {
				p.capture.SetRGBA(px, py, c)
			}
		}
	}
}

// Composite is pass 2: the capture inside the indicator circle, transparent
// outside, with the optional sweep line at rotation degrees.
func (p *Pipeline) Composite(rotation float64) *image.RGBA {
	w, h := p.cfg.Width, p.cfg.Height
	radius := float64(min(w, h)) / 2
	sin, cos := math.Sincos(utils.Radians(rotation))
	halfLine := p.cfg.SweepLineWidth / 2

	p.bands(func(y0, y1 int) {
		for py := y0; py < y1; py++ {
			dy := float64(py) + 0.5 - float64(h)/2
			for px := 0; px < w; px++ {
				dx := float64(px) + 0.5 - float64(w)/2
				if math.Hypot(dx, dy) >= radius {
					p.frame.SetRGBA(px, py, color.RGBA{})
					continue
				}
				c := p.capture.RGBAAt(px, py)
				if p.cfg.SweepLine {
					// bearing 0 is screen up, clockwise
					along := dx*sin - dy*cos
					across := math.Abs(dx*cos + dy*sin)
					if along >= 0 && across <= halfLine {
						c = over(c, p.cfg.Palette.SweepLine)
					}
				}
				p.frame.SetRGBA(px, py, c)
			}
		}
	})
	return p.frame
}

// bands splits the rows into Workers bands and waits for all of them.
func (p *Pipeline) bands(fn func(y0, y1 int)) {
	h := p.cfg.Height
	n := min(p.cfg.Workers, h)
	if n <= 1 {
		fn(0, h)
		return
	}
	var g errgroup.Group
	step := (h + n - 1) / n
	for y0 := 0; y0 < h; y0 += step {
		y0, y1 := y0, min(y0+step, h)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
