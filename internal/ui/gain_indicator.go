// internal/ui/gain_indicator.go
package ui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"radar-ppi/internal/config"
)

// GainIndicator is a horizontal bar filled in proportion to the receiver gain.
type GainIndicator struct {
	X, Y          float32
	Width, Height float32
	Color         color.Color
	LastChange    time.Time

	p    painter
	gain float64
}

func NewGainIndicator(x, y, width, height float32) *GainIndicator {
	return &GainIndicator{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Color:  config.GainBarColor,
	}
}

// SetGain stores g clamped to [0, 1].
func (g *GainIndicator) SetGain(v float64) {
	v = min(max(v, 0), 1)
	if v != g.gain {
		g.LastChange = time.Now()
	}
	g.gain = v
}

func (g *GainIndicator) Gain() float64 { return g.gain }

// FillWidth is the width of the filled part in pixels.
func (g *GainIndicator) FillWidth() float32 { return g.Width * float32(g.gain) }

func (g *GainIndicator) Draw(dst *ebiten.Image) {
	h := g.Height * pulse(g.LastChange)
	y := g.Y - (h-g.Height)/2
	if w := g.FillWidth(); w > 0 {
		g.p.fill(dst, rect(g.X, y, w, h), g.Color)
	}
	g.p.stroke(dst, rect(g.X, y, g.Width, h), 1, config.UIBorderColor)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("GAIN %.2f", g.gain), int(g.X), int(g.Y+g.Height)+4)
}
