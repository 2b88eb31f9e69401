// internal/ui/speed_button.go
package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"radar-ppi/internal/config"
)

// SpeedButton shows the time scale as a "fast forward" glyph whose color
// follows the selected factor.
type SpeedButton struct {
	X, Y          float32
	Size          float32
	LastClickTime time.Time
	StateColors   []color.Color
	CurrentState  int

	p painter
}

func NewSpeedButton(x, y, size float32, stateColors []color.Color) *SpeedButton {
	return &SpeedButton{
		X:           x,
		Y:           y,
		Size:        size,
		StateColors: stateColors,
	}
}

func (b *SpeedButton) Draw(dst *ebiten.Image) {
	triangleSize := b.Size * pulse(b.LastClickTime)
	fill := b.StateColors[b.CurrentState%len(b.StateColors)]

	height := triangleSize * 1.2
	width := triangleSize
	offset := width * 0.8

	// два треугольника со сдвигом
	for _, dx := range []float32{0, offset} {
		tri := triangle(
			b.X-width+dx, b.Y-height/2,
			b.X+dx, b.Y,
			b.X-width+dx, b.Y+height/2,
		)
		b.p.fill(dst, tri, fill)
		b.p.stroke(dst, tri, config.UIBorderWidth, config.UIBorderColor)
	}
}

// Contains uses a circle for hit testing since the glyph is irregular.
func (b *SpeedButton) Contains(x, y int) bool {
	return insideCircle(x, y, b.X, b.Y, b.Size*1.5)
}

// SetState selects the factor index and pulses when it changes.
func (b *SpeedButton) SetState(i int) {
	if i != b.CurrentState {
		b.LastClickTime = time.Now()
	}
	b.CurrentState = i
}
