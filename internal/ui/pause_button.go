// internal/ui/pause_button.go
package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"radar-ppi/internal/config"
)

// PauseButton draws two bars while running and a play triangle while paused.
type PauseButton struct {
	X, Y          float32
	Size          float32
	LastClickTime time.Time
	IsPaused      bool
	PauseColor    color.Color
	PlayColor     color.Color

	p painter
}

func NewPauseButton(x, y, size float32, pauseColor, playColor color.Color) *PauseButton {
	return &PauseButton{
		X:          x,
		Y:          y,
		Size:       size,
		PauseColor: pauseColor,
		PlayColor:  playColor,
	}
}

func (b *PauseButton) Draw(dst *ebiten.Image) {
	rectSize := b.Size * pulse(b.LastClickTime)

	if b.IsPaused {
		tri := triangle(
			b.X-rectSize, b.Y-rectSize*1.2,
			b.X+rectSize, b.Y,
			b.X-rectSize, b.Y+rectSize*1.2,
		)
		b.p.fill(dst, tri, b.PlayColor)
		b.p.stroke(dst, tri, config.UIBorderWidth, config.UIBorderColor)
		return
	}

	width := rectSize * 0.6
	height := rectSize * 2.0
	spacing := rectSize * 0.4
	for _, x := range []float32{b.X - width - spacing/2, b.X + spacing/2} {
		bar := rect(x, b.Y-height/2, width, height)
		b.p.fill(dst, bar, b.PauseColor)
		b.p.stroke(dst, bar, config.UIBorderWidth, config.UIBorderColor)
	}
}

func (b *PauseButton) Contains(x, y int) bool {
	return insideCircle(x, y, b.X, b.Y, b.Size*1.2)
}

// SetPaused mirrors the scheduler state and pulses on change.
func (b *PauseButton) SetPaused(paused bool) {
	if paused != b.IsPaused {
		b.LastClickTime = time.Now()
	}
	b.IsPaused = paused
}
