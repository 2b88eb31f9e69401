package ui

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestButtonHitTesting(t *testing.T) {
	speed := NewSpeedButton(100, 30, 18, []color.Color{color.White, color.Black})
	pause := NewPauseButton(150, 30, 18, color.White, color.Black)

	tests := []struct {
		name         string
		x, y         int
		speed, pause bool
	}{
		{"speed centre", 100, 30, true, false},
		{"speed rim", 126, 30, true, false},
		{"pause centre", 150, 30, false, true},
		{"between", 128, 60, false, false},
		{"far away", 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.speed, speed.Contains(tt.x, tt.y))
			assert.Equal(t, tt.pause, pause.Contains(tt.x, tt.y))
		})
	}
}

func TestStateChangesPulse(t *testing.T) {
	speed := NewSpeedButton(0, 0, 10, []color.Color{color.White, color.Black})
	speed.SetState(0)
	assert.True(t, speed.LastClickTime.IsZero(), "same state does not pulse")
	speed.SetState(1)
	assert.False(t, speed.LastClickTime.IsZero())

	pause := NewPauseButton(0, 0, 10, color.White, color.Black)
	pause.SetPaused(true)
	assert.True(t, pause.IsPaused)
	assert.Greater(t, pulse(pause.LastClickTime), float32(1.2))
	assert.InDelta(t, 1, pulse(time.Now().Add(-5*time.Second)), 1e-6)
}

func TestGainIndicatorClamps(t *testing.T) {
	g := NewGainIndicator(10, 10, 120, 10)
	g.SetGain(0.5)
	assert.Equal(t, float32(60), g.FillWidth())
	g.SetGain(3)
	assert.Equal(t, 1.0, g.Gain())
	g.SetGain(-1)
	assert.Zero(t, g.FillWidth())
}
