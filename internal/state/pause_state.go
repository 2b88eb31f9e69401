// internal/state/pause_state.go
package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"radar-ppi/internal/config"
)

// Убеждаемся, что PauseState соответствует интерфейсу State
var _ State = (*PauseState)(nil)

// PauseState — время остановлено, но кадр продолжает собираться: смена
// усиления видна сразу.
type PauseState struct {
	sm       *StateMachine
	previous *RunState
}

func NewPauseState(sm *StateMachine, prev *RunState) *PauseState {
	return &PauseState{sm: sm, previous: prev}
}

func (s *PauseState) Enter() {}

func (s *PauseState) Update(float64) {
	s.previous.handleInput()
	if !s.previous.radar.Paused() {
		s.sm.SetState(s.previous)
		return
	}
	s.previous.radar.Tick()
}

func (s *PauseState) Draw(screen *ebiten.Image) {
	s.previous.Draw(screen)

	w, h := s.previous.ScreenSize()
	vector.DrawFilledRect(screen, 0, config.HUDHeight, float32(w), float32(h-config.HUDHeight), color.RGBA{0, 0, 0, 96}, false)
	text := "PAUSED"
	ebitenutil.DebugPrintAt(screen, text, (w-len(text)*config.TextCharWidth)/2, config.HUDHeight+(h-config.HUDHeight)/2-8)
}

func (s *PauseState) Exit() {}
