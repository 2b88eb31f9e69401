// internal/state/state.go
package state

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"radar-ppi/internal/log"
)

// State — интерфейс для всех состояний окна индикатора
type State interface {
	Enter()
	Update(deltaTime float64)
	Draw(screen *ebiten.Image)
	Exit()
}

// StateMachine переключает состояния; одновременно активно не больше одного
type StateMachine struct {
	current State
	lg      *log.Logger
}

// NewStateMachine создаёт машину состояний без начального состояния
func NewStateMachine(lg *log.Logger) *StateMachine {
	return &StateMachine{lg: lg}
}

// SetState выходит из текущего состояния и входит в новое
func (sm *StateMachine) SetState(newState State) {
	if sm.current != nil {
		sm.current.Exit()
	}
	sm.lg.Debug("state changed", "from", name(sm.current), "to", name(newState))
	sm.current = newState
	if sm.current != nil {
		sm.current.Enter()
	}
}

func (sm *StateMachine) Update(deltaTime float64) {
	if sm.current != nil {
		sm.current.Update(deltaTime)
	}
}

func (sm *StateMachine) Draw(screen *ebiten.Image) {
	if sm.current != nil {
		sm.current.Draw(screen)
	}
}

func name(s State) string {
	if s == nil {
		return "none"
	}
	return fmt.Sprintf("%T", s)
}
