// internal/system/sweep.go
package system

import (
	"radar-ppi/internal/component"
	"radar-ppi/internal/event"
	"radar-ppi/pkg/utils"
	"radar-ppi/pkg/visibility"
)

// SweepSystem вращает антенну. The sensor angle (pass 1) and the indicator
// rotation (pass 2) advance in lock-step and wrap at 360.
type SweepSystem struct {
	sweep      *component.Sweep
	sensor     *visibility.SensorState
	dispatcher *event.Dispatcher
}

func NewSweepSystem(sweep *component.Sweep, sensor *visibility.SensorState, dispatcher *event.Dispatcher) *SweepSystem {
	return &SweepSystem{sweep: sweep, sensor: sensor, dispatcher: dispatcher}
}

// Update advances by RateDegPerSec*deltaTime when a rate is set, otherwise by
// StepDeg per tick. Ticks with zero elapsed time (pause) do not move the sweep.
func (s *SweepSystem) Update(deltaTime float64) {
	if !(deltaTime > 0) {
		return
	}
	deg := s.sweep.StepDeg
	if s.sweep.RateDegPerSec > 0 {
		deg = s.sweep.RateDegPerSec * deltaTime
	}
	if deg == 0 {
		return
	}

	wrapped := s.sensor.Advance(deg)
	s.sweep.Rotation += deg
	if s.sweep.Rotation >= 360 || s.sweep.Rotation < 0 {
		s.sweep.Rotation = utils.NormalizeDegrees(s.sweep.Rotation)
	}
	if wrapped {
		s.sweep.Revolutions++
		s.dispatcher.Dispatch(event.Event{Type: event.SweepRevolution, Data: s.sweep.Revolutions})
	}
}
