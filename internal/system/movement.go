// internal/system/movement.go
package system

import (
	"radar-ppi/internal/entity"
	"radar-ppi/internal/types"
)

// MovementSystem двигает цели с постоянной скоростью
type MovementSystem struct {
	ecs *entity.ECS
}

func NewMovementSystem(ecs *entity.ECS) *MovementSystem {
	return &MovementSystem{ecs: ecs}
}

// Update advances every entity with a Velocity by vel*deltaTime. Positions are
// unbounded.
func (s *MovementSystem) Update(deltaTime float64) {
	if deltaTime == 0 {
		return
	}
	s.ecs.GameTime += deltaTime
	for id, vel := range s.ecs.Velocity {
		if pos, ok := s.ecs.Positions[id]; ok {
			pos.Vec3 = pos.Add(vel.Scale(deltaTime))
		}
	}
}

// StepSystem применяет периодический шаг. Timing belongs to the scheduler: the
// app registers one fixed task per stepping target that calls Step.
type StepSystem struct {
	ecs *entity.ECS
}

func NewStepSystem(ecs *entity.ECS) *StepSystem {
	return &StepSystem{ecs: ecs}
}

// Step moves the entity by its PeriodicStep delta. It reports false when the
// entity has no step rule or no position.
func (s *StepSystem) Step(id types.EntityID) bool {
	step, ok := s.ecs.Steps[id]
	if !ok {
		return false
	}
	pos, ok := s.ecs.Positions[id]
	if !ok {
		return false
	}
	pos.Vec3 = pos.Add(step.Delta)
	step.Count++
	return true
}
