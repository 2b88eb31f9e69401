// internal/entity/ecs.go
package entity

import (
	"slices"

	"radar-ppi/internal/component"
	"radar-ppi/internal/types"
)

type ECS struct {
	GameTime  float64
	NextID    types.EntityID
	Positions map[types.EntityID]*component.Position
	Velocity  map[types.EntityID]*component.Velocity
	Steps     map[types.EntityID]*component.PeriodicStep
	Targets   map[types.EntityID]*component.Target
	Sweeps    map[types.EntityID]*component.Sweep
}

func NewECS() *ECS {
	return &ECS{
		NextID:    1,
		Positions: make(map[types.EntityID]*component.Position),
		Velocity:  make(map[types.EntityID]*component.Velocity),
		Steps:     make(map[types.EntityID]*component.PeriodicStep),
		Targets:   make(map[types.EntityID]*component.Target),
		Sweeps:    make(map[types.EntityID]*component.Sweep),
	}
}

func (ecs *ECS) NewEntity() types.EntityID {
	id := ecs.NextID
	ecs.NextID++
	return id
}

// TargetIDs returns target ids in creation order so passes are deterministic.
func (ecs *ECS) TargetIDs() []types.EntityID {
	ids := make([]types.EntityID, 0, len(ecs.Targets))
	for id := range ecs.Targets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
