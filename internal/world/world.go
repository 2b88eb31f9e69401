// internal/world/world.go
package world

import (
	"errors"
	"fmt"
	"math"

	"radar-ppi/internal/component"
	"radar-ppi/internal/entity"
	"radar-ppi/internal/types"
	"radar-ppi/pkg/render"
	"radar-ppi/pkg/utils"
	"radar-ppi/pkg/visibility"
)

var ErrUnknownEntity = errors.New("unknown entity")

// DefaultBlipRadius matches the size of the target spheres in the capture view.
const DefaultBlipRadius = 3.0

// TargetSpec describes a target at scene setup.
type TargetSpec struct {
	Name     string
	Position utils.Vec3
	Velocity utils.Vec3 // units per second
	// Step is applied every StepInterval seconds when StepInterval > 0.
	Step         utils.Vec3
	StepInterval float64
	Weight       float64
	Radius       float64
}

// World holds terrain, targets and the sensor in one coordinate space.
type World struct {
	ECS     *entity.ECS
	Terrain *Terrain
	Sensor  *visibility.SensorState
	SweepID types.EntityID

	mapSize float64
}

// New creates a world. terrain may be nil for a targets-only scene, in which case
// mapSize is used for the capture extent.
func New(terrain *Terrain, sensor *visibility.SensorState, mapSize float64) *World {
	if terrain != nil {
		mapSize = terrain.MapSize()
	}
	w := &World{
		ECS:     entity.NewECS(),
		Terrain: terrain,
		Sensor:  sensor,
		mapSize: mapSize,
	}
	w.SweepID = w.ECS.NewEntity()
	w.ECS.Sweeps[w.SweepID] = &component.Sweep{StepDeg: 1}
	return w
}

func (w *World) MapSize() float64 { return w.mapSize }

// Sweep returns the antenna rotation component.
func (w *World) Sweep() *component.Sweep {
	return w.ECS.Sweeps[w.SweepID]
}

// AddTarget registers a target entity. The visibility weight is clamped into [0, 1].
func (w *World) AddTarget(spec TargetSpec) (types.EntityID, error) {
	p := spec.Position
	if math.IsNaN(p.X+p.Y+p.Z) || math.IsInf(p.X+p.Y+p.Z, 0) {
		return 0, fmt.Errorf("target %q: non-finite position", spec.Name)
	}
	if spec.StepInterval < 0 {
		return 0, fmt.Errorf("target %q: negative step interval %v", spec.Name, spec.StepInterval)
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = DefaultBlipRadius
	}

	id := w.ECS.NewEntity()
	w.ECS.Positions[id] = &component.Position{Vec3: p}
	w.ECS.Targets[id] = &component.Target{
		Name:             spec.Name,
		VisibilityWeight: utils.Clamp01(spec.Weight),
		Radius:           radius,
	}
	if spec.Velocity != (utils.Vec3{}) {
		w.ECS.Velocity[id] = &component.Velocity{Vec3: spec.Velocity}
	}
	if spec.StepInterval > 0 {
		w.ECS.Steps[id] = &component.PeriodicStep{Delta: spec.Step, Interval: spec.StepInterval}
	}
	return id, nil
}

// Position returns the current position of an entity.
func (w *World) Position(id types.EntityID) (utils.Vec3, error) {
	pos, ok := w.ECS.Positions[id]
	if !ok {
		return utils.Vec3{}, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return pos.Vec3, nil
}

// Echo evaluates a target against a sensor snapshot.
func (w *World) Echo(id types.EntityID, snap visibility.Snapshot) (visibility.Echo, error) {
	pos, ok := w.ECS.Positions[id]
	t, isTarget := w.ECS.Targets[id]
	if !ok || !isTarget {
		return visibility.Echo{}, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return snap.Target(pos.Vec3, t.VisibilityWeight), nil
}

// Surface implements render.Scene.
func (w *World) Surface() render.Surface {
	if w.Terrain == nil {
		return nil
	}
	return w.Terrain
}

// Blips implements render.Scene.
func (w *World) Blips() []render.Blip {
	ids := w.ECS.TargetIDs()
	blips := make([]render.Blip, 0, len(ids))
	for _, id := range ids {
		t := w.ECS.Targets[id]
		pos, ok := w.ECS.Positions[id]
		if !ok {
			continue
		}
		blips = append(blips, render.Blip{Position: pos.Vec3, Weight: t.VisibilityWeight, Radius: t.Radius})
	}
	return blips
}
