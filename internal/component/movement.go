// internal/component/movement.go
package component

import "radar-ppi/pkg/utils"

// Position — компонент позиции в мировых координатах
type Position struct {
	utils.Vec3
}

// Velocity — постоянная скорость, единиц карты в секунду
type Velocity struct {
	utils.Vec3
}

// PeriodicStep moves an entity by a fixed offset every Interval seconds of
// simulation time. The scheduler owns the timing; Count records applied steps.
type PeriodicStep struct {
	Delta    utils.Vec3
	Interval float64
	Count    int
}
