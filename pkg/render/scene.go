// pkg/render/scene.go
package render

import "radar-ppi/pkg/utils"

// Surface is a height field that can be sampled at any world (x, y).
type Surface interface {
	SampleAt(x, y float64) (z float64, normal utils.Vec3, ok bool)
}

// Blip is a point-like target as seen by the capture pass.
type Blip struct {
	Position utils.Vec3
	Weight   float64
	Radius   float64 // world units
}

// Scene is everything pass 1 draws. Surface may be nil (targets only).
type Scene interface {
	MapSize() float64
	Surface() Surface
	Blips() []Blip
}
