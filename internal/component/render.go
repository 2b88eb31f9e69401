// internal/component/render.go
package component

// Target — отражающая цель
type Target struct {
	Name string
	// VisibilityWeight is the a priori reflectivity/size factor in [0, 1].
	VisibilityWeight float64
	// Radius of the blip on the capture pass, in world units.
	Radius float64
}
