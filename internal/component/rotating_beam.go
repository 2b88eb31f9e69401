// internal/component/rotating_beam.go
package component

// Sweep holds the rotation of the antenna. StepDeg advances the angle once per
// accepted tick; a positive RateDegPerSec switches to time-based rotation.
// Rotation is the independent indicator sweep-line angle fed to the composite pass.
type Sweep struct {
	StepDeg       float64
	RateDegPerSec float64
	Rotation      float64
	Revolutions   int
}
