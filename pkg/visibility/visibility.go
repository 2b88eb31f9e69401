// pkg/visibility/visibility.go
package visibility

import (
	"image/color"
	"math"

	"radar-ppi/pkg/utils"
)

const alignEpsilonDeg = 1e-5

// Snapshot is an immutable copy of SensorState taken at the start of a frame.
type Snapshot struct {
	Origin        utils.Vec3
	SweepDeg      float64
	AntennaHeight float64
	Gain          float64
	MaxRange      float64

	sweepDir utils.Vec3
}

// Threshold is the illumination at or below which a return is suppressed.
func (s Snapshot) Threshold() float64 { return 1 - s.Gain }

// SweepDir is the unit vector of the current sweep bearing (x = sin, y = cos).
func (s Snapshot) SweepDir() utils.Vec3 { return s.sweepDir }

// Echo is the result of evaluating one world point against a snapshot.
type Echo struct {
	InRange      bool
	Range        float64
	SinceSweep   float64 // degrees the sweep has travelled past the point, [0, 360)
	Exposure     float64 // height coefficient before the angular term
	Illumination float64 // combined, clamped into [0, 1]
	Detected     bool    // Illumination > 1 - gain
}

// SinceSweep returns the angle in degrees from the sweep direction to the bearing
// of p, folded into [0, 360) by the sign of cross(sweepDir, pointDir).z.
// Increasing values lie behind the sweep. A point at the origin reports 0.
func (s Snapshot) SinceSweep(p utils.Vec3) float64 {
	pointDir, ok := p.Sub(s.Origin).XY().Normalize()
	if !ok {
		return 0
	}
	dot := utils.Clamp(s.sweepDir.Dot(pointDir), -1, 1)
	ang := utils.Degrees(math.Acos(dot))
	// acos is ill-conditioned near 1: rounding noise must not flip an aligned point to 360.
	if ang < alignEpsilonDeg {
		return 0
	}
	if s.sweepDir.Cross(pointDir).Z < 0 {
		ang = 360 - ang
	}
	return ang
}

// AngleCoef maps the angle behind the sweep to the afterglow weight 1 - angle/360.
func AngleCoef(sinceSweep float64) float64 {
	return 1 - sinceSweep/360
}

// TargetExposure is z / antennaHeight clamped into [0, 1].
func TargetExposure(z, antennaHeight float64) float64 {
	if !(antennaHeight > 0) {
		return 0
	}
	return utils.Clamp01(z / antennaHeight)
}

// TerrainExposure is the cosine of incidence -dot(normal, rayDir), where rayDir is the
// horizontal propagation direction from the sensor to the surface point. Slopes facing
// the sensor are positive, flat ground is zero, back slopes are negative.
func TerrainExposure(normal, rayDir utils.Vec3) float64 {
	return -normal.Dot(rayDir)
}

// Target evaluates a point-like target with an a priori weight in [0, 1].
func (s Snapshot) Target(p utils.Vec3, weight float64) Echo {
	e := s.gate(p)
	if !e.InRange {
		return e
	}
	e.Exposure = TargetExposure(p.Z, s.AntennaHeight)
	return s.combine(e, e.Exposure*AngleCoef(e.SinceSweep)*utils.Clamp01(weight))
}

// Terrain evaluates a surface sample with its unit normal.
func (s Snapshot) Terrain(p, normal utils.Vec3) Echo {
	e := s.gate(p)
	if !e.InRange {
		return e
	}
	rayDir, _ := p.Sub(s.Origin).XY().Normalize()
	e.Exposure = TerrainExposure(normal, rayDir)
	return s.combine(e, e.Exposure*AngleCoef(e.SinceSweep))
}

func (s Snapshot) gate(p utils.Vec3) Echo {
	r := p.Distance2D(s.Origin)
	if r > s.MaxRange || math.IsNaN(r) {
		return Echo{Range: r}
	}
	return Echo{InRange: true, Range: r, SinceSweep: s.SinceSweep(p)}
}

func (s Snapshot) combine(e Echo, raw float64) Echo {
	e.Illumination = utils.Clamp01(raw)
	e.Detected = e.Illumination > s.Threshold()
	return e
}

// Shade converts an echo into a display color. Out-of-range echoes are not drawn;
// suppressed echoes take the dark color; detected echoes scale the reveal color.
func (e Echo) Shade(reveal, dark color.RGBA) (color.RGBA, bool) {
	if !e.InRange {
		return color.RGBA{}, false
	}
	if !e.Detected {
		return dark, true
	}
	k := e.Illumination
	return color.RGBA{
		R: uint8(math.Round(float64(reveal.R) * k)),
		G: uint8(math.Round(float64(reveal.G) * k)),
		B: uint8(math.Round(float64(reveal.B) * k)),
		A: reveal.A,
	}, true
}
