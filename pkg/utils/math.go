// pkg/utils/math.go
package utils

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp ограничивает x диапазоном [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 clamps x into [0, 1]. NaN collapses to 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return Clamp(x, 0, 1)
}

// NormalizeDegrees brings an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod(-1e-18, 360) + 360 rounds up to exactly 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
