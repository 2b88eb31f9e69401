// internal/utils/math.go
package utils

import "math"

// Lerp — линейная интерполяция для камеры и анимаций (float32, как в raylib)
func Lerp(from, to float32, t float32) float32 {
	return from + (to-from)*t
}

// LerpAngle интерполирует угол в радианах по кратчайшей дуге
func LerpAngle(from, to float32, t float32) float32 {
	diff := NormalizeAngle(to - from)
	return NormalizeAngle(from + diff*t)
}

// NormalizeAngle приводит угол в радианах к диапазону [-π, π]
func NormalizeAngle(angle float32) float32 {
	return float32(math.Remainder(float64(angle), 2*math.Pi))
}
