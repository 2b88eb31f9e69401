// internal/utils/prng.go
package utils

import (
	"math"
	"math/rand"
	"time"
)

// PRNGService — это обертка над стандартным генератором случайных чисел Go,
// которая позволяет использовать предсказуемый (seeded) рандом для расстановки целей.
type PRNGService struct {
	rng  *rand.Rand
	seed int64
}

// NewPRNGService создает новый экземпляр сервиса с указанным сидом.
// Если сид равен 0, используется текущее время.
func NewPRNGService(seed int64) *PRNGService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	source := rand.NewSource(seed)
	return &PRNGService{
		rng:  rand.New(source),
		seed: seed,
	}
}

// Seed returns the effective seed, so a time-seeded run can be reproduced.
func (s *PRNGService) Seed() int64 { return s.seed }

// Range возвращает число в [lo, hi).
func (s *PRNGService) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// InDisc returns a point uniformly distributed over a disc of radius r centred
// on the origin (sqrt keeps the density even towards the rim).
func (s *PRNGService) InDisc(r float64) (x, y float64) {
	rho := r * math.Sqrt(s.rng.Float64())
	theta := 2 * math.Pi * s.rng.Float64()
	return rho * math.Sin(theta), rho * math.Cos(theta)
}
