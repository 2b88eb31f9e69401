// internal/scheduler/scheduler.go
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/iancoleman/orderedmap"

	"radar-ppi/internal/log"
)

const (
	DefaultTickRate = 75.0
	DefaultMaxDelta = 0.1

	// допуск на накопленную ошибку суммирования float64
	fixedEpsilon = 1e-9
)

var (
	ErrInvalidTask     = errors.New("task needs a name and a callback")
	ErrInvalidInterval = errors.New("fixed task interval must be positive")
)

type task struct {
	name     string
	fixed    bool
	interval float64
	acc      float64
	update   func(elapsed float64)
	fire     func()
	removed  bool
}

// Options configures a FrameScheduler. Zero values fall back to defaults.
type Options struct {
	Clock    TimeProvider
	TickRate float64 // accepted ticks per second at most
	MaxDelta float64 // seconds; longer stalls are clamped
	Logger   *log.Logger
}

// FrameScheduler is the master clock. It is driven by an external per-frame
// callback (Tick) and throttles itself to the tick rate. Tasks run in
// registration order on the caller's goroutine.
type FrameScheduler struct {
	clock    TimeProvider
	lg       *log.Logger
	tasks    *orderedmap.OrderedMap
	minDelta float64
	maxDelta float64
	scale    float64

	last    time.Time
	started bool
	ticks   uint64
	elapsed float64
}

func New(opts Options) *FrameScheduler {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if !(opts.TickRate > 0) {
		opts.TickRate = DefaultTickRate
	}
	if !(opts.MaxDelta > 0) {
		opts.MaxDelta = DefaultMaxDelta
	}
	return &FrameScheduler{
		clock:    opts.Clock,
		lg:       opts.Logger,
		tasks:    orderedmap.New(),
		minDelta: 1 / opts.TickRate,
		maxDelta: opts.MaxDelta,
		scale:    1,
	}
}

// RegisterContinuous runs fn on every accepted tick with the scaled elapsed time.
// Registering an existing name replaces the task in place.
func (s *FrameScheduler) RegisterContinuous(name string, fn func(elapsed float64)) error {
	if name == "" || fn == nil {
		return ErrInvalidTask
	}
	s.put(&task{name: name, update: fn})
	return nil
}

// RegisterFixed runs fn once for every interval seconds of accumulated scaled
// time. The remainder is carried over, so splitting time across ticks never
// loses or adds firings.
func (s *FrameScheduler) RegisterFixed(name string, interval float64, fn func()) error {
	if name == "" || fn == nil {
		return ErrInvalidTask
	}
	if !(interval > 0) || math.IsInf(interval, 0) {
		return fmt.Errorf("%w: %q got %v", ErrInvalidInterval, name, interval)
	}
	s.put(&task{name: name, fixed: true, interval: interval, fire: fn})
	return nil
}

func (s *FrameScheduler) put(t *task) {
	if old, ok := s.tasks.Get(t.name); ok {
		old.(*task).removed = true
	}
	s.tasks.Set(t.name, t)
	s.lg.Debug("scheduler: task registered", "name", t.name, "fixed", t.fixed, "interval", t.interval)
}

// Unregister removes a task permanently. It reports whether the task existed.
func (s *FrameScheduler) Unregister(name string) bool {
	v, ok := s.tasks.Get(name)
	if !ok {
		return false
	}
	v.(*task).removed = true
	s.tasks.Delete(name)
	s.lg.Debug("scheduler: task removed", "name", name)
	return true
}

// Tasks returns task names in execution order.
func (s *FrameScheduler) Tasks() []string {
	return slices.Clone(s.tasks.Keys())
}

// SetTimeScale multiplies every delta by factor. factor <= 0 pauses: ticks are
// still accepted but deliver zero elapsed time.
func (s *FrameScheduler) SetTimeScale(factor float64) {
	if math.IsNaN(factor) {
		factor = 0
	}
	s.scale = factor
}

func (s *FrameScheduler) TimeScale() float64 { return s.scale }
func (s *FrameScheduler) Paused() bool { return s.scale <= 0 }
func (s *FrameScheduler) Ticks() uint64 { return s.ticks }

// Elapsed is the total scaled simulation time delivered so far.
func (s *FrameScheduler) Elapsed() float64 { return s.elapsed }

// Tick is the per-frame callback. It reports whether the tick was accepted.
// The first call only starts the clock.
func (s *FrameScheduler) Tick() bool {
	now := s.clock.Now()
	if !s.started {
		s.started = true
		s.last = now
		return false
	}

	wall := max(now.Sub(s.last).Seconds(), 0)
	var delta float64
	if s.Paused() {
		// пауза: тик принимается по реальному времени, но время не идёт
		if min(wall, s.maxDelta) < s.minDelta {
			return false
		}
	} else {
		delta = min(wall*s.scale, s.maxDelta)
		if delta < s.minDelta {
			return false
		}
	}

	s.last = now
	s.step(delta)
	return true
}

// Advance runs one tick of wall seconds scaled by the time scale, bypassing the
// clock, the clamp and the throttle.
func (s *FrameScheduler) Advance(wall float64) {
	if s.Paused() || !(wall > 0) {
		s.step(0)
		return
	}
	s.step(wall * s.scale)
}

func (s *FrameScheduler) step(delta float64) {
	s.ticks++
	s.elapsed += delta

	// задачи, добавленные во время тика, ждут следующего
	for _, name := range slices.Clone(s.tasks.Keys()) {
		v, ok := s.tasks.Get(name)
		if !ok {
			continue
		}
		t := v.(*task)
		if !t.fixed {
			t.update(delta)
			continue
		}
		t.acc += delta
		for !t.removed && t.acc >= t.interval-fixedEpsilon {
			t.acc = max(t.acc-t.interval, 0)
			t.fire()
		}
	}
}
