package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func newScheduler(t *testing.T) (*FrameScheduler, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	s := New(Options{Clock: clock, TickRate: 75, MaxDelta: 0.1})
	require.False(t, s.Tick(), "first tick only starts the clock")
	return s, clock
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	assert.Equal(t, epoch, c.Now())
	c.Advance(90 * time.Minute)
	assert.Equal(t, epoch.Add(90*time.Minute), c.Now())
	c.Set(epoch)
	assert.Equal(t, epoch, c.Now())
}

func TestRegisterValidation(t *testing.T) {
	s := New(Options{})
	assert.ErrorIs(t, s.RegisterContinuous("", func(float64) {}), ErrInvalidTask)
	assert.ErrorIs(t, s.RegisterContinuous("x", nil), ErrInvalidTask)
	assert.ErrorIs(t, s.RegisterFixed("x", 0, func() {}), ErrInvalidInterval)
	assert.ErrorIs(t, s.RegisterFixed("x", -1, func() {}), ErrInvalidInterval)
	assert.ErrorIs(t, s.RegisterFixed("x", 1, nil), ErrInvalidTask)
}

func TestFixedTaskIsLossless(t *testing.T) {
	tests := []struct {
		name   string
		splits []float64
		want   int
	}{
		{"one interval per tick", []float64{0.5, 0.5, 0.5}, 3},
		{"small even steps", repeat(0.05, 60), 6},
		{"uneven steps", []float64{0.2, 0.7, 0.1, 0.45, 0.05, 0.5, 0.3, 0.2}, 5},
		{"thirds", repeat(1.0/3, 9), 6},
		{"big tick fires several times", []float64{1.5}, 3},
		{"just short", []float64{0.3, 0.19}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{})
			fired := 0
			require.NoError(t, s.RegisterFixed("step", 0.5, func() { fired++ }))
			for _, dt := range tt.splits {
				s.Advance(dt)
			}
			assert.Equal(t, tt.want, fired)
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestTickThrottlesAndClamps(t *testing.T) {
	s, clock := newScheduler(t)
	var got []float64
	require.NoError(t, s.RegisterContinuous("move", func(dt float64) { got = append(got, dt) }))

	// below 1/75 s: rejected, clock keeps counting from the last accepted tick
	clock.Advance(5 * time.Millisecond)
	assert.False(t, s.Tick())
	clock.Advance(10 * time.Millisecond)
	assert.True(t, s.Tick())

	// stall: clamped to max delta
	clock.Advance(3 * time.Second)
	assert.True(t, s.Tick())

	require.Len(t, got, 2)
	assert.InDelta(t, 0.015, got[0], 1e-9)
	assert.InDelta(t, 0.1, got[1], 1e-9)
	assert.Equal(t, uint64(2), s.Ticks())
}

func TestTimeScaleMultipliesDelta(t *testing.T) {
	s, clock := newScheduler(t)
	var got float64
	require.NoError(t, s.RegisterContinuous("move", func(dt float64) { got = dt }))

	s.SetTimeScale(2)
	clock.Advance(seconds(0.02))
	require.True(t, s.Tick())
	assert.InDelta(t, 0.04, got, 1e-9)

	// scaled delta is clamped as well
	s.SetTimeScale(4)
	clock.Advance(seconds(0.05))
	require.True(t, s.Tick())
	assert.InDelta(t, 0.1, got, 1e-9)

	// scaling down can drop the delta below the threshold
	s.SetTimeScale(0.5)
	clock.Advance(seconds(0.02))
	assert.False(t, s.Tick())
}

func TestPauseFreezesAndResumesWithoutDoubleCounting(t *testing.T) {
	s, clock := newScheduler(t)
	fired := 0
	var continuous []float64
	require.NoError(t, s.RegisterFixed("step", 1, func() { fired++ }))
	require.NoError(t, s.RegisterContinuous("move", func(dt float64) { continuous = append(continuous, dt) }))

	for i := 0; i < 5; i++ {
		clock.Advance(seconds(0.1))
		require.True(t, s.Tick())
	}
	assert.Equal(t, 0, fired)

	s.SetTimeScale(0)
	assert.True(t, s.Paused())
	for i := 0; i < 100; i++ {
		clock.Advance(seconds(0.1))
		require.True(t, s.Tick(), "paused ticks are still processed")
	}
	assert.Equal(t, 0, fired)
	for _, dt := range continuous[5:] {
		assert.Zero(t, dt)
	}

	s.SetTimeScale(1)
	for i := 0; i < 4; i++ {
		clock.Advance(seconds(0.1))
		require.True(t, s.Tick())
	}
	assert.Equal(t, 0, fired, "10 s spent paused must not count")
	clock.Advance(seconds(0.1))
	require.True(t, s.Tick())
	assert.Equal(t, 1, fired)
	assert.InDelta(t, 1.0, s.Elapsed(), 1e-9)
}

func TestNegativeScalePauses(t *testing.T) {
	s := New(Options{})
	got := -1.0
	require.NoError(t, s.RegisterContinuous("move", func(dt float64) { got = dt }))
	s.SetTimeScale(-2)
	s.Advance(0.5)
	assert.True(t, s.Paused())
	assert.Zero(t, got)
}

func TestInsertionOrderAndUnregister(t *testing.T) {
	s := New(Options{})
	var order []string
	for _, name := range []string{"c", "a", "b"} {
		name := name
		require.NoError(t, s.RegisterContinuous(name, func(float64) { order = append(order, name) }))
	}
	assert.Equal(t, []string{"c", "a", "b"}, s.Tasks())

	s.Advance(0.02)
	assert.Equal(t, []string{"c", "a", "b"}, order)

	assert.True(t, s.Unregister("a"))
	assert.False(t, s.Unregister("a"))
	order = nil
	s.Advance(0.02)
	assert.Equal(t, []string{"c", "b"}, order)
}

func TestUnregisterDuringTick(t *testing.T) {
	s := New(Options{})
	fired := 0
	require.NoError(t, s.RegisterContinuous("killer", func(float64) { s.Unregister("victim") }))
	require.NoError(t, s.RegisterFixed("victim", 0.1, func() { fired++ }))

	s.Advance(1)
	assert.Zero(t, fired)
	assert.Equal(t, []string{"killer"}, s.Tasks())
}

func TestFixedTaskRemovingItselfStops(t *testing.T) {
	s := New(Options{})
	fired := 0
	require.NoError(t, s.RegisterFixed("once", 0.1, func() {
		fired++
		s.Unregister("once")
	}))
	s.Advance(1)
	assert.Equal(t, 1, fired)
}

func TestReRegisterReplacesInPlace(t *testing.T) {
	s := New(Options{})
	var got []string
	require.NoError(t, s.RegisterContinuous("a", func(float64) { got = append(got, "a1") }))
	require.NoError(t, s.RegisterContinuous("b", func(float64) { got = append(got, "b") }))
	require.NoError(t, s.RegisterContinuous("a", func(float64) { got = append(got, "a2") }))

	s.Advance(0.02)
	assert.Equal(t, []string{"a2", "b"}, got)
}
