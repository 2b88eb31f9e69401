package visibility

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radar-ppi/pkg/utils"
)

func newSensor(t *testing.T, antennaHeight, gain, maxRange float64) *SensorState {
	t.Helper()
	s, err := NewSensorState(utils.Vec3{}, antennaHeight, gain, maxRange)
	require.NoError(t, err)
	return s
}

func TestNewSensorStateRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name                     string
		antennaHeight, gain, rng float64
		want                     error
	}{
		{"zero antenna", 0, 0.9, 500, ErrInvalidAntennaHeight},
		{"negative antenna", -3, 0.9, 500, ErrInvalidAntennaHeight},
		{"NaN antenna", math.NaN(), 0.9, 500, ErrInvalidAntennaHeight},
		{"gain above one", 35, 1.5, 500, ErrInvalidGain},
		{"negative gain", 35, -0.1, 500, ErrInvalidGain},
		{"negative range", 35, 0.9, -1, ErrInvalidRange},
		{"zero range", 35, 0.9, 0, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSensorState(utils.Vec3{}, tt.antennaHeight, tt.gain, tt.rng)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSensorStateNormalizesAndClamps(t *testing.T) {
	s := newSensor(t, 35, 0.9, 500)

	s.SetSweepAngle(-90)
	assert.Equal(t, 270.0, s.SweepAngle())

	wrapped := s.Advance(89)
	assert.False(t, wrapped)
	assert.Equal(t, 359.0, s.SweepAngle())
	wrapped = s.Advance(1)
	assert.True(t, wrapped)
	assert.Equal(t, 0.0, s.SweepAngle())

	s.SetGain(3)
	assert.Equal(t, 1.0, s.Gain())
	s.SetGain(-3)
	assert.Equal(t, 0.0, s.Gain())

	assert.ErrorIs(t, s.SetAntennaHeight(0), ErrInvalidAntennaHeight)
	assert.Equal(t, 35.0, s.AntennaHeight())
}

func TestSnapshotIsDetachedFromSensor(t *testing.T) {
	s := newSensor(t, 35, 0.9, 500)
	s.SetSweepAngle(10)
	snap := s.Snapshot()

	s.SetSweepAngle(200)
	s.SetGain(0.1)

	assert.Equal(t, 10.0, snap.SweepDeg)
	assert.Equal(t, 0.9, snap.Gain)
	assert.InDelta(t, math.Sin(utils.Radians(10)), snap.SweepDir().X, 1e-12)
}

func TestSinceSweepOrientation(t *testing.T) {
	s := newSensor(t, 35, 0.9, 500)
	snap := s.Snapshot() // sweep at bearing 0 (+y)

	tests := []struct {
		name  string
		p     utils.Vec3
		since float64
	}{
		{"aligned", utils.V3(0, 100, 0), 0},
		{"passed by 90", utils.V3(-100, 0, 0), 90},
		{"antiparallel", utils.V3(0, -100, 0), 180},
		{"ahead by 90", utils.V3(100, 0, 0), 270},
		{"origin", utils.V3(0, 0, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap.SinceSweep(tt.p)
			assert.InDelta(t, tt.since, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestIlluminationPeaksAtSweepAndDecaysLinearly(t *testing.T) {
	s := newSensor(t, 35, 0.9, 500)
	p := utils.V3(300, 300, 25) // bearing 45
	base := TargetExposure(p.Z, 35) * 0.8

	prev := math.Inf(1)
	for d := 0; d < 360; d++ {
		s.SetSweepAngle(45 + float64(d))
		e := s.Snapshot().Target(p, 0.8)
		require.True(t, e.InRange)
		assert.InDelta(t, float64(d), e.SinceSweep, 1e-5, "sweep passed by %d", d)
		assert.InDelta(t, base*(1-float64(d)/360), e.Illumination, 1e-7, "sweep passed by %d", d)
		assert.Less(t, e.Illumination, prev, "illumination must strictly decrease, d=%d", d)
		prev = e.Illumination
	}
}

func TestRangeGateDiscards(t *testing.T) {
	for _, gain := range []float64{0, 0.5, 1} {
		s := newSensor(t, 35, gain, 500)
		for _, sweep := range []float64{0, 90, 180, 270} {
			s.SetSweepAngle(sweep)
			snap := s.Snapshot()
			for _, e := range []Echo{
				snap.Target(utils.V3(600, 0, 100), 1),
				snap.Terrain(utils.V3(0, -500.5, 0), utils.V3(0, 1, 0)),
			} {
				assert.False(t, e.InRange)
				assert.False(t, e.Detected)
				_, draw := e.Shade(color.RGBA{255, 255, 0, 255}, color.RGBA{0, 0, 0, 255})
				assert.False(t, draw)
			}
		}
	}
}

func TestGainThresholdIsClosedOnDarkSide(t *testing.T) {
	reveal := color.RGBA{255, 255, 0, 255}
	dark := color.RGBA{0, 0, 0, 255}
	p := utils.V3(0, 100, 0.5) // aligned with sweep 0, exposure 0.5 at antenna 1

	s := newSensor(t, 1, 0.5, 500)
	e := s.Snapshot().Target(p, 1)
	require.Equal(t, 0.5, e.Illumination)
	assert.False(t, e.Detected)
	c, draw := e.Shade(reveal, dark)
	assert.True(t, draw)
	assert.Equal(t, dark, c)

	s.SetGain(0.5 + 1e-9)
	e = s.Snapshot().Target(p, 1)
	assert.True(t, e.Detected)
	c, _ = e.Shade(reveal, dark)
	assert.Equal(t, color.RGBA{128, 128, 0, 255}, c)

	// Full gain still suppresses zero illumination.
	s.SetGain(1)
	e = s.Snapshot().Target(utils.V3(0, 100, 0), 1)
	assert.False(t, e.Detected)
}

func TestTargetExposureClampsAboveMount(t *testing.T) {
	assert.Equal(t, 1.0, TargetExposure(100, 35))
	assert.Equal(t, 0.0, TargetExposure(-5, 35))
	assert.InDelta(t, 25.0/35.0, TargetExposure(25, 35), 1e-12)
	assert.Equal(t, 0.0, TargetExposure(10, 0))
}

func TestTerrainExposure(t *testing.T) {
	s := newSensor(t, 35, 1, 500)
	s.SetSweepAngle(90)
	snap := s.Snapshot()
	p := utils.V3(100, 0, 5)

	flat := snap.Terrain(p, utils.V3(0, 0, 1))
	assert.Equal(t, 0.0, flat.Exposure)
	assert.False(t, flat.Detected)

	facing, _ := utils.V3(-1, 0, 1).Normalize()
	e := snap.Terrain(p, facing)
	assert.InDelta(t, math.Sqrt2/2, e.Exposure, 1e-12)
	assert.InDelta(t, math.Sqrt2/2, e.Illumination, 1e-9)
	assert.True(t, e.Detected)

	back, _ := utils.V3(1, 0, 1).Normalize()
	e = snap.Terrain(p, back)
	assert.Less(t, e.Exposure, 0.0)
	assert.Equal(t, 0.0, e.Illumination)
	assert.False(t, e.Detected)

	// Sample under the sensor: no direction, no NaN.
	e = snap.Terrain(utils.V3(0, 0, 3), facing)
	assert.False(t, math.IsNaN(e.Illumination))
}

func TestEndToEndSweepOverTarget(t *testing.T) {
	s := newSensor(t, 35, 0.9, 500)
	target := utils.V3(300, 300, 25)

	best, bestAt := -1.0, -1.0
	detected := map[int]bool{}
	for tick := 0; tick < 360; tick++ {
		s.SetSweepAngle(float64(tick))
		e := s.Snapshot().Target(target, 0.8)
		if e.Illumination > best {
			best, bestAt = e.Illumination, s.SweepAngle()
		}
		detected[tick] = e.Detected
	}

	assert.Equal(t, 45.0, bestAt)
	assert.InDelta(t, 25.0/35.0*0.8, best, 1e-9)

	// 0.8*25/35*(1 - d/360) > 0.1  <=>  d < 297
	assert.True(t, detected[45])
	assert.True(t, detected[45+296])
	assert.False(t, detected[45+298])
	assert.False(t, detected[44], "just ahead of the sweep is the end of the tail")
	assert.False(t, detected[0])
}
