package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radar-ppi/pkg/heightmap"
	"radar-ppi/pkg/utils"
	"radar-ppi/pkg/visibility"
)

func grid(w, h int, z func(col, row int) float64) *heightmap.Field {
	f := heightmap.Flat(w, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			f.Elevations[row*w+col] = z(col, row)
		}
	}
	return f
}

func TestNewTerrainValidates(t *testing.T) {
	_, err := NewTerrain(nil, 100)
	assert.ErrorIs(t, err, ErrInvalidTerrain)

	_, err = NewTerrain(&heightmap.Field{Width: 1, Height: 1, Elevations: []float64{0}}, 100)
	assert.ErrorIs(t, err, ErrInvalidTerrain)

	_, err = NewTerrain(heightmap.Flat(4, 4), 0)
	assert.ErrorIs(t, err, ErrInvalidTerrain)
}

func TestFlatTerrainNormalsPointUp(t *testing.T) {
	tr, err := NewTerrain(heightmap.Flat(5, 5), 100)
	require.NoError(t, err)

	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			assert.Equal(t, utils.V3(0, 0, 1), tr.Normal(col, row))
		}
	}
}

func TestSlopeNormalsLeanDownhill(t *testing.T) {
	s := 1 / math.Sqrt2

	// rises eastward: normal leans west
	east, err := NewTerrain(grid(3, 3, func(col, _ int) float64 { return float64(col) * 10 }), 20)
	require.NoError(t, err)
	n := east.Normal(1, 1)
	assert.InDelta(t, -s, n.X, 1e-9)
	assert.InDelta(t, 0, n.Y, 1e-9)
	assert.InDelta(t, s, n.Z, 1e-9)

	// rises northward (row 0 is north): normal leans south
	north, err := NewTerrain(grid(3, 3, func(_, row int) float64 { return float64(2-row) * 10 }), 20)
	require.NoError(t, err)
	n = north.Normal(1, 1)
	assert.InDelta(t, 0, n.X, 1e-9)
	assert.InDelta(t, -s, n.Y, 1e-9)
	assert.InDelta(t, s, n.Z, 1e-9)
}

func TestTerrainPointOrientation(t *testing.T) {
	tr, err := NewTerrain(heightmap.Flat(3, 3), 100)
	require.NoError(t, err)

	assert.Equal(t, utils.V3(-50, 50, 0), tr.Point(0, 0))
	assert.Equal(t, utils.V3(0, 0, 0), tr.Point(1, 1))
	assert.Equal(t, utils.V3(50, -50, 0), tr.Point(2, 2))
}

func TestSampleAt(t *testing.T) {
	tr, err := NewTerrain(grid(3, 3, func(col, _ int) float64 { return float64(col) * 10 }), 20)
	require.NoError(t, err)

	tests := []struct {
		name   string
		x, y   float64
		wantZ  float64
		wantOK bool
	}{
		{"west edge", -10, 0, 0, true},
		{"centre", 0, 0, 10, true},
		{"between samples", 5, 3, 15, true},
		{"east corner", 10, -10, 20, true},
		{"outside east", 10.5, 0, 0, false},
		{"outside north", 0, 11, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, n, ok := tr.SampleAt(tt.x, tt.y)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wantZ, z, 1e-9)
			assert.InDelta(t, 1, n.Length(), 1e-9)
		})
	}
}

func newWorld(t *testing.T) *World {
	t.Helper()
	sensor, err := visibility.NewSensorState(utils.Vec3{}, 35, 0.9, 500)
	require.NoError(t, err)
	tr, err := NewTerrain(heightmap.Flat(8, 8), 1000)
	require.NoError(t, err)
	return New(tr, sensor, 0)
}

func TestAddTarget(t *testing.T) {
	w := newWorld(t)
	assert.Equal(t, 1000.0, w.MapSize())
	require.NotNil(t, w.Sweep())

	id, err := w.AddTarget(TargetSpec{
		Name:         "Target01",
		Position:     utils.V3(100, 100, 100),
		Step:         utils.V3(3, 3, 0),
		StepInterval: 7,
		Weight:       1.4,
	})
	require.NoError(t, err)

	tg := w.ECS.Targets[id]
	assert.Equal(t, 1.0, tg.VisibilityWeight)
	assert.Equal(t, DefaultBlipRadius, tg.Radius)
	assert.Contains(t, w.ECS.Steps, id)
	assert.NotContains(t, w.ECS.Velocity, id)

	pos, err := w.Position(id)
	require.NoError(t, err)
	assert.Equal(t, utils.V3(100, 100, 100), pos)

	_, err = w.AddTarget(TargetSpec{Name: "bad", Position: utils.V3(math.NaN(), 0, 0)})
	assert.Error(t, err)
	_, err = w.AddTarget(TargetSpec{Name: "bad", StepInterval: -1})
	assert.Error(t, err)
}

func TestEchoAndBlips(t *testing.T) {
	w := newWorld(t)
	a, err := w.AddTarget(TargetSpec{Name: "a", Position: utils.V3(100, 100, 100), Weight: 0.8})
	require.NoError(t, err)
	_, err = w.AddTarget(TargetSpec{Name: "b", Position: utils.V3(-50, 20, 10), Weight: 0.5, Radius: 6})
	require.NoError(t, err)

	w.Sensor.SetSweepAngle(45)
	echo, err := w.Echo(a, w.Sensor.Snapshot())
	require.NoError(t, err)
	assert.True(t, echo.InRange)
	assert.InDelta(t, 0.8, echo.Illumination, 1e-6)

	_, err = w.Echo(w.SweepID, w.Sensor.Snapshot())
	assert.ErrorIs(t, err, ErrUnknownEntity)

	blips := w.Blips()
	require.Len(t, blips, 2)
	assert.Equal(t, utils.V3(100, 100, 100), blips[0].Position)
	assert.Equal(t, 6.0, blips[1].Radius)
	assert.NotNil(t, w.Surface())
}

func TestTargetsOnlyWorld(t *testing.T) {
	sensor, err := visibility.NewSensorState(utils.Vec3{}, 35, 0.9, 500)
	require.NoError(t, err)
	w := New(nil, sensor, 400)

	assert.Equal(t, 400.0, w.MapSize())
	assert.Nil(t, w.Surface())
}
