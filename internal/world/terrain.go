// internal/world/terrain.go
package world

import (
	"errors"
	"fmt"
	"math"

	"radar-ppi/pkg/heightmap"
	"radar-ppi/pkg/utils"
)

var ErrInvalidTerrain = errors.New("invalid terrain")

// Terrain is the height-sampled surface spanning a square of side mapSize
// centred on the world origin. Row 0 is the north edge, column 0 the west edge.
// Normals are derived once at construction.
type Terrain struct {
	field   *heightmap.Field
	mapSize float64
	dx, dy  float64
	normals []utils.Vec3
}

func NewTerrain(field *heightmap.Field, mapSize float64) (*Terrain, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: no elevation field", ErrInvalidTerrain)
	}
	if field.Width < 2 || field.Height < 2 || len(field.Elevations) != field.Width*field.Height {
		return nil, fmt.Errorf("%w: %dx%d grid with %d samples", ErrInvalidTerrain, field.Width, field.Height, len(field.Elevations))
	}
	if !(mapSize > 0) {
		return nil, fmt.Errorf("%w: map size %v", ErrInvalidTerrain, mapSize)
	}
	t := &Terrain{
		field:   field,
		mapSize: mapSize,
		dx:      mapSize / float64(field.Width-1),
		dy:      mapSize / float64(field.Height-1),
	}
	t.computeNormals()
	return t, nil
}

func (t *Terrain) MapSize() float64 { return t.mapSize }
func (t *Terrain) Width() int { return t.field.Width }
func (t *Terrain) Height() int { return t.field.Height }

// Point returns the world position of grid sample (col, row).
func (t *Terrain) Point(col, row int) utils.Vec3 {
	half := t.mapSize / 2
	return utils.V3(-half+float64(col)*t.dx, half-float64(row)*t.dy, t.field.At(col, row))
}

func (t *Terrain) Normal(col, row int) utils.Vec3 {
	col = utils.Clamp(col, 0, t.field.Width-1)
	row = utils.Clamp(row, 0, t.field.Height-1)
	return t.normals[row*t.field.Width+col]
}

// computeNormals uses central differences (one-sided on the edges).
func (t *Terrain) computeNormals() {
	w, h := t.field.Width, t.field.Height
	t.normals = make([]utils.Vec3, w*h)
	for row := 0; row < h; row++ {
		r0, r1 := max(row-1, 0), min(row+1, h-1)
		for col := 0; col < w; col++ {
			c0, c1 := max(col-1, 0), min(col+1, w-1)
			dzdx := (t.field.At(c1, row) - t.field.At(c0, row)) / (float64(c1-c0) * t.dx)
			// rows run southward, so the northern neighbour is r0
			dzdy := (t.field.At(col, r0) - t.field.At(col, r1)) / (float64(r1-r0) * t.dy)
			n, ok := utils.V3(-dzdx, -dzdy, 1).Normalize()
			if !ok {
				n = utils.V3(0, 0, 1)
			}
			t.normals[row*w+col] = n
		}
	}
}

// SampleAt interpolates elevation and normal at world (x, y). ok is false outside
// the terrain extent.
func (t *Terrain) SampleAt(x, y float64) (float64, utils.Vec3, bool) {
	half := t.mapSize / 2
	u := (x + half) / t.dx
	v := (half - y) / t.dy
	maxU, maxV := float64(t.field.Width-1), float64(t.field.Height-1)
	if !(u >= 0 && u <= maxU && v >= 0 && v <= maxV) {
		return 0, utils.Vec3{}, false
	}

	c0, r0 := int(math.Floor(u)), int(math.Floor(v))
	c1, r1 := min(c0+1, t.field.Width-1), min(r0+1, t.field.Height-1)
	fu, fv := u-float64(c0), v-float64(r0)

	lerp := func(a, b, k float64) float64 { return a + (b-a)*k }
	z := lerp(
		lerp(t.field.At(c0, r0), t.field.At(c1, r0), fu),
		lerp(t.field.At(c0, r1), t.field.At(c1, r1), fu),
		fv)

	n00, n10 := t.Normal(c0, r0), t.Normal(c1, r0)
	n01, n11 := t.Normal(c0, r1), t.Normal(c1, r1)
	n := n00.Scale((1 - fu) * (1 - fv)).
		Add(n10.Scale(fu * (1 - fv))).
		Add(n01.Scale((1 - fu) * fv)).
		Add(n11.Scale(fu * fv))
	n, ok := n.Normalize()
	if !ok {
		n = utils.V3(0, 0, 1)
	}
	return z, n, true
}
