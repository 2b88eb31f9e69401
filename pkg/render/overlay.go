// pkg/render/overlay.go
package render

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// OverlayOptions — параметры шкалы индикатора
type OverlayOptions struct {
	Ticks  int     // bearing ticks around the ring
	Rings  int     // range rings
	Margin float64 // gap between the outer ring and the canvas edge

	RingWidth, TickWidth, RangeRingWidth float64
}

func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{Ticks: 36, Rings: 10, Margin: 18, RingWidth: 4, TickWidth: 0.6, RangeRingWidth: 0.6}
}

// Tick is one bearing mark, from the inner radius to the outer ring.
type Tick struct {
	Bearing        float64
	X0, Y0, X1, Y1 float64
	Label          string
	LabelX, LabelY float64 // label centre, just outside the ring
}

// Bezel is the geometry of the static indicator layer in canvas pixels.
type Bezel struct {
	Size           int
	CX, CY         float64
	OuterRadius    float64
	InnerRadius    float64
	Ticks          []Tick
	RingRadii      []float64
	CrosshairHalf  float64
	RingWidth      float64
	TickWidth      float64
	RangeRingWidth float64
}

// labelLift is how far outside the ring the label centre sits.
const labelLift = 8.5

// BezelGeometry computes the overlay for a square canvas of size pixels. Bearing 0
// is up and bearings grow clockwise. The result depends only on its arguments.
func BezelGeometry(size int, opts OverlayOptions) Bezel {
	s := float64(size)
	b := Bezel{
		Size:           size,
		CX:             s / 2,
		CY:             s / 2,
		OuterRadius:    s/2 - opts.Margin,
		InnerRadius:    s / 20,
		CrosshairHalf:  s / 80,
		RingWidth:      opts.RingWidth,
		TickWidth:      opts.TickWidth,
		RangeRingWidth: opts.RangeRingWidth,
	}
	if opts.Ticks > 0 {
		step := 360 / float64(opts.Ticks)
		b.Ticks = make([]Tick, 0, opts.Ticks)
		for i := 0; i < opts.Ticks; i++ {
			deg := float64(i) * step
			sin, cos := math.Sincos(deg * math.Pi / 180)
			lr := b.OuterRadius + labelLift
			b.Ticks = append(b.Ticks, Tick{
				Bearing: deg,
				X0:      b.CX + b.InnerRadius*sin,
				Y0:      b.CY - b.InnerRadius*cos,
				X1:      b.CX + b.OuterRadius*sin,
				Y1:      b.CY - b.OuterRadius*cos,
				Label:   strconv.FormatFloat(deg, 'f', -1, 64),
				LabelX:  b.CX + lr*sin,
				LabelY:  b.CY - lr*cos,
			})
		}
	}
	for k := 1; k <= opts.Rings; k++ {
		b.RingRadii = append(b.RingRadii, float64(k)*b.OuterRadius/float64(opts.Rings))
	}
	return b
}

// DrawBezel rasterizes the overlay onto dst, anti-aliased.
func DrawBezel(dst draw.Image, b Bezel, col color.RGBA) {
	bounds := dst.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	src := image.NewUniform(col)
	faint := image.NewUniform(DarkenColor(col))

	fill := func(shape func(z *vector.Rasterizer), src image.Image) {
		z.Reset(bounds.Dx(), bounds.Dy())
		z.DrawOp = draw.Over
		shape(z)
		z.Draw(dst, bounds, src, image.Point{})
	}

	fill(func(z *vector.Rasterizer) { annulus(z, b.CX, b.CY, b.OuterRadius, b.RingWidth) }, src)
	for _, r := range b.RingRadii {
		fill(func(z *vector.Rasterizer) { annulus(z, b.CX, b.CY, r, b.RangeRingWidth) }, faint)
	}
	for _, t := range b.Ticks {
		fill(func(z *vector.Rasterizer) { segment(z, t.X0, t.Y0, t.X1, t.Y1, b.TickWidth) }, faint)
	}
	fill(func(z *vector.Rasterizer) {
		segment(z, b.CX-b.CrosshairHalf, b.CY, b.CX+b.CrosshairHalf, b.CY, 1)
		segment(z, b.CX, b.CY-b.CrosshairHalf, b.CX, b.CY+b.CrosshairHalf, 1)
	}, src)

	for _, t := range b.Ticks {
		drawLabel(dst, t.Label, t.LabelX, t.LabelY, t.Bearing, col)
	}
}

// NewBezelImage draws the overlay on a transparent canvas.
func NewBezelImage(b Bezel, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Size, b.Size))
	DrawBezel(img, b, col)
	return img
}

// annulus adds a ring of the given stroke width. The inner contour winds the other
// way so the rasterizer leaves the middle empty.
func annulus(z *vector.Rasterizer, cx, cy, r, width float64) {
	ro, ri := r+width/2, max(r-width/2, 0)
	n := max(64, int(ro))
	circle(z, cx, cy, ro, n, 1)
	if ri > 0 {
		circle(z, cx, cy, ri, n, -1)
	}
}

func circle(z *vector.Rasterizer, cx, cy, r float64, n int, dir float64) {
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < n; i++ {
		a := dir * 2 * math.Pi * float64(i) / float64(n)
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
}

// segment adds a straight stroke as a quad.
func segment(z *vector.Rasterizer, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}

// drawLabel renders text centred on (cx, cy) and turned by bearing degrees so
// that it reads outward from the centre.
func drawLabel(dst draw.Image, text string, cx, cy, bearing float64, col color.RGBA) {
	face := basicfont.Face7x13
	d := font.Drawer{Face: face}
	w := d.MeasureString(text).Ceil()
	h := face.Height
	label := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = label
	d.Src = image.NewUniform(col)
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(text)

	sin, cos := math.Sincos(bearing * math.Pi / 180)
	hw, hh := float64(w)/2, float64(h)/2
	// y вниз: матрица [c -s; s c] поворачивает по часовой
	s2d := f64.Aff3{
		cos, -sin, cx - cos*hw + sin*hh,
		sin, cos, cy - sin*hw - cos*hh,
	}
	draw.BiLinear.Transform(dst, s2d, label, label.Bounds(), draw.Over, nil)
}
