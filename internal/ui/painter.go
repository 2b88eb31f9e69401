// internal/ui/painter.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// painter fills and strokes vector paths through a shared white texel.
// Buffers are reused between calls, so a painter belongs to one widget.
type painter struct {
	img *ebiten.Image
	vs  []ebiten.Vertex
	is  []uint16
}

func (p *painter) fill(dst *ebiten.Image, path *vector.Path, c color.Color) {
	p.vs, p.is = path.AppendVerticesAndIndicesForFilling(p.vs[:0], p.is[:0])
	p.draw(dst, c)
}

func (p *painter) stroke(dst *ebiten.Image, path *vector.Path, width float32, c color.Color) {
	p.vs, p.is = path.AppendVerticesAndIndicesForStroke(p.vs[:0], p.is[:0], &vector.StrokeOptions{
		Width:    width,
		LineJoin: vector.LineJoinRound,
	})
	p.draw(dst, c)
}

func (p *painter) draw(dst *ebiten.Image, c color.Color) {
	if p.img == nil {
		p.img = ebiten.NewImage(1, 1)
		p.img.Fill(color.White)
	}
	r, g, b, a := c.RGBA()
	for i := range p.vs {
		p.vs[i].SrcX, p.vs[i].SrcY = 0.5, 0.5
		p.vs[i].ColorR = float32(r) / 0xffff
		p.vs[i].ColorG = float32(g) / 0xffff
		p.vs[i].ColorB = float32(b) / 0xffff
		p.vs[i].ColorA = float32(a) / 0xffff
	}
	dst.DrawTriangles(p.vs, p.is, p.img, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// triangle builds a closed path through three points.
func triangle(x0, y0, x1, y1, x2, y2 float32) *vector.Path {
	var path vector.Path
	path.MoveTo(x0, y0)
	path.LineTo(x1, y1)
	path.LineTo(x2, y2)
	path.Close()
	return &path
}

func rect(x, y, w, h float32) *vector.Path {
	var path vector.Path
	path.MoveTo(x, y)
	path.LineTo(x+w, y)
	path.LineTo(x+w, y+h)
	path.LineTo(x, y+h)
	path.Close()
	return &path
}

// pulse is the click feedback: 1.3 right after a click, decaying to 1.
func pulse(since time.Time) float32 {
	elapsed := time.Since(since).Seconds()
	return float32(1.0 + 0.3*math.Exp(-elapsed*8))
}

func insideCircle(x, y int, cx, cy, r float32) bool {
	dx := float32(x) - cx
	dy := float32(y) - cy
	return dx*dx+dy*dy <= r*r
}
