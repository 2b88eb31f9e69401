// pkg/render/camera.go
package render

// Camera is a fixed top-down orthographic view of a square map centred on the
// world origin. Screen up is +y (north), screen right is +x (east).
type Camera struct {
	MapSize       float64
	Width, Height int
}

// PixelToWorld maps the centre of pixel (px, py) to world (x, y).
func (c Camera) PixelToWorld(px, py int) (float64, float64) {
	half := c.MapSize / 2
	x := -half + (float64(px)+0.5)/float64(c.Width)*c.MapSize
	y := half - (float64(py)+0.5)/float64(c.Height)*c.MapSize
	return x, y
}

// WorldToPixel is the inverse of PixelToWorld in continuous pixel coordinates.
func (c Camera) WorldToPixel(x, y float64) (float64, float64) {
	half := c.MapSize / 2
	px := (x+half)/c.MapSize*float64(c.Width) - 0.5
	py := (half-y)/c.MapSize*float64(c.Height) - 0.5
	return px, py
}

// UnitsPerPixel is the horizontal world size of one pixel.
func (c Camera) UnitsPerPixel() float64 {
	return c.MapSize / float64(c.Width)
}
