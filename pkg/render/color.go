// pkg/render/color.go
package render

import "image/color"

// Palette holds the colors of the indicator. All values are premultiplied.
type Palette struct {
	Reveal     color.RGBA // detected return at full illumination
	Dark       color.RGBA // suppressed return inside range
	Background color.RGBA
	SweepLine  color.RGBA
	Bezel      color.RGBA
}

// DefaultPalette draws yellow returns on a black field.
var DefaultPalette = Palette{
	Reveal:     color.RGBA{R: 255, G: 255, B: 0, A: 255},
	Dark:       color.RGBA{A: 255},
	Background: color.RGBA{R: 8, G: 12, B: 8, A: 255},
	SweepLine:  color.RGBA{G: 140, A: 140},
	Bezel:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// over blends premultiplied src over dst.
func over(dst, src color.RGBA) color.RGBA {
	k := 255 - uint32(src.A)
	return color.RGBA{
		R: uint8(uint32(src.R) + uint32(dst.R)*k/255),
		G: uint8(uint32(src.G) + uint32(dst.G)*k/255),
		B: uint8(uint32(src.B) + uint32(dst.B)*k/255),
		A: uint8(uint32(src.A) + uint32(dst.A)*k/255),
	}
}
