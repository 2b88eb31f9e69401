// pkg/heightmap/heightmap.go
package heightmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage       = errors.New("heightmap image has no pixels")
	ErrInvalidMaxHeight = errors.New("heightmap max height must not be negative")
)

// Field is a regular elevation grid, row-major, row 0 at the north edge.
type Field struct {
	Width      int       `msgpack:"w"`
	Height     int       `msgpack:"h"`
	MaxHeight  float64   `msgpack:"max"`
	Elevations []float64 `msgpack:"e"`
}

// At returns the elevation at (col, row), clamping to the grid edges.
func (f *Field) At(col, row int) float64 {
	col = min(max(col, 0), f.Width-1)
	row = min(max(row, 0), f.Height-1)
	return f.Elevations[row*f.Width+col]
}

// Flat returns an all-zero grid. Used only when flat terrain is asked for explicitly.
func Flat(width, height int) *Field {
	width, height = max(width, 2), max(height, 2)
	return &Field{
		Width:      width,
		Height:     height,
		Elevations: make([]float64, width*height),
	}
}

// PixelElevation is avg(R,G,B)/255 * maxHeight on straight (non-premultiplied) 8-bit channels.
func PixelElevation(c color.Color, maxHeight float64) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	all := int(n.R) + int(n.G) + int(n.B)
	return float64(all) / (3 * 255) * maxHeight
}

// FromImage converts pixel intensity into elevation.
func FromImage(img image.Image, maxHeight float64) (*Field, error) {
	if maxHeight < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMaxHeight, maxHeight)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	f := &Field{
		Width:      b.Dx(),
		Height:     b.Dy(),
		MaxHeight:  maxHeight,
		Elevations: make([]float64, 0, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			f.Elevations = append(f.Elevations, PixelElevation(img.At(x, y), maxHeight))
		}
	}
	return f, nil
}

// Decode reads any registered image format (png, jpeg, gif, bmp, tiff, webp).
func Decode(r io.Reader, maxHeight float64) (*Field, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode heightmap image: %w", err)
	}
	f, err := FromImage(img, maxHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s heightmap: %w", format, err)
	}
	return f, nil
}

// Load decodes a heightmap image from a local path.
func Load(path string, maxHeight float64) (*Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open heightmap: %w", err)
	}
	defer file.Close()
	return Decode(file, maxHeight)
}
