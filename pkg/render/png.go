// pkg/render/png.go
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// ComposeIndicator stacks background, the masked frame (inset by pad pixels on
// each side) and the static bezel into one opaque image.
func ComposeIndicator(frame, bezel image.Image, pad int, bg color.RGBA) *image.RGBA {
	size := bezel.Bounds().Size()
	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	fr := frame.Bounds()
	draw.Draw(out, fr.Add(image.Pt(pad, pad)), frame, fr.Min, draw.Over)
	draw.Draw(out, out.Bounds(), bezel, bezel.Bounds().Min, draw.Over)
	return out
}

func WritePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// SavePNG writes img to path, replacing any existing file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	return f.Close()
}
