// internal/display/display.go
package display

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"radar-ppi/internal/app"
	"radar-ppi/internal/config"
	"radar-ppi/pkg/render"
)

// Display uploads the radar's composited frames to the GPU and keeps the
// bezel as a static layer drawn over them.
type Display struct {
	radar  *app.Radar
	origin image.Point

	frameImg *ebiten.Image
	bezelImg *ebiten.Image
	uploaded uint64
}

// New places the indicator with its top-left corner (bezel included) at origin.
func New(r *app.Radar, origin image.Point) *Display {
	size := r.Settings.DisplaySize
	bezel := render.NewBezelImage(r.Bezel, config.BezelColor)
	return &Display{
		radar:    r,
		origin:   origin,
		frameImg: ebiten.NewImage(size, size),
		bezelImg: ebiten.NewImageFromImage(bezel),
	}
}

// Size is the side of the indicator including the bezel.
func (d *Display) Size() int { return d.radar.Bezel.Size }

// Origin is the top-left corner of the indicator on screen.
func (d *Display) Origin() image.Point { return d.origin }

func (d *Display) Draw(screen *ebiten.Image) {
	if n := d.radar.Frames(); n != d.uploaded {
		if img := d.radar.Frame().Image; img != nil {
			d.frameImg.WritePixels(img.Pix)
		}
		d.uploaded = n
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(d.origin.X+config.BezelPad), float64(d.origin.Y+config.BezelPad))
	screen.DrawImage(d.frameImg, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(d.origin.X), float64(d.origin.Y))
	screen.DrawImage(d.bezelImg, op)
}
