package raster

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"time"

	"github.com/san-kum/gridview/internal/frames"
)

const shadeLevels = 16

var separatorColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// Animation lays actual and predicted side by side, one GIF frame per
// playable index, separated by a one-unit gutter.
func Animation(pair *frames.Pair, o Options, delay time.Duration) *gif.GIF {
	size := o.PixelSize()
	gutter := o.UnitSize
	bounds := image.Rect(0, 0, size*2+gutter, size)
	palette := animationPalette(o)
	centis := max(1, int(delay.Milliseconds()/10))

	anim := &gif.GIF{LoopCount: 0}
	for i := 0; i < pair.Len(); i++ {
		actual, predicted := pair.Frames(i)
		img := image.NewPaletted(bounds, palette)
		fillRect(img, image.Rect(size, 0, size+gutter, size), uint8(len(palette)-1))
		paintPaletted(img, image.Point{}, actual, o)
		paintPaletted(img, image.Pt(size+gutter, 0), predicted, o)
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, centis)
	}
	return anim
}

func EncodeGIF(w io.Writer, pair *frames.Pair, o Options, delay time.Duration) error {
	return gif.EncodeAll(w, Animation(pair, o, delay))
}

// animationPalette holds shadeLevels steps from background to fill, then
// the gutter colour.
func animationPalette(o Options) color.Palette {
	p := make(color.Palette, 0, shadeLevels+1)
	for i := 0; i < shadeLevels; i++ {
		p = append(p, Blend(o.Background, o.Fill, float64(i)/float64(shadeLevels-1)))
	}
	return append(p, separatorColor)
}

func paletteIndex(v float64, o Options) uint8 {
	if !o.Shade {
		return shadeLevels - 1
	}
	return uint8(math.Round(Intensity(v) * (shadeLevels - 1)))
}

func paintPaletted(img *image.Paletted, origin image.Point, f frames.Frame, o Options) {
	surface := o.Bounds().Add(origin)
	fillRect(img, surface, 0)
	for y, row := range f {
		for x, v := range row {
			if !frames.On(v) {
				continue
			}
			r := image.Rect(x*o.UnitSize, y*o.UnitSize, (x+1)*o.UnitSize, (y+1)*o.UnitSize).Add(origin).Intersect(surface)
			fillRect(img, r, paletteIndex(v, o))
		}
	}
}

func fillRect(img *image.Paletted, r image.Rectangle, idx uint8) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetColorIndex(x, y, idx)
		}
	}
}
