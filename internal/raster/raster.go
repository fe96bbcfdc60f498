package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gridview/internal/config"
	"github.com/san-kum/gridview/internal/frames"
)

// Options size and colour one render surface.
type Options struct {
	UnitSize   int
	SideLength int
	Fill       color.RGBA
	Background color.RGBA
	// Shade blends each on cell between background and fill by its value
	// clamped to [0,1]. Without it every on cell gets the full fill.
	Shade bool
}

func DefaultOptions() Options {
	return FromConfig(config.DefaultConfig())
}

func FromConfig(cfg *config.Config) Options {
	return Options{
		UnitSize:   cfg.UnitSize,
		SideLength: cfg.SideLength,
		Fill:       cfg.FillColor(),
		Background: cfg.BackgroundColor(),
		Shade:      cfg.Shade,
	}
}

// PixelSize is the width and height of the surface.
func (o Options) PixelSize() int { return o.UnitSize * o.SideLength }

func (o Options) Bounds() image.Rectangle {
	return image.Rect(0, 0, o.PixelSize(), o.PixelSize())
}

// Blocks returns one unit square per on cell, in row-major order. The
// squares are not clipped to any surface.
func Blocks(f frames.Frame, unit int) []image.Rectangle {
	var out []image.Rectangle
	for y, row := range f {
		for x, v := range row {
			if frames.On(v) {
				out = append(out, image.Rect(x*unit, y*unit, (x+1)*unit, (y+1)*unit))
			}
		}
	}
	return out
}

// Intensity maps a cell value to [0,1].
func Intensity(v float64) float64 {
	return math.Min(1, math.Abs(v))
}

// CellColor is the colour of an on cell with value v.
func (o Options) CellColor(v float64) color.RGBA {
	if !o.Shade {
		return o.Fill
	}
	return Blend(o.Background, o.Fill, Intensity(v))
}

// Blend interpolates from a to b in RGB space.
func Blend(a, b color.RGBA, t float64) color.RGBA {
	return toRGBA(fromRGBA(a).BlendRgb(fromRGBA(b), t))
}

// fromRGBA drops alpha; every surface colour is opaque.
func fromRGBA(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Image clears a surface and paints every on cell of f. Cells past the
// surface edge are clipped.
func Image(f frames.Frame, o Options) *image.RGBA {
	img := image.NewRGBA(o.Bounds())
	Paint(img, image.Point{}, f, o)
	return img
}

// Paint clears the surface at origin and paints f onto it.
func Paint(dst draw.Image, origin image.Point, f frames.Frame, o Options) {
	surface := o.Bounds().Add(origin)
	draw.Draw(dst, surface, &image.Uniform{C: o.Background}, image.Point{}, draw.Src)
	for y, row := range f {
		for x, v := range row {
			if !frames.On(v) {
				continue
			}
			r := image.Rect(x*o.UnitSize, y*o.UnitSize, (x+1)*o.UnitSize, (y+1)*o.UnitSize).Add(origin).Intersect(surface)
			if r.Empty() {
				continue
			}
			draw.Draw(dst, r, &image.Uniform{C: o.CellColor(v)}, image.Point{}, draw.Src)
		}
	}
}

func PNG(w io.Writer, f frames.Frame, o Options) error {
	return png.Encode(w, Image(f, o))
}
