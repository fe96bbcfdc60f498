package raster

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/san-kum/gridview/internal/frames"
)

// SVG renders f as one rect per on cell.
func SVG(f frames.Frame, o Options) string {
	size := o.PixelSize()
	surface := o.Bounds()

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, size, size, size, size, hexColor(o.Background), hexColor(o.Fill)))

	for y, row := range f {
		for x, v := range row {
			if !frames.On(v) {
				continue
			}
			r := image.Rect(x*o.UnitSize, y*o.UnitSize, (x+1)*o.UnitSize, (y+1)*o.UnitSize).Intersect(surface)
			if r.Empty() {
				continue
			}
			if o.Shade {
				sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, r.Min.X, r.Min.Y, r.Dx(), r.Dy(), hexColor(o.CellColor(v))))
				continue
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d"/>
`, r.Min.X, r.Min.Y, r.Dx(), r.Dy()))
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

func hexColor(c color.RGBA) string {
	return fromRGBA(c).Hex()
}
