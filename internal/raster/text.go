package raster

import (
	"strings"

	"github.com/san-kum/gridview/internal/frames"
)

// Glyphs used by Text for one cell.
const (
	GlyphOn  = "██"
	GlyphOff = "· "
)

// CellFunc renders one cell of the surface; on is false for cells that are
// off or outside the frame.
type CellFunc func(v float64, on bool) string

// Text renders a side x side surface, one line per row. A nil frame renders
// an empty surface.
func Text(f frames.Frame, side int, cell CellFunc) []string {
	if cell == nil {
		cell = PlainCell
	}
	lines := make([]string, side)
	var b strings.Builder
	for y := 0; y < side; y++ {
		b.Reset()
		for x := 0; x < side; x++ {
			v := f.At(x, y)
			b.WriteString(cell(v, frames.On(v)))
		}
		lines[y] = b.String()
	}
	return lines
}

func PlainCell(_ float64, on bool) string {
	if on {
		return GlyphOn
	}
	return GlyphOff
}
