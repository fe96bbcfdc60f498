package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/gridview/internal/frames"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func diagonal() frames.Frame {
	return frames.Frame{{1, 0}, {0, 1}}
}

func smallOptions() Options {
	return Options{UnitSize: 16, SideLength: 2, Fill: black, Background: white}
}

func TestBlocks(t *testing.T) {
	blocks := Blocks(diagonal(), 16)
	require.Len(t, blocks, 2)
	assert.Equal(t, image.Pt(0, 0), blocks[0].Min)
	assert.Equal(t, image.Pt(16, 16), blocks[1].Min)
	assert.Equal(t, 16, blocks[0].Dx())
	assert.Equal(t, 16, blocks[1].Dy())

	assert.Empty(t, Blocks(frames.Frame{{0, 0}, {0}}, 16))
}

func TestImage(t *testing.T) {
	img := Image(diagonal(), smallOptions())
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, black},
		{15, 15, black},
		{16, 0, white},
		{0, 16, white},
		{16, 16, black},
		{31, 31, black},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, img.RGBAAt(tt.x, tt.y), "pixel (%d,%d)", tt.x, tt.y)
	}
}

func TestImageClipsOutsideSurface(t *testing.T) {
	o := Options{UnitSize: 4, SideLength: 1, Fill: black, Background: white}
	img := Image(frames.Frame{{0, 1}, {1, 1}}, o)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	assert.Equal(t, white, img.RGBAAt(0, 0))
}

func TestImageShade(t *testing.T) {
	o := smallOptions()
	o.Shade = true
	img := Image(frames.Frame{{0.5}}, o)
	got := img.RGBAAt(0, 0)
	assert.Equal(t, uint8(128), got.R)

	o.Shade = false
	img = Image(frames.Frame{{0.5}}, o)
	assert.Equal(t, black, img.RGBAAt(0, 0))
}

func TestBlend(t *testing.T) {
	coral := color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}
	assert.Equal(t, white, Blend(white, coral, 0))
	assert.Equal(t, coral, Blend(white, coral, 1))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 0xff}, Blend(white, black, 0.5))
	assert.Equal(t, "#ff6b6b", hexColor(coral))
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, diagonal(), smallOptions()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestSVG(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "svg_diagonal", []byte(SVG(diagonal(), smallOptions())))
}

func TestSVGShade(t *testing.T) {
	o := smallOptions()
	o.Shade = true
	svg := SVG(frames.Frame{{1, 0.5}}, o)
	assert.Contains(t, svg, `<rect x="0" y="0" width="16" height="16" fill="#000000"/>`)
	assert.Contains(t, svg, `<rect x="16" y="0" width="16" height="16" fill="#808080"/>`)
}

func TestText(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	lines := Text(diagonal(), 3, nil)
	g.Assert(t, "text_diagonal", []byte(strings.Join(lines, "\n")+"\n"))

	blank := Text(nil, 2, nil)
	assert.Equal(t, []string{"· · ", "· · "}, blank)
}

func TestAnimation(t *testing.T) {
	pair := &frames.Pair{
		Actual:    frames.Sequence{diagonal(), diagonal(), diagonal()},
		Predicted: frames.Sequence{diagonal(), frames.Frame{{0, 1}}},
	}
	anim := Animation(pair, smallOptions(), 250*time.Millisecond)

	require.Len(t, anim.Image, 2, "clamped to the shorter role")
	assert.Equal(t, []int{25, 25}, anim.Delay)

	img := anim.Image[1]
	assert.Equal(t, image.Rect(0, 0, 32*2+16, 32), img.Bounds())
	assert.Equal(t, uint8(shadeLevels-1), img.ColorIndexAt(0, 0), "actual on cell")
	assert.Equal(t, uint8(shadeLevels), img.ColorIndexAt(40, 0), "gutter")
	assert.Equal(t, uint8(0), img.ColorIndexAt(48, 0), "predicted off cell")
	assert.Equal(t, uint8(shadeLevels-1), img.ColorIndexAt(64, 0), "predicted on cell")

	var buf bytes.Buffer
	require.NoError(t, EncodeGIF(&buf, pair, smallOptions(), 250*time.Millisecond))
	assert.NotZero(t, buf.Len())
}

func TestBraille(t *testing.T) {
	c := Braille(diagonal(), 2)
	require.Equal(t, 1, c.Width)
	require.Equal(t, 1, c.Height)
	assert.True(t, c.IsSet(0, 0))
	assert.True(t, c.IsSet(1, 1))
	assert.False(t, c.IsSet(1, 0))
	assert.Equal(t, string(rune(0x2800|0x1|0x10)), c.Lines()[0])

	c.Clear()
	assert.False(t, c.IsSet(0, 0))
	assert.Equal(t, string(rune(brailleBlank))+"\n", c.String())
}
