package dataset

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/san-kum/gridview/internal/frames"
)

// FromImages turns every image in dir into one frame, in file name order.
// A pixel is on when it is opaque and darker than mid grey. Hidden files
// and subdirectories are skipped.
func FromImages(fsys fs.FS, dir string) (frames.Sequence, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	seq := make(frames.Sequence, 0, len(names))
	for _, name := range names {
		f, err := imageFrame(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		seq = append(seq, f)
	}
	return seq, nil
}

func imageFrame(fsys fs.FS, name string) (frames.Frame, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return ImageToFrame(img), nil
}

// ImageToFrame thresholds img into a binary frame.
func ImageToFrame(img image.Image) frames.Frame {
	b := img.Bounds()
	f := frames.Empty(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if dark(img.At(x, y)) {
				f[y-b.Min.Y][x-b.Min.X] = 1
			}
		}
	}
	return f
}

func dark(c color.Color) bool {
	_, _, _, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	return color.Gray16Model.Convert(c).(color.Gray16).Y < 0x8000
}
