package dataset

import "github.com/san-kum/gridview/internal/frames"

const (
	DefaultSide   = 16
	DefaultFrames = 61
)

// BouncingPixel moves one lit cell around a side x side square. x steps
// every frame and y every other frame; each reverses at the edges. With
// the defaults the pixel is back at the origin on frame 60.
func BouncingPixel(side, n int) frames.Sequence {
	if side <= 0 || n <= 0 {
		return frames.Sequence{}
	}
	seq := make(frames.Sequence, 0, n)
	x, y := 0, 0
	dx, dy := 1, 1
	for i := 0; i < n; i++ {
		if x+dx < 0 || x+dx >= side {
			dx = -dx
		}
		if y+dy < 0 || y+dy >= side {
			dy = -dy
		}
		f := frames.Empty(side, side)
		f[y][x] = 1
		seq = append(seq, f)

		if side > 1 {
			x += dx
			if i%2 == 1 {
				y += dy
			}
		}
	}
	return seq
}

// Persistence predicts each frame as a copy of the one before it; the
// first prediction is blank.
func Persistence(actual frames.Sequence) frames.Sequence {
	out := make(frames.Sequence, len(actual))
	for i := range actual {
		if i == 0 {
			out[i] = frames.Empty(actual[0].Rows(), actual[0].Cols())
			continue
		}
		out[i] = actual[i-1].Clone()
	}
	return out
}

// Sample builds the bouncing pixel test with a persistence prediction.
func Sample(side, n int) *frames.Pair {
	actual := BouncingPixel(side, n)
	return &frames.Pair{Actual: actual, Predicted: Persistence(actual)}
}
