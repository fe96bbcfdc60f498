package dataset

import "github.com/san-kum/gridview/internal/frames"

// Blink toggles the centre cell every frame, starting lit.
func Blink(side, n int) frames.Sequence {
	if side <= 0 || n <= 0 {
		return frames.Sequence{}
	}
	seq := make(frames.Sequence, n)
	for i := range seq {
		f := frames.Empty(side, side)
		if i%2 == 0 {
			f[side/2][side/2] = 1
		}
		seq[i] = f
	}
	return seq
}

// Glider runs Conway's life on a wrapping side x side board from a single
// glider in the top-left corner. Grids smaller than the glider stay blank.
func Glider(side, n int) frames.Sequence {
	if side <= 0 || n <= 0 {
		return frames.Sequence{}
	}
	f := frames.Empty(side, side)
	if side >= 3 {
		for _, p := range [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}} {
			f[p[1]][p[0]] = 1
		}
	}
	seq := make(frames.Sequence, 0, n)
	for i := 0; i < n; i++ {
		seq = append(seq, f)
		f = LifeStep(f)
	}
	return seq
}

// LifeStep applies one generation of B3/S23 on a torus.
func LifeStep(f frames.Frame) frames.Frame {
	rows, cols := f.Rows(), f.Cols()
	next := frames.Empty(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if frames.On(f.At((x+dx+cols)%cols, (y+dy+rows)%rows)) {
						n++
					}
				}
			}
			alive := frames.On(f.At(x, y))
			if n == 3 || (alive && n == 2) {
				next[y][x] = 1
			}
		}
	}
	return next
}
