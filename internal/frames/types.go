package frames

import (
	"fmt"
	"math"
)

// Frame is one grid snapshot, rows first. Rows may be ragged.
type Frame [][]float64

// On reports whether a cell value counts as a filled cell.
func On(v float64) bool { return v != 0 }

func (f Frame) Clone() Frame {
	c := make(Frame, len(f))
	for y, row := range f {
		c[y] = make([]float64, len(row))
		copy(c[y], row)
	}
	return c
}

func (f Frame) Rows() int { return len(f) }

// Cols returns the width of the widest row.
func (f Frame) Cols() int {
	cols := 0
	for _, row := range f {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// At returns the cell value, or 0 outside the grid.
func (f Frame) At(x, y int) float64 {
	if y < 0 || y >= len(f) || x < 0 || x >= len(f[y]) {
		return 0
	}
	return f[y][x]
}

// Active counts the cells that satisfy On.
func (f Frame) Active() int {
	n := 0
	for _, row := range f {
		for _, v := range row {
			if On(v) {
				n++
			}
		}
	}
	return n
}

func (f Frame) IsValid() bool {
	for _, row := range f {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Equal compares the on/off pattern of two frames.
func (f Frame) Equal(other Frame) bool {
	rows := max(f.Rows(), other.Rows())
	cols := max(f.Cols(), other.Cols())
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if On(f.At(x, y)) != On(other.At(x, y)) {
				return false
			}
		}
	}
	return true
}

// Empty returns a rows x cols frame of zeros.
func Empty(rows, cols int) Frame {
	f := make(Frame, rows)
	for y := range f {
		f[y] = make([]float64, cols)
	}
	return f
}

type Sequence []Frame

func (s Sequence) Len() int { return len(s) }

// Validate checks that every frame holds finite values.
func (s Sequence) Validate() error {
	for i, f := range s {
		if !f.IsValid() {
			return &FrameError{Index: i, Wrapped: ErrInvalidFrame}
		}
	}
	return nil
}

// Pair holds the two synchronized roles of one test.
type Pair struct {
	Actual    Sequence `json:"actual" yaml:"actual"`
	Predicted Sequence `json:"predicted" yaml:"predicted"`
}

// Len is the playable length, the shorter of the two roles.
func (p *Pair) Len() int {
	if p == nil {
		return 0
	}
	return min(len(p.Actual), len(p.Predicted))
}

// Frames returns the actual and predicted frames at i, or nil outside the
// playable range.
func (p *Pair) Frames(i int) (Frame, Frame) {
	if i < 0 || i >= p.Len() {
		return nil, nil
	}
	return p.Actual[i], p.Predicted[i]
}

// Mismatched reports whether the two roles differ in length.
func (p *Pair) Mismatched() bool {
	return p != nil && len(p.Actual) != len(p.Predicted)
}

func (p *Pair) String() string {
	if p == nil {
		return "pair(nil)"
	}
	return fmt.Sprintf("pair(actual=%d, predicted=%d)", len(p.Actual), len(p.Predicted))
}

type Role string

const (
	RoleActual    Role = "actual"
	RolePredicted Role = "predicted"
)

// Roles lists both roles in display order.
var Roles = []Role{RoleActual, RolePredicted}

// Sequence returns the sequence for a role.
func (p *Pair) Sequence(r Role) (Sequence, error) {
	switch r {
	case RoleActual:
		return p.Actual, nil
	case RolePredicted:
		return p.Predicted, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, r)
}
