package metrics

import "github.com/san-kum/gridview/internal/frames"

// Metric accumulates a score over observed frame pairs.
type Metric interface {
	Name() string
	Observe(actual, predicted frames.Frame)
	Value() float64
	Reset()
}

// Accuracy is the mean share of cells whose on state agrees.
type Accuracy struct {
	samples int
	total   float64
}

func NewAccuracy() *Accuracy { return &Accuracy{} }

func (a *Accuracy) Name() string { return "accuracy" }

func (a *Accuracy) Observe(actual, predicted frames.Frame) {
	a.total += CompareFrame(0, actual, predicted).Accuracy
	a.samples++
}

func (a *Accuracy) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.total / float64(a.samples)
}

func (a *Accuracy) Reset() {
	a.samples = 0
	a.total = 0
}

// IoU is intersection over union of on cells, pooled over all frames.
// Sparse grids score 1 only when every lit cell is predicted.
type IoU struct {
	intersection int
	union        int
}

func NewIoU() *IoU { return &IoU{} }

func (m *IoU) Name() string { return "iou" }

func (m *IoU) Observe(actual, predicted frames.Frame) {
	rows, cols := extent(actual, predicted)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			a, p := frames.On(actual.At(x, y)), frames.On(predicted.At(x, y))
			if a && p {
				m.intersection++
			}
			if a || p {
				m.union++
			}
		}
	}
}

func (m *IoU) Value() float64 {
	if m.union == 0 {
		return 1
	}
	return float64(m.intersection) / float64(m.union)
}

func (m *IoU) Reset() {
	m.intersection = 0
	m.union = 0
}

// ExactMatch is the share of frames predicted without a single mismatch.
type ExactMatch struct {
	samples int
	matches int
}

func NewExactMatch() *ExactMatch { return &ExactMatch{} }

func (e *ExactMatch) Name() string { return "exact_match" }

func (e *ExactMatch) Observe(actual, predicted frames.Frame) {
	if actual.Equal(predicted) {
		e.matches++
	}
	e.samples++
}

func (e *ExactMatch) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.matches) / float64(e.samples)
}

func (e *ExactMatch) Reset() {
	e.samples = 0
	e.matches = 0
}

// DefaultMetrics returns fresh instances of every metric.
func DefaultMetrics() []Metric {
	return []Metric{NewAccuracy(), NewIoU(), NewExactMatch()}
}
