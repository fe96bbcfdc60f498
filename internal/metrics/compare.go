package metrics

import "github.com/san-kum/gridview/internal/frames"

// FrameStats compares one frame index of a pair.
type FrameStats struct {
	Index     int     `json:"index"`
	Actual    int     `json:"actual"`
	Predicted int     `json:"predicted"`
	Mismatch  int     `json:"mismatch"`
	Cells     int     `json:"cells"`
	Accuracy  float64 `json:"accuracy"`
}

// Summary compares a whole pair over its playable length.
type Summary struct {
	Frames   int                `json:"frames"`
	Exact    int                `json:"exact"`
	MinIndex int                `json:"min_index"`
	Metrics  map[string]float64 `json:"metrics"`
	PerFrame []FrameStats       `json:"per_frame"`
}

// CompareFrame counts on cells per role and cells whose on state differs.
// Both frames are read over the larger of their extents.
func CompareFrame(i int, actual, predicted frames.Frame) FrameStats {
	rows, cols := extent(actual, predicted)
	s := FrameStats{Index: i, Cells: rows * cols, Accuracy: 1}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			a, p := frames.On(actual.At(x, y)), frames.On(predicted.At(x, y))
			if a {
				s.Actual++
			}
			if p {
				s.Predicted++
			}
			if a != p {
				s.Mismatch++
			}
		}
	}
	if s.Cells > 0 {
		s.Accuracy = 1 - float64(s.Mismatch)/float64(s.Cells)
	}
	return s
}

// Compare walks every playable index through CompareFrame and the given
// metrics. With no metrics, DefaultMetrics is used.
func Compare(pair *frames.Pair, ms ...Metric) Summary {
	if len(ms) == 0 {
		ms = DefaultMetrics()
	}
	for _, m := range ms {
		m.Reset()
	}

	n := pair.Len()
	s := Summary{
		Frames:   n,
		Metrics:  make(map[string]float64, len(ms)),
		PerFrame: make([]FrameStats, 0, n),
	}
	for i := 0; i < n; i++ {
		actual, predicted := pair.Frames(i)
		fs := CompareFrame(i, actual, predicted)
		if fs.Mismatch == 0 {
			s.Exact++
		}
		if fs.Accuracy < s.minAccuracy() {
			s.MinIndex = i
		}
		s.PerFrame = append(s.PerFrame, fs)
		for _, m := range ms {
			m.Observe(actual, predicted)
		}
	}
	for _, m := range ms {
		s.Metrics[m.Name()] = m.Value()
	}
	return s
}

func (s Summary) minAccuracy() float64 {
	if len(s.PerFrame) == 0 {
		return 2
	}
	return s.PerFrame[s.MinIndex].Accuracy
}

// AccuracySeries returns per-frame accuracy, for plotting.
func (s Summary) AccuracySeries() []float64 {
	out := make([]float64, len(s.PerFrame))
	for i, fs := range s.PerFrame {
		out[i] = fs.Accuracy
	}
	return out
}

// MismatchSeries returns per-frame mismatch counts, for plotting.
func (s Summary) MismatchSeries() []float64 {
	out := make([]float64, len(s.PerFrame))
	for i, fs := range s.PerFrame {
		out[i] = float64(fs.Mismatch)
	}
	return out
}

func extent(a, b frames.Frame) (rows, cols int) {
	return max(a.Rows(), b.Rows()), max(a.Cols(), b.Cols())
}
