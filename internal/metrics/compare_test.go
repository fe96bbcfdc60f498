package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gridview/internal/frames"
)

func TestCompareFrame(t *testing.T) {
	actual := frames.Frame{{1, 0}, {0, 1}}
	predicted := frames.Frame{{1, 1}, {0, 0}}

	s := CompareFrame(3, actual, predicted)

	if s.Index != 3 {
		t.Errorf("expected index 3, got %d", s.Index)
	}
	if s.Actual != 2 || s.Predicted != 2 {
		t.Errorf("expected 2/2 active, got %d/%d", s.Actual, s.Predicted)
	}
	if s.Mismatch != 2 {
		t.Errorf("expected 2 mismatches, got %d", s.Mismatch)
	}
	if s.Accuracy != 0.5 {
		t.Errorf("expected accuracy 0.5, got %f", s.Accuracy)
	}
}

func TestCompareFrame_RaggedAndEmpty(t *testing.T) {
	s := CompareFrame(0, frames.Frame{{1}}, frames.Frame{{1, 0}, {0, 0}})
	if s.Cells != 4 || s.Mismatch != 0 {
		t.Errorf("expected 4 cells and no mismatch, got %+v", s)
	}

	s = CompareFrame(0, nil, nil)
	if s.Accuracy != 1 {
		t.Errorf("empty frames should be fully accurate, got %f", s.Accuracy)
	}
}

func TestCompareIdentical(t *testing.T) {
	seq := frames.Sequence{
		{{1, 0}, {0, 0}},
		{{0, 1}, {0, 0}},
	}
	s := Compare(&frames.Pair{Actual: seq, Predicted: seq})

	if s.Frames != 2 || s.Exact != 2 {
		t.Errorf("expected 2 exact frames, got %+v", s)
	}
	for _, name := range []string{"accuracy", "iou", "exact_match"} {
		if s.Metrics[name] != 1 {
			t.Errorf("%s: expected 1, got %f", name, s.Metrics[name])
		}
	}
	for _, fs := range s.PerFrame {
		if fs.Mismatch != 0 {
			t.Errorf("frame %d: expected no mismatch", fs.Index)
		}
	}
}

func TestCompareWorstFrame(t *testing.T) {
	pair := &frames.Pair{
		Actual:    frames.Sequence{{{1, 1}}, {{1, 1}}, {{1, 1}}},
		Predicted: frames.Sequence{{{1, 1}}, {{0, 0}}, {{1, 0}}},
	}
	s := Compare(pair)

	if s.MinIndex != 1 {
		t.Errorf("expected worst frame 1, got %d", s.MinIndex)
	}
	want := []float64{1, 0, 0.5}
	got := s.AccuracySeries()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if mm := s.MismatchSeries(); mm[1] != 2 {
		t.Errorf("expected 2 mismatches on frame 1, got %f", mm[1])
	}
	if math.Abs(s.Metrics["accuracy"]-0.5) > 1e-9 {
		t.Errorf("expected mean accuracy 0.5, got %f", s.Metrics["accuracy"])
	}
	if math.Abs(s.Metrics["iou"]-0.5) > 1e-9 {
		t.Errorf("expected iou 0.5, got %f", s.Metrics["iou"])
	}
	if math.Abs(s.Metrics["exact_match"]-1.0/3) > 1e-9 {
		t.Errorf("expected exact match 1/3, got %f", s.Metrics["exact_match"])
	}
}

func TestMetricReset(t *testing.T) {
	for _, m := range DefaultMetrics() {
		m.Observe(frames.Frame{{1}}, frames.Frame{{0}})
		m.Reset()
		m.Observe(frames.Frame{{1}}, frames.Frame{{1}})
		if m.Value() != 1 {
			t.Errorf("%s: expected 1 after reset, got %f", m.Name(), m.Value())
		}
	}
}

func TestCompareEmptyPair(t *testing.T) {
	s := Compare(&frames.Pair{})
	if s.Frames != 0 || len(s.PerFrame) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if s.Metrics["iou"] != 1 {
		t.Errorf("iou over nothing should be 1, got %f", s.Metrics["iou"])
	}
}
