package dataset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/san-kum/gridview/internal/frames"
)

func position(t *testing.T, f frames.Frame) (int, int) {
	t.Helper()
	for y, row := range f {
		for x, v := range row {
			if v == 1 {
				return x, y
			}
		}
	}
	t.Fatal("no lit cell")
	return -1, -1
}

func TestBouncingPixel(t *testing.T) {
	seq := BouncingPixel(DefaultSide, DefaultFrames)
	if len(seq) != 61 {
		t.Fatalf("expected 61 frames, got %d", len(seq))
	}
	for i, f := range seq {
		if f.Active() != 1 {
			t.Errorf("frame %d: expected one lit cell, got %d", i, f.Active())
		}
		if f.Rows() != 16 || f.Cols() != 16 {
			t.Errorf("frame %d: expected 16x16, got %dx%d", i, f.Rows(), f.Cols())
		}
	}
	if !seq[60].Equal(seq[0]) {
		t.Error("frame 60 should return to the origin")
	}

	tests := []struct {
		frame, x, y int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{2, 2, 1},
		{15, 15, 7},
		{30, 0, 15},
	}
	for _, tt := range tests {
		x, y := position(t, seq[tt.frame])
		if x != tt.x || y != tt.y {
			t.Errorf("frame %d: expected (%d,%d), got (%d,%d)", tt.frame, tt.x, tt.y, x, y)
		}
	}
}

func TestBouncingPixel_Degenerate(t *testing.T) {
	if len(BouncingPixel(0, 5)) != 0 {
		t.Error("expected no frames for side 0")
	}
	seq := BouncingPixel(1, 3)
	for i, f := range seq {
		if f.At(0, 0) != 1 {
			t.Errorf("frame %d: single cell should stay lit", i)
		}
	}
}

func TestPersistence(t *testing.T) {
	actual := BouncingPixel(4, 3)
	pred := Persistence(actual)

	if len(pred) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(pred))
	}
	if pred[0].Active() != 0 {
		t.Error("first prediction should be blank")
	}
	if !pred[2].Equal(actual[1]) {
		t.Error("prediction should repeat the previous frame")
	}
	pred[1][0][0] = 5
	if actual[0][0][0] == 5 {
		t.Error("prediction should not share rows with actual")
	}

	if len(Persistence(nil)) != 0 {
		t.Error("expected empty prediction for empty input")
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFromImages(t *testing.T) {
	first := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range first.Pix {
		first.Pix[i] = 0xff
	}
	first.SetGray(1, 0, color.Gray{Y: 0})

	second := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	second.Set(0, 1, color.NRGBA{A: 0xff})
	second.Set(1, 1, color.NRGBA{A: 0})

	fsys := fstest.MapFS{
		"lines/b.png":     {Data: encodePNG(t, second)},
		"lines/a.png":     {Data: encodePNG(t, first)},
		"lines/.DS_Store": {Data: []byte("junk")},
		"lines/sub/c.png": {Data: encodePNG(t, first)},
	}

	seq, err := FromImages(fsys, "lines")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(seq))
	}
	if !seq[0].Equal(frames.Frame{{0, 1}, {0, 0}}) {
		t.Errorf("unexpected first frame %v", seq[0])
	}
	if !seq[1].Equal(frames.Frame{{0, 0}, {1, 0}}) {
		t.Errorf("unexpected second frame %v", seq[1])
	}
}

func TestFromImages_BadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"lines/a.png": {Data: []byte("not a png")},
	}
	if _, err := FromImages(fsys, "lines"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := FromImages(fsys, "missing"); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestGliderTranslates(t *testing.T) {
	seq := Glider(8, 5)
	if len(seq) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(seq))
	}
	for i, f := range seq {
		if f.Active() != 5 {
			t.Errorf("generation %d: expected 5 live cells, got %d", i, f.Active())
		}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := seq[0].At((x+7)%8, (y+7)%8)
			if seq[4].At(x, y) != want {
				t.Fatalf("generation 4 should be generation 0 shifted by (1,1); mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestLifeStepWraps(t *testing.T) {
	// A vertical blinker straddling the top edge.
	f := frames.Empty(5, 5)
	f[4][2], f[0][2], f[1][2] = 1, 1, 1

	next := LifeStep(f)
	want := frames.Frame{
		{0, 1, 1, 1, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	}
	if !next.Equal(want) {
		t.Errorf("unexpected generation %v", next)
	}
	if !LifeStep(next).Equal(f) {
		t.Error("blinker should return after two generations")
	}
}

func TestBlink(t *testing.T) {
	seq := Blink(3, 4)
	for i, f := range seq {
		if got := f.At(1, 1) != 0; got != (i%2 == 0) {
			t.Errorf("frame %d: centre on=%v", i, got)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	if len(names) != 3 || names[0] != "blink" || names[1] != "bouncing" || names[2] != "glider" {
		t.Errorf("unexpected generators %v", names)
	}

	gen, err := r.Get("bouncing")
	if err != nil {
		t.Fatal(err)
	}
	pair := gen(DefaultSide, DefaultFrames)
	if pair.Len() != DefaultFrames || pair.Mismatched() {
		t.Errorf("unexpected pair %s", pair)
	}

	if _, err := r.Get("spiral"); err == nil {
		t.Error("expected error for unknown generator")
	}

	r.Register("empty", func(side, n int) *frames.Pair { return &frames.Pair{} })
	if _, err := r.Get("empty"); err != nil {
		t.Errorf("registered generator not found: %v", err)
	}
}
