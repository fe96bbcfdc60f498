package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/san-kum/gridview/internal/frames"
)

// Writer lays out test data in the directory structure the Loader reads.
type Writer struct {
	baseDir  string
	manifest string
}

func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, manifest: "manifest.json"}
}

func (w *Writer) Init() error {
	return os.MkdirAll(w.baseDir, 0755)
}

// WriteTest writes both roles of a test and registers it in the manifest.
func (w *Writer) WriteTest(name string, pair *frames.Pair) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return fmt.Errorf("invalid test name %q", name)
	}
	testDir := filepath.Join(w.baseDir, name)
	if err := os.MkdirAll(testDir, 0755); err != nil {
		return err
	}

	for _, role := range frames.Roles {
		seq, _ := pair.Sequence(role)
		data, err := encodeSequence(seq)
		if err != nil {
			return err
		}
		p := filepath.Join(testDir, string(role)+".json")
		if err := os.WriteFile(p, data, 0644); err != nil {
			return &frames.LoadError{Test: name, Role: role, Path: p, Wrapped: err}
		}
	}

	return w.register(name)
}

func (w *Writer) register(name string) error {
	p := filepath.Join(w.baseDir, w.manifest)
	m := &Manifest{}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		if m, err = decodeManifest(p, data); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	if slices.Contains(m.Names, name) {
		return nil
	}
	m.Names = append(m.Names, name)

	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
