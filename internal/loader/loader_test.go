package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/san-kum/gridview/internal/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoad_JSONLayout(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json":            {Data: []byte(`{"names": ["lines", "dot"]}`)},
		"lines/actual.json":        {Data: []byte(`[[[1,0],[0,1]],[[0,1],[1,0]]]`)},
		"lines/predicted.json":     {Data: []byte(`[[[1,0],[0,0]],[[0,1],[1,0]]]`)},
		"dot/actual.json":          {Data: []byte(`[[[1]]]`)},
		"dot/predicted.json":       {Data: []byte(`[[[0]]]`)},
		"unlisted/actual.json":     {Data: []byte(`[]`)},
		"unlisted/predicted.json":  {Data: []byte(`[]`)},
	}

	lib, err := New(fsys, quiet()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"lines", "dot"}, lib.Names())
	pair, err := lib.Get("lines")
	require.NoError(t, err)
	assert.Equal(t, 2, pair.Len())
	assert.Equal(t, frames.Frame{{1, 0}, {0, 0}}, pair.Predicted[0])
	assert.False(t, lib.Has("unlisted"))
}

func TestLoad_LegacyScripts(t *testing.T) {
	fsys := fstest.MapFS{
		"tests.js":                 {Data: []byte("tests = {\"names\": [\"bouncing_pixel\"]};\n")},
		"bouncing_pixel/in.js":     {Data: []byte("bouncing_pixel = [[[0,1]],[[1,0]]]")},
		"bouncing_pixel/out.js":    {Data: []byte("var bouncing_pixel_predicted = [[[0,1]],[[0,1]]];")},
	}

	lib, err := New(fsys, quiet()).Load(context.Background())
	require.NoError(t, err)

	pair, err := lib.Get("bouncing_pixel")
	require.NoError(t, err)
	assert.Len(t, pair.Actual, 2)
	assert.Len(t, pair.Predicted, 2)
	assert.Equal(t, frames.Frame{{0, 1}}, pair.Predicted[1])
}

func TestLoad_YAMLManifestList(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.yaml":      {Data: []byte("- a\n- a\n- b\n")},
		"a/actual.json":      {Data: []byte(`[]`)},
		"a/predicted.json":   {Data: []byte(`[]`)},
	}

	lib, err := New(fsys, quiet()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, lib.Names(), "duplicates dropped, order kept")
	assert.True(t, lib.Has("a"))

	_, err = lib.Get("b")
	require.Error(t, err)
	var le *frames.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "b", le.Test)
	assert.Equal(t, frames.RoleActual, le.Role)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, err, lib.Err("b"))
}

func TestLoad_BrokenTestDoesNotFailLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json":       {Data: []byte(`["good", "bad"]`)},
		"good/actual.json":    {Data: []byte(`[[[1]]]`)},
		"good/predicted.json": {Data: []byte(`[[[1]]]`)},
		"bad/actual.json":     {Data: []byte(`[[[1]]`)},
		"bad/predicted.json":  {Data: []byte(`[[[1]]]`)},
	}

	lib, err := New(fsys, quiet(), WithConcurrency(1)).Load(context.Background())
	require.NoError(t, err)

	assert.True(t, lib.Has("good"))
	assert.Error(t, lib.Err("bad"))
	assert.Equal(t, 2, lib.Len())
}

func TestLoad_MissingManifest(t *testing.T) {
	_, err := New(fstest.MapFS{}, quiet()).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = New(fstest.MapFS{"manifest.json": {Data: []byte(`[]`)}}, quiet(), WithManifest("other.json")).Manifest()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_Canceled(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json":    {Data: []byte(`["a"]`)},
		"a/actual.json":    {Data: []byte(`[]`)},
		"a/predicted.json": {Data: []byte(`[]`)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fsys, quiet()).Load(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_InvalidValues(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json":    {Data: []byte(`["a"]`)},
		"a/actual.json":    {Data: []byte(`[[["x"]]]`)},
		"a/predicted.json": {Data: []byte(`[]`)},
	}
	lib, err := New(fsys, quiet()).Load(context.Background())
	require.NoError(t, err)
	assert.Error(t, lib.Err("a"))
}

func TestStripAssignment(t *testing.T) {
	tests := map[string]string{
		"x = [1];":               "[1]",
		"var a_b = {\"k\": 1}":   "{\"k\": 1}",
		"window.t = []":          "[]",
		"[1, 2]":                 "[1, 2]",
		"{\"a\": \"b = c\"}":     "{\"a\": \"b = c\"}",
	}
	for in, want := range tests {
		assert.Equal(t, want, string(stripAssignment([]byte(in))), in)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	require.NoError(t, w.Init())

	pair := &frames.Pair{
		Actual:    frames.Sequence{{{1, 0}, {0, 1}}},
		Predicted: frames.Sequence{{{0, 0}, {0, 1}}},
	}
	require.NoError(t, w.WriteTest("diag", pair))
	require.NoError(t, w.WriteTest("diag", pair), "rewriting keeps a single manifest entry")
	require.NoError(t, w.WriteTest("empty", &frames.Pair{}))

	lib, err := New(os.DirFS(dir), quiet()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"diag", "empty"}, lib.Names())
	got, err := lib.Get("diag")
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	empty, err := lib.Get("empty")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestWriterRejectsPathNames(t *testing.T) {
	parent := t.TempDir()
	w := NewWriter(filepath.Join(parent, "data"))
	require.NoError(t, w.Init())
	for _, name := range []string{"../escape", "", ".", "..", "a/b"} {
		assert.Error(t, w.WriteTest(name, &frames.Pair{}), "name %q", name)
	}
	_, err := os.Stat(filepath.Join(parent, "actual.json"))
	assert.True(t, os.IsNotExist(err), "nothing written outside the data directory")
}

func TestNewLibrary(t *testing.T) {
	lib := NewLibrary([]string{"a", "b"}, map[string]*frames.Pair{"a": {}})
	_, err := lib.Get("a")
	assert.NoError(t, err)
	_, err = lib.Get("b")
	assert.ErrorIs(t, err, frames.ErrUnknownTest)
	_, err = lib.Get("c")
	assert.ErrorIs(t, err, frames.ErrUnknownTest)
}
