package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"sync"

	"github.com/san-kum/gridview/internal/frames"
	"golang.org/x/sync/errgroup"
)

// ManifestCandidates are tried in order when no manifest name is given.
var ManifestCandidates = []string{"manifest.json", "manifest.yaml", "manifest.yml", "tests.js"}

// roleAssets lists the file names tried for each role, newest layout first.
var roleAssets = map[frames.Role][]string{
	frames.RoleActual:    {"actual.json", "actual.js", "in.js"},
	frames.RolePredicted: {"predicted.json", "predicted.js", "out.js"},
}

// Loader fetches a manifest and the per-test assets it names.
type Loader struct {
	fsys     fs.FS
	manifest string
	limit    int
	logger   *slog.Logger
}

type Option func(*Loader)

// WithManifest fixes the manifest file name instead of probing candidates.
func WithManifest(name string) Option {
	return func(l *Loader) { l.manifest = name }
}

// WithConcurrency bounds the number of tests loaded at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func New(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fsys:   fsys,
		limit:  runtime.NumCPU(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Manifest reads and decodes the manifest.
func (l *Loader) Manifest() (*Manifest, error) {
	candidates := ManifestCandidates
	if l.manifest != "" {
		candidates = []string{l.manifest}
	}
	for _, name := range candidates {
		data, err := fs.ReadFile(l.fsys, name)
		if errors.Is(err, fs.ErrNotExist) && l.manifest == "" {
			continue
		}
		if err != nil {
			return nil, &frames.LoadError{Test: "manifest", Path: name, Wrapped: err}
		}
		m, err := decodeManifest(name, data)
		if err != nil {
			return nil, &frames.LoadError{Test: "manifest", Path: name, Wrapped: err}
		}
		l.logger.Debug("manifest loaded", "path", name, "tests", len(m.Names))
		return m, nil
	}
	return nil, &frames.LoadError{Test: "manifest", Path: candidates[0], Wrapped: fs.ErrNotExist}
}

// LoadTest fetches both roles of one test.
func (l *Loader) LoadTest(name string) (*frames.Pair, error) {
	pair := &frames.Pair{}
	for _, role := range frames.Roles {
		seq, err := l.loadRole(name, role)
		if err != nil {
			return nil, err
		}
		if role == frames.RoleActual {
			pair.Actual = seq
		} else {
			pair.Predicted = seq
		}
	}
	if pair.Mismatched() {
		l.logger.Warn("sequence lengths differ, playback clamped",
			"test", name, "actual", len(pair.Actual), "predicted", len(pair.Predicted))
	}
	return pair, nil
}

func (l *Loader) loadRole(name string, role frames.Role) (frames.Sequence, error) {
	candidates := roleAssets[role]
	for _, file := range candidates {
		p := path.Join(name, file)
		data, err := fs.ReadFile(l.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &frames.LoadError{Test: name, Role: role, Path: p, Wrapped: err}
		}
		seq, err := decodeSequence(p, data)
		if err != nil {
			return nil, &frames.LoadError{Test: name, Role: role, Path: p, Wrapped: err}
		}
		return seq, nil
	}
	return nil, &frames.LoadError{Test: name, Role: role, Path: path.Join(name, candidates[0]), Wrapped: fs.ErrNotExist}
}

// Load reads the manifest and every test it names. A test that fails to
// load is logged and recorded in the library; only a manifest failure or
// context cancellation fails the whole load.
func (l *Loader) Load(ctx context.Context) (*Library, error) {
	m, err := l.Manifest()
	if err != nil {
		return nil, err
	}

	lib := newLibrary(m.Names)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for _, name := range m.Names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pair, err := l.LoadTest(name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.Warn("test data unavailable", "test", name, "err", err)
				lib.errs[name] = err
				return nil
			}
			lib.pairs[name] = pair
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load tests: %w", err)
	}

	l.logger.Info("library loaded", "tests", len(m.Names), "failed", len(lib.errs))
	return lib, nil
}
