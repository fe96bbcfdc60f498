package loader

import (
	"fmt"

	"github.com/san-kum/gridview/internal/frames"
)

// Library maps test names to their loaded pairs. It is built once and is
// read-only afterwards, so it is safe for concurrent use.
type Library struct {
	names []string
	pairs map[string]*frames.Pair
	errs  map[string]error
}

func newLibrary(names []string) *Library {
	return &Library{
		names: names,
		pairs: make(map[string]*frames.Pair, len(names)),
		errs:  make(map[string]error),
	}
}

// NewLibrary builds a library from pairs already in memory.
func NewLibrary(names []string, pairs map[string]*frames.Pair) *Library {
	lib := newLibrary(append([]string(nil), names...))
	for _, name := range names {
		if p, ok := pairs[name]; ok {
			lib.pairs[name] = p
		} else {
			lib.errs[name] = fmt.Errorf("%w: %s", frames.ErrUnknownTest, name)
		}
	}
	return lib
}

// Names returns the manifest order, including tests that failed to load.
func (l *Library) Names() []string {
	return append([]string(nil), l.names...)
}

func (l *Library) Get(name string) (*frames.Pair, error) {
	if err, ok := l.errs[name]; ok {
		return nil, err
	}
	p, ok := l.pairs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", frames.ErrUnknownTest, name)
	}
	return p, nil
}

// Err returns the load error recorded for name, if any.
func (l *Library) Err(name string) error {
	return l.errs[name]
}

func (l *Library) Has(name string) bool {
	_, ok := l.pairs[name]
	return ok
}

func (l *Library) Len() int { return len(l.names) }
