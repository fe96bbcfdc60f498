package dataset

import (
	"fmt"
	"sort"

	"github.com/san-kum/gridview/internal/frames"
)

// Generator builds a test of n frames on a side x side grid.
type Generator func(side, n int) *frames.Pair

type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	r := &Registry{generators: make(map[string]Generator)}

	r.generators["bouncing"] = Sample
	r.generators["blink"] = func(side, n int) *frames.Pair {
		actual := Blink(side, n)
		return &frames.Pair{Actual: actual, Predicted: Persistence(actual)}
	}
	r.generators["glider"] = func(side, n int) *frames.Pair {
		actual := Glider(side, n)
		return &frames.Pair{Actual: actual, Predicted: Persistence(actual)}
	}

	return r
}

func (r *Registry) Register(name string, g Generator) {
	r.generators[name] = g
}

func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s (available: %v)", name, r.Names())
	}
	return g, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
