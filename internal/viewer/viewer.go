// Package viewer binds library tests to playback controllers.
//
// A [Viewer] owns at most one active [playback.Controller]. Selecting a
// test closes the previous controller, which cancels its pending advance,
// before the new one draws frame 0.
package viewer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/gridview/internal/frames"
	"github.com/san-kum/gridview/internal/loader"
	"github.com/san-kum/gridview/internal/playback"
)

type Viewer struct {
	lib    *loader.Library
	delay  time.Duration
	sched  playback.Scheduler
	onDraw playback.DrawFunc
	logger *slog.Logger

	mu     sync.Mutex
	active *playback.Controller
}

type Option func(*Viewer)

func WithDelay(d time.Duration) Option {
	return func(v *Viewer) { v.delay = d }
}

func WithScheduler(s playback.Scheduler) Option {
	return func(v *Viewer) { v.sched = s }
}

func WithDrawFunc(f playback.DrawFunc) Option {
	return func(v *Viewer) { v.onDraw = f }
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Viewer) { v.logger = logger }
}

func New(lib *loader.Library, opts ...Option) *Viewer {
	v := &Viewer{
		lib:    lib,
		delay:  playback.DefaultDelay,
		sched:  playback.WallClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Viewer) Names() []string { return v.lib.Names() }

func (v *Viewer) Library() *loader.Library { return v.lib }

// Select tears down the current controller and starts a new one for name
// at frame 0. When name has no data the viewer is left without an active
// controller and the error is returned.
func (v *Viewer) Select(name string) (*playback.Controller, error) {
	v.mu.Lock()
	if v.active != nil {
		v.active.Close()
		v.active = nil
	}

	pair, err := v.lib.Get(name)
	if err != nil {
		v.mu.Unlock()
		v.logger.Warn("test not available", "test", name, "err", err)
		return nil, fmt.Errorf("select %q: %w", name, err)
	}

	ctrl := playback.New(name, pair,
		playback.WithDelay(v.delay),
		playback.WithScheduler(v.sched),
		playback.WithDrawFunc(v.onDraw),
		playback.WithLogger(v.logger),
	)
	v.active = ctrl
	v.mu.Unlock()

	if pair.Len() == 0 {
		v.logger.Warn("test has no playable frames", "test", name, "err", frames.ErrEmptySequence)
	}
	v.logger.Debug("test selected", "test", name, "frames", pair.Len())
	ctrl.Draw()
	return ctrl, nil
}

// Active returns the current controller, or nil.
func (v *Viewer) Active() *playback.Controller {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Close tears down the active controller.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.active != nil {
		v.active.Close()
		v.active = nil
	}
}
