package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/gridview/internal/frames"
)

const DefaultDelay = 250 * time.Millisecond

// Snapshot is what one draw emits: the frame pair under the cursor.
type Snapshot struct {
	Test      string       `json:"test"`
	Index     int          `json:"index"`
	Len       int          `json:"len"`
	Playing   bool         `json:"playing"`
	Actual    frames.Frame `json:"-"`
	Predicted frames.Frame `json:"-"`
}

// DrawFunc receives every drawn snapshot. It is called without the
// controller lock held, possibly from a timer goroutine.
type DrawFunc func(Snapshot)

// Controller drives the shared cursor over one test's pair. A controller
// belongs to a single selection; Close it when the selection changes.
//
// At most one advance is ever scheduled. Every transition stops the pending
// timer and bumps the generation, so a callback that fired before Stop
// could win the race finds a stale generation and does nothing.
type Controller struct {
	mu      sync.Mutex
	test    string
	pair    *frames.Pair
	length  int
	cursor  int
	playing bool
	closed  bool
	gen     uint64
	pending Timer

	delay  time.Duration
	sched  Scheduler
	onDraw DrawFunc
	logger *slog.Logger
}

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

func WithDrawFunc(f DrawFunc) Option {
	return func(c *Controller) { c.onDraw = f }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New builds an idle controller at cursor 0. Nothing is drawn until the
// first transition or an explicit Draw.
func New(test string, pair *frames.Pair, opts ...Option) *Controller {
	c := &Controller{
		test:   test,
		pair:   pair,
		length: pair.Len(),
		delay:  DefaultDelay,
		sched:  WallClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Draw emits the current frame without changing state.
func (c *Controller) Draw() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Step advances one frame, wrapping to 0 after the last.
func (c *Controller) Step() { c.move(1) }

// Back rewinds one frame, wrapping to the last frame from 0.
func (c *Controller) Back() { c.move(-1) }

func (c *Controller) move(dir int) {
	c.mu.Lock()
	if c.closed || c.length == 0 {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.cursor = ((c.cursor+dir)%c.length + c.length) % c.length
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Play restarts from frame 0 and advances every delay until the last frame.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.closed || c.length == 0 {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.cursor = 0
	c.scheduleLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.logger.Debug("playback started", "test", c.test, "frames", c.length)
	c.emit(snap)
}

// Pause stops autoplay and keeps the cursor.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.closed || !c.playing {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Toggle pauses while playing and plays otherwise.
func (c *Controller) Toggle() {
	if c.Playing() {
		c.Pause()
		return
	}
	c.Play()
}

// Seek moves the cursor to i, clamped to the playable range.
func (c *Controller) Seek(i int) {
	c.mu.Lock()
	if c.closed || c.length == 0 {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.cursor = max(0, min(i, c.length-1))
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// Close cancels any pending advance. Later calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelLocked()
	c.closed = true
}

func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || !c.playing {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.cursor++
	c.scheduleLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if !snap.Playing {
		c.logger.Debug("playback finished", "test", c.test, "frame", snap.Index)
	}
	c.emit(snap)
}

// scheduleLocked arms the next advance, or halts when the cursor sits on
// the last frame.
func (c *Controller) scheduleLocked() {
	if c.cursor >= c.length-1 {
		c.playing = false
		return
	}
	c.playing = true
	gen := c.gen
	c.pending = c.sched.AfterFunc(c.delay, func() { c.advance(gen) })
}

func (c *Controller) cancelLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.playing = false
	c.gen++
}

func (c *Controller) snapshotLocked() Snapshot {
	actual, predicted := c.pair.Frames(c.cursor)
	return Snapshot{
		Test:      c.test,
		Index:     c.cursor,
		Len:       c.length,
		Playing:   c.playing,
		Actual:    actual,
		Predicted: predicted,
	}
}

func (c *Controller) emit(s Snapshot) {
	if c.onDraw != nil {
		c.onDraw(s)
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Pending reports whether an advance is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

func (c *Controller) Test() string { return c.test }

func (c *Controller) Len() int { return c.length }

func (c *Controller) Pair() *frames.Pair { return c.pair }

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
