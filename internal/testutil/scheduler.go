package testutil

import (
	"sync"
	"time"

	"github.com/san-kum/gridview/internal/frames"
	"github.com/san-kum/gridview/internal/playback"
)

// ManualScheduler holds scheduled callbacks until the test fires them.
//
// Thread-safety: all methods are safe for concurrent use. Callbacks run on
// the goroutine calling Fire, never while the scheduler lock is held.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ManualTimer is one scheduled callback.
type ManualTimer struct {
	s       *ManualScheduler
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) playback.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &ManualTimer{s: s, Delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *ManualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Pending counts timers that are neither stopped nor fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Scheduled counts every timer ever created.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Fire runs the oldest pending timer and reports whether one ran.
func (s *ManualScheduler) Fire() bool {
	s.mu.Lock()
	var next *ManualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			next = t
			break
		}
	}
	if next == nil {
		s.mu.Unlock()
		return false
	}
	next.fired = true
	s.mu.Unlock()
	next.fn()
	return true
}

// FireAll runs pending timers until none remain, up to limit callbacks.
func (s *ManualScheduler) FireAll(limit int) int {
	n := 0
	for n < limit && s.Fire() {
		n++
	}
	return n
}

// Last returns the most recently scheduled timer, or nil.
func (s *ManualScheduler) Last() *ManualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// Run invokes the callback even if the timer was stopped, simulating a
// timer that fired just before Stop was called.
func (t *ManualTimer) Run() {
	t.s.mu.Lock()
	t.fired = true
	t.s.mu.Unlock()
	t.fn()
}

// Recorder collects drawn snapshots.
type Recorder struct {
	mu    sync.Mutex
	snaps []playback.Snapshot
}

func (r *Recorder) Draw(s playback.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *Recorder) Indexes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Index
	}
	return out
}

func (r *Recorder) Last() (playback.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return playback.Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

// Pair builds a pair of n frames where frame i has cell (i mod cols, 0) on.
func Pair(n, cols int) *frames.Pair {
	p := &frames.Pair{}
	for i := 0; i < n; i++ {
		f := frames.Empty(1, cols)
		f[0][i%cols] = 1
		p.Actual = append(p.Actual, f)
		p.Predicted = append(p.Predicted, f.Clone())
	}
	return p
}
