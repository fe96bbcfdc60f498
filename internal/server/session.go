package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/san-kum/gridview/internal/playback"
	"github.com/san-kum/gridview/internal/viewer"
)

// subscriberBuffer bounds the snapshots queued for one event stream.
const subscriberBuffer = 8

// session is one browser's viewer plus the event streams watching it.
type session struct {
	id     string
	viewer *viewer.Viewer

	mu      sync.Mutex
	last    playback.Snapshot
	hasLast bool
	subs    map[chan playback.Snapshot]struct{}
	done    chan struct{}
	closed  bool
}

func newSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func newSession(id string) *session {
	return &session{
		id:   id,
		subs: make(map[chan playback.Snapshot]struct{}),
		done: make(chan struct{}),
	}
}

// broadcast is the viewer's draw callback. Slow subscribers lose their
// oldest queued snapshot rather than blocking the controller.
func (s *session) broadcast(snap playback.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.last, s.hasLast = snap, true
	for ch := range s.subs {
		offer(ch, snap)
	}
}

func offer(ch chan playback.Snapshot, snap playback.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// subscribe registers an event stream. The latest snapshot, if any, is
// queued straight away.
func (s *session) subscribe() (<-chan playback.Snapshot, func()) {
	ch := make(chan playback.Snapshot, subscriberBuffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if s.hasLast {
		ch <- s.last
	}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

func (s *session) snapshot() (playback.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// close stops playback and ends every event stream.
func (s *session) close() {
	s.viewer.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}
