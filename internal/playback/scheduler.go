package playback

import "time"

// Timer is a handle to one scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already fired or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock schedules on real timers.
var WallClock Scheduler = wallClock{}
