// Package playback implements the cursor and autoplay timer for one test.
//
// # Transitions
//
//	Draw  - emit the current frame
//	Step  - next frame, wrapping to 0
//	Back  - previous frame, wrapping to the last
//	Play  - restart at 0 and advance every delay until the last frame
//	Pause - stop autoplay, keep the cursor
//	Seek  - jump to a clamped index
//
// Every transition other than Draw cancels a pending advance first, so at
// most one timer is ever armed. Timers come from a [Scheduler]; production
// code uses [WallClock] and tests substitute a manual one.
package playback
