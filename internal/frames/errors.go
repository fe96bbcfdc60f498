package frames

import (
	"errors"
	"fmt"
)

// Domain errors for test data.
var (
	// ErrUnknownTest indicates a name that is not bound in the library.
	ErrUnknownTest = errors.New("frames: unknown test")

	// ErrUnknownRole indicates a role other than actual or predicted.
	ErrUnknownRole = errors.New("frames: unknown role")

	// ErrEmptySequence indicates a test with no playable frames.
	ErrEmptySequence = errors.New("frames: empty sequence")

	// ErrInvalidFrame indicates a frame holding NaN or Inf cells.
	ErrInvalidFrame = errors.New("frames: invalid frame (NaN or Inf detected)")
)

// FrameError wraps an error with the index of the offending frame.
type FrameError struct {
	Index   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

// LoadError wraps an error with the asset that failed to load.
type LoadError struct {
	Test    string
	Role    Role
	Path    string
	Wrapped error
}

func (e *LoadError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("load %s (%s): %v", e.Test, e.Path, e.Wrapped)
	}
	return fmt.Sprintf("load %s/%s (%s): %v", e.Test, e.Role, e.Path, e.Wrapped)
}

func (e *LoadError) Unwrap() error {
	return e.Wrapped
}
