package engine

import (
	"errors"
	"fmt"
)

// ErrListenerUnavailable is returned by an EventSource that cannot observe a signal
// The controller keeps running with its initial configuration
var ErrListenerUnavailable = errors.New("engine: listener unavailable")

// SurfaceUnavailableError reports a zero-area drawing surface
// The operation is retried on the next tick or resize
type SurfaceUnavailableError struct {
	Op     string
	Width  int
	Height int
}

func (e *SurfaceUnavailableError) Error() string {
	return fmt.Sprintf("engine: %s: surface unavailable (%dx%d)", e.Op, e.Width, e.Height)
}
