package renderer

import (
	"fmt"
	"strings"
)

// SurfaceStatus is the reason the surface refused to hand out a texture.
type SurfaceStatus int

const (
	SurfaceStatusUnknown SurfaceStatus = iota
	SurfaceStatusLost
	SurfaceStatusOutdated
	SurfaceStatusOutOfMemory
	SurfaceStatusTimeout
	SurfaceStatusDeviceLost
)

func (s SurfaceStatus) String() string {
	switch s {
	case SurfaceStatusLost:
		return "lost"
	case SurfaceStatusOutdated:
		return "outdated"
	case SurfaceStatusOutOfMemory:
		return "out of memory"
	case SurfaceStatusTimeout:
		return "timeout"
	case SurfaceStatusDeviceLost:
		return "device lost"
	}
	return "unknown"
}

// FrameOutcome is what the main loop does about a failed frame.
type FrameOutcome int

const (
	// FrameOutcomeResize reconfigures the surface to the current framebuffer size; the next
	// frame retries.
	FrameOutcomeResize FrameOutcome = iota

	// FrameOutcomeFatal stops the main loop.
	FrameOutcomeFatal

	// FrameOutcomeSkip drops the frame and continues.
	FrameOutcomeSkip
)

// SurfaceError is returned by BeginFrame when the surface texture could not be acquired.
type SurfaceError struct {
	Status SurfaceStatus
	Err    error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface texture unavailable (%s): %v", e.Status, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// Outcome maps the status to the main loop's reaction. Lost, outdated and unrecognised
// surfaces are reconfigured; out of memory and a lost device end the loop; a timeout skips
// the frame.
func (e *SurfaceError) Outcome() FrameOutcome {
	switch e.Status {
	case SurfaceStatusOutOfMemory, SurfaceStatusDeviceLost:
		return FrameOutcomeFatal
	case SurfaceStatusTimeout:
		return FrameOutcomeSkip
	}
	return FrameOutcomeResize
}

// newSurfaceError wraps a surface acquisition failure, classifying it from the error text
// reported by the native layer ("Lost", "Outdated", "OutOfMemory", "out_of_memory", ...).
func newSurfaceError(err error) *SurfaceError {
	return &SurfaceError{Status: classifySurfaceStatus(err), Err: err}
}

func classifySurfaceStatus(err error) SurfaceStatus {
	if err == nil {
		return SurfaceStatusUnknown
	}
	msg := strings.ToLower(err.Error())
	msg = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(msg)

	// device lost before lost: "devicelost" contains "lost"
	switch {
	case strings.Contains(msg, "devicelost"):
		return SurfaceStatusDeviceLost
	case strings.Contains(msg, "outofmemory"):
		return SurfaceStatusOutOfMemory
	case strings.Contains(msg, "timeout"):
		return SurfaceStatusTimeout
	case strings.Contains(msg, "outdated"):
		return SurfaceStatusOutdated
	case strings.Contains(msg, "lost"):
		return SurfaceStatusLost
	}
	return SurfaceStatusUnknown
}
