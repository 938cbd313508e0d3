package renderer

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifySurfaceStatus(t *testing.T) {
	tests := []struct {
		msg  string
		want SurfaceStatus
	}{
		{"Lost", SurfaceStatusLost},
		{"surface lost", SurfaceStatusLost},
		{"Outdated", SurfaceStatusOutdated},
		{"OutOfMemory", SurfaceStatusOutOfMemory},
		{"out_of_memory", SurfaceStatusOutOfMemory},
		{"Out of memory", SurfaceStatusOutOfMemory},
		{"Timeout", SurfaceStatusTimeout},
		{"DeviceLost", SurfaceStatusDeviceLost},
		{"device lost", SurfaceStatusDeviceLost},
		{"something else", SurfaceStatusUnknown},
	}
	for _, tt := range tests {
		if got := classifySurfaceStatus(errors.New(tt.msg)); got != tt.want {
			t.Errorf("classify %q: expected %v, got %v", tt.msg, tt.want, got)
		}
	}

	if got := classifySurfaceStatus(nil); got != SurfaceStatusUnknown {
		t.Errorf("classify nil: expected unknown, got %v", got)
	}
}

func TestSurfaceErrorOutcome(t *testing.T) {
	tests := []struct {
		status SurfaceStatus
		want   FrameOutcome
	}{
		{SurfaceStatusLost, FrameOutcomeResize},
		{SurfaceStatusOutdated, FrameOutcomeResize},
		{SurfaceStatusUnknown, FrameOutcomeResize},
		{SurfaceStatusOutOfMemory, FrameOutcomeFatal},
		{SurfaceStatusDeviceLost, FrameOutcomeFatal},
		{SurfaceStatusTimeout, FrameOutcomeSkip},
	}
	for _, tt := range tests {
		e := &SurfaceError{Status: tt.status}
		if got := e.Outcome(); got != tt.want {
			t.Errorf("outcome %v: expected %v, got %v", tt.status, tt.want, got)
		}
	}
}

func TestSurfaceErrorWrapping(t *testing.T) {
	cause := errors.New("Timeout")
	err := fmt.Errorf("render: %w", newSurfaceError(cause))

	var se *SurfaceError
	if !errors.As(err, &se) {
		t.Fatalf("errors.As: expected a *SurfaceError in %v", err)
	}
	if se.Status != SurfaceStatusTimeout {
		t.Errorf("status: expected timeout, got %v", se.Status)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is: expected the cause to be reachable")
	}
}
