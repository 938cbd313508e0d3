package engine

import (
	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/input"
	"github.com/Carmen-Shannon/oxy-walk/engine/profiler"
	"github.com/Carmen-Shannon/oxy-walk/engine/scene"
	"github.com/Carmen-Shannon/oxy-walk/engine/timestep"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window whose events the loop pumps and whose keys drive input.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer frames are drawn with.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithClock sets the fixed-timestep clock.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c timestep.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithInput sets the input sampler.
//
// Parameters:
//   - in: the input
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInput(in input.Input) EngineBuilderOption {
	return func(e *engine) {
		e.input = in
	}
}

// WithCamera sets the camera the input steers.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithScene sets the scene drawn every frame. It must already be initialized.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithProfiling enables or disables the per-frame profiler.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickCallback registers a function called after every fixed update with the tick count.
//
// Parameters:
//   - callback: the function to call
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(tick uint64)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}
