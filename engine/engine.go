package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/input"
	"github.com/Carmen-Shannon/oxy-walk/engine/profiler"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer"
	"github.com/Carmen-Shannon/oxy-walk/engine/scene"
	"github.com/Carmen-Shannon/oxy-walk/engine/timestep"
)

// Window is the part of the platform window the loop drives. window.Window satisfies it.
type Window interface {
	input.KeySource
	IsRunning() bool
	ProcessMessages()
	FramebufferSize() (int, int)
	SetResizeCallback(callback func(width, height int))
}

// Renderer is the part of the renderer the loop drives. renderer.Renderer satisfies it.
type Renderer interface {
	scene.Renderer
	BeginFrame() error
	EndFrame() error
	Present()
	Resize(width, height int) error
}

// engine implements the Engine interface.
// Everything runs on the calling goroutine, which must be the locked main OS thread.
type engine struct {
	window   Window
	renderer Renderer
	clock    timestep.Clock
	input    input.Input
	camera   camera.Camera
	scene    scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	tickCallback func(tick uint64)

	ticks  uint64
	frames uint64

	quit     atomic.Bool
	runMu    sync.Mutex
	quitOnce sync.Once
}

// Engine owns the main loop: pump window events, run fixed updates from the accumulated time,
// draw one frame and react to surface errors.
type Engine interface {
	// Run blocks until the window closes, Quit is called or the surface runs out of memory.
	//
	// Returns:
	//   - error: nil on a normal exit, otherwise the first frame error that is not a surface
	//     error
	Run() error

	// Quit asks the loop to stop after the current iteration.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// EnableProfiler turns on the per-frame profiler.
	EnableProfiler()

	// DisableProfiler turns off the per-frame profiler.
	DisableProfiler()

	// Scene returns the scene being drawn.
	Scene() scene.Scene

	// Camera returns the camera the scene is seen through.
	Camera() camera.Camera

	// Ticks returns how many fixed updates have run.
	Ticks() uint64

	// Frames returns how many frames have been presented.
	Frames() uint64
}

var _ Engine = &engine{}

// NewEngine wires the loop's collaborators together and registers the framebuffer resize
// callback. A window, renderer, camera and scene are required; the clock and input default to
// timestep.NewClock() and input.NewInput().
//
// Parameters:
//   - options: functional options supplying the loop's collaborators
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if a required collaborator is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{}
	for _, opt := range options {
		opt(e)
	}

	switch {
	case e.window == nil:
		return nil, errors.New("engine: window is required")
	case e.renderer == nil:
		return nil, errors.New("engine: renderer is required")
	case e.camera == nil:
		return nil, errors.New("engine: camera is required")
	case e.scene == nil:
		return nil, errors.New("engine: scene is required")
	}
	if e.clock == nil {
		e.clock = timestep.NewClock()
	}
	if e.input == nil {
		e.input = input.NewInput()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	e.window.SetResizeCallback(e.resize)
	e.camera.Resize(e.window.FramebufferSize())
	return e, nil
}

func (e *engine) Run() error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	slog.Info("main loop started", "tick_rate", e.clock.TickRate())
	defer func() {
		slog.Info("main loop stopped", "ticks", e.ticks, "frames", e.frames)
	}()

	for e.window.IsRunning() && !e.quit.Load() {
		e.clock.BeginLoop()
		e.window.ProcessMessages()

		for e.clock.ShouldUpdate() {
			e.update()
			e.clock.Update()
		}

		stop, err := e.handleFrame(e.render())
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.quit.Store(true)
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Ticks() uint64 {
	return e.ticks
}

func (e *engine) Frames() uint64 {
	return e.frames
}

// update runs one fixed tick: sample input, apply commands and move the camera.
func (e *engine) update() {
	e.input.Update(e.window)
	if e.input.CycleTexture() {
		idx := e.scene.CycleTexture()
		slog.Info("texture set changed", "index", idx)
	}
	e.camera.Update(e.input)
	e.ticks++
	if e.tickCallback != nil {
		e.tickCallback(e.ticks)
	}
}

// render draws and presents one frame. The render pass is always ended once it has begun.
func (e *engine) render() error {
	if err := e.renderer.BeginFrame(); err != nil {
		return err
	}
	drawErr := e.scene.Draw(e.renderer, e.camera)
	endErr := e.renderer.EndFrame()
	if drawErr != nil {
		return drawErr
	}
	if endErr != nil {
		return fmt.Errorf("failed to end frame: %w", endErr)
	}
	e.renderer.Present()

	e.frames++
	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
	return nil
}

// handleFrame reacts to the outcome of render.
//
// Returns:
//   - bool: true if the loop must stop
//   - error: an error that is not a surface error
func (e *engine) handleFrame(err error) (bool, error) {
	if err == nil {
		return false, nil
	}

	var surfaceErr *renderer.SurfaceError
	if !errors.As(err, &surfaceErr) {
		return true, err
	}

	switch surfaceErr.Outcome() {
	case renderer.FrameOutcomeFatal:
		slog.Error("surface "+surfaceErr.Status.String()+", exiting", "err", surfaceErr.Err)
		return true, nil
	case renderer.FrameOutcomeSkip:
		slog.Warn("surface timeout", "err", surfaceErr.Err)
	default:
		slog.Debug("surface needs reconfiguring", "status", surfaceErr.Status.String())
		e.resize(e.window.FramebufferSize())
	}
	return false, nil
}

// resize reconfigures the surface and the camera aspect. A zero size (minimized window) is
// ignored until the window is restored.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := e.renderer.Resize(width, height); err != nil {
		slog.Error("failed to resize surface", "width", width, "height", height, "err", err)
		return
	}
	e.camera.Resize(width, height)
}
