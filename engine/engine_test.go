package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeWindow stays open for a fixed number of event pumps.
type fakeWindow struct {
	loops     int
	processed int
	width     int
	height    int

	// resizeAt fires the resize callback from the given pump with resizeTo
	resizeAt int
	resizeTo [2]int
	// pressAt latches a key press during the given pump
	pressAt  int
	pressKey common.Key

	pressed  map[common.Key]bool
	onResize func(width, height int)
}

func newFakeWindow(loops int) *fakeWindow {
	return &fakeWindow{loops: loops, width: 800, height: 600, resizeAt: -1, pressAt: -1, pressed: map[common.Key]bool{}}
}

func (w *fakeWindow) IsRunning() bool { return w.processed < w.loops }

func (w *fakeWindow) ProcessMessages() {
	if w.processed == w.resizeAt && w.onResize != nil {
		w.width, w.height = w.resizeTo[0], w.resizeTo[1]
		w.onResize(w.width, w.height)
	}
	if w.processed == w.pressAt {
		w.pressed[w.pressKey] = true
	}
	w.processed++
}

func (w *fakeWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }

func (w *fakeWindow) KeyDown(key common.Key) bool { return false }

func (w *fakeWindow) KeyPressed(key common.Key) bool {
	p := w.pressed[key]
	delete(w.pressed, key)
	return p
}

func (w *fakeWindow) CursorPosition() (float64, float64) { return 0, 0 }

// fakeRenderer fails BeginFrame with the queued errors, one per frame, then succeeds.
type fakeRenderer struct {
	beginErrs []error
	begins    int
	ends      int
	presents  int
	resizes   [][2]int
}

func (r *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (r *fakeRenderer) InitInstanceBuffer(bind_group_provider.BindGroupProvider, int, int) error {
	return nil
}

func (r *fakeRenderer) WriteInstanceBuffer(bind_group_provider.BindGroupProvider, []byte, int) error {
	return nil
}

func (r *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (r *fakeRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, bind_group_provider.BindGroupProvider, int, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (r *fakeRenderer) BeginFrame() error {
	r.begins++
	if len(r.beginErrs) > 0 {
		err := r.beginErrs[0]
		r.beginErrs = r.beginErrs[1:]
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRenderer) EndFrame() error {
	r.ends++
	return nil
}

func (r *fakeRenderer) Present() { r.presents++ }

func (r *fakeRenderer) Resize(width, height int) error {
	r.resizes = append(r.resizes, [2]int{width, height})
	return nil
}

// fakeClock runs a fixed number of updates per loop.
type fakeClock struct {
	perLoop int
	pending int
}

func (c *fakeClock) BeginLoop() { c.pending = c.perLoop }
func (c *fakeClock) ShouldUpdate() bool { return c.pending > 0 }
func (c *fakeClock) Update() { c.pending-- }
func (c *fakeClock) BlendFactor() float64 { return 0 }
func (c *fakeClock) TickRate() time.Duration { return 16666666 * time.Nanosecond }

// fakeScene counts draws and texture cycles.
type fakeScene struct {
	scene.Scene
	draws   int
	cycles  int
	drawErr error
}

func (s *fakeScene) Draw(r scene.Renderer, cam camera.Camera) error {
	s.draws++
	return s.drawErr
}

func (s *fakeScene) CycleTexture() int {
	s.cycles++
	return s.cycles
}

type rig struct {
	window   *fakeWindow
	renderer *fakeRenderer
	scene    *fakeScene
	camera   camera.Camera
	engine   Engine
}

func newRig(t *testing.T, loops int, options ...EngineBuilderOption) *rig {
	t.Helper()
	rg := &rig{
		window:   newFakeWindow(loops),
		renderer: &fakeRenderer{},
		scene:    &fakeScene{},
		camera:   camera.NewCamera(),
	}
	opts := append([]EngineBuilderOption{
		WithWindow(rg.window),
		WithRenderer(rg.renderer),
		WithScene(rg.scene),
		WithCamera(rg.camera),
		WithClock(&fakeClock{perLoop: 2}),
	}, options...)
	e, err := NewEngine(opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	rg.engine = e
	return rg
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	w := newFakeWindow(1)
	r := &fakeRenderer{}
	s := &fakeScene{}
	c := camera.NewCamera()

	tests := []struct {
		name    string
		options []EngineBuilderOption
	}{
		{"no window", []EngineBuilderOption{WithRenderer(r), WithScene(s), WithCamera(c)}},
		{"no renderer", []EngineBuilderOption{WithWindow(w), WithScene(s), WithCamera(c)}},
		{"no camera", []EngineBuilderOption{WithWindow(w), WithRenderer(r), WithScene(s)}},
		{"no scene", []EngineBuilderOption{WithWindow(w), WithRenderer(r), WithCamera(c)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.options...); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestNewEngineSetsAspect(t *testing.T) {
	rg := newRig(t, 0)
	if got := rg.camera.Aspect(); got != float32(800)/600 {
		t.Errorf("aspect: expected %v, got %v", float32(800)/600, got)
	}
}

func TestRunUntilWindowCloses(t *testing.T) {
	rg := newRig(t, 3)
	if err := rg.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rg.engine.Ticks(); got != 6 {
		t.Errorf("ticks: expected 6, got %d", got)
	}
	if got := rg.engine.Frames(); got != 3 {
		t.Errorf("frames: expected 3, got %d", got)
	}
	if rg.scene.draws != 3 || rg.renderer.ends != 3 || rg.renderer.presents != 3 {
		t.Errorf("frame lifecycle: expected 3 draws/ends/presents, got %d/%d/%d",
			rg.scene.draws, rg.renderer.ends, rg.renderer.presents)
	}
}

func TestResizeCallback(t *testing.T) {
	rg := newRig(t, 2)
	rg.window.resizeAt = 1
	rg.window.resizeTo = [2]int{1024, 512}
	if err := rg.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rg.renderer.resizes) != 1 || rg.renderer.resizes[0] != [2]int{1024, 512} {
		t.Errorf("resizes: expected [[1024 512]], got %v", rg.renderer.resizes)
	}
	if got := rg.camera.Aspect(); got != 2 {
		t.Errorf("aspect: expected 2, got %v", got)
	}
}

func TestResizeIgnoresMinimized(t *testing.T) {
	rg := newRig(t, 1)
	rg.window.resizeAt = 0
	rg.window.resizeTo = [2]int{0, 0}
	if err := rg.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rg.renderer.resizes) != 0 {
		t.Errorf("resizes: expected none for a minimized window, got %v", rg.renderer.resizes)
	}
}

func TestSurfaceErrors(t *testing.T) {
	surface := func(status renderer.SurfaceStatus) error {
		return &renderer.SurfaceError{Status: status, Err: errors.New(status.String())}
	}
	other := errors.New("device gone sideways")

	tests := []struct {
		name        string
		err         error
		wantErr     error
		wantFrames  uint64
		wantBegins  int
		wantResizes int
	}{
		{"lost reconfigures", surface(renderer.SurfaceStatusLost), nil, 2, 3, 1},
		{"outdated reconfigures", surface(renderer.SurfaceStatusOutdated), nil, 2, 3, 1},
		{"unknown reconfigures", surface(renderer.SurfaceStatusUnknown), nil, 2, 3, 1},
		{"timeout skips", surface(renderer.SurfaceStatusTimeout), nil, 2, 3, 0},
		{"out of memory stops", surface(renderer.SurfaceStatusOutOfMemory), nil, 0, 1, 0},
		{"device lost stops", surface(renderer.SurfaceStatusDeviceLost), nil, 0, 1, 0},
		{"other error is returned", other, other, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := newRig(t, 3)
			rg.renderer.beginErrs = []error{tt.err}

			err := rg.engine.Run()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err: expected %v, got %v", tt.wantErr, err)
			}
			if got := rg.engine.Frames(); got != tt.wantFrames {
				t.Errorf("frames: expected %d, got %d", tt.wantFrames, got)
			}
			if rg.renderer.begins != tt.wantBegins {
				t.Errorf("begins: expected %d, got %d", tt.wantBegins, rg.renderer.begins)
			}
			if len(rg.renderer.resizes) != tt.wantResizes {
				t.Errorf("resizes: expected %d, got %v", tt.wantResizes, rg.renderer.resizes)
			}
			if tt.wantResizes > 0 && rg.renderer.resizes[0] != [2]int{800, 600} {
				t.Errorf("resize: expected framebuffer size 800x600, got %v", rg.renderer.resizes[0])
			}
		})
	}
}

func TestFatalSurfaceErrorLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		status renderer.SurfaceStatus
		want   string
	}{
		{renderer.SurfaceStatusOutOfMemory, "surface out of memory, exiting"},
		{renderer.SurfaceStatusDeviceLost, "surface device lost, exiting"},
	}
	for _, tt := range tests {
		buf.Reset()
		rg := newRig(t, 3)
		rg.renderer.beginErrs = []error{&renderer.SurfaceError{Status: tt.status, Err: errors.New("fatal")}}
		if err := rg.engine.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, tt.want) {
			t.Errorf("%v: expected log %q, got %q", tt.status, tt.want, out)
		}
		if tt.status == renderer.SurfaceStatusDeviceLost && strings.Contains(out, "out of memory") {
			t.Errorf("device lost: logged as out of memory: %q", out)
		}
	}
}

func TestDrawErrorEndsFrame(t *testing.T) {
	rg := newRig(t, 3)
	rg.scene.drawErr = errors.New("draw failed")
	err := rg.engine.Run()
	if !errors.Is(err, rg.scene.drawErr) {
		t.Fatalf("err: expected draw failed, got %v", err)
	}
	if rg.renderer.ends != 1 || rg.renderer.presents != 0 {
		t.Errorf("expected the pass to end without presenting, got %d ends %d presents",
			rg.renderer.ends, rg.renderer.presents)
	}
}

func TestCycleTextureCommand(t *testing.T) {
	rg := newRig(t, 3)
	rg.window.pressAt = 1
	rg.window.pressKey = common.KeyT
	if err := rg.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rg.scene.cycles != 1 {
		t.Errorf("cycles: expected exactly one per press, got %d", rg.scene.cycles)
	}
}

func TestCameraModeCommands(t *testing.T) {
	rg := newRig(t, 1)
	rg.window.pressAt = 0
	rg.window.pressKey = common.KeyF8
	if err := rg.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rg.camera.Mode(); got != camera.ModeFlying {
		t.Errorf("mode: expected flying, got %v", got)
	}
}

func TestQuit(t *testing.T) {
	var e Engine
	rg := newRig(t, 100, WithTickCallback(func(tick uint64) {
		if tick == 3 {
			e.Quit()
		}
	}))
	e = rg.engine

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// the loop finishes the iteration that quit: 2 ticks per loop, so loop 2 renders and exits
	if got := e.Frames(); got != 2 {
		t.Errorf("frames: expected 2, got %d", got)
	}
	e.Quit()
}

func TestProfilerTicksPerFrame(t *testing.T) {
	rg := newRig(t, 2, WithProfiling(true))
	if err := rg.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	rg.engine.DisableProfiler()
	rg.engine.EnableProfiler()
	if rg.engine.Frames() != 2 {
		t.Errorf("frames: expected 2, got %d", rg.engine.Frames())
	}
}
