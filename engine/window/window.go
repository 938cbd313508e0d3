package window

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrRawMouseMotionUnsupported is returned by NewWindow when the platform cannot deliver
// unaccelerated mouse motion, which the camera's look controls depend on.
var ErrRawMouseMotionUnsupported = errors.New("raw mouse motion unsupported")

// Window provides the platform window, polled keyboard state and a captured cursor.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages polls pending window events once without blocking. Resize callbacks
	// run from inside this call.
	ProcessMessages()

	// FramebufferSize returns the framebuffer size in pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (int, int)

	// KeyDown reports whether key is held (pressed or repeating).
	//
	// Parameters:
	//   - key: the key to query
	//
	// Returns:
	//   - bool: true while the key is down
	KeyDown(key common.Key) bool

	// KeyPressed reports a fresh press of key. Each press is reported once, so a command bound
	// to the key fires once per press regardless of how many times it is polled.
	//
	// Parameters:
	//   - key: the key to query
	//
	// Returns:
	//   - bool: true if the key was pressed since the last query
	KeyPressed(key common.Key) bool

	// CursorPosition returns the cursor position relative to the framebuffer size.
	//
	// Returns:
	//   - float64: x divided by the framebuffer width
	//   - float64: y divided by the framebuffer height
	CursorPosition() (float64, float64)
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title     string
	width     int
	height    int
	resizable bool

	// rawMouse requests unaccelerated cursor motion; creation fails without it.
	rawMouse bool

	keys *keyStates

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with a disabled (captured) cursor.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: ErrRawMouseMotionUnsupported, or an error if GLFW could not create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-walk",
		width:     800,
		height:    600,
		resizable: true,
		rawMouse:  true,
		keys:      newKeyStates(),
	}
	for _, opt := range options {
		opt(w)
	}
	if w.width <= 0 || w.height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", w.width, w.height)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	platformProcessMessages(w)
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) KeyDown(key common.Key) bool {
	return w.keys.down(key)
}

func (w *engineWindow) KeyPressed(key common.Key) bool {
	return w.keys.consumePress(key)
}

func (w *engineWindow) CursorPosition() (float64, float64) {
	x, y := platformCursorPos(w)
	return relativeCursor(x, y, w.width, w.height)
}

// relativeCursor divides a cursor position by the framebuffer size. A zero-sized framebuffer
// yields the origin.
func relativeCursor(x, y float64, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return x / float64(width), y / float64(height)
}
