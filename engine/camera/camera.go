package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects how movement follows the view direction.
type Mode int

const (
	// ModeFPS keeps movement on the horizontal plane.
	ModeFPS Mode = iota

	// ModeFlying moves along the full view direction.
	ModeFlying
)

func (m Mode) String() string {
	if m == ModeFlying {
		return "flying"
	}
	return "fps"
}

const (
	DefaultFov       = 50.0 * math.Pi / 180.0
	DefaultNear      = 0.1
	DefaultFar       = 100.0
	DefaultMoveSpeed = 0.01
	DefaultLookSpeed = 0.5
	DefaultMaxPitch  = 89.0 * math.Pi / 180.0
)

// Controls is the per-tick input the camera consumes.
type Controls interface {
	Movement() mgl32.Vec3
	MouseDiff() mgl32.Vec2
	FlyingCamera() bool
	FPSCamera() bool
}

type cameraImpl struct {
	mu *sync.Mutex

	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3
	mode      Mode

	fov    float32
	aspect float32
	near   float32
	far    float32

	moveSpeed float32
	lookSpeed float32
	maxPitch  float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a first-person camera driven by relative mouse motion and a movement vector.
// The view direction is always unit length and its elevation never exceeds MaxPitch.
type Camera interface {
	// Position returns the eye position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the unit view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// Mode returns the current movement mode.
	//
	// Returns:
	//   - Mode: ModeFPS or ModeFlying
	Mode() Mode

	// SetMode switches the movement mode.
	//
	// Parameters:
	//   - mode: the new mode
	SetMode(mode Mode)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Resize sets the aspect ratio from a framebuffer size. A zero height is ignored.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height int)

	// Update applies one tick of look and movement input, then any mode command.
	//
	// Parameters:
	//   - controls: the tick's input snapshot
	Update(controls Controls)

	// BuildMatrix returns projection * view as a column-major 4x4 matrix, with a left-handed
	// view and [0, 1] clip depth.
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	BuildMatrix() [16]float32

	// Uniform returns the GPU camera uniform for the current state.
	//
	// Returns:
	//   - GPUCameraUniform: eye position and view-projection matrix
	Uniform() GPUCameraUniform

	// BindGroupProvider returns the provider holding the camera uniform buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, -1.5) looking down +Z in FPS mode.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:        &sync.Mutex{},
		position:  mgl32.Vec3{0, 0, -1.5},
		direction: mgl32.Vec3{0, 0, 1},
		up:        mgl32.Vec3{0, 1, 0},
		mode:      ModeFPS,
		fov:       DefaultFov,
		aspect:    1.0,
		near:      DefaultNear,
		far:       DefaultFar,
		moveSpeed: DefaultMoveSpeed,
		lookSpeed: DefaultLookSpeed,
		maxPitch:  DefaultMaxPitch,
	}
	for _, option := range options {
		option(c)
	}
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider("camera")
	}

	c.direction = common.NormalizeOrZero(c.direction)
	if c.direction == (mgl32.Vec3{}) {
		c.direction = mgl32.Vec3{0, 0, 1}
	}
	c.direction = c.clampPitch(c.direction, mgl32.Vec3{0, 0, 1})
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *cameraImpl) SetMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = float32(width) / float32(height)
}

func (c *cameraImpl) Update(controls Controls) {
	c.mu.Lock()
	defer c.mu.Unlock()

	diff := controls.MouseDiff().Mul(c.lookSpeed)

	// yaw turns about world up; pitch about the camera's right axis so looking sideways
	// never rolls the view
	right := common.NormalizeOrZero(c.up.Cross(c.direction))
	if right == (mgl32.Vec3{}) {
		right = mgl32.Vec3{1, 0, 0}
	}
	// limit the turn before rotating; a large step would otherwise carry the view over the
	// pole and flip the heading
	current := float32(math.Asin(float64(common.Clamp(c.direction.Y(), -1, 1))))
	lift := common.Clamp(current+diff.Y(), -c.maxPitch, c.maxPitch) - current
	pitch := mgl32.QuatRotate(-lift, right)
	yaw := mgl32.QuatRotate(diff.X(), c.up)
	dir := common.NormalizeOrZero(pitch.Mul(yaw).Rotate(c.direction))
	if dir == (mgl32.Vec3{}) {
		dir = c.direction
	}
	c.direction = c.clampPitch(dir, c.direction)

	mov := controls.Movement()
	mdir := c.direction
	if c.mode == ModeFPS {
		mdir = mgl32.Vec3{mdir.X(), 0, mdir.Z()}
	}
	step := mdir.Mul(mov.Z()).Add(c.up.Cross(mdir).Mul(mov.X()))
	c.position = c.position.Add(common.NormalizeOrZero(step).Mul(c.moveSpeed))

	if controls.FlyingCamera() {
		c.mode = ModeFlying
	}
	if controls.FPSCamera() {
		c.mode = ModeFPS
	}
}

func (c *cameraImpl) BuildMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildMatrix()
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		Position: [4]float32{c.position.X(), c.position.Y(), c.position.Z(), 1},
		ViewProj: c.buildMatrix(),
	}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

// buildMatrix computes projection * view. Caller must hold the mutex.
func (c *cameraImpl) buildMatrix() [16]float32 {
	var view, proj, out [16]float32
	common.LookToLH(view[:], c.position, c.direction, c.up)
	common.PerspectiveLH(proj[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(out[:], proj[:], view[:])
	return out
}

// clampPitch limits the elevation of dir to ±maxPitch and returns it re-normalized. fallback
// supplies the heading when dir is vertical.
func (c *cameraImpl) clampPitch(dir, fallback mgl32.Vec3) mgl32.Vec3 {
	elevation := float32(math.Asin(float64(common.Clamp(dir.Y(), -1, 1))))
	if math.Abs(float64(elevation)) <= float64(c.maxPitch) {
		return dir
	}

	heading := common.NormalizeOrZero(mgl32.Vec3{dir.X(), 0, dir.Z()})
	if heading == (mgl32.Vec3{}) {
		heading = common.NormalizeOrZero(mgl32.Vec3{fallback.X(), 0, fallback.Z()})
	}
	if heading == (mgl32.Vec3{}) {
		heading = mgl32.Vec3{0, 0, 1}
	}

	limit := common.Clamp(elevation, -c.maxPitch, c.maxPitch)
	sin, cos := math.Sincos(float64(limit))
	return heading.Mul(float32(cos)).Add(c.up.Mul(float32(sin))).Normalize()
}
