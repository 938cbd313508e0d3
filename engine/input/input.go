package input

import (
	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Command is a set of one-shot actions requested during a tick.
type Command uint8

const (
	CommandFlyingCamera Command = 1 << iota
	CommandFPSCamera
	CommandCycleTexture
)

// Has reports whether every bit of flag is set in c.
func (c Command) Has(flag Command) bool {
	return c&flag == flag
}

// KeySource is the polled keyboard and cursor state the snapshot is built from.
type KeySource interface {
	KeyDown(key common.Key) bool
	KeyPressed(key common.Key) bool
	CursorPosition() (float64, float64)
}

// Bindings maps movement and commands to keys.
type Bindings struct {
	Forward      common.Key
	Back         common.Key
	Left         common.Key
	Right        common.Key
	FlyingCamera common.Key
	FPSCamera    common.Key
	CycleTexture common.Key
}

// DefaultBindings returns WASD movement, F8 flying camera, F9 FPS camera and T to cycle textures.
func DefaultBindings() Bindings {
	return Bindings{
		Forward:      common.KeyW,
		Back:         common.KeyS,
		Left:         common.KeyA,
		Right:        common.KeyD,
		FlyingCamera: common.KeyF8,
		FPSCamera:    common.KeyF9,
		CycleTexture: common.KeyT,
	}
}

// input is the implementation of the Input interface.
type input struct {
	bindings Bindings

	movement mgl32.Vec3
	position mgl32.Vec2
	lastPos  mgl32.Vec2
	primed   bool
	commands Command
}

// Input is a per-tick snapshot of the player's intent: a movement direction, the mouse
// motion since the previous tick, and the commands pressed.
type Input interface {
	// Update refreshes the snapshot from src. Commands from the previous tick are cleared.
	//
	// Parameters:
	//   - src: the key and cursor source, usually the window
	Update(src KeySource)

	// Movement returns the unit movement direction in camera space (+z forward, +x right),
	// or the zero vector when no movement key is held or opposing keys cancel.
	//
	// Returns:
	//   - mgl32.Vec3: the movement direction
	Movement() mgl32.Vec3

	// MousePosition returns the relative cursor position with +y up.
	//
	// Returns:
	//   - mgl32.Vec2: the position
	MousePosition() mgl32.Vec2

	// MouseDiff returns the cursor motion since the previous tick with +y up.
	//
	// Returns:
	//   - mgl32.Vec2: the motion
	MouseDiff() mgl32.Vec2

	// Commands returns the command flags of this tick.
	//
	// Returns:
	//   - Command: the flags
	Commands() Command

	// FlyingCamera reports whether the flying camera key was pressed this tick.
	//
	// Returns:
	//   - bool: true if CommandFlyingCamera is set
	FlyingCamera() bool

	// FPSCamera reports whether the FPS camera key was pressed this tick.
	//
	// Returns:
	//   - bool: true if CommandFPSCamera is set
	FPSCamera() bool

	// CycleTexture reports whether the texture cycling key was pressed this tick. A held key
	// counts once.
	//
	// Returns:
	//   - bool: true if CommandCycleTexture is set
	CycleTexture() bool
}

var _ Input = &input{}

// NewInput creates an empty snapshot using the default bindings unless overridden.
//
// Parameters:
//   - opts: a variadic list of InputBuilderOption functions
//
// Returns:
//   - Input: the snapshot
func NewInput(opts ...InputBuilderOption) Input {
	in := &input{bindings: DefaultBindings()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *input) Update(src KeySource) {
	b := in.bindings
	in.movement = common.NormalizeOrZero(mgl32.Vec3{
		keyAxis(src, b.Right, b.Left),
		0,
		keyAxis(src, b.Forward, b.Back),
	})

	x, y := src.CursorPosition()
	pos := mgl32.Vec2{float32(x), -float32(y)}
	if !in.primed {
		// the first sample has nothing to diff against
		in.lastPos = pos
		in.primed = true
	} else {
		in.lastPos = in.position
	}
	in.position = pos

	in.commands = 0
	if src.KeyPressed(b.FlyingCamera) {
		in.commands |= CommandFlyingCamera
	}
	if src.KeyPressed(b.FPSCamera) {
		in.commands |= CommandFPSCamera
	}
	if src.KeyPressed(b.CycleTexture) {
		in.commands |= CommandCycleTexture
	}
}

func (in *input) Movement() mgl32.Vec3 {
	return in.movement
}

func (in *input) MousePosition() mgl32.Vec2 {
	return in.position
}

func (in *input) MouseDiff() mgl32.Vec2 {
	return in.position.Sub(in.lastPos)
}

func (in *input) Commands() Command {
	return in.commands
}

func (in *input) FlyingCamera() bool {
	return in.commands.Has(CommandFlyingCamera)
}

func (in *input) FPSCamera() bool {
	return in.commands.Has(CommandFPSCamera)
}

func (in *input) CycleTexture() bool {
	return in.commands.Has(CommandCycleTexture)
}

func keyAxis(src KeySource, positive, negative common.Key) float32 {
	return common.BoolToFloat(src.KeyDown(positive)) - common.BoolToFloat(src.KeyDown(negative))
}
