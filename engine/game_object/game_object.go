package game_object

import (
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id      uint64
	enabled atomic.Bool

	position  [3]float32
	rotationY float32
	scale     [3]float32
}

// GameObject is one placement of the scene's model. Its transform is static: a translation,
// a rotation about the Y axis and a per-axis scale, applied as T * Ry * S.
type GameObject interface {
	// ID returns the object's identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this object is drawn.
	//
	// Parameters:
	//   - enabled: true to draw the object
	SetEnabled(enabled bool)

	// Position returns the world-space translation.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// RotationY returns the rotation about the Y axis in radians.
	//
	// Returns:
	//   - float32: the angle in radians
	RotationY() float32

	// Scale returns the per-axis scale factors.
	//
	// Returns:
	//   - [3]float32: scale as (x, y, z)
	Scale() [3]float32

	// ModelMatrix composes the column-major model matrix.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// Instance returns the per-instance GPU data: the model matrix and its normal matrix.
	//
	// Returns:
	//   - model.GPUInstance: the instance
	Instance() model.GPUInstance

	// BoundingSphere returns the world-space bounding sphere for a model of the given
	// object-space radius.
	//
	// Parameters:
	//   - radius: object-space bounding radius
	//
	// Returns:
	//   - mgl32.Vec3: sphere center
	//   - float32: sphere radius
	BoundingSphere(radius float32) (mgl32.Vec3, float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled object at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

// DefaultInstances returns the demo's four placements along +X: rotated 10, 15 and 30 degrees
// about Y at x = 1, 2 and 3, and unrotated at x = 4.
//
// Returns:
//   - []GameObject: the objects in draw order
func DefaultInstances() []GameObject {
	deg := func(d float64) float32 { return float32(d * math.Pi / 180.0) }
	return []GameObject{
		NewGameObject(WithID(0), WithPosition(1, 0, 0), WithRotationY(deg(10))),
		NewGameObject(WithID(1), WithPosition(2, 0, 0), WithRotationY(deg(15))),
		NewGameObject(WithID(2), WithPosition(3, 0, 0), WithRotationY(deg(30))),
		NewGameObject(WithID(3), WithPosition(4, 0, 0)),
	}
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() [3]float32 {
	return g.position
}

func (g *gameObject) RotationY() float32 {
	return g.rotationY
}

func (g *gameObject) Scale() [3]float32 {
	return g.scale
}

func (g *gameObject) ModelMatrix() [16]float32 {
	t := mgl32.Translate3D(g.position[0], g.position[1], g.position[2])
	r := mgl32.HomogRotate3DY(g.rotationY)
	s := mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2])
	return t.Mul4(r).Mul4(s)
}

func (g *gameObject) Instance() model.GPUInstance {
	m := g.ModelMatrix()
	return model.GPUInstance{Model: m, Normal: common.NormalMatrix(m)}
}

func (g *gameObject) BoundingSphere(radius float32) (mgl32.Vec3, float32) {
	m := g.ModelMatrix()
	return common.TransformPoint(m, mgl32.Vec3{}), radius * common.MaxScale(m)
}
