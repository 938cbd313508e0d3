package camera

import (
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the starting eye position.
//
// Parameters:
//   - pos: the position in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(pos mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = pos
	}
}

// WithDirection sets the starting view direction. It is normalized and pitch-clamped on
// construction.
//
// Parameters:
//   - dir: the view direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's direction
func WithDirection(dir mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.direction = dir
	}
}

// WithMode sets the starting movement mode.
//
// Parameters:
//   - mode: ModeFPS or ModeFlying
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's mode
func WithMode(mode Mode) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.mode = mode
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithMoveSpeed sets the distance moved per update at full input.
//
// Parameters:
//   - speed: world units per update
//
// Returns:
//   - CameraBuilderOption: a function that sets the move speed
func WithMoveSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.moveSpeed = speed
	}
}

// WithLookSpeed sets the radians turned per unit of relative mouse motion.
//
// Parameters:
//   - speed: the look sensitivity
//
// Returns:
//   - CameraBuilderOption: a function that sets the look speed
func WithLookSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lookSpeed = speed
	}
}

// WithMaxPitch sets the largest elevation angle of the view direction in radians.
//
// Parameters:
//   - pitch: the limit in radians, below pi/2
//
// Returns:
//   - CameraBuilderOption: a function that sets the pitch limit
func WithMaxPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.maxPitch = pitch
	}
}

// WithBindGroupProvider sets the provider that holds the camera's uniform buffer.
//
// Parameters:
//   - provider: the bind group provider
//
// Returns:
//   - CameraBuilderOption: a function that sets the provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
