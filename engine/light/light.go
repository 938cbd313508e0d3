package light

import (
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	position [3]float32
	color    [3]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Light is the scene's single point light. Its uniform is uploaded alongside the camera
// uniform each frame.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// SetPosition moves the light.
	//
	// Parameters:
	//   - x, y, z: the new position
	SetPosition(x, y, z float32)

	// SetColor changes the light color.
	//
	// Parameters:
	//   - r, g, b: the new color
	SetColor(r, g, b float32)

	// Uniform returns the GPU representation of the light.
	//
	// Returns:
	//   - GPULightUniform: the uniform
	Uniform() GPULightUniform

	// BindGroupProvider returns the provider holding the light uniform buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Light = &lightImpl{}

// NewLight creates a white point light above and in front of the origin, where it lights the
// faces the default camera sees.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		position: [3]float32{2, 2, -2},
		color:    [3]float32{1, 1, 1},
	}
	for _, opt := range options {
		opt(l)
	}
	if l.bindGroupProvider == nil {
		l.bindGroupProvider = bind_group_provider.NewBindGroupProvider("light")
	}
	return l
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) Uniform() GPULightUniform {
	return GPULightUniform{Position: l.position, Color: l.color}
}

func (l *lightImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return l.bindGroupProvider
}
