package material

import (
	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	baseColor         [4]float32
	diffuseTexture    *common.ImportedTexture
	normalTexture     *common.ImportedTexture
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is a texture set: a diffuse texture, a tangent-space normal map and a base colour tint,
// bound together as one bind group. Materials come from model files or from the textures directory;
// the latter are the sets the texture cycle command steps through.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// BaseColor retrieves the RGBA tint multiplied into the diffuse texture.
	//
	// Returns:
	//   - [4]float32: the base colour
	BaseColor() [4]float32

	// DiffuseTexture retrieves the diffuse texture source, or nil to use a white texel.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture
	DiffuseTexture() *common.ImportedTexture

	// NormalTexture retrieves the normal map source, or nil to use a flat normal texel.
	//
	// Returns:
	//   - *common.ImportedTexture: the normal map
	NormalTexture() *common.ImportedTexture

	// Params returns the GPU uniform for this material.
	//
	// Returns:
	//   - GPUMaterialParams: the uniform data
	Params() GPUMaterialParams

	// BindGroupProvider retrieves the provider holding the material's GPU textures, sampler and
	// uniform. Nil until the loader has uploaded the material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider assigns the provider holding the material's GPU resources.
	//
	// Parameters:
	//   - provider: the provider
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material with a white base colour and the specified options applied.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Material: the new material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// FromImported converts an imported material description into a Material.
//
// Parameters:
//   - imported: the material as read from a model file
//
// Returns:
//   - Material: the new material
func FromImported(imported common.ImportedMaterial) Material {
	return NewMaterial(
		WithName(imported.Name),
		WithBaseColor(imported.BaseColor),
		WithDiffuseTexture(imported.DiffuseTexture),
		WithNormalTexture(imported.NormalTexture),
	)
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) NormalTexture() *common.ImportedTexture {
	return m.normalTexture
}

func (m *material) Params() GPUMaterialParams {
	return GPUMaterialParams{BaseColor: m.baseColor}
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
