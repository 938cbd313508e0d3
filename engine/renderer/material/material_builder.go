package material

import (
	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the RGBA tint of the material.
// An all-zero colour is ignored so materials without a colour stay white.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		if color != ([4]float32{}) {
			m.baseColor = color
		}
	}
}

// WithDiffuseTexture is an option builder that sets the diffuse texture of the material.
//
// Parameters:
//   - tex: the diffuse texture source
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithDiffuseTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		if tex != nil {
			tex.Kind = common.TextureKindDiffuse
		}
		m.diffuseTexture = tex
	}
}

// WithNormalTexture is an option builder that sets the normal map of the material.
//
// Parameters:
//   - tex: the normal map source
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithNormalTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		if tex != nil {
			tex.Kind = common.TextureKindNormal
		}
		m.normalTexture = tex
	}
}

// WithBindGroupProvider is an option builder that sets an already-initialised GPU provider.
//
// Parameters:
//   - provider: the provider holding the material's GPU resources
//
// Returns:
//   - MaterialBuilderOption: a function that applies the provider option to a material
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
