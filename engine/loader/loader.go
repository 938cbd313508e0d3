package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/shader"
	"github.com/schollz/progressbar/v3"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnsupportedModelFormat is returned by Load for a file extension no backend accepts.
var ErrUnsupportedModelFormat = errors.New("unsupported model format")

// Uploader is the part of the renderer the loader needs to move meshes and texture sets onto
// the GPU. renderer.Renderer satisfies it.
type Uploader interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	uploader Uploader
	shader   shader.Shader
	progress io.Writer

	modelCache map[string]model.Model

	backends []loaderBackend
}

// Loader imports model files and texture directories, prepares their CPU data (normals,
// tangents, bounds) and, when given an Uploader and a Shader, creates their GPU resources.
// Models are cached by path.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.obj, .gltf, .glb).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error wrapping the path if loading or GPU upload fails;
	//     ErrUnsupportedModelFormat for an unknown extension
	Load(path string) (model.Model, error)

	// LoadTextureSets turns every diffuse image in a directory into a texture set for texture
	// cycling. Images named "<stem>_normal.<ext>" are paired with "<stem>.<ext>" instead of
	// forming sets of their own.
	//
	// Parameters:
	//   - dir: the textures directory
	//
	// Returns:
	//   - []material.Material: the texture sets sorted by file name
	//   - error: error wrapping the directory if reading, decoding or upload fails
	LoadTextureSets(dir string) ([]material.Material, error)
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the OBJ and glTF backends and the given options applied.
// Without WithUploader the loader only prepares CPU data.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		backends: []loaderBackend{
			newOBJLoaderBackend(),
			newGLTFLoaderBackend(),
		},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	for i := range imported.Meshes {
		mesh := &imported.Meshes[i]
		mesh.ComputeTangents()
		mesh.ComputeBounds()
	}

	m := model.FromImported(imported)
	if err := l.upload(m); err != nil {
		m.Release()
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Debug("model loaded", "path", path, "meshes", len(m.Meshes()), "materials", len(m.Materials()))

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadTextureSets(dir string) ([]material.Material, error) {
	sets, err := scanTextureSets(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture sets from %s: %w", dir, err)
	}
	if !l.canUpload() {
		return sets, nil
	}

	bar := newProgressBar(l.progress, countTextures(sets), "decoding textures")
	if bar != nil {
		defer bar.Close()
	}
	for i, set := range sets {
		if err := l.initMaterialGPU(set, fmt.Sprintf("texture_set_%d", i), bar); err != nil {
			releaseMaterials(sets)
			return nil, fmt.Errorf("failed to load texture sets from %s: %s: %w", dir, set.Name(), err)
		}
	}

	slog.Debug("texture sets loaded", "dir", dir, "count", len(sets))
	return sets, nil
}

// resolveBackend selects the loader backend registered for the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, b := range l.backends {
		if slices.Contains(b.Extensions(), ext) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedModelFormat, ext)
}

func (l *loader) canUpload() bool {
	return l.uploader != nil && l.shader != nil
}

// upload creates the vertex and index buffers of every mesh and the GPU resources of every
// material. It is a no-op without an uploader.
func (l *loader) upload(m model.Model) error {
	if !l.canUpload() {
		return nil
	}

	for i, mesh := range m.Meshes() {
		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_mesh_%d", m.Name(), i))
		if err := l.uploader.InitMeshBuffers(provider, mesh.VertexData, mesh.IndexData, mesh.IndexCount); err != nil {
			provider.Release()
			return fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}
		mesh.Provider = provider
	}

	bar := newProgressBar(l.progress, countTextures(m.Materials()), "decoding "+m.Name())
	if bar != nil {
		defer bar.Close()
	}
	for i, mat := range m.Materials() {
		if err := l.initMaterialGPU(mat, fmt.Sprintf("%s_material_%d", m.Name(), i), bar); err != nil {
			return fmt.Errorf("material %q: %w", mat.Name(), err)
		}
	}
	return nil
}

// materialTexture pairs a material texture with the shader roles it binds to.
type materialTexture struct {
	tex         *common.ImportedTexture
	kind        common.TextureKind
	fallback    [4]byte
	textureRole shader.AnnotationArg
	samplerRole shader.AnnotationArg
}

// initMaterialGPU builds the material's bind group from the shader's material group. Binding
// indices come from the @oxy:provider roles, so the shader can lay the group out freely.
func (l *loader) initMaterialGPU(mat material.Material, providerName string, bar *progressbar.ProgressBar) error {
	group, _, ok := l.shader.Binding(shader.AnnotationArgMaterial, "")
	if !ok {
		// shader has no material group; nothing to init
		return nil
	}
	descriptor := l.shader.BindGroupLayoutDescriptors()[group]

	provider := bind_group_provider.NewBindGroupProvider(providerName)
	textures := []materialTexture{
		{
			tex:         mat.DiffuseTexture(),
			kind:        common.TextureKindDiffuse,
			fallback:    common.WhitePixel,
			textureRole: shader.AnnotationArgDiffuseTexture,
			samplerRole: shader.AnnotationArgDiffuseSampler,
		},
		{
			tex:         mat.NormalTexture(),
			kind:        common.TextureKindNormal,
			fallback:    common.FlatNormalPixel,
			textureRole: shader.AnnotationArgNormalTexture,
			samplerRole: shader.AnnotationArgNormalSampler,
		},
	}

	fail := func(err error) error {
		provider.Release()
		return err
	}
	populated := map[int]bool{}

	for _, mt := range textures {
		tg, tb, ok := l.shader.Binding(shader.AnnotationArgMaterial, mt.textureRole)
		if !ok || tg != group {
			continue
		}

		staging := common.SolidTexture(mt.kind, mt.fallback)
		if mt.tex != nil {
			var err error
			if staging, err = mt.tex.Staging(); err != nil {
				return fail(fmt.Errorf("%s texture: %w", mt.kind, err))
			}
			staging.Format = mt.kind.Format()
			if bar != nil {
				bar.Add(1)
			}
		}
		if err := l.uploader.InitTextureView(provider, tb, staging); err != nil {
			return fail(fmt.Errorf("failed to init %s texture view: %w", mt.kind, err))
		}
		populated[tb] = true

		if sg, sb, ok := l.shader.Binding(shader.AnnotationArgMaterial, mt.samplerRole); ok && sg == group {
			if err := l.uploader.InitSampler(provider, sb, defaultSampler()); err != nil {
				return fail(fmt.Errorf("failed to init %s sampler: %w", mt.kind, err))
			}
			populated[sb] = true
		}
	}

	// fill texture and sampler bindings declared without a role
	for _, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		if populated[binding] {
			continue
		}
		if entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined {
			if err := l.uploader.InitTextureView(provider, binding, common.SolidTexture(common.TextureKindDiffuse, common.WhitePixel)); err != nil {
				return fail(fmt.Errorf("failed to init fallback texture at binding %d: %w", binding, err))
			}
		}
		if entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined {
			if err := l.uploader.InitSampler(provider, binding, defaultSampler()); err != nil {
				return fail(fmt.Errorf("failed to init fallback sampler at binding %d: %w", binding, err))
			}
		}
	}

	if err := l.uploader.InitBindGroup(provider, descriptor); err != nil {
		return fail(fmt.Errorf("failed to init material bind group: %w", err))
	}

	if pg, pb, ok := l.shader.Binding(shader.AnnotationArgMaterialParams, ""); ok && pg == group {
		params := mat.Params()
		l.uploader.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: provider, Binding: pb, Data: params.Marshal()},
		})
	}

	mat.SetBindGroupProvider(provider)
	return nil
}

// defaultSampler is linear filtering with repeat addressing.
func defaultSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

func countTextures(mats []material.Material) int {
	n := 0
	for _, m := range mats {
		if m.DiffuseTexture() != nil {
			n++
		}
		if m.NormalTexture() != nil {
			n++
		}
	}
	return n
}

func releaseMaterials(mats []material.Material) {
	for _, m := range mats {
		if p := m.BindGroupProvider(); p != nil {
			p.Release()
			m.SetBindGroupProvider(nil)
		}
	}
}
