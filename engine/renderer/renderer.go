package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// minInstanceCapacity is the smallest instance buffer the renderer allocates.
const minInstanceCapacity = 4

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache    map[string]pipeline.Pipeline
	pendingPipelines []pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	width, height int

	// creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
}

// Renderer is the frame-level API over the GPU backend: pipeline registration, resource
// upload, and one render pass per frame.
//
// A frame is BeginFrame, any number of DrawCall, EndFrame, then Present. BeginFrame reports a
// surface that cannot be drawn to as a *SurfaceError; the caller decides from its Outcome
// whether to Resize, skip the frame, or stop.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches them by key.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: the first creation failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Size returns the size the surface is currently configured to.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Size() (int, int)

	// SampleCount returns the MSAA sample count of the main render pass.
	//
	// Returns:
	//   - MSAASampleCount: the sample count
	SampleCount() MSAASampleCount

	// Resize reconfigures the surface and its depth and MSAA targets. A zero width or height
	// (a minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if a render target could not be recreated
	Resize(width, height int) error

	// InitMeshBuffers uploads vertex and index data into GPU buffers stored on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffers on
	//   - vertexData: the interleaved vertex bytes
	//   - indexData: the uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer allocates a per-instance vertex buffer for capacity instances of
	// stride bytes each.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - capacity: the number of instances
	//   - stride: the size of one instance in bytes
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity, stride int) error

	// WriteInstanceBuffer uploads count packed instances, growing the buffer when it is too
	// small.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the instance buffer
	//   - data: the packed instance bytes
	//   - count: the number of instances in data
	//
	// Returns:
	//   - error: an error if the buffer had to grow and could not be recreated
	WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error

	// InitBindGroup creates the uniform buffers and the bind group for a layout descriptor.
	// Textures and samplers must be initialized first with InitTextureView and InitSampler.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the bind group on
	//   - descriptor: the layout descriptor of the group
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads a texture and stores its view on provider at bindingKey. The
	// staging data's Format selects sRGB or linear sampling.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture on
	//   - bindingKey: the binding index of the texture
	//   - stagingData: the pixels, size and format
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on provider at bindingKey.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the binding index of the sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues uniform buffer writes.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture and begins the main render pass.
	//
	// Returns:
	//   - error: a *SurfaceError when the surface texture is unavailable
	BeginFrame() error

	// DrawCall issues one indexed, instanced draw with the pipeline registered under pipelineKey.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - mesh: the provider holding vertex and index buffers
	//   - instances: the provider holding the instance buffer
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers indexed by bind group; nil entries are skipped
	//
	// Returns:
	//   - error: an error if the pipeline is not registered or the mesh has no buffers
	DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, instanceCount int, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the frame's commands.
	//
	// Returns:
	//   - error: an error if submission fails
	EndFrame() error

	// Present displays the frame.
	Present()

	// Release frees every registered pipeline and the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU backend for the given surface source, configures the surface to
// its framebuffer size and registers any pipelines supplied with WithPipeline.
//
// Parameters:
//   - backendType: the backend implementation to use
//   - source: the window providing the surface descriptor and framebuffer size
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the backend, surface or a pipeline could not be created
func NewRenderer(backendType RendererBackendType, source SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		sampleCount:   MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}

	if !r.sampleCount.Valid() {
		return nil, fmt.Errorf("unsupported msaa sample count %d", r.sampleCount)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			b, err := newWGPURendererBackend(source.SurfaceDescriptor(), r.forceFallbackAdapter, r.sampleCount, r.presentMode)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize gpu: %w", err)
			}
			r.backend = b
		default:
			return nil, fmt.Errorf("unknown renderer backend type %d", backendType)
		}
	}

	// a minimized window still needs a configured surface
	w, h := source.FramebufferSize()
	r.width, r.height = max(w, 1), max(h, 1)
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("failed to configure surface: %w", err)
	}

	pending := r.pendingPipelines
	r.pendingPipelines = nil
	if err := r.RegisterPipelines(pending...); err != nil {
		r.Release()
		return nil, err
	}

	return r, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		if p == nil {
			continue
		}
		key := p.PipelineKey()
		if _, ok := r.pipelineCache[key]; ok {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		slog.Debug("pipeline registered", "key", key)
	}
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SampleCount() MSAASampleCount {
	return r.sampleCount
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("failed to resize surface to %dx%d: %w", width, height, err)
	}
	r.width, r.height = width, height
	slog.Debug("surface resized", "width", width, "height", height)
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity, stride int) error {
	if stride <= 0 {
		return fmt.Errorf("invalid instance stride %d", stride)
	}
	capacity = max(capacity, minInstanceCapacity)
	return r.backend.InitInstanceBuffer(provider, uint64(capacity*stride), capacity)
}

func (r *renderer) WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error {
	if count <= 0 || len(data) == 0 {
		return nil
	}
	if len(data)%count != 0 {
		return fmt.Errorf("instance data of %d bytes does not divide into %d instances", len(data), count)
	}

	if provider.InstanceBuffer() == nil || count > provider.InstanceCapacity() {
		if err := r.InitInstanceBuffer(provider, growCapacity(count), len(data)/count); err != nil {
			return err
		}
	}
	r.backend.WriteInstanceBuffer(provider, data)
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	if len(writes) == 0 {
		return
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, instanceCount int, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("pipeline %q is not registered", pipelineKey)
	}
	if mesh == nil || mesh.VertexBuffer() == nil || mesh.IndexBuffer() == nil {
		return fmt.Errorf("mesh has no vertex or index buffer")
	}
	if instanceCount <= 0 {
		return nil
	}
	if instances == nil || instances.InstanceBuffer() == nil {
		return fmt.Errorf("no instance buffer for %d instances", instanceCount)
	}
	r.backend.DrawCall(p, mesh, instances, uint32(instanceCount), bindGroups)
	return nil
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}

// growCapacity rounds count up to the next power of two, starting at minInstanceCapacity.
func growCapacity(count int) int {
	c := minInstanceCapacity
	for c < count {
		c *= 2
	}
	return c
}
