package renderer

import (
	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a configuration name ("vsync" or "uncapped") to a PresentMode.
// Unknown names report false.
func ParsePresentMode(name string) (PresentMode, bool) {
	switch name {
	case "vsync", "fifo":
		return PresentModeVSync, true
	case "uncapped", "immediate":
		return PresentModeUncapped, true
	}
	return PresentModeVSync, false
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing.
// WebGPU guarantees 1 and 4; 8 and 16 are adapter-dependent.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// Valid reports whether c is one of the supported sample counts.
func (c MSAASampleCount) Valid() bool {
	switch c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return true
	}
	return false
}

// SurfaceSource is the window side of surface creation: a platform surface descriptor and the
// framebuffer size the surface is first configured to.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	FramebufferSize() (int, int)
}

// RendererBackend is the GPU API the Renderer facade drives. All methods run on the thread
// that owns the window.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the depth and MSAA targets.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if a render target could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline compiles the pipeline's shader, creates its layouts and attaches
	// the resulting GPU pipeline to p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data into new GPU buffers stored on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffers on
	//   - vertexData: the interleaved vertex bytes
	//   - indexData: the uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer creates a per-instance vertex buffer of size bytes, replacing any
	// previous one on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - size: the buffer size in bytes
	//   - capacity: the number of instances the buffer holds
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64, capacity int) error

	// WriteInstanceBuffer writes instance bytes at the start of provider's instance buffer.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the instance buffer
	//   - data: the instance bytes
	WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte)

	// InitBindGroup creates the missing uniform buffers for descriptor and builds the bind
	// group from them and the provider's texture views and samplers.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the bind group on
	//   - descriptor: the layout descriptor of the group
	//
	// Returns:
	//   - error: an error if a texture or sampler binding is unset or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads a texture in the staging data's format and stores its view.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture on
	//   - bindingKey: the binding index of the texture
	//   - stagingData: the pixels, size and format
	//
	// Returns:
	//   - error: an error if the texture could not be created
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the binding index of the sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues uniform buffer writes.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and begins the main render pass.
	// A failed acquisition is returned as a *SurfaceError.
	//
	// Returns:
	//   - error: a *SurfaceError, or another error if encoding could not start
	BeginFrame() error

	// DrawCall encodes one indexed, instanced draw in the current pass.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - mesh: the provider holding vertex and index buffers
	//   - instances: the provider holding the instance buffer
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers indexed by group; nil entries are skipped
	DrawCall(p pipeline.Pipeline, mesh, instances bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the pass and submits the command buffer.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the acquired surface texture and releases it.
	Present()

	// Release frees the render targets, device and surface.
	Release()
}
