package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeSource struct {
	w, h int
}

func (f fakeSource) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (f fakeSource) FramebufferSize() (int, int)                { return f.w, f.h }

type fakeBackend struct {
	configured    [][2]int
	configureErr  error
	registered    []string
	registerErr   error
	instanceSizes []uint64
	instanceData  [][]byte
	draws         int
	released      bool
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured = append(f.configured, [2]int{width, height})
	return nil
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	provider.SetVertexBuffer(&wgpu.Buffer{})
	provider.SetIndexBuffer(&wgpu.Buffer{})
	provider.SetIndexCount(indexCount)
	return nil
}

func (f *fakeBackend) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64, capacity int) error {
	f.instanceSizes = append(f.instanceSizes, size)
	provider.SetInstanceBuffer(&wgpu.Buffer{}, capacity)
	return nil
}

func (f *fakeBackend) WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte) {
	f.instanceData = append(f.instanceData, data)
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return nil
}

func (f *fakeBackend) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {}
func (f *fakeBackend) BeginFrame() error                                    { return nil }

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, mesh, instances bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	f.draws++
}

func (f *fakeBackend) EndFrame() error { return nil }
func (f *fakeBackend) Present()        {}
func (f *fakeBackend) Release()        { f.released = true }

func newTestRenderer(t *testing.T, backend *fakeBackend, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(BackendTypeWGPU, fakeSource{w: 800, h: 600}, append(opts, WithBackend(backend))...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestNewRendererConfiguresSurface(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(t, backend, WithPipeline(pipeline.NewPipeline("basic")))

	if len(backend.configured) != 1 || backend.configured[0] != [2]int{800, 600} {
		t.Errorf("configure: expected one call with 800x600, got %v", backend.configured)
	}
	if r.Pipeline("basic") == nil {
		t.Errorf("pipeline: expected basic to be registered")
	}
	if r.SampleCount() != MSAA4x {
		t.Errorf("sample count: expected default 4, got %d", r.SampleCount())
	}
}

func TestNewRendererMinimizedWindow(t *testing.T) {
	backend := &fakeBackend{}
	if _, err := NewRenderer(BackendTypeWGPU, fakeSource{}, WithBackend(backend)); err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if backend.configured[0] != [2]int{1, 1} {
		t.Errorf("configure: expected 1x1 for a zero framebuffer, got %v", backend.configured[0])
	}
}

func TestNewRendererErrors(t *testing.T) {
	if _, err := NewRenderer(BackendTypeWGPU, fakeSource{w: 1, h: 1}, WithBackend(&fakeBackend{}), WithMSAA(3)); err == nil {
		t.Errorf("msaa 3: expected an error")
	}

	backend := &fakeBackend{configureErr: errors.New("boom")}
	if _, err := NewRenderer(BackendTypeWGPU, fakeSource{w: 1, h: 1}, WithBackend(backend)); err == nil {
		t.Errorf("configure failure: expected an error")
	}
	if !backend.released {
		t.Errorf("configure failure: expected the backend to be released")
	}

	backend = &fakeBackend{registerErr: errors.New("bad shader")}
	if _, err := NewRenderer(BackendTypeWGPU, fakeSource{w: 1, h: 1}, WithBackend(backend), WithPipeline(pipeline.NewPipeline("basic"))); err == nil {
		t.Errorf("register failure: expected an error")
	}

	if _, err := NewRenderer(RendererBackendType(7), fakeSource{w: 1, h: 1}); err == nil {
		t.Errorf("unknown backend: expected an error")
	}
}

func TestResizeIgnoresZero(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(t, backend)

	for _, size := range [][2]int{{0, 600}, {800, 0}, {0, 0}} {
		if err := r.Resize(size[0], size[1]); err != nil {
			t.Errorf("resize %v: unexpected error %v", size, err)
		}
	}
	if len(backend.configured) != 1 {
		t.Errorf("resize: expected zero sizes to be ignored, got %v", backend.configured)
	}

	if err := r.Resize(1024, 768); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if w, h := r.Size(); w != 1024 || h != 768 {
		t.Errorf("size: expected 1024x768, got %dx%d", w, h)
	}
}

func TestRegisterPipelinesSkipsDuplicates(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(t, backend)

	p := pipeline.NewPipeline("basic")
	if err := r.RegisterPipelines(p, p, nil); err != nil {
		t.Fatalf("RegisterPipelines: %v", err)
	}
	if len(backend.registered) != 1 {
		t.Errorf("register: expected one backend call, got %v", backend.registered)
	}
}

func TestWriteInstanceBufferGrows(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(t, backend)
	provider := bind_group_provider.NewBindGroupProvider("instances")

	const stride = 100
	if err := r.WriteInstanceBuffer(provider, make([]byte, 3*stride), 3); err != nil {
		t.Fatalf("write 3: %v", err)
	}
	if provider.InstanceCapacity() != 4 {
		t.Errorf("capacity: expected 4, got %d", provider.InstanceCapacity())
	}

	if err := r.WriteInstanceBuffer(provider, make([]byte, 4*stride), 4); err != nil {
		t.Fatalf("write 4: %v", err)
	}
	if len(backend.instanceSizes) != 1 {
		t.Errorf("grow: expected no reallocation within capacity, got %v", backend.instanceSizes)
	}

	if err := r.WriteInstanceBuffer(provider, make([]byte, 5*stride), 5); err != nil {
		t.Fatalf("write 5: %v", err)
	}
	if len(backend.instanceSizes) != 2 || backend.instanceSizes[1] != 8*stride {
		t.Errorf("grow: expected a second buffer of %d bytes, got %v", 8*stride, backend.instanceSizes)
	}
	if len(backend.instanceData) != 3 {
		t.Errorf("writes: expected 3, got %d", len(backend.instanceData))
	}

	if err := r.WriteInstanceBuffer(provider, make([]byte, 7), 2); err == nil {
		t.Errorf("ragged data: expected an error")
	}
}

func TestDrawCallValidation(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(t, backend, WithPipeline(pipeline.NewPipeline("basic")))

	mesh := bind_group_provider.NewBindGroupProvider("mesh")
	instances := bind_group_provider.NewBindGroupProvider("instances")

	if err := r.DrawCall("missing", mesh, instances, 1, nil); err == nil {
		t.Errorf("unknown pipeline: expected an error")
	}
	if err := r.DrawCall("basic", mesh, instances, 1, nil); err == nil {
		t.Errorf("mesh without buffers: expected an error")
	}

	if err := r.InitMeshBuffers(mesh, []byte{1}, []byte{1}, 3); err != nil {
		t.Fatalf("InitMeshBuffers: %v", err)
	}
	if err := r.DrawCall("basic", mesh, instances, 0, nil); err != nil {
		t.Errorf("zero instances: unexpected error %v", err)
	}
	if err := r.DrawCall("basic", mesh, instances, 2, nil); err == nil {
		t.Errorf("no instance buffer: expected an error")
	}

	if err := r.InitInstanceBuffer(instances, 2, 100); err != nil {
		t.Fatalf("InitInstanceBuffer: %v", err)
	}
	if err := r.DrawCall("basic", mesh, instances, 2, nil); err != nil {
		t.Errorf("draw: unexpected error %v", err)
	}
	if backend.draws != 1 {
		t.Errorf("draws: expected 1, got %d", backend.draws)
	}
}

func TestGrowCapacity(t *testing.T) {
	tests := []struct{ in, want int }{{1, 4}, {4, 4}, {5, 8}, {17, 32}}
	for _, tt := range tests {
		if got := growCapacity(tt.in); got != tt.want {
			t.Errorf("growCapacity(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestParsePresentMode(t *testing.T) {
	if m, ok := ParsePresentMode("uncapped"); !ok || m != PresentModeUncapped {
		t.Errorf("uncapped: got %v %v", m, ok)
	}
	if _, ok := ParsePresentMode("triple"); ok {
		t.Errorf("triple: expected unknown")
	}
}
