package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/game_object"
	"github.com/Carmen-Shannon/oxy-walk/engine/light"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Renderer is the part of the renderer a scene draws through. renderer.Renderer satisfies it.
type Renderer interface {
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity, stride int) error
	WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, instanceCount int, bindGroups []bind_group_provider.BindGroupProvider) error
}

// Scene draws one model at every enabled object's transform, lit by a single light and seen
// through a camera. It also holds the texture sets the texture cycle command steps through.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Model returns the model every object draws.
	Model() model.Model

	// Objects returns the scene's objects in draw order.
	//
	// Returns:
	//   - []game_object.GameObject: a copy of the object list
	Objects() []game_object.GameObject

	// Add appends an object to the scene. Its instance is drawn from the next frame.
	//
	// Parameters:
	//   - obj: the object to add
	Add(obj game_object.GameObject)

	// Light returns the scene's light.
	Light() light.Light

	// TextureSets returns the cyclable texture sets.
	TextureSets() []material.Material

	// TextureSetIndex returns the active texture set: 0 draws the model's own materials,
	// k > 0 draws every mesh with TextureSets()[k-1].
	TextureSetIndex() int

	// CycleTexture advances the active texture set to (i + 1) mod (1 + len(TextureSets())).
	//
	// Returns:
	//   - int: the new index
	CycleTexture() int

	// CullingDisabled reports whether frustum culling is off.
	CullingDisabled() bool

	// SetCullingDisabled turns frustum culling off or on.
	//
	// Parameters:
	//   - disabled: true to draw every enabled object
	SetCullingDisabled(disabled bool)

	// VisibleCount returns how many instances the last Draw submitted.
	VisibleCount() int

	// Init creates the camera and light bind groups and the instance buffer. It must run once
	// before the first Draw.
	//
	// Parameters:
	//   - r: the renderer
	//   - cam: the camera whose uniform the scene uploads
	//
	// Returns:
	//   - error: error if a bind group or buffer cannot be created
	Init(r Renderer, cam camera.Camera) error

	// Draw uploads the camera and light uniforms, culls objects against the camera frustum by
	// bounding sphere, uploads the visible instances and issues one instanced draw per mesh.
	//
	// Parameters:
	//   - r: the renderer, between BeginFrame and EndFrame
	//   - cam: the camera
	//
	// Returns:
	//   - error: error if an upload or draw call fails
	Draw(r Renderer, cam camera.Camera) error

	// Release frees the scene's instance buffer. The model, light and texture sets are left to
	// their owners.
	Release()
}

// groupBinding locates a uniform by bind group and binding index.
type groupBinding struct {
	group, binding int
}

type scene struct {
	mu *sync.RWMutex

	name        string
	pipelineKey string
	shader      shader.Shader

	mdl         model.Model
	objects     []game_object.GameObject
	lt          light.Light
	textureSets []material.Material
	textureSet  int

	cullingDisabled bool
	visible         int

	initialized   bool
	instances     bind_group_provider.BindGroupProvider
	cameraBinding groupBinding
	lightBinding  groupBinding
	materialGroup int
	groupCount    int

	// reused each frame
	instancePool  []model.GPUInstance
	bindGroupPool []bind_group_provider.BindGroupProvider
}

var _ Scene = &scene{}

// NewScene creates a scene drawing mdl with the pipeline registered under pipelineKey. The
// shader is the pipeline's shader; its @oxy annotations tell the scene which bind group holds
// the material, the camera and the light. Without WithObjects the scene draws the default
// four instances, and without WithLight it uses light.NewLight().
//
// Parameters:
//   - name: the name of the scene
//   - mdl: the model to draw
//   - sh: the pipeline's shader
//   - pipelineKey: the key of the render pipeline
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: error if the model or shader is missing, or the shader lacks a camera, light or
//     material group
func NewScene(name string, mdl model.Model, sh shader.Shader, pipelineKey string, options ...SceneBuilderOption) (Scene, error) {
	if mdl == nil {
		return nil, errors.New("scene: model is required")
	}
	if sh == nil {
		return nil, errors.New("scene: shader is required")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		pipelineKey: pipelineKey,
		shader:      sh,
		mdl:         mdl,
	}
	for _, option := range options {
		option(s)
	}
	if s.objects == nil {
		s.objects = game_object.DefaultInstances()
	}
	if s.lt == nil {
		s.lt = light.NewLight()
	}

	var ok bool
	if s.cameraBinding.group, s.cameraBinding.binding, ok = sh.Binding(shader.AnnotationArgCamera, ""); !ok {
		return nil, fmt.Errorf("scene %q: shader %q declares no camera uniform", name, sh.Key())
	}
	if s.lightBinding.group, s.lightBinding.binding, ok = sh.Binding(shader.AnnotationArgLight, ""); !ok {
		return nil, fmt.Errorf("scene %q: shader %q declares no light uniform", name, sh.Key())
	}
	if s.materialGroup, _, ok = sh.Binding(shader.AnnotationArgMaterial, ""); !ok {
		return nil, fmt.Errorf("scene %q: shader %q declares no material group", name, sh.Key())
	}
	s.groupCount = max(s.cameraBinding.group, s.lightBinding.group, s.materialGroup) + 1
	s.bindGroupPool = make([]bind_group_provider.BindGroupProvider, 0, s.groupCount)

	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Model() model.Model {
	return s.mdl
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]game_object.GameObject(nil), s.objects...)
}

func (s *scene) Add(obj game_object.GameObject) {
	if obj == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, obj)
}

func (s *scene) Light() light.Light {
	return s.lt
}

func (s *scene) TextureSets() []material.Material {
	return s.textureSets
}

func (s *scene) TextureSetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textureSet
}

func (s *scene) CycleTexture() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textureSet = (s.textureSet + 1) % (1 + len(s.textureSets))
	return s.textureSet
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) VisibleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

func (s *scene) Init(r Renderer, cam camera.Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	descriptors := s.shader.BindGroupLayoutDescriptors()
	if err := r.InitBindGroup(cam.BindGroupProvider(), descriptors[s.cameraBinding.group]); err != nil {
		return fmt.Errorf("scene %q: failed to init camera bind group: %w", s.name, err)
	}
	if err := r.InitBindGroup(s.lt.BindGroupProvider(), descriptors[s.lightBinding.group]); err != nil {
		return fmt.Errorf("scene %q: failed to init light bind group: %w", s.name, err)
	}

	if s.instances == nil {
		s.instances = bind_group_provider.NewBindGroupProvider(s.name + "_instances")
	}
	stride := (&model.GPUInstance{}).Size()
	if err := r.InitInstanceBuffer(s.instances, len(s.objects), stride); err != nil {
		return fmt.Errorf("scene %q: failed to init instance buffer: %w", s.name, err)
	}

	s.initialized = true
	return nil
}

func (s *scene) Draw(r Renderer, cam camera.Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("scene %q: Draw before Init", s.name)
	}

	camUniform := cam.Uniform()
	lightUniform := s.lt.Uniform()
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: cam.BindGroupProvider(), Binding: s.cameraBinding.binding, Data: camUniform.Marshal()},
		{Provider: s.lt.BindGroupProvider(), Binding: s.lightBinding.binding, Data: lightUniform.Marshal()},
	})

	s.instancePool = s.cullInstances(camUniform.ViewProj)
	s.visible = len(s.instancePool)
	if s.visible == 0 {
		return nil
	}
	if err := r.WriteInstanceBuffer(s.instances, model.MarshalInstances(s.instancePool), s.visible); err != nil {
		return fmt.Errorf("scene %q: failed to write instances: %w", s.name, err)
	}

	for _, mesh := range s.mdl.Meshes() {
		if mesh.Provider == nil {
			return fmt.Errorf("scene %q: mesh %q has not been uploaded", s.name, mesh.Name)
		}
		mat := s.materialFor(mesh)
		if mat.BindGroupProvider() == nil {
			return fmt.Errorf("scene %q: material %q has not been uploaded", s.name, mat.Name())
		}

		bindGroups := s.bindGroupPool[:0]
		for g := 0; g < s.groupCount; g++ {
			switch g {
			case s.materialGroup:
				bindGroups = append(bindGroups, mat.BindGroupProvider())
			case s.cameraBinding.group:
				bindGroups = append(bindGroups, cam.BindGroupProvider())
			case s.lightBinding.group:
				bindGroups = append(bindGroups, s.lt.BindGroupProvider())
			default:
				return fmt.Errorf("scene %q: no provider for bind group %d", s.name, g)
			}
		}

		if err := r.DrawCall(s.pipelineKey, mesh.Provider, s.instances, s.visible, bindGroups); err != nil {
			return fmt.Errorf("draw call failed for mesh %q in scene %q: %w", mesh.Name, s.name, err)
		}
	}
	return nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.instances != nil {
		s.instances.Release()
		s.instances = nil
	}
	s.initialized = false
}

// cullInstances collects the instances of enabled objects whose bounding sphere touches the
// view frustum. Caller must hold the mutex.
func (s *scene) cullInstances(viewProj [16]float32) []model.GPUInstance {
	out := s.instancePool[:0]
	frustum := common.FrustumFromViewProj(viewProj)
	radius := s.mdl.BoundingRadius()
	for _, obj := range s.objects {
		if !obj.Enabled() {
			continue
		}
		if !s.cullingDisabled {
			center, r := obj.BoundingSphere(radius)
			if !frustum.ContainsSphere(center, r) {
				continue
			}
		}
		out = append(out, obj.Instance())
	}
	return out
}

// materialFor resolves the material a mesh is drawn with under the active texture set.
// Caller must hold the mutex.
func (s *scene) materialFor(mesh *model.Mesh) material.Material {
	if s.textureSet > 0 && s.textureSet <= len(s.textureSets) {
		return s.textureSets[s.textureSet-1]
	}
	return s.mdl.MaterialFor(mesh)
}
