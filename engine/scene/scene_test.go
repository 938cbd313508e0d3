package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/game_object"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const basicShaderPath = "../../assets/shaders/basic.wgsl"

type drawCall struct {
	pipelineKey   string
	mesh          string
	instanceCount int
	bindGroups    []string
}

// fakeRenderer records what a scene submits.
type fakeRenderer struct {
	bindGroups     []string
	instanceInit   []int
	instanceWrites []int
	writes         []bind_group_provider.BufferWrite
	draws          []drawCall

	drawErr error
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroups = append(f.bindGroups, provider.Label())
	return nil
}

func (f *fakeRenderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity, stride int) error {
	f.instanceInit = append(f.instanceInit, capacity*stride)
	return nil
}

func (f *fakeRenderer) WriteInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count int) error {
	f.instanceWrites = append(f.instanceWrites, count)
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, instanceCount int, bindGroups []bind_group_provider.BindGroupProvider) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	labels := make([]string, len(bindGroups))
	for i, bg := range bindGroups {
		labels[i] = bg.Label()
	}
	f.draws = append(f.draws, drawCall{pipelineKey: pipelineKey, mesh: mesh.Label(), instanceCount: instanceCount, bindGroups: labels})
	return nil
}

func loadShader(t *testing.T) shader.Shader {
	t.Helper()
	s, err := shader.NewShader("basic", basicShaderPath)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	return s
}

// uploadedModel builds a two-mesh model whose meshes and materials already carry providers.
func uploadedModel() model.Model {
	matA := material.NewMaterial(material.WithName("a"),
		material.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("mat_a")))
	matB := material.NewMaterial(material.WithName("b"),
		material.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("mat_b")))
	return model.NewModel(
		model.WithName("cube"),
		model.WithMeshes([]*model.Mesh{
			{Name: "m0", IndexCount: 36, MaterialIndex: 0, Provider: bind_group_provider.NewBindGroupProvider("mesh_0")},
			{Name: "m1", IndexCount: 6, MaterialIndex: 1, Provider: bind_group_provider.NewBindGroupProvider("mesh_1")},
		}),
		model.WithMaterials([]material.Material{matA, matB}),
		model.WithBoundingRadius(0.5),
	)
}

func newTestScene(t *testing.T, options ...SceneBuilderOption) (Scene, *fakeRenderer, camera.Camera) {
	t.Helper()
	s, err := NewScene("test", uploadedModel(), loadShader(t), "basic", options...)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	r := &fakeRenderer{}
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, -5}), camera.WithDirection(mgl32.Vec3{0, 0, 1}))
	if err := s.Init(r, cam); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s, r, cam
}

func TestNewSceneDefaults(t *testing.T) {
	s, err := NewScene("test", uploadedModel(), loadShader(t), "basic")
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	if len(s.Objects()) != 4 {
		t.Errorf("objects: expected 4 default instances, got %d", len(s.Objects()))
	}
	if s.Light() == nil {
		t.Errorf("light: expected a default light")
	}
	if s.TextureSetIndex() != 0 {
		t.Errorf("texture set: expected 0, got %d", s.TextureSetIndex())
	}

	if _, err := NewScene("test", nil, loadShader(t), "basic"); err == nil {
		t.Errorf("nil model: expected error")
	}
}

func TestNewSceneRequiresGroups(t *testing.T) {
	sh, err := shader.NewShaderFromSource("bare", `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`)
	if err != nil {
		t.Fatalf("NewShaderFromSource: %v", err)
	}
	if _, err := NewScene("test", uploadedModel(), sh, "bare"); err == nil {
		t.Errorf("expected error for a shader without camera, light and material groups")
	}
}

func TestInitCreatesBindGroupsAndInstanceBuffer(t *testing.T) {
	_, r, _ := newTestScene(t)
	if len(r.bindGroups) != 2 || r.bindGroups[0] != "camera" || r.bindGroups[1] != "light" {
		t.Errorf("bind groups: expected [camera light], got %v", r.bindGroups)
	}
	if len(r.instanceInit) != 1 || r.instanceInit[0] != 4*100 {
		t.Errorf("instance buffer: expected 400 bytes, got %v", r.instanceInit)
	}
}

func TestDrawBeforeInit(t *testing.T) {
	s, err := NewScene("test", uploadedModel(), loadShader(t), "basic")
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	if err := s.Draw(&fakeRenderer{}, camera.NewCamera()); err == nil {
		t.Errorf("expected error drawing before Init")
	}
}

func TestDrawIssuesOneInstancedDrawPerMesh(t *testing.T) {
	s, r, _ := newTestScene(t)
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{2.5, 0, -10}), camera.WithDirection(mgl32.Vec3{0, 0, 1}))
	if err := s.Draw(r, cam); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if len(r.writes) != 2 {
		t.Fatalf("uniform writes: expected camera + light, got %d", len(r.writes))
	}
	if len(r.writes[0].Data) != 80 || len(r.writes[1].Data) != 32 {
		t.Errorf("uniform sizes: expected 80 and 32, got %d and %d", len(r.writes[0].Data), len(r.writes[1].Data))
	}

	if len(r.draws) != 2 {
		t.Fatalf("draws: expected 2, got %d", len(r.draws))
	}
	if s.VisibleCount() != 4 {
		t.Errorf("visible: expected 4, got %d", s.VisibleCount())
	}
	want := []drawCall{
		{pipelineKey: "basic", mesh: "mesh_0", instanceCount: 4, bindGroups: []string{"mat_a", "camera", "light"}},
		{pipelineKey: "basic", mesh: "mesh_1", instanceCount: 4, bindGroups: []string{"mat_b", "camera", "light"}},
	}
	for i, w := range want {
		got := r.draws[i]
		if got.pipelineKey != w.pipelineKey || got.mesh != w.mesh || got.instanceCount != w.instanceCount {
			t.Errorf("draw %d: expected %+v, got %+v", i, w, got)
		}
		for g := range w.bindGroups {
			if got.bindGroups[g] != w.bindGroups[g] {
				t.Errorf("draw %d group %d: expected %s, got %s", i, g, w.bindGroups[g], got.bindGroups[g])
			}
		}
	}
}

func TestDrawCullsOutsideFrustum(t *testing.T) {
	s, r, _ := newTestScene(t)

	// looking away from every instance
	away := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, -5}), camera.WithDirection(mgl32.Vec3{0, 0, -1}))
	if err := s.Draw(r, away); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if s.VisibleCount() != 0 || len(r.draws) != 0 {
		t.Errorf("culled: expected no draws, got visible %d draws %d", s.VisibleCount(), len(r.draws))
	}

	s.SetCullingDisabled(true)
	if err := s.Draw(r, away); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if s.VisibleCount() != 4 {
		t.Errorf("culling disabled: expected 4 visible, got %d", s.VisibleCount())
	}
}

func TestDrawSkipsDisabledObjects(t *testing.T) {
	objs := []game_object.GameObject{
		game_object.NewGameObject(game_object.WithPosition(0, 0, 0)),
		game_object.NewGameObject(game_object.WithPosition(1, 0, 0), game_object.WithEnabled(false)),
	}
	s, r, cam := newTestScene(t, WithObjects(objs...))
	if err := s.Draw(r, cam); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if s.VisibleCount() != 1 || r.instanceWrites[0] != 1 {
		t.Errorf("visible: expected 1, got %d (written %v)", s.VisibleCount(), r.instanceWrites)
	}
}

func TestCycleTexture(t *testing.T) {
	sets := []material.Material{
		material.NewMaterial(material.WithName("grass"),
			material.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("set_grass"))),
		material.NewMaterial(material.WithName("stone"),
			material.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("set_stone"))),
	}
	s, r, cam := newTestScene(t, WithTextureSets(sets))

	wantIdx := []int{1, 2, 0, 1}
	for i, w := range wantIdx {
		if got := s.CycleTexture(); got != w {
			t.Errorf("cycle %d: expected %d, got %d", i, w, got)
		}
	}

	// index 1 draws every mesh with the first texture set
	if err := s.Draw(r, cam); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for i, d := range r.draws {
		if d.bindGroups[0] != "set_grass" {
			t.Errorf("draw %d: expected set_grass, got %s", i, d.bindGroups[0])
		}
	}
}

func TestCycleTextureWithoutSets(t *testing.T) {
	s, _, _ := newTestScene(t)
	for i := 0; i < 3; i++ {
		if got := s.CycleTexture(); got != 0 {
			t.Errorf("cycle %d: expected 0, got %d", i, got)
		}
	}
}

func TestDrawErrors(t *testing.T) {
	s, r, cam := newTestScene(t)
	r.drawErr = errors.New("boom")
	if err := s.Draw(r, cam); !errors.Is(err, r.drawErr) {
		t.Errorf("draw error: expected wrapped boom, got %v", err)
	}

	notUploaded := model.NewModel(model.WithMeshes([]*model.Mesh{{Name: "raw"}}), model.WithBoundingRadius(1))
	s2, err := NewScene("raw", notUploaded, loadShader(t), "basic")
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	r2 := &fakeRenderer{}
	if err := s2.Init(r2, cam); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s2.Draw(r2, camera.NewCamera(camera.WithPosition(mgl32.Vec3{2.5, 0, -10}))); err == nil {
		t.Errorf("expected error for a mesh without GPU buffers")
	}
}

func TestAddObject(t *testing.T) {
	s, r, _ := newTestScene(t, WithObjects())
	s.Add(game_object.NewGameObject())
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, -5}), camera.WithDirection(mgl32.Vec3{0, 0, 1}))
	if err := s.Draw(r, cam); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if s.VisibleCount() != 1 {
		t.Errorf("visible: expected 1 after Add, got %d", s.VisibleCount())
	}
}
