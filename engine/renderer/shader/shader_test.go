package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const basicShaderPath = "../../../assets/shaders/basic.wgsl"

func loadBasic(t *testing.T) Shader {
	t.Helper()
	s, err := NewShader("basic", basicShaderPath)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	return s
}

func TestEntryPoints(t *testing.T) {
	s := loadBasic(t)
	if s.VertexEntryPoint() != "vs_main" {
		t.Errorf("vertex entry: expected vs_main, got %q", s.VertexEntryPoint())
	}
	if s.FragmentEntryPoint() != "fs_main" {
		t.Errorf("fragment entry: expected fs_main, got %q", s.FragmentEntryPoint())
	}
}

func TestVertexLayouts(t *testing.T) {
	layouts := loadBasic(t).VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("layouts: expected 2, got %d", len(layouts))
	}

	vertex := layouts[0]
	if vertex.ArrayStride != 56 || vertex.StepMode != wgpu.VertexStepModeVertex || len(vertex.Attributes) != 5 {
		t.Errorf("vertex layout: got stride %d step %v attrs %d", vertex.ArrayStride, vertex.StepMode, len(vertex.Attributes))
	}

	instance := layouts[1]
	if instance.ArrayStride != 100 || instance.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("instance layout: got stride %d step %v", instance.ArrayStride, instance.StepMode)
	}
	if len(instance.Attributes) != 7 {
		t.Fatalf("instance attributes: expected 7, got %d", len(instance.Attributes))
	}
	normal0 := instance.Attributes[4]
	if normal0.ShaderLocation != 9 || normal0.Offset != 64 || normal0.Format != wgpu.VertexFormatFloat32x3 {
		t.Errorf("normal_0: got location %d offset %d format %v", normal0.ShaderLocation, normal0.Offset, normal0.Format)
	}
}

func TestBindGroupLayouts(t *testing.T) {
	layouts := loadBasic(t).BindGroupLayoutDescriptors()

	tests := []struct {
		group, index int
		binding      uint32
		minSize      uint64
		isBuffer     bool
	}{
		{group: 0, index: 4, binding: 4, minSize: 16, isBuffer: true},
		{group: 1, index: 0, binding: 0, minSize: 80, isBuffer: true},
		{group: 2, index: 0, binding: 0, minSize: 32, isBuffer: true},
		{group: 0, index: 0, binding: 0},
	}
	for _, tt := range tests {
		entries := layouts[tt.group].Entries
		if tt.index >= len(entries) {
			t.Errorf("group %d: expected entry %d, got %d entries", tt.group, tt.index, len(entries))
			continue
		}
		e := entries[tt.index]
		if e.Binding != tt.binding {
			t.Errorf("group %d entry %d binding: expected %d, got %d", tt.group, tt.index, tt.binding, e.Binding)
		}
		if tt.isBuffer {
			if e.Buffer.Type != wgpu.BufferBindingTypeUniform || e.Buffer.MinBindingSize != tt.minSize {
				t.Errorf("group %d binding %d: expected uniform of %d bytes, got %v of %d", tt.group, tt.binding, tt.minSize, e.Buffer.Type, e.Buffer.MinBindingSize)
			}
		} else if e.Texture.SampleType != wgpu.TextureSampleTypeFloat || e.Texture.ViewDimension != wgpu.TextureViewDimension2D {
			t.Errorf("group %d binding %d: expected float 2d texture", tt.group, tt.binding)
		}
		if e.Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
			t.Errorf("group %d binding %d: expected vertex|fragment visibility", tt.group, tt.binding)
		}
	}

	if s := layouts[0].Entries[1]; s.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("group 0 binding 1: expected filtering sampler")
	}
}

func TestBindingLookup(t *testing.T) {
	s := loadBasic(t)

	tests := []struct {
		identity, role AnnotationArg
		group, binding int
	}{
		{AnnotationArgMaterial, AnnotationArgDiffuseTexture, 0, 0},
		{AnnotationArgMaterial, AnnotationArgNormalSampler, 0, 3},
		{AnnotationArgMaterialParams, "", 0, 4},
		{AnnotationArgCamera, "", 1, 0},
		{AnnotationArgLight, "", 2, 0},
	}
	for _, tt := range tests {
		g, b, ok := s.Binding(tt.identity, tt.role)
		if !ok || g != tt.group || b != tt.binding {
			t.Errorf("Binding(%s, %s): expected (%d, %d), got (%d, %d, %v)", tt.identity, tt.role, tt.group, tt.binding, g, b, ok)
		}
	}

	if _, _, ok := s.Binding(AnnotationArgCamera, AnnotationArgDiffuseTexture); ok {
		t.Errorf("Binding(camera, diffuse_texture): expected no match")
	}
	if s.BindGroupVarName(0, 2) != "t_normal" {
		t.Errorf("var name: expected t_normal, got %q", s.BindGroupVarName(0, 2))
	}
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include light\n//@oxy:include light\n")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n := strings.Count(out, "struct Light"); n != 1 {
		t.Errorf("struct Light occurrences: expected 1, got %d", n)
	}
}

func TestPreProcessorGroupDeclaration(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:group 1 0 storage_uniform camera camera")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := "@group(1) @binding(0) var<uniform> camera: CameraUniform;"
	if out != want {
		t.Errorf("declaration: expected %q, got %q", want, out)
	}
	if len(pp.Declarations()) != 1 {
		t.Errorf("declarations: expected 1, got %d", len(pp.Declarations()))
	}
}

func TestAnnotationErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", "//@oxy:"},
		{"unknown type", "//@oxy:bogus 1"},
		{"unknown struct", "//@oxy:include widget"},
		{"group arity", "//@oxy:group 0 0 storage_uniform camera"},
		{"bad group number", "//@oxy:group x 0 storage_uniform camera camera"},
		{"bad address space", "//@oxy:group 0 0 private camera camera"},
		{"unknown identity", "//@oxy:provider 0 0 shadow"},
		{"unknown role", "//@oxy:provider 0 0 material emissive_texture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseAnnotation(tt.line, 1); err == nil {
				t.Errorf("expected error for %q", tt.line)
			}
		})
	}

	if a, err := parseAnnotation("let x = 1; // plain comment", 1); a != nil || err != nil {
		t.Errorf("plain line: expected (nil, nil), got (%v, %v)", a, err)
	}
}

func TestNewShaderErrors(t *testing.T) {
	if _, err := NewShaderFromSource("no-fragment", "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"); err == nil {
		t.Errorf("expected an error for a missing fragment entry point")
	}
	if _, err := NewShaderFromSource("bad-annotation", "//@oxy:include widget"); err == nil {
		t.Errorf("expected an error for an unknown include")
	}
	if _, err := NewShader("missing", "does/not/exist.wgsl"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestStripComments(t *testing.T) {
	src := "a /* one /* nested */ still */ b // tail\nc"
	got := strings.Fields(stripComments(src))
	if strings.Join(got, " ") != "a b c" {
		t.Errorf("stripComments: expected \"a b c\", got %q", strings.Join(got, " "))
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Light": {32, 16}}
	tests := []struct {
		typeName string
		size     uint64
		ok       bool
	}{
		{"vec3<f32>", 12, true},
		{"mat4x4<f32>", 64, true},
		{"array<Light, 4>", 128, true},
		{"array<Light>", 32, true},
		{"array<Unknown, 2>", 0, false},
	}
	for _, tt := range tests {
		l, ok := resolveTypeLayout(tt.typeName, known)
		if ok != tt.ok || l.size != tt.size {
			t.Errorf("%s: expected (%d, %v), got (%d, %v)", tt.typeName, tt.size, tt.ok, l.size, ok)
		}
	}
}
