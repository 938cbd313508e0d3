package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key              string
	source           string
	vertexEntry      string
	fragmentEntry    string
	vertexLayouts    []wgpu.VertexBufferLayout
	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames  map[int]map[int]string
	declarations     []Annotation
	module           *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL render shader holding both a @vertex and a @fragment entry
// point, together with the vertex buffer and bind group layouts parsed from its source.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// VertexLayouts returns one buffer layout per vertex input struct, in buffer slot order.
	// Per-vertex data comes first, the per-instance InstanceInput layout after it.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns the parsed bind group layouts keyed by group index.
	// Every entry is visible to both the vertex and fragment stages.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is bound there
	BindGroupVarName(group, binding int) string

	// Declarations returns the group and provider annotations found in the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation

	// Binding locates a declared resource. A provider annotation matches when its identity and
	// role equal the arguments (an empty role matches any); a group annotation matches when its
	// struct type equals identity and role is empty.
	//
	// Parameters:
	//   - identity: the provider identity or struct type
	//   - role: the binding role, or ""
	//
	// Returns:
	//   - int: the group index
	//   - int: the binding index
	//   - bool: false when no declaration matches
	Binding(identity, role AnnotationArg) (int, int, bool)
}

var _ Shader = &shader{}

// NewShader reads, pre-processes and parses a WGSL file.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - sourcePath: the file path to read WGSL source from
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file cannot be read or the source is invalid
func NewShader(key, sourcePath string) (Shader, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read %s: %w", key, sourcePath, err)
	}
	s, err := NewShaderFromSource(key, string(data))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, sourcePath)
	}
	return s, nil
}

// NewShaderFromSource pre-processes and parses WGSL source held in memory.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the raw WGSL source with @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if an annotation is malformed or an entry point is missing
func NewShaderFromSource(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:           key,
		source:        processed,
		declarations:  pp.Declarations(),
		vertexEntry:   parseEntryPoint(processed, vertexEntryRegex),
		fragmentEntry: parseEntryPoint(processed, fragmentEntryRegex),
		vertexLayouts: parseVertexLayouts(processed),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("shader %s: no @vertex entry point", key)
	}
	if s.fragmentEntry == "" {
		return nil, fmt.Errorf("shader %s: no @fragment entry point", key)
	}
	s.bindGroupLayouts, s.bindingVarNames = parseBindGroupLayouts(processed, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Binding(identity, role AnnotationArg) (int, int, bool) {
	for _, d := range s.declarations {
		if d.Identity() != identity {
			continue
		}
		if role != "" && d.Role() != role {
			continue
		}
		if d.Type == AnnotationTypeBindingGroup && role != "" {
			continue
		}
		return *d.Group, *d.Binding, true
	}
	return 0, 0, false
}
