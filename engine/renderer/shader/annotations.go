// annotations.go defines the @oxy: comment annotations understood by the shader pre-processor.
// An annotation is a single WGSL line comment that either injects a registered struct
// definition, generates a buffer binding declaration, or tags a hand-written binding with the
// scene resource that provides it. The scene and loader read the tags back from
// Shader.Declarations to wire bind groups without matching variable names.
//
// Syntax:
//
//	//@oxy:include <struct>
//	//@oxy:group <group> <binding> <address_space> <var_name> <struct>
//	//@oxy:provider <group> <binding> <identity> [role]
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude is replaced by the source of a registered struct.
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup is replaced by a generated @group/@binding buffer declaration
	// and recorded as a declaration.
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider produces no WGSL. It records which resource provider owns the
	// hand-written binding below it, optionally with the role the binding plays.
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	Type AnnotationType

	// Args depends on Type:
	//   - include:  [struct]
	//   - group:    [address_space, var_name, struct]
	//   - provider: [identity] or [identity, role]
	Args []AnnotationArg

	// Line is the 1-based source line, for error reporting.
	Line int

	// Group and Binding are nil for include annotations.
	Group   *int
	Binding *int
}

// Identity returns the provider identity of a provider annotation, or the struct type of a
// group annotation.
func (a Annotation) Identity() AnnotationArg {
	switch a.Type {
	case AnnotationTypeProvider:
		return a.Args[0]
	case AnnotationTypeBindingGroup:
		return a.Args[2]
	}
	return ""
}

// Role returns the binding role of a provider annotation, or "" when none was given.
func (a Annotation) Role() AnnotationArg {
	if a.Type == AnnotationTypeProvider && len(a.Args) > 1 {
		return a.Args[1]
	}
	return ""
}

// AnnotationArg is a typed annotation argument.
type AnnotationArg string

// Struct types accepted by include and group.
const (
	// AnnotationArgCamera is the CameraUniform struct (engine/camera/assets/camera_uniform.wgsl).
	// It doubles as the camera provider identity.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgLight is the Light struct (engine/light/assets/light.wgsl).
	AnnotationArgLight AnnotationArg = "light"

	// AnnotationArgMaterialParams is the MaterialParams struct
	// (engine/renderer/material/assets/material_params.wgsl).
	AnnotationArgMaterialParams AnnotationArg = "material_params"

	annotationArgVertex   AnnotationArg = "vertex"
	annotationArgInstance AnnotationArg = "instance"
)

// Address spaces accepted by group.
const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead    AnnotationArg = "storage_read"
)

// Provider identities accepted by provider.
const (
	// AnnotationArgMaterial is the per-material texture set group.
	AnnotationArgMaterial AnnotationArg = "material"
)

// Binding roles accepted as the optional fourth provider argument.
const (
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"
	AnnotationArgDiffuseSampler AnnotationArg = "diffuse_sampler"
	AnnotationArgNormalTexture  AnnotationArg = "normal_texture"
	AnnotationArgNormalSampler  AnnotationArg = "normal_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgLight,
	AnnotationArgMaterialParams,
	annotationArgVertex,
	annotationArgInstance,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgMaterial,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgDiffuseTexture,
	AnnotationArgDiffuseSampler,
	AnnotationArgNormalTexture,
	AnnotationArgNormalSampler,
}

// parseAnnotation parses one WGSL source line. Lines without the @oxy: prefix yield (nil, nil).
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy:include takes exactly one struct type", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[1])
		}
		return &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArg(args[1])}, Line: lineNum}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy:group takes group, binding, address space, name and struct type", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		elem, _ := strings.CutPrefix(args[5], "array<")
		elem = strings.TrimSuffix(elem, ">")
		if !slices.Contains(validStructTypes, AnnotationArg(elem)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) != 4 && len(args) != 5 {
			return nil, fmt.Errorf("line %d: @oxy:provider takes group, binding, identity and an optional role", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q", lineNum, args[3])
		}
		a := &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q", lineNum, args[4])
			}
			a.Args = append(a.Args, AnnotationArg(args[4]))
		}
		return a, nil
	}

	return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil || group < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, groupArg)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil || binding < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, bindingArg)
	}
	return group, binding, nil
}
