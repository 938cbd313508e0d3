package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/light"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
)

// registryEntry pairs an embedded WGSL struct source with the struct's type name.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source and collects the binding declarations
// they describe.
type PreProcessor interface {
	// Process replaces every annotation line with its WGSL output: include lines become the
	// registered struct source, group lines become @group/@binding declarations and provider
	// lines are dropped. The declaration list is reset on every call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error naming the offending line
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations seen by the last Process call,
	// in source order.
	//
	// Returns:
	//   - []Annotation: the declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU structs registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:         {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgLight:          {Source: light.GPULightSource, Type: "Light"},
			AnnotationArgMaterialParams: {Source: material.GPUMaterialParamsSource, Type: "MaterialParams"},
			annotationArgVertex:         {Source: model.GPUVertexSource, Type: "VertexInput"},
			annotationArgInstance:       {Source: model.GPUInstanceSource, Type: "InstanceInput"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			// a struct may only be defined once per module
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			wgslType, err := p.resolveType(a.Args[2])
			if err != nil {
				return "", fmt.Errorf("line %d: %w", a.Line, err)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) resolveType(arg AnnotationArg) (string, error) {
	if inner, ok := strings.CutPrefix(string(arg), "array<"); ok {
		entry, ok := p.structRegistry[AnnotationArg(strings.TrimSuffix(inner, ">"))]
		if !ok {
			return "", fmt.Errorf("unregistered struct %q", arg)
		}
		return "array<" + entry.Type + ">", nil
	}
	entry, ok := p.structRegistry[arg]
	if !ok {
		return "", fmt.Errorf("unregistered struct %q", arg)
	}
	return entry.Type, nil
}
