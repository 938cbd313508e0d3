package model

import (
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
)

// Mesh is one drawable part of a Model: interleaved GPUVertex data, uint32 indices and the
// index of the material it is drawn with.
type Mesh struct {
	Name          string
	VertexData    []byte
	IndexData     []byte
	IndexCount    int
	MaterialIndex int

	// Provider holds the GPU vertex and index buffers once the loader has uploaded the mesh.
	Provider bind_group_provider.BindGroupProvider
}

// model is the implementation of the Model interface.
type model struct {
	name           string
	meshes         []*Mesh
	materials      []material.Material
	boundingRadius float32
}

// Model defines the interface for a loaded 3D model.
// A Model is a GPU-ready container holding its meshes and the materials they reference.
// It is produced by the Loader after importing and processing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the drawable parts of the model.
	//
	// Returns:
	//   - []*Mesh: the meshes
	Meshes() []*Mesh

	// Materials retrieves the materials referenced by Mesh.MaterialIndex.
	// Always holds at least one entry.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// MaterialFor resolves the material a mesh is drawn with, falling back to the first material
	// when the mesh index is out of range.
	//
	// Parameters:
	//   - mesh: the mesh to resolve
	//
	// Returns:
	//   - material.Material: the material
	MaterialFor(mesh *Mesh) material.Material

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Release frees the GPU resources of every mesh and material.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// A model without materials receives a single untextured white material.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if len(m.materials) == 0 {
		m.materials = []material.Material{material.NewMaterial(material.WithName("default"))}
	}
	return m
}

// FromImported converts an ImportedModel into a Model, marshalling every mesh into GPU layout.
//
// Parameters:
//   - imported: the model produced by an importer
//
// Returns:
//   - Model: the CPU side of the model, ready for GPU upload
func FromImported(imported *ImportedModel) Model {
	meshes := make([]*Mesh, 0, len(imported.Meshes))
	var radius float32
	for i := range imported.Meshes {
		src := &imported.Meshes[i]
		meshes = append(meshes, &Mesh{
			Name:          src.Name,
			VertexData:    MarshalVertices(src.Vertices),
			IndexData:     marshalIndices(src.Indices),
			IndexCount:    len(src.Indices),
			MaterialIndex: src.MaterialIndex,
		})
		radius = max(radius, ComputeBoundingRadius(src.Vertices))
	}

	mats := make([]material.Material, 0, len(imported.Materials))
	for _, im := range imported.Materials {
		mats = append(mats, material.FromImported(im))
	}

	return NewModel(
		WithName(imported.Name),
		WithMeshes(meshes),
		WithMaterials(mats),
		WithBoundingRadius(radius),
	)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []*Mesh {
	return m.meshes
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) MaterialFor(mesh *Mesh) material.Material {
	if mesh.MaterialIndex < 0 || mesh.MaterialIndex >= len(m.materials) {
		return m.materials[0]
	}
	return m.materials[mesh.MaterialIndex]
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Release() {
	for _, mesh := range m.meshes {
		if mesh.Provider != nil {
			mesh.Provider.Release()
			mesh.Provider = nil
		}
	}
	for _, mat := range m.materials {
		if p := mat.BindGroupProvider(); p != nil {
			p.Release()
			mat.SetBindGroupProvider(nil)
		}
	}
}

func marshalIndices(indices []uint32) []byte {
	buf := make([]byte, 0, len(indices)*4)
	for _, idx := range indices {
		buf = append(buf, byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24))
	}
	return buf
}
