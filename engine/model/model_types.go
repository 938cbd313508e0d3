package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers (OBJ, glTF) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data, one entry per material group or glTF primitive.
	Meshes []ImportedMesh

	// Materials are referenced by ImportedMesh.MaterialIndex.
	Materials []common.ImportedMaterial
}

// ImportedMesh represents a single mesh within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the single-indexed mesh vertices.
	Vertices []GPUVertex

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references ImportedModel.Materials. Zero when the source names no material.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// ComputeBounds fills BoundingMin and BoundingMax from the vertex positions.
func (m *ImportedMesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.BoundingMin, m.BoundingMax = [3]float32{}, [3]float32{}
		return
	}
	lo := m.Vertices[0].Position
	hi := lo
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	m.BoundingMin, m.BoundingMax = lo, hi
}

// ComputeFlatNormals assigns each triangle's face normal to its vertices. Used when the
// source file carries no normals; shared vertices end up with the last face's normal.
func (m *ImportedMesh) ComputeFlatNormals() {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := mgl32.Vec3(m.Vertices[i0].Position)
		e1 := mgl32.Vec3(m.Vertices[i1].Position).Sub(p0)
		e2 := mgl32.Vec3(m.Vertices[i2].Position).Sub(p0)
		n := common.NormalizeOrZero(e1.Cross(e2))
		for _, idx := range []uint32{i0, i1, i2} {
			m.Vertices[idx].Normal = n
		}
	}
}

// ComputeTangents generates per-vertex tangent and bitangent vectors for tangent-space
// normal mapping. Contributions are accumulated per triangle from the UV gradients, then
// each frame is Gram-Schmidt orthogonalized against the normal. Triangles with a
// degenerate UV area contribute nothing; vertices left without a tangent get an
// arbitrary one perpendicular to the normal.
func (m *ImportedMesh) ComputeTangents() {
	tangents := make([]mgl32.Vec3, len(m.Vertices))
	bitangents := make([]mgl32.Vec3, len(m.Vertices))

	accum := func(i0, i1, i2 uint32) {
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := mgl32.Vec3(v1.Position).Sub(mgl32.Vec3(v0.Position))
		e2 := mgl32.Vec3(v2.Position).Sub(mgl32.Vec3(v0.Position))

		du1 := v1.TexCoord[0] - v0.TexCoord[0]
		dv1 := v1.TexCoord[1] - v0.TexCoord[1]
		du2 := v2.TexCoord[0] - v0.TexCoord[0]
		dv2 := v2.TexCoord[1] - v0.TexCoord[1]

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			return
		}
		r := 1.0 / denom

		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))
		b := e2.Mul(du1 * r).Sub(e1.Mul(du2 * r))

		for _, idx := range []uint32{i0, i1, i2} {
			tangents[idx] = tangents[idx].Add(t)
			bitangents[idx] = bitangents[idx].Add(b)
		}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		accum(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
	}

	for i := range m.Vertices {
		n := mgl32.Vec3(m.Vertices[i].Normal)
		t := tangents[i].Sub(n.Mul(n.Dot(tangents[i])))
		if t.Dot(t) < 1e-8 {
			if float32(math.Abs(float64(n.X()))) < 0.9 {
				t = mgl32.Vec3{1, 0, 0}.Sub(n.Mul(n.X()))
			} else {
				t = mgl32.Vec3{0, 1, 0}.Sub(n.Mul(n.Y()))
			}
		}
		t = common.NormalizeOrZero(t)

		b := bitangents[i]
		if b.Dot(b) < 1e-8 {
			b = n.Cross(t)
		}

		m.Vertices[i].Tangent = t
		m.Vertices[i].Bitangent = common.NormalizeOrZero(b)
	}
}
