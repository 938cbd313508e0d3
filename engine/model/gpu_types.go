package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for mesh pipelines.
// Matches GPUVertex layout exactly (56 bytes, locations 0-4).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 56 bytes, tightly packed float32 attributes.
type GPUVertex struct {
	Position  [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord  [2]float32 // offset 12: UV texture coordinate (8 bytes)
	Normal    [3]float32 // offset 20: vertex normal for lighting (12 bytes)
	Tangent   [3]float32 // offset 32: tangent-space U axis for normal mapping (12 bytes)
	Bitangent [3]float32 // offset 44: tangent-space V axis for normal mapping (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 0, 56)
	buf = appendFloats(buf, g.Position[:]...)
	buf = appendFloats(buf, g.TexCoord[:]...)
	buf = appendFloats(buf, g.Normal[:]...)
	buf = appendFloats(buf, g.Tangent[:]...)
	buf = appendFloats(buf, g.Bitangent[:]...)
	return buf
}

// MarshalVertices serializes a vertex slice into one contiguous vertex buffer.
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*56)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// GPUVertex positions. The radius is the maximum distance from the origin
// across all vertices in the slice.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}

// GPUInstanceSource is the canonical WGSL definition of the InstanceInput struct.
// Matches GPUInstance layout exactly (100 bytes, locations 5-11, stepped per instance).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUInstance is the per-instance vertex data: a model matrix and the matching normal matrix.
// Matches the WGSL InstanceInput struct layout exactly (see GPUInstanceSource).
// Size: 100 bytes (mat4 as four vec4 columns + mat3 as three vec3 columns).
type GPUInstance struct {
	Model  [16]float32 // offset  0: column-major model-to-world transform (64 bytes)
	Normal [9]float32  // offset 64: column-major inverse-transpose of the model 3x3 (36 bytes)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 100-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, 0, 100)
	buf = appendFloats(buf, g.Model[:]...)
	buf = appendFloats(buf, g.Normal[:]...)
	return buf
}

// MarshalInstances serializes an instance slice into one contiguous instance buffer.
func MarshalInstances(instances []GPUInstance) []byte {
	buf := make([]byte, 0, len(instances)*100)
	for i := range instances {
		buf = append(buf, instances[i].Marshal()...)
	}
	return buf
}

func appendFloats(buf []byte, values ...float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
