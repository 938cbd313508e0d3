package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULightUniform layout exactly (32 bytes, uniform aligned).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULightUniform is the GPU-aligned representation of the point light uniform.
// Matches the WGSL Light struct layout exactly (see GPULightSource). Each vec3 is padded to
// 16 bytes.
type GPULightUniform struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	_pad0    uint32     // offset 12
	Color    [3]float32 // offset 16: linear RGB color (vec3<f32>)
	_pad1    uint32     // offset 28
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Color[i]))
	}
	return buf
}
