package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo is a WGSL vertex attribute type with its byte size.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is a WGSL type's host-shareable size and alignment.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a parsed WGSL struct. location is -1 when the member has no
// @location attribute.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a struct block extracted from WGSL source.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// parsedBinding is one @group/@binding variable declaration.
type parsedBinding struct {
	group        int
	binding      int
	addressSpace string
	name         string
	typeName     string
}
