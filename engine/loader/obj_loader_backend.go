package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/g3n/engine/loader/obj"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files with an optional
// sibling MTL library.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Extensions() []string {
	return []string{".obj"}
}

func (b *objLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	objFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open obj: %w", err)
	}
	defer objFile.Close()

	var mtl io.Reader = strings.NewReader("")
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	mtlFile, err := os.Open(mtlPath)
	switch {
	case err == nil:
		defer mtlFile.Close()
		mtl = mtlFile
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to open mtl %s: %w", mtlPath, err)
	}

	dec, err := obj.DecodeReader(objFile, mtl)
	if err != nil {
		return nil, fmt.Errorf("failed to decode obj: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return importOBJ(dec, name, filepath.Dir(path))
}

// objVertexKey identifies a single-indexed vertex by its (v, vt, vn) triple. face is -1 when
// the corner carries a normal; otherwise it holds the face number so flat-shaded faces never
// share vertices.
type objVertexKey struct {
	v, vt, vn, face int
}

// objMeshBuilder accumulates the triangles of one material group.
type objMeshBuilder struct {
	mesh       model.ImportedMesh
	lookup     map[objVertexKey]uint32
	hasNormals bool
}

// importOBJ converts a decoded OBJ into an ImportedModel: one mesh per material in order of
// first use, faces triangulated as fans, vertices deduplicated by (v, vt, vn).
//
// Parameters:
//   - dec: the decoded OBJ and MTL data
//   - name: the model name
//   - dir: the directory texture paths are relative to
//
// Returns:
//   - *model.ImportedModel: the imported model
//   - error: error if a face references a missing vertex or the file holds no triangles
func importOBJ(dec *obj.Decoder, name, dir string) (*model.ImportedModel, error) {
	materialIndex := map[string]int{}
	var materialNames []string
	var builders []*objMeshBuilder

	builderFor := func(matName string) *objMeshBuilder {
		idx := 0
		if matName != "" {
			i, ok := materialIndex[matName]
			if !ok {
				i = len(materialNames)
				materialIndex[matName] = i
				materialNames = append(materialNames, matName)
			}
			idx = i
		}
		for len(builders) <= idx {
			builders = append(builders, nil)
		}
		if builders[idx] == nil {
			builders[idx] = &objMeshBuilder{
				mesh:       model.ImportedMesh{MaterialIndex: idx},
				lookup:     map[objVertexKey]uint32{},
				hasNormals: true,
			}
		}
		return builders[idx]
	}

	faceNum := 0
	for _, o := range dec.Objects {
		for _, face := range o.Faces {
			if len(face.Vertices) < 3 {
				continue
			}
			for _, v := range face.Vertices {
				if !validIndex(v, len(dec.Vertices)/3) {
					return nil, fmt.Errorf("face %d references vertex %d of %d", faceNum+1, v+1, len(dec.Vertices)/3)
				}
			}
			b := builderFor(face.Material)
			if b.mesh.Name == "" {
				b.mesh.Name = o.Name
			}
			corner := func(i int) uint32 {
				return b.addCorner(dec, face, i, faceNum)
			}
			for i := 2; i < len(face.Vertices); i++ {
				b.mesh.Indices = append(b.mesh.Indices, corner(0), corner(i-1), corner(i))
			}
			faceNum++
		}
	}

	imported := &model.ImportedModel{Name: name}
	for _, b := range builders {
		if b == nil || len(b.mesh.Indices) == 0 {
			continue
		}
		if !b.hasNormals {
			b.mesh.ComputeFlatNormals()
		}
		imported.Meshes = append(imported.Meshes, b.mesh)
	}
	if len(imported.Meshes) == 0 {
		return nil, errors.New("obj contains no faces")
	}

	for _, matName := range materialNames {
		imported.Materials = append(imported.Materials, objMaterial(dec.Materials[matName], matName, dir))
	}
	return imported, nil
}

// addCorner appends the vertex for corner i of face unless an identical one exists, and
// returns its index. The face's position indices must already be validated.
func (b *objMeshBuilder) addCorner(dec *obj.Decoder, face obj.Face, i, faceNum int) uint32 {
	key := objVertexKey{v: face.Vertices[i], vt: -1, vn: -1, face: -1}
	if i < len(face.Uvs) && validIndex(face.Uvs[i], len(dec.Uvs)/2) {
		key.vt = face.Uvs[i]
	}
	if i < len(face.Normals) && validIndex(face.Normals[i], len(dec.Normals)/3) {
		key.vn = face.Normals[i]
	} else {
		key.face = faceNum
		b.hasNormals = false
	}

	if idx, ok := b.lookup[key]; ok {
		return idx
	}

	var v model.GPUVertex
	v.Position = [3]float32{dec.Vertices[key.v*3], dec.Vertices[key.v*3+1], dec.Vertices[key.v*3+2]}
	if key.vt >= 0 {
		v.TexCoord = [2]float32{dec.Uvs[key.vt*2], dec.Uvs[key.vt*2+1]}
	}
	if key.vn >= 0 {
		v.Normal = [3]float32{dec.Normals[key.vn*3], dec.Normals[key.vn*3+1], dec.Normals[key.vn*3+2]}
	}

	idx := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.lookup[key] = idx
	return idx
}

// objMaterial converts an MTL entry. A material with a diffuse map keeps a white tint so the
// texture shows unmodified; its normal map is the "<stem>_normal" sibling of the diffuse map.
func objMaterial(m *obj.Material, name, dir string) common.ImportedMaterial {
	result := common.ImportedMaterial{Name: name, BaseColor: [4]float32{1, 1, 1, 1}}
	if m == nil {
		return result
	}

	if m.MapKd == "" {
		if kd := m.Diffuse; kd.R != 0 || kd.G != 0 || kd.B != 0 {
			result.BaseColor = [4]float32{kd.R, kd.G, kd.B, 1}
		}
		return result
	}

	diffusePath := m.MapKd
	if !filepath.IsAbs(diffusePath) {
		diffusePath = filepath.Join(dir, diffusePath)
	}
	result.DiffuseTexture = &common.ImportedTexture{
		Name: filepath.Base(diffusePath),
		Path: diffusePath,
		Kind: common.TextureKindDiffuse,
	}
	if normalPath := normalSibling(diffusePath); fileExists(normalPath) {
		result.NormalTexture = &common.ImportedTexture{
			Name: filepath.Base(normalPath),
			Path: normalPath,
			Kind: common.TextureKindNormal,
		}
	}
	return result
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}
