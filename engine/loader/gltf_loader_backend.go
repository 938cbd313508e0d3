package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// Node transforms of the default scene are baked into the vertex data, so every primitive ends
// up in model space.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Extensions() []string {
	return []string{".gltf", ".glb"}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return importGLTF(doc, name, filepath.Dir(path))
}

// importGLTF converts a glTF document into an ImportedModel with one mesh per triangle
// primitive.
//
// Parameters:
//   - doc: the parsed document
//   - name: the model name
//   - dir: the directory external image URIs are relative to
//
// Returns:
//   - *model.ImportedModel: the imported model
//   - error: error if an accessor cannot be read or no primitive has triangles
func importGLTF(doc *gltf.Document, name, dir string) (*model.ImportedModel, error) {
	imported := &model.ImportedModel{Name: name}

	for i, m := range doc.Materials {
		mat, err := gltfMaterial(doc, m, i, dir)
		if err != nil {
			return nil, err
		}
		imported.Materials = append(imported.Materials, mat)
	}

	placements := gltfMeshPlacements(doc)
	for _, p := range placements {
		gm := doc.Meshes[p.mesh]
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			mesh, err := gltfPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", p.mesh, pi, err)
			}
			mesh.Name = gm.Name
			if mesh.Name == "" {
				mesh.Name = fmt.Sprintf("mesh_%d_%d", p.mesh, pi)
			}
			bakeTransform(&mesh, p.transform)
			imported.Meshes = append(imported.Meshes, mesh)
		}
	}

	if len(imported.Meshes) == 0 {
		return nil, errors.New("gltf contains no triangle primitives")
	}
	return imported, nil
}

// gltfPlacement is one use of a mesh by a node, with the node's world transform.
type gltfPlacement struct {
	mesh      int
	transform mgl32.Mat4
}

// gltfMeshPlacements walks the default scene (or every root node when none is set) and collects
// each mesh reference with its accumulated transform. Documents without nodes place every mesh
// once at the origin.
func gltfMeshPlacements(doc *gltf.Document) []gltfPlacement {
	var roots []int
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		roots = doc.Scenes[*doc.Scene].Nodes
	} else {
		hasParent := make([]bool, len(doc.Nodes))
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				if c < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}

	var out []gltfPlacement
	visited := make([]bool, len(doc.Nodes))
	var walk func(idx int, parent mgl32.Mat4)
	walk = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) || visited[idx] {
			return
		}
		visited[idx] = true
		n := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(n))
		if n.Mesh != nil && *n.Mesh < len(doc.Meshes) {
			out = append(out, gltfPlacement{mesh: *n.Mesh, transform: world})
		}
		for _, c := range n.Children {
			walk(c, world)
		}
	}
	for _, r := range roots {
		walk(r, mgl32.Ident4())
	}

	if len(out) == 0 {
		for i := range doc.Meshes {
			out = append(out, gltfPlacement{mesh: i, transform: mgl32.Ident4()})
		}
	}
	return out
}

// nodeMatrix returns the local transform of a node, from its matrix or from its TRS properties.
func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != gltf.DefaultMatrix && n.Matrix != ([16]float64{}) {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	rot := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// bakeTransform moves positions and normals of a mesh from node space into model space.
func bakeTransform(mesh *model.ImportedMesh, m mgl32.Mat4) {
	if m == mgl32.Ident4() {
		return
	}
	normal := mgl32.Mat3(common.NormalMatrix(m))
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		v.Position = common.TransformPoint(m, v.Position)
		v.Normal = common.NormalizeOrZero(normal.Mul3x1(v.Normal))
	}
}

// gltfPrimitive reads one triangle primitive. Missing normals become flat face normals and
// missing texture coordinates stay zero; a primitive without indices is drawn in vertex order.
func gltfPrimitive(doc *gltf.Document, prim *gltf.Primitive) (model.ImportedMesh, error) {
	var mesh model.ImportedMesh

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return mesh, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return mesh, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return mesh, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return mesh, fmt.Errorf("texcoords: %w", err)
		}
	}

	if prim.Indices != nil {
		if mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return mesh, fmt.Errorf("indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(positions) {
			return mesh, fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
	}

	hasNormals := len(normals) == len(positions)
	if !hasNormals {
		// flat shading needs a vertex per triangle corner
		flat := make([][3]float32, len(mesh.Indices))
		var flatUVs [][2]float32
		if len(uvs) == len(positions) {
			flatUVs = make([][2]float32, len(mesh.Indices))
		}
		for i, idx := range mesh.Indices {
			flat[i] = positions[idx]
			if flatUVs != nil {
				flatUVs[i] = uvs[idx]
			}
			mesh.Indices[i] = uint32(i)
		}
		positions, uvs = flat, flatUVs
	}

	mesh.Vertices = make([]model.GPUVertex, len(positions))
	for i, p := range positions {
		v := model.GPUVertex{Position: p}
		if hasNormals {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		mesh.Vertices[i] = v
	}
	if !hasNormals {
		mesh.ComputeFlatNormals()
	}
	if prim.Material != nil {
		mesh.MaterialIndex = *prim.Material
	}
	return mesh, nil
}

// gltfMaterial converts a glTF material, resolving its base colour and normal textures.
func gltfMaterial(doc *gltf.Document, m *gltf.Material, index int, dir string) (common.ImportedMaterial, error) {
	result := common.ImportedMaterial{Name: m.Name, BaseColor: [4]float32{1, 1, 1, 1}}
	if result.Name == "" {
		result.Name = fmt.Sprintf("material_%d", index)
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		result.BaseColor = [4]float32{float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3])}
		if pbr.BaseColorTexture != nil {
			tex, err := gltfTexture(doc, pbr.BaseColorTexture.Index, dir, common.TextureKindDiffuse)
			if err != nil {
				return result, fmt.Errorf("material %q: base color texture: %w", result.Name, err)
			}
			result.DiffuseTexture = tex
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		tex, err := gltfTexture(doc, *m.NormalTexture.Index, dir, common.TextureKindNormal)
		if err != nil {
			return result, fmt.Errorf("material %q: normal texture: %w", result.Name, err)
		}
		result.NormalTexture = tex
	}
	return result, nil
}

// gltfTexture resolves a texture index to its image bytes (buffer view or data URI) or to an
// external file path. A texture without a source yields nil.
func gltfTexture(doc *gltf.Document, texIdx int, dir string, kind common.TextureKind) (*common.ImportedTexture, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIdx)
	}
	src := doc.Textures[texIdx].Source
	if src == nil || *src >= len(doc.Images) {
		return nil, nil
	}
	img := doc.Images[*src]

	name := img.Name
	if name == "" {
		name = fmt.Sprintf("image_%d", *src)
	}
	tex := &common.ImportedTexture{Name: name, Kind: kind}

	switch {
	case img.BufferView != nil:
		data, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("image %d buffer view: %w", *src, err)
		}
		tex.Data = data
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("image %d data uri: %w", *src, err)
		}
		tex.Data = data
	case img.URI != "":
		tex.Path = filepath.Join(dir, filepath.FromSlash(img.URI))
	default:
		return nil, nil
	}
	return tex, nil
}
