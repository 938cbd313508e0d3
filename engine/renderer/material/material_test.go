package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-walk/common"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("grass"))
	if m.BaseColor() != [4]float32{1, 1, 1, 1} {
		t.Errorf("base color: expected white, got %v", m.BaseColor())
	}
	if m.DiffuseTexture() != nil || m.NormalTexture() != nil {
		t.Errorf("textures: expected nil")
	}
}

func TestFromImportedSetsTextureKinds(t *testing.T) {
	diffuse := &common.ImportedTexture{Path: "a.png", Kind: common.TextureKindNormal}
	normal := &common.ImportedTexture{Path: "a_normal.png"}
	m := FromImported(common.ImportedMaterial{
		Name:           "crate",
		BaseColor:      [4]float32{0.5, 0.5, 0.5, 1},
		DiffuseTexture: diffuse,
		NormalTexture:  normal,
	})

	if m.DiffuseTexture().Kind != common.TextureKindDiffuse {
		t.Errorf("diffuse kind: expected %v, got %v", common.TextureKindDiffuse, m.DiffuseTexture().Kind)
	}
	if m.NormalTexture().Kind != common.TextureKindNormal {
		t.Errorf("normal kind: expected %v, got %v", common.TextureKindNormal, m.NormalTexture().Kind)
	}
	if m.BaseColor()[0] != 0.5 {
		t.Errorf("base color: expected 0.5 red, got %v", m.BaseColor())
	}
}

func TestMaterialParamsMarshal(t *testing.T) {
	p := GPUMaterialParams{BaseColor: [4]float32{0.25, 0.5, 0.75, 1}}
	buf := p.Marshal()
	if len(buf) != p.Size() {
		t.Fatalf("size: expected %d, got %d", p.Size(), len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])); got != 0.75 {
		t.Errorf("blue channel: expected 0.75, got %v", got)
	}
}
