// package common contains plain value types and helpers shared across the engine packages: staging data for GPU
// uploads, imported material/texture descriptions, matrix helpers and key codes.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA8 pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Format is the GPU texture format. Colour data (diffuse) uses RGBA8UnormSrgb, data
	// textures (normal maps) use RGBA8Unorm. Zero means RGBA8UnormSrgb.
	Format wgpu.TextureFormat
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to linear filtering and repeat addressing.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	Compare                                  wgpu.CompareFunction
	MaxAnisotropy                            uint16
}

// TextureKind selects how a texture's pixels are interpreted on the GPU.
type TextureKind int

const (
	// TextureKindDiffuse is colour data sampled with sRGB decoding.
	TextureKindDiffuse TextureKind = iota
	// TextureKindNormal is tangent-space normal data sampled linearly.
	TextureKindNormal
)

// Format returns the GPU texture format for the kind.
func (k TextureKind) Format() wgpu.TextureFormat {
	if k == TextureKindNormal {
		return wgpu.TextureFormatRGBA8Unorm
	}
	return wgpu.TextureFormatRGBA8UnormSrgb
}

func (k TextureKind) String() string {
	if k == TextureKindNormal {
		return "normal"
	}
	return "diffuse"
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor [4]float32

	// DiffuseTexture is the base colour texture, nil when the material has none.
	DiffuseTexture *ImportedTexture

	// NormalTexture is the tangent-space normal map, nil when the material has none.
	NormalTexture *ImportedTexture
}

// ImportedTexture represents texture data referenced by a model file or the textures directory.
// For embedded textures (GLB), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture.
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures (PNG/JPEG).
	Data []byte

	// Kind decides the GPU format of the decoded texture.
	Kind TextureKind

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int
}

// Decode decodes the texture to raw RGBA pixel data.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: texture width in pixels
//   - uint32: texture height in pixels
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() ([]byte, uint32, uint32, error) {
	if t == nil {
		return nil, 0, 0, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode embedded image %q: %w", t.Name, err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return nil, 0, 0, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return nil, 0, 0, fmt.Errorf("texture %q has neither data nor path", t.Name)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return rgba.Pix, uint32(t.Width), uint32(t.Height), nil
}

// Staging decodes the texture and packages it for GPU upload with the format of its Kind.
//
// Returns:
//   - TextureStagingData: the decoded pixels, size and format
//   - error: error if decoding fails
func (t *ImportedTexture) Staging() (TextureStagingData, error) {
	pixels, w, h, err := t.Decode()
	if err != nil {
		return TextureStagingData{}, err
	}
	return TextureStagingData{Pixels: pixels, Width: w, Height: h, Format: t.Kind.Format()}, nil
}

// SolidTexture returns a 1x1 texture of a single RGBA colour. It stands in for a texture
// a material does not provide: white for diffuse, (128, 128, 255) for a flat normal map.
//
// Parameters:
//   - kind: the texture kind deciding the GPU format
//   - rgba: the pixel colour
//
// Returns:
//   - TextureStagingData: a ready-to-upload 1x1 texture
func SolidTexture(kind TextureKind, rgba [4]byte) TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{rgba[0], rgba[1], rgba[2], rgba[3]},
		Width:  1,
		Height: 1,
		Format: kind.Format(),
	}
}

// Fallback colours for textures a material does not supply.
var (
	WhitePixel      = [4]byte{255, 255, 255, 255}
	FlatNormalPixel = [4]byte{128, 128, 255, 255}
)
