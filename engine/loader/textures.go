package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
	"github.com/schollz/progressbar/v3"
)

const normalSuffix = "_normal"

var textureExtensions = []string{".png", ".jpg", ".jpeg"}

// normalSibling returns the path of the normal map paired with a diffuse texture:
// "grass.png" pairs with "grass_normal.png".
func normalSibling(diffusePath string) string {
	ext := filepath.Ext(diffusePath)
	return strings.TrimSuffix(diffusePath, ext) + normalSuffix + ext
}

func isNormalMap(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), normalSuffix)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// scanTextureSets lists the texture sets in a directory: every PNG or JPEG that is not itself a
// normal map becomes a set, paired with its "_normal" sibling when present. Sets are sorted by
// file name.
//
// Parameters:
//   - dir: the textures directory
//
// Returns:
//   - []material.Material: one material per diffuse image, without GPU resources
//   - error: error if the directory cannot be read
func scanTextureSets(dir string) ([]material.Material, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(textureExtensions, ext) || isNormalMap(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)

	sets := make([]material.Material, 0, len(names))
	for _, name := range names {
		diffusePath := filepath.Join(dir, name)
		opts := []material.MaterialBuilderOption{
			material.WithName(strings.TrimSuffix(name, filepath.Ext(name))),
			material.WithDiffuseTexture(&common.ImportedTexture{
				Name: name,
				Path: diffusePath,
				Kind: common.TextureKindDiffuse,
			}),
		}
		if normalPath := normalSibling(diffusePath); fileExists(normalPath) {
			opts = append(opts, material.WithNormalTexture(&common.ImportedTexture{
				Name: filepath.Base(normalPath),
				Path: normalPath,
				Kind: common.TextureKindNormal,
			}))
		}
		sets = append(sets, material.NewMaterial(opts...))
	}
	return sets, nil
}

// newProgressBar returns a bar counting decoded textures, or nil when progress is disabled.
func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if w == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
