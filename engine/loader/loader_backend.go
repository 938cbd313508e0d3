package loader

import (
	"github.com/Carmen-Shannon/oxy-walk/engine/model"
)

// loaderBackend defines the generic interface for importing models from files.
// Concrete implementations (objLoaderBackend, gltfLoaderBackend) handle format-specific details
// and return single-indexed meshes with normals filled in.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// Extensions lists the lower-case file extensions, dot included, the backend accepts.
	//
	// Returns:
	//   - []string: the extensions
	Extensions() []string
}
