package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-walk/engine/model"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/shader"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithUploader is an option builder that sets the GPU uploader, usually the Renderer.
//
// Parameters:
//   - u: the uploader
//
// Returns:
//   - LoaderBuilderOption: a function that applies the uploader option to a loader
func WithUploader(u Uploader) LoaderBuilderOption {
	return func(l *loader) {
		l.uploader = u
	}
}

// WithShader is an option builder that sets the shader whose material group layout drives
// material GPU init.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - LoaderBuilderOption: a function that applies the shader option to a loader
func WithShader(s shader.Shader) LoaderBuilderOption {
	return func(l *loader) {
		l.shader = s
	}
}

// WithProgress is an option builder that reports texture decoding progress to w. A nil writer
// disables the progress bar.
//
// Parameters:
//   - w: the progress output, typically os.Stderr
//
// Returns:
//   - LoaderBuilderOption: a function that applies the progress option to a loader
func WithProgress(w io.Writer) LoaderBuilderOption {
	return func(l *loader) {
		l.progress = w
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
