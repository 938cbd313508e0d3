package scene

import (
	"github.com/Carmen-Shannon/oxy-walk/engine/game_object"
	"github.com/Carmen-Shannon/oxy-walk/engine/light"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects sets the objects the model is drawn at, replacing the default instances.
//
// Parameters:
//   - objects: the objects in draw order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.objects = append([]game_object.GameObject{}, objects...)
	}
}

// WithLight sets the scene's light.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lt = l
	}
}

// WithTextureSets sets the texture sets the texture cycle command steps through.
//
// Parameters:
//   - sets: the texture sets, already uploaded
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTextureSets(sets []material.Material) SceneBuilderOption {
	return func(s *scene) {
		s.textureSets = sets
	}
}

// WithCullingDisabled turns off frustum culling so every enabled object is drawn.
//
// Parameters:
//   - disabled: true to disable culling
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}
