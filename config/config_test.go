package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/input"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFilename)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDefaultBindingsMatchInput(t *testing.T) {
	b, err := Default().Bindings()
	if err != nil {
		t.Fatalf("Bindings: %v", err)
	}
	if b != input.DefaultBindings() {
		t.Errorf("bindings: expected %+v, got %+v", input.DefaultBindings(), b)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window != Default().Window {
		t.Errorf("window: expected defaults, got %+v", cfg.Window)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 1280
  title: walk
timestep:
  tick_rate: 10ms
renderer:
  present_mode: uncapped
  msaa: 1
assets:
  model: models/other.gltf
light:
  position: [0, 5, 0]
input:
  cycle_texture: F5
log:
  level: debug
profile: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Window.Width != 1280 || cfg.Window.Height != 600 || cfg.Window.Title != "walk" {
		t.Errorf("window: expected 1280x600 walk, got %+v", cfg.Window)
	}
	if got := time.Duration(cfg.Timestep.TickRate); got != 10*time.Millisecond {
		t.Errorf("tick rate: expected 10ms, got %v", got)
	}
	if got := time.Duration(cfg.Timestep.MaxFrameTime); got != 250*time.Millisecond {
		t.Errorf("max frame time: expected default 250ms, got %v", got)
	}
	if cfg.PresentMode() != renderer.PresentModeUncapped {
		t.Errorf("present mode: expected uncapped, got %v", cfg.PresentMode())
	}
	if cfg.Assets.Shader != "shaders/basic.wgsl" || cfg.Assets.Model != "models/other.gltf" {
		t.Errorf("assets: got %+v", cfg.Assets)
	}
	if cfg.Light.Position != [3]float32{0, 5, 0} || cfg.Light.Color != [3]float32{1, 1, 1} {
		t.Errorf("light: got %+v", cfg.Light)
	}
	b, _ := cfg.Bindings()
	if b.CycleTexture != common.KeyF1+4 || b.Forward != common.KeyW {
		t.Errorf("bindings: got %+v", b)
	}
	if !cfg.Profile {
		t.Errorf("profile: expected true")
	}
	if level, _ := ParseLevel(cfg.Log.Level); level != slog.LevelDebug {
		t.Errorf("log level: expected debug, got %v", level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "window: [", "failed to parse"},
		{"bad duration", "timestep:\n  tick_rate: soon\n", "invalid duration"},
		{"zero width", "window:\n  width: 0\n", "window size"},
		{"near past far", "camera:\n  near: 10\n  far: 1\n", "near < far"},
		{"pitch at pole", "camera:\n  max_pitch_degrees: 90\n", "max_pitch_degrees"},
		{"present mode", "renderer:\n  present_mode: mailbox\n", "present_mode"},
		{"msaa", "renderer:\n  msaa: 2\n", "msaa"},
		{"key", "input:\n  forward: up\n", "input forward"},
		{"log level", "log:\n  level: loud\n", "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = -1
	cfg.Renderer.MSAA = 3
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "window size") || !strings.Contains(err.Error(), "msaa") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestPath(t *testing.T) {
	cfg := Default()
	abs := filepath.Join(t.TempDir(), "x.obj")
	tests := []struct {
		in, want string
	}{
		{"models/cube.obj", filepath.Join("assets", "models", "cube.obj")},
		{abs, abs},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cfg.Path(tt.in); got != tt.want {
			t.Errorf("Path(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v (%v)", tt.in, tt.want, got, err)
		}
	}
}
