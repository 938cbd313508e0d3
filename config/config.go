package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-walk/common"
	"github.com/Carmen-Shannon/oxy-walk/engine/input"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the config file looked up in the working directory.
const DefaultFilename = "oxy-walk.yml"

// maxConfigSize bounds the file read so a wrong path cannot pull in something huge.
const maxConfigSize = 1024 * 1024

// Config is the whole application configuration as read from YAML.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Timestep TimestepConfig `yaml:"timestep"`
	Renderer RendererConfig `yaml:"renderer"`
	Assets   AssetsConfig   `yaml:"assets"`
	Light    LightConfig    `yaml:"light"`
	Input    InputConfig    `yaml:"input"`
	Log      LogConfig      `yaml:"log"`
	Profile  bool           `yaml:"profile"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	FovDegrees      float32 `yaml:"fov_degrees"`
	Near            float32 `yaml:"near"`
	Far             float32 `yaml:"far"`
	MoveSpeed       float32 `yaml:"move_speed"`
	LookSpeed       float32 `yaml:"look_speed"`
	MaxPitchDegrees float32 `yaml:"max_pitch_degrees"`
}

type TimestepConfig struct {
	TickRate     Duration `yaml:"tick_rate"`
	MaxFrameTime Duration `yaml:"max_frame_time"`
}

type RendererConfig struct {
	PresentMode string `yaml:"present_mode"`
	MSAA        uint32 `yaml:"msaa"`
	Software    bool   `yaml:"software"`
}

// AssetsConfig names the files to load. Model, Shader and Textures are relative to Dir unless
// absolute.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`
	Model    string `yaml:"model"`
	Shader   string `yaml:"shader"`
	Textures string `yaml:"textures"`
}

type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

// InputConfig holds key names as accepted by common.ParseKey.
type InputConfig struct {
	Forward      string `yaml:"forward"`
	Back         string `yaml:"back"`
	Left         string `yaml:"left"`
	Right        string `yaml:"right"`
	FlyingCamera string `yaml:"flying_camera"`
	FPSCamera    string `yaml:"fps_camera"`
	CycleTexture string `yaml:"cycle_texture"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration written in YAML as a Go duration string ("16.666666ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration: an 800x600 window, the cube model with the
// basic shader, a 60Hz fixed timestep and WASD controls.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 800, Height: 600, Title: "oxy-walk"},
		Camera: CameraConfig{
			FovDegrees:      50,
			Near:            0.1,
			Far:             100,
			MoveSpeed:       0.01,
			LookSpeed:       0.5,
			MaxPitchDegrees: 89,
		},
		Timestep: TimestepConfig{
			TickRate:     Duration(16_666_666 * time.Nanosecond),
			MaxFrameTime: Duration(250 * time.Millisecond),
		},
		Renderer: RendererConfig{PresentMode: "vsync", MSAA: 4},
		Assets: AssetsConfig{
			Dir:      "assets",
			Model:    "models/cube.obj",
			Shader:   "shaders/basic.wgsl",
			Textures: "textures",
		},
		Light: LightConfig{Position: [3]float32{2, 2, -2}, Color: [3]float32{1, 1, 1}},
		Input: InputConfig{
			Forward:      "w",
			Back:         "s",
			Left:         "a",
			Right:        "d",
			FlyingCamera: "f8",
			FPSCamera:    "f9",
			CycleTexture: "t",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an error: the
// defaults are returned and a warning is logged. The result is validated.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the configuration
//   - error: error if the file cannot be read, parsed or fails validation
func Load(path string) (Config, error) {
	cfg := Default()

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config %s: %w", path, err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config %s is too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov_degrees must be in (0, 180), got %v", c.Camera.FovDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes must satisfy 0 < near < far, got near %v far %v", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.MoveSpeed < 0 || c.Camera.LookSpeed < 0 {
		errs = append(errs, errors.New("camera speeds must not be negative"))
	}
	if c.Camera.MaxPitchDegrees <= 0 || c.Camera.MaxPitchDegrees >= 90 {
		errs = append(errs, fmt.Errorf("camera max_pitch_degrees must be in (0, 90), got %v", c.Camera.MaxPitchDegrees))
	}
	if c.Timestep.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("timestep tick_rate must be positive, got %v", time.Duration(c.Timestep.TickRate)))
	}
	if c.Timestep.MaxFrameTime < 0 {
		errs = append(errs, fmt.Errorf("timestep max_frame_time must not be negative, got %v", time.Duration(c.Timestep.MaxFrameTime)))
	}
	if _, ok := renderer.ParsePresentMode(c.Renderer.PresentMode); !ok {
		errs = append(errs, fmt.Errorf("renderer present_mode %q is not vsync or uncapped", c.Renderer.PresentMode))
	}
	if !renderer.MSAASampleCount(c.Renderer.MSAA).Valid() {
		errs = append(errs, fmt.Errorf("renderer msaa must be 1, 4, 8 or 16, got %d", c.Renderer.MSAA))
	}
	if c.Assets.Model == "" || c.Assets.Shader == "" {
		errs = append(errs, errors.New("assets model and shader are required"))
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Path resolves an asset path against the assets directory.
func (c Config) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Assets.Dir, rel)
}

// Bindings resolves the configured key names.
//
// Returns:
//   - input.Bindings: the key bindings
//   - error: error naming the first unknown key
func (c Config) Bindings() (input.Bindings, error) {
	var b input.Bindings
	keys := []struct {
		name   string
		value  string
		target *common.Key
	}{
		{"forward", c.Input.Forward, &b.Forward},
		{"back", c.Input.Back, &b.Back},
		{"left", c.Input.Left, &b.Left},
		{"right", c.Input.Right, &b.Right},
		{"flying_camera", c.Input.FlyingCamera, &b.FlyingCamera},
		{"fps_camera", c.Input.FPSCamera, &b.FPSCamera},
		{"cycle_texture", c.Input.CycleTexture, &b.CycleTexture},
	}
	for _, k := range keys {
		key, err := common.ParseKey(k.value)
		if err != nil {
			return b, fmt.Errorf("input %s: %w", k.name, err)
		}
		*k.target = key
	}
	return b, nil
}

// PresentMode returns the configured present mode, VSync when the name is unknown.
func (c Config) PresentMode() renderer.PresentMode {
	mode, _ := renderer.ParsePresentMode(c.Renderer.PresentMode)
	return mode
}

// ParseLevel maps debug, info, warn or error to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}
