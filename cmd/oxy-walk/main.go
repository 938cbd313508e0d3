package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-walk/config"
	"github.com/Carmen-Shannon/oxy-walk/engine"
	"github.com/Carmen-Shannon/oxy-walk/engine/camera"
	"github.com/Carmen-Shannon/oxy-walk/engine/input"
	"github.com/Carmen-Shannon/oxy-walk/engine/light"
	"github.com/Carmen-Shannon/oxy-walk/engine/loader"
	"github.com/Carmen-Shannon/oxy-walk/engine/profiler"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-walk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-walk/engine/scene"
	"github.com/Carmen-Shannon/oxy-walk/engine/timestep"
	"github.com/Carmen-Shannon/oxy-walk/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

const pipelineKey = "basic"

func init() {
	// GLFW and the GPU surface must stay on the main OS thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", config.DefaultFilename, "path to the YAML config file")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error (overrides config)")
	profile := flag.Bool("profile", false, "log frame rate and memory statistics every second")
	modelPath := flag.String("model", "", "model file to load, .obj or .gltf (overrides config)")
	flag.Parse()

	slog.SetDefault(newLogger(slog.LevelInfo))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *profile {
		cfg.Profile = true
	}
	if *modelPath != "" {
		cfg.Assets.Model = *modelPath
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		slog.Error("invalid log level", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(level))

	if err := run(cfg); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// run builds the window, GPU state, assets and scene, then drives the main loop until the
// window closes.
func run(cfg config.Config) (err error) {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithRawMouseMotion(true),
	)
	if err != nil {
		if errors.Is(err, window.ErrRawMouseMotionUnsupported) {
			return fmt.Errorf("this platform cannot capture raw mouse motion: %w", err)
		}
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer func() {
		err = errors.Join(err, win.Close())
	}()

	sh, err := shader.NewShader(pipelineKey, cfg.Path(cfg.Assets.Shader))
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(cfg.PresentMode()),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
		renderer.WithPipeline(pipeline.NewPipeline(pipelineKey,
			pipeline.WithShader(sh),
			// assets are wound counter-clockwise in a right-handed frame; the left-handed view
			// mirrors them
			pipeline.WithFrontFace(wgpu.FrontFaceCW),
		)),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	ld := loader.NewLoader(
		loader.WithUploader(r),
		loader.WithShader(sh),
		loader.WithProgress(os.Stderr),
	)

	started := time.Now()
	mdl, err := ld.Load(cfg.Path(cfg.Assets.Model))
	if err != nil {
		return err
	}
	defer mdl.Release()

	var sets []material.Material
	if cfg.Assets.Textures != "" {
		sets, err = ld.LoadTextureSets(cfg.Path(cfg.Assets.Textures))
		if err != nil {
			return err
		}
	}
	defer func() {
		for _, m := range sets {
			if p := m.BindGroupProvider(); p != nil {
				p.Release()
			}
		}
	}()
	slog.Info("assets loaded", "model", mdl.Name(), "meshes", len(mdl.Meshes()),
		"texture_sets", len(sets), "elapsed", time.Since(started).Round(time.Millisecond))

	cam := camera.NewCamera(
		camera.WithFov(degrees(cfg.Camera.FovDegrees)),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithMoveSpeed(cfg.Camera.MoveSpeed),
		camera.WithLookSpeed(cfg.Camera.LookSpeed),
		camera.WithMaxPitch(degrees(cfg.Camera.MaxPitchDegrees)),
	)

	lp, lc := cfg.Light.Position, cfg.Light.Color
	sc, err := scene.NewScene("main", mdl, sh, pipelineKey,
		scene.WithLight(light.NewLight(
			light.WithPosition(lp[0], lp[1], lp[2]),
			light.WithColor(lc[0], lc[1], lc[2]),
		)),
		scene.WithTextureSets(sets),
	)
	if err != nil {
		return err
	}
	if err := sc.Init(r, cam); err != nil {
		return err
	}
	defer sc.Release()

	bindings, err := cfg.Bindings()
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(cam),
		engine.WithScene(sc),
		engine.WithInput(input.NewInput(input.WithBindings(bindings))),
		engine.WithClock(timestep.NewClock(
			timestep.WithTickRate(time.Duration(cfg.Timestep.TickRate)),
			timestep.WithMaxFrameTime(time.Duration(cfg.Timestep.MaxFrameTime)),
		)),
		engine.WithProfiler(profiler.NewProfiler()),
		engine.WithProfiling(cfg.Profile),
	)
	if err != nil {
		return err
	}
	return eng.Run()
}

func degrees(d float32) float32 {
	return d * math.Pi / 180
}
