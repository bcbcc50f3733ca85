package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/config"
	"github.com/Faultbox/phongview/internal/engine/debug"
	"github.com/Faultbox/phongview/internal/engine/input"
	"github.com/Faultbox/phongview/internal/engine/renderer"
	"github.com/Faultbox/phongview/internal/engine/window"
)

// App is the interactive viewer: window, GL renderer, input and scene.
type App struct {
	log      *zap.Logger
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	viewer   *Viewer
	shots    *debug.ScreenshotCapture
}

// NewApp opens the window, builds the renderer and loads the scene.
// Any load error is returned and nothing is left open.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("models", cfg.Scene.ModelsDir),
	)

	a := &App{log: log}

	var err error
	a.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		VSync:        cfg.Window.VSync,
		CaptureMouse: cfg.Window.CaptureMouse,
		Logger:       log.Named("window"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	w, h := a.window.GetSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		ClearColor: cfg.Scene.ClearColor,
		Logger:     log.Named("renderer"),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.viewer, err = New(cfg, a.renderer, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.input = input.New()
	a.shots = debug.NewScreenshotCapture(cfg.Window.ScreenshotDir, "phongview")
	a.window.Show()

	log.Info("viewer initialized",
		zap.Int("models", len(a.viewer.Registry().Models())),
		zap.Int32("vertices", a.viewer.Registry().VertexCount()),
	)
	return a, nil
}

// Run loops until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.log.Info("starting render loop")

	frameCount := 0
	fpsTimer := time.Now()

	for {
		if a.input.Update() {
			a.log.Info("quit requested")
			return nil
		}
		f := a.input.Frame()

		if f.Resized {
			a.renderer.Resize(f.Width, f.Height)
		}

		a.viewer.HandleInput(f)
		if a.viewer.Wireframe() != a.renderer.Wireframe() {
			a.renderer.SetWireframe(a.viewer.Wireframe())
		}
		a.viewer.Advance()

		a.renderer.Begin()
		if err := a.viewer.Draw(a.renderer.Aspect()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.viewer.TakeScreenshotRequest() {
			a.screenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("ns", a.viewer.Material().Ns))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// screenshot saves the back buffer. Failures are logged and the loop goes on.
func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources, the window and SDL.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}
