// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	VSync         bool   `yaml:"vsync"`
	CaptureMouse  bool   `yaml:"capture_mouse"`
	ScreenshotDir string `yaml:"screenshot_dir"` // F12 captures land here
}

// CameraConfig holds the fly camera's starting pose and tuning.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Front       [3]float32 `yaml:"front"`
	Up          [3]float32 `yaml:"up"`
	Yaw         float32    `yaml:"yaw"`   // degrees
	Pitch       float32    `yaml:"pitch"` // degrees
	PitchLimit  float32    `yaml:"pitch_limit"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FOV         float32    `yaml:"fov"` // vertical, degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// SceneConfig lists the models to load and how to light them.
type SceneConfig struct {
	ModelsDir   string           `yaml:"models_dir"`
	MaxTextures int              `yaml:"max_textures"`
	ClearColor  [3]float32       `yaml:"clear_color"`
	Material    MaterialConfig   `yaml:"material"`
	Light       LightOrbitConfig `yaml:"light"`
	Models      []ModelConfig    `yaml:"models"`
}

// MaterialConfig holds the Phong coefficients applied to every draw.
type MaterialConfig struct {
	Ka float32 `yaml:"ka"`
	Kd float32 `yaml:"kd"`
	Ks float32 `yaml:"ks"`
	Ns float32 `yaml:"ns"`
}

// LightOrbitConfig animates light sources on a circle in the plane z = Height.
type LightOrbitConfig struct {
	Radius     float32 `yaml:"radius"`
	Height     float32 `yaml:"height"`
	StartAngle float32 `yaml:"start_angle"` // radians
	Step       float32 `yaml:"step"`        // radians per frame
}

// ModelConfig is one model directory under Scene.ModelsDir.
type ModelConfig struct {
	Name        string     `yaml:"name"`
	Light       bool       `yaml:"light"`
	Angle       float32    `yaml:"angle"` // degrees
	Axis        [3]float32 `yaml:"axis"`
	Translation [3]float32 `yaml:"translation"`
	Scale       [3]float32 `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in scene: a wooden box lit by an orbiting lamp.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Iluminação",
			Width:         1280,
			Height:        720,
			VSync:         true,
			CaptureMouse:  true,
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 15},
			Front:       [3]float32{0, 0, -1},
			Up:          [3]float32{0, 1, 0},
			Yaw:         -90,
			Pitch:       0,
			PitchLimit:  90,
			Speed:       0.05,
			Sensitivity: 0.3,
			FOV:         45,
			Near:        0.1,
			Far:         1000,
		},
		Scene: SceneConfig{
			ModelsDir:   "models",
			MaxTextures: 10,
			ClearColor:  [3]float32{0.2, 0.2, 0.2},
			Material:    MaterialConfig{Ka: 0.1, Kd: 0.1, Ks: 0.9, Ns: 32},
			Light: LightOrbitConfig{
				Radius:     0.5,
				Height:     3,
				StartAngle: 0.1,
				Step:       0.05,
			},
			Models: []ModelConfig{
				{
					Name:  "caixa",
					Axis:  [3]float32{0, 1, 0},
					Scale: [3]float32{1, 1, 1},
				},
				{
					Name:  "luz",
					Light: true,
					Axis:  [3]float32{0, 0, 1},
					Scale: [3]float32{0.1, 0.1, 0.1},
				},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if c.Scene.MaxTextures <= 0 {
		return fmt.Errorf("%w: max_textures %d", ErrInvalid, c.Scene.MaxTextures)
	}
	if len(c.Scene.Models) == 0 {
		return fmt.Errorf("%w: no models", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Scene.Models))
	lights := 0
	for i, m := range c.Scene.Models {
		if m.Name == "" {
			return fmt.Errorf("%w: model %d has no name", ErrInvalid, i)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: model %q listed twice", ErrInvalid, m.Name)
		}
		seen[m.Name] = true
		if m.Light {
			lights++
		}
	}
	if lights == 0 {
		return fmt.Errorf("%w: no light source model", ErrInvalid)
	}
	return nil
}
