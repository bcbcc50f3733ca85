package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Title != "Iluminação" {
		t.Errorf("expected title Iluminação, got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Camera.Position != [3]float32{0, 0, 15} {
		t.Errorf("expected camera at (0,0,15), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.Yaw != -90 {
		t.Errorf("expected yaw -90, got %f", cfg.Camera.Yaw)
	}
	if cfg.Camera.Speed != 0.05 || cfg.Camera.Sensitivity != 0.3 {
		t.Errorf("expected speed 0.05 sensitivity 0.3, got %f %f", cfg.Camera.Speed, cfg.Camera.Sensitivity)
	}
	if cfg.Camera.FOV != 45 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 1000 {
		t.Errorf("unexpected projection %f %f %f", cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far)
	}

	m := cfg.Scene.Material
	if m.Ka != 0.1 || m.Kd != 0.1 || m.Ks != 0.9 || m.Ns != 32 {
		t.Errorf("unexpected material %+v", m)
	}
	if cfg.Scene.MaxTextures != 10 {
		t.Errorf("expected 10 texture slots, got %d", cfg.Scene.MaxTextures)
	}

	if len(cfg.Scene.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(cfg.Scene.Models))
	}
	caixa, luz := cfg.Scene.Models[0], cfg.Scene.Models[1]
	if caixa.Name != "caixa" || caixa.Light || caixa.Axis != [3]float32{0, 1, 0} {
		t.Errorf("unexpected caixa %+v", caixa)
	}
	if luz.Name != "luz" || !luz.Light || luz.Scale != [3]float32{0.1, 0.1, 0.1} {
		t.Errorf("unexpected luz %+v", luz)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

camera:
  position: [1, 2, 3]
  fov: 60

scene:
  models_dir: /srv/models
  material:
    ns: 64
  models:
    - name: mesa
      axis: [0, 1, 0]
      angle: 45
      translation: [0, -1, 0]
      scale: [2, 2, 2]
    - name: lampada
      light: true
      scale: [0.2, 0.2, 0.2]

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Window.Title != "Iluminação" {
		t.Errorf("title should keep its default, got %s", cfg.Window.Title)
	}

	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected camera at (1,2,3), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.Far != 1000 {
		t.Errorf("far should keep its default, got %f", cfg.Camera.Far)
	}

	if cfg.Scene.ModelsDir != "/srv/models" {
		t.Errorf("expected models dir /srv/models, got %s", cfg.Scene.ModelsDir)
	}
	if cfg.Scene.Material.Ns != 64 || cfg.Scene.Material.Ks != 0.9 {
		t.Errorf("expected ns 64 with default ks, got %+v", cfg.Scene.Material)
	}

	if len(cfg.Scene.Models) != 2 {
		t.Fatalf("file model list should replace the default, got %d models", len(cfg.Scene.Models))
	}
	mesa := cfg.Scene.Models[0]
	if mesa.Name != "mesa" || mesa.Angle != 45 || mesa.Translation != [3]float32{0, -1, 0} {
		t.Errorf("unexpected mesa %+v", mesa)
	}
	if !cfg.Scene.Models[1].Light {
		t.Error("expected lampada to be a light")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileWrongVectorLength(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "vec.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  position: [1, 2]\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for two-element position")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"near plane zero", func(c *Config) { c.Camera.Near = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }},
		{"no texture slots", func(c *Config) { c.Scene.MaxTextures = 0 }},
		{"no models", func(c *Config) { c.Scene.Models = nil }},
		{"unnamed model", func(c *Config) { c.Scene.Models[0].Name = "" }},
		{"duplicate model", func(c *Config) { c.Scene.Models[1].Name = "caixa" }},
		{"no light", func(c *Config) { c.Scene.Models[1].Light = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "models flag",
			setup: func() { *flagModels = "/data/scene" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.ModelsDir != "/data/scene" {
					t.Errorf("expected models dir /data/scene, got %s", cfg.Scene.ModelsDir)
				}
			},
			teardown: func() { *flagModels = "" },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "/tmp/phongview.log" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "/tmp/phongview.log" {
					t.Errorf("expected log file override, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width comes from the flag, height from the file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  models: []\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Material.Ns = 128
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	loaded.Scene.Models = nil
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Scene.Material.Ns != 128 {
		t.Errorf("expected ns 128 after reload, got %f", loaded.Scene.Material.Ns)
	}
	if len(loaded.Scene.Models) != 2 || loaded.Scene.Models[1].Name != "luz" {
		t.Errorf("models not preserved: %+v", loaded.Scene.Models)
	}
	if loaded.Window.Title != "Iluminação" {
		t.Errorf("title not preserved: %s", loaded.Window.Title)
	}
}
