package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/tidewater/internal/engine/water"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test water defaults
	if cfg.Water.Rows != 32 || cfg.Water.Columns != 32 {
		t.Errorf("expected 32x32 grid, got %dx%d", cfg.Water.Rows, cfg.Water.Columns)
	}
	if cfg.Water.QuadSize != 0.5 {
		t.Errorf("expected quad size 0.5, got %f", cfg.Water.QuadSize)
	}
	if cfg.Water.ClipPlaneOffset != water.DefaultClipPlaneOffset {
		t.Errorf("expected clip offset %f, got %f", water.DefaultClipPlaneOffset, cfg.Water.ClipPlaneOffset)
	}
	if cfg.Water.Mode != water.ModeRefractive {
		t.Errorf("expected refractive mode, got %v", cfg.Water.Mode)
	}
	if !cfg.Water.AutoUpdate {
		t.Error("expected auto_update to be true by default")
	}

	// Test waves defaults
	if !cfg.Waves.Enabled || len(cfg.Waves.Components) != len(water.DefaultWaves().Components) {
		t.Errorf("expected default waves, got %+v", cfg.Waves)
	}

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
water:
  rows: 8
  columns: 12
  quad_size: 2
  clip_plane_offset: 0.1
  mode: reflective
  supported_mode: none
  texture_size: 512
  density: 1025
  auto_update: false
  mesh: "lake.glb"

waves:
  enabled: true
  components:
    - direction: [0, 1]
      amplitude: 0.5
      length: 10
      speed: 2

graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

logging:
  level: "debug"
  log_file: "water.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Water.Rows != 8 || cfg.Water.Columns != 12 {
		t.Errorf("expected 8x12 grid, got %dx%d", cfg.Water.Rows, cfg.Water.Columns)
	}
	if cfg.Water.QuadSize != 2 {
		t.Errorf("expected quad size 2, got %f", cfg.Water.QuadSize)
	}
	if cfg.Water.Mode != water.ModeReflective {
		t.Errorf("expected reflective mode, got %v", cfg.Water.Mode)
	}
	if cfg.Water.SupportedMode != water.ModeSimple {
		t.Errorf("expected supported mode simple, got %v", cfg.Water.SupportedMode)
	}
	if cfg.Water.TextureSize != 512 {
		t.Errorf("expected texture size 512, got %d", cfg.Water.TextureSize)
	}
	if cfg.Water.AutoUpdate {
		t.Error("expected auto_update to be false")
	}
	if cfg.Water.Mesh != "lake.glb" {
		t.Errorf("expected mesh lake.glb, got %s", cfg.Water.Mesh)
	}

	waves := cfg.WaveSet()
	if len(waves.Components) != 1 {
		t.Fatalf("expected 1 wave component, got %d", len(waves.Components))
	}
	if w := waves.Components[0]; w.Direction.Y != 1 || w.Amplitude != 0.5 || w.Length != 10 || w.Speed != 2 {
		t.Errorf("unexpected wave %+v", w)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "water.log" {
		t.Errorf("expected log file 'water.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "water:\n  rows: not a number\n  invalid syntax here\n"},
		{"unknown mode", "water:\n  mode: glassy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rows", func(c *Config) { c.Water.Rows = 0 }},
		{"negative columns", func(c *Config) { c.Water.Columns = -3 }},
		{"zero quad size", func(c *Config) { c.Water.QuadSize = 0 }},
		{"negative clip offset", func(c *Config) { c.Water.ClipPlaneOffset = -0.1 }},
		{"zero texture size", func(c *Config) { c.Water.TextureSize = 0 }},
		{"negative density", func(c *Config) { c.Water.Density = -1 }},
		{"zero wavelength", func(c *Config) { c.Waves.Components[0].Length = 0 }},
		{"zero window", func(c *Config) { c.Graphics.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestWaveSetDisabled(t *testing.T) {
	cfg := Default()
	cfg.Waves.Enabled = false
	if got := cfg.WaveSet(); len(got.Components) != 0 {
		t.Errorf("expected flat surface, got %d components", len(got.Components))
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("tidewater.yaml", []byte("water:\n  rows: 4\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find tidewater.yaml in current directory")
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
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "water shape flags",
			setup: func() {
				*flagRows = 6
				*flagColumns = 9
				*flagMesh = "pond.glb"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Water.Rows != 6 || cfg.Water.Columns != 9 {
					t.Errorf("expected 6x9 grid, got %dx%d", cfg.Water.Rows, cfg.Water.Columns)
				}
				if cfg.Water.Mesh != "pond.glb" {
					t.Errorf("expected mesh pond.glb, got %s", cfg.Water.Mesh)
				}
			},
			teardown: func() {
				*flagRows = 0
				*flagColumns = 0
				*flagMesh = ""
			},
		},
		{
			name:  "mode flag",
			setup: func() { *flagMode = "reflective" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Water.Mode != water.ModeReflective {
					t.Errorf("expected reflective mode, got %v", cfg.Water.Mode)
				}
			},
			teardown: func() { *flagMode = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestApplyFlagsBadMode(t *testing.T) {
	*flagMode = "murky"
	defer func() { *flagMode = "" }()

	if err := applyFlags(Default()); !errors.Is(err, water.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
water:
  rows: 10
  columns: 14
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagRows = 20
	defer func() {
		*flagConfig = ""
		*flagRows = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Rows from flag, not file
	if cfg.Water.Rows != 20 {
		t.Errorf("expected rows 20 from flag, got %d", cfg.Water.Rows)
	}
	// Columns from file
	if cfg.Water.Columns != 14 {
		t.Errorf("expected columns 14 from file, got %d", cfg.Water.Columns)
	}
	// Quad size from defaults
	if cfg.Water.QuadSize != 0.5 {
		t.Errorf("expected default quad size, got %f", cfg.Water.QuadSize)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("water:\n  quad_size: -1\n"), 0644); err != nil {
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
	cfg.Water.Mode = water.ModeReflective
	cfg.Water.Rows = 5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Water.Mode != water.ModeReflective || loaded.Water.Rows != 5 {
		t.Errorf("round trip lost water settings: %+v", loaded.Water)
	}
}
