package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagMode       = flag.String("mode", "", "Water mode: simple, reflective or refractive")
	flagRows       = flag.Int("rows", 0, "Water grid rows")
	flagColumns    = flag.Int("columns", 0, "Water grid columns")
	flagMesh       = flag.String("mesh", "", "glTF/GLB mesh to use as the water surface")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagMode != "" {
		if err := cfg.Water.Mode.UnmarshalText([]byte(*flagMode)); err != nil {
			return err
		}
	}
	if *flagRows > 0 {
		cfg.Water.Rows = *flagRows
	}
	if *flagColumns > 0 {
		cfg.Water.Columns = *flagColumns
	}
	if *flagMesh != "" {
		cfg.Water.Mesh = *flagMesh
	}
	return nil
}
