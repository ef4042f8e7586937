// Package config handles tidewater configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/pkg/math"
)

// ErrInvalid is returned by Validate for configurations that cannot build a
// water surface.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Water    WaterConfig    `yaml:"water"`
	Waves    WavesConfig    `yaml:"waves"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WaterConfig holds the surface shape and mirror settings.
type WaterConfig struct {
	Rows            int        `yaml:"rows"`
	Columns         int        `yaml:"columns"`
	QuadSize        float32    `yaml:"quad_size"`
	ClipPlaneOffset float32    `yaml:"clip_plane_offset"`
	Mode            water.Mode `yaml:"mode"`
	SupportedMode   water.Mode `yaml:"supported_mode"`
	TextureSize     int        `yaml:"texture_size"` // mirror render target edge, pixels
	Density         float32    `yaml:"density"`      // kg/m³, for buoyancy
	AutoUpdate      bool       `yaml:"auto_update"`  // rebuild the grid every frame
	Mesh            string     `yaml:"mesh"`         // optional glTF/GLB source instead of the procedural grid
}

// WaveConfig is one sine component.
type WaveConfig struct {
	Direction [2]float32 `yaml:"direction"`
	Amplitude float32    `yaml:"amplitude"`
	Length    float32    `yaml:"length"`
	Speed     float32    `yaml:"speed"`
}

// WavesConfig holds the surface animation.
type WavesConfig struct {
	Enabled    bool         `yaml:"enabled"`
	Components []WaveConfig `yaml:"components"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	def := water.DefaultWaves()
	waves := make([]WaveConfig, len(def.Components))
	for i, c := range def.Components {
		waves[i] = WaveConfig{
			Direction: [2]float32{c.Direction.X, c.Direction.Y},
			Amplitude: c.Amplitude,
			Length:    c.Length,
			Speed:     c.Speed,
		}
	}

	return &Config{
		Water: WaterConfig{
			Rows:            32,
			Columns:         32,
			QuadSize:        0.5,
			ClipPlaneOffset: water.DefaultClipPlaneOffset,
			Mode:            water.ModeRefractive,
			SupportedMode:   water.ModeRefractive,
			TextureSize:     256,
			Density:         1000,
			AutoUpdate:      true,
		},
		Waves: WavesConfig{
			Enabled:    true,
			Components: waves,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	w := c.Water
	switch {
	case w.Rows < 1 || w.Columns < 1:
		return fmt.Errorf("%w: water grid %dx%d must have at least one quad", ErrInvalid, w.Rows, w.Columns)
	case !(w.QuadSize > 0):
		return fmt.Errorf("%w: water.quad_size %g must be positive", ErrInvalid, w.QuadSize)
	case w.ClipPlaneOffset < 0:
		return fmt.Errorf("%w: water.clip_plane_offset %g must not be negative", ErrInvalid, w.ClipPlaneOffset)
	case w.TextureSize < 1:
		return fmt.Errorf("%w: water.texture_size %d must be positive", ErrInvalid, w.TextureSize)
	case w.Density < 0:
		return fmt.Errorf("%w: water.density %g must not be negative", ErrInvalid, w.Density)
	}
	for i, wc := range c.Waves.Components {
		if wc.Length <= 0 {
			return fmt.Errorf("%w: waves.components[%d].length %g must be positive", ErrInvalid, i, wc.Length)
		}
	}
	if c.Graphics.Width < 1 || c.Graphics.Height < 1 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

// WaveSet converts the wave section into the animation used by the water
// package. Disabled waves yield a flat surface.
func (c *Config) WaveSet() water.Waves {
	if !c.Waves.Enabled {
		return water.Waves{}
	}
	out := water.Waves{Components: make([]water.Wave, len(c.Waves.Components))}
	for i, wc := range c.Waves.Components {
		out.Components[i] = water.Wave{
			Direction: math.Vec2{X: wc.Direction[0], Y: wc.Direction[1]},
			Amplitude: wc.Amplitude,
			Length:    wc.Length,
			Speed:     wc.Speed,
		}
	}
	return out
}
