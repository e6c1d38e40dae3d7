// Package config loads treemovie CLI configuration from a YAML file with
// environment variable overrides (TREEMOVIE_*).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every tunable of the viewer, exporter, and server.
type Config struct {
	// Canvas dimensions in pixels (viewer window, SVG viewport).
	Width  int `koanf:"width"`
	Height int `koanf:"height"`

	// Layout geometry.
	Radius           float64 `koanf:"radius"`
	ExtensionPadding float64 `koanf:"extension_padding"`
	LabelPadding     float64 `koanf:"label_padding"`
	UseDepth         bool    `koanf:"use_depth"`

	// Playback timing.
	Speed      float64 `koanf:"speed"`
	Transition float64 `koanf:"transition"` // seconds per frame transition
	Pause      float64 `koanf:"pause"`      // seconds held at each frame
	Monophyly  bool    `koanf:"monophyly"`
	Intensity  float64 `koanf:"intensity"`

	// Rendering style.
	StrokeWidth   float64 `koanf:"stroke_width"`
	NodeDotRadius float64 `koanf:"node_dot_radius"`
	FontSize      float64 `koanf:"font_size"`

	// Server.
	Port     int  `koanf:"port"`
	AllowAll bool `koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	return &Config{
		Width:            900,
		Height:           900,
		Radius:           240,
		ExtensionPadding: 12,
		LabelPadding:     18,
		Speed:            1,
		Transition:       1,
		Pause:            0.5,
		Monophyly:        true,
		Intensity:        0.85,
		StrokeWidth:      2,
		NodeDotRadius:    2.5,
		FontSize:         11,
		Port:             8417,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TREEMOVIE_*). A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("TREEMOVIE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TREEMOVIE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if c.Radius <= 0 {
		return fmt.Errorf("radius must be positive")
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive")
	}
	if c.Transition <= 0 {
		return fmt.Errorf("transition must be positive")
	}
	if c.Pause < 0 {
		return fmt.Errorf("pause must be non-negative")
	}
	if c.Intensity < 0 || c.Intensity > 1 {
		return fmt.Errorf("intensity must be in [0, 1]")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}
	return nil
}
