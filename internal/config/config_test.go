package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Width != 900 || cfg.Height != 900 {
		t.Errorf("canvas = %dx%d, want 900x900", cfg.Width, cfg.Height)
	}
	if cfg.Radius != 240 || cfg.Speed != 1 || cfg.Transition != 1 || cfg.Pause != 0.5 {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.Monophyly || cfg.Intensity != 0.85 {
		t.Errorf("highlight defaults = %+v", cfg)
	}
	if cfg.Port != 8417 {
		t.Errorf("port = %d, want 8417", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".treemovie.yml")
	data := []byte("width: 1200\nradius: 300\nspeed: 2\nuse_depth: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 1200 || cfg.Radius != 300 || cfg.Speed != 2 || !cfg.UseDepth {
		t.Errorf("cfg = %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Height != 900 || cfg.Port != 8417 {
		t.Errorf("defaults clobbered: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".treemovie.yml")
	if err := os.WriteFile(path, []byte("speed: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TREEMOVIE_SPEED", "4")
	t.Setenv("TREEMOVIE_PORT", "9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Speed != 4 {
		t.Errorf("speed = %g, want env override 4", cfg.Speed)
	}
	if cfg.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Port)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte(":\n\t-"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative radius", func(c *Config) { c.Radius = -1 }},
		{"zero speed", func(c *Config) { c.Speed = 0 }},
		{"zero transition", func(c *Config) { c.Transition = 0 }},
		{"negative pause", func(c *Config) { c.Pause = -0.1 }},
		{"intensity above one", func(c *Config) { c.Intensity = 1.5 }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}
