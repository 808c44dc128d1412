package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Nodes != 31 || cfg.Trials != 100 {
		t.Fatalf("unexpected defaults: nodes=%d trials=%d", cfg.Nodes, cfg.Trials)
	}
	if got := cfg.NumCore(); got != 10 {
		t.Fatalf("NumCore() = %d, want 10 for 31 nodes at ratio 1/3", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disim.yaml")
	body := strings.Join([]string{
		"nodes: 61",
		"trials: 10",
		"ambiguity_max: 3",
		"logging:",
		"  level: debug",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Nodes != 61 || cfg.Trials != 10 || cfg.AmbiguityMax != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.TieInterval != 5 || cfg.AmbiguityMin != 1 {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("nodes: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero nodes", func(c *Config) { c.Nodes = 0 }},
		{"negative trials", func(c *Config) { c.Trials = -1 }},
		{"zero ratio", func(c *Config) { c.CPRatio = 0 }},
		{"ratio above one", func(c *Config) { c.CPRatio = 1.5 }},
		{"zero interval", func(c *Config) { c.TieInterval = 0 }},
		{"inverted ambiguity", func(c *Config) { c.AmbiguityMin = 6 }},
		{"proportion above one", func(c *Config) { c.PressureProportion = 1.1 }},
		{"zero stddev", func(c *Config) { c.ProfitStdDev = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted %+v", cfg)
			}
		})
	}
}
