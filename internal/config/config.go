// Package config provides experiment configuration loading for disim.
// Defaults reproduce the 1997 threshold-model runs; a YAML file can
// override any field, and CLI flags override the file.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains all experiment settings for one simulation sweep.
type Config struct {
	// Nodes is the total network size.
	Nodes int `yaml:"nodes"`

	// Trials is the number of repetitions per parameter cell.
	Trials int `yaml:"trials"`

	// CPRatio is the fraction of nodes assigned to the core, rounded to
	// the nearest whole node.
	CPRatio float64 `yaml:"cp_ratio"`

	// TieInterval is the sweep step for the peripheral tie count.
	TieInterval int `yaml:"tie_interval"`

	// AmbiguityMin and AmbiguityMax bound the swept ambiguity levels
	// (inclusive, step 1).
	AmbiguityMin int `yaml:"ambiguity_min"`
	AmbiguityMax int `yaml:"ambiguity_max"`

	// PressureProportion is the fraction of the opposite segment a node
	// must neighbor to count as a boundary pressure point.
	PressureProportion float64 `yaml:"pressure_proportion"`

	// ProfitMean and ProfitStdDev parameterize the assessed-profit draw.
	ProfitMean   float64 `yaml:"profit_mean"`
	ProfitStdDev float64 `yaml:"profit_stddev"`

	// Seed is the base random seed; all cell and trial sources derive
	// from it deterministically.
	Seed uint64 `yaml:"seed"`

	// Workers is the number of concurrent trials per cell. 1 runs
	// sequentially.
	Workers int `yaml:"workers"`

	// Logging configures log verbosity.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures disim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or
	// "trace". "debug" enables the per-trial trace.jsonl output.
	Level string `yaml:"level"`
}

// Default returns the configuration of the original paper's first
// simulation set: 31 nodes, core a third of the network, 100 trials,
// ambiguity 1-5, ties stepped by 5.
func Default() *Config {
	return &Config{
		Nodes:              31,
		Trials:             100,
		CPRatio:            1.0 / 3.0,
		TieInterval:        5,
		AmbiguityMin:       1,
		AmbiguityMax:       5,
		PressureProportion: 0.5,
		ProfitMean:         -1.0,
		ProfitStdDev:       1.0,
		Seed:               42,
		Workers:            1,
		Logging:            LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. A missing field keeps
// its default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// NumCore returns the core size implied by Nodes and CPRatio.
func (c *Config) NumCore() int {
	return int(math.Round(float64(c.Nodes) * c.CPRatio))
}

// Validate rejects parameter combinations before any simulation work
// begins.
func (c *Config) Validate() error {
	switch {
	case c.Nodes <= 0:
		return fmt.Errorf("nodes must be positive, got %d", c.Nodes)
	case c.Trials <= 0:
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	case c.CPRatio <= 0 || c.CPRatio > 1:
		return fmt.Errorf("cp_ratio must be in (0, 1], got %g", c.CPRatio)
	case c.TieInterval <= 0:
		return fmt.Errorf("tie_interval must be positive, got %d", c.TieInterval)
	case c.AmbiguityMin > c.AmbiguityMax:
		return fmt.Errorf("ambiguity_min %d exceeds ambiguity_max %d", c.AmbiguityMin, c.AmbiguityMax)
	case c.PressureProportion < 0 || c.PressureProportion > 1:
		return fmt.Errorf("pressure_proportion must be in [0, 1], got %g", c.PressureProportion)
	case c.ProfitStdDev <= 0:
		return fmt.Errorf("profit_stddev must be positive, got %g", c.ProfitStdDev)
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
