// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Input      InputConfig      `yaml:"input"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Screen     ScreenConfig     `yaml:"screen"`
	Storage    StorageConfig    `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds scheduler parameters.
type SimulationConfig struct {
	Seed        int64 `yaml:"seed"`          // 0 = seed from the clock
	TicksPerRun int   `yaml:"ticks_per_run"` // Default tick count offered by prompts and the GUI
	StepDelayMS int   `yaml:"step_delay_ms"` // Pause between redraws in interactive modes
	MaxTicks    int   `yaml:"max_ticks"`     // Headless run length
}

// BehaviorConfig holds the animal decision thresholds.
type BehaviorConfig struct {
	HungerThreshold     float64 `yaml:"hunger_threshold"`      // Eat below this fraction of max energy
	MateEnergyThreshold float64 `yaml:"mate_energy_threshold"` // Mate above this fraction of max energy
	MateChance          float64 `yaml:"mate_chance"`           // Uniform draw must exceed this
	MaxNearbyMates      int     `yaml:"max_nearby_mates"`      // Crowding cap on mating
	MoveCost            int     `yaml:"move_cost"`             // Energy per step
}

// InputConfig holds the default scenario files.
type InputConfig struct {
	MapPath     string `yaml:"map_path"`
	SpeciesPath string `yaml:"species_path"`
}

// TelemetryConfig holds statistics collection parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per statistics window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PopulationCrash PopulationCrashConfig `yaml:"population_crash"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// PopulationCrashConfig holds population crash detection parameters.
type PopulationCrashConfig struct {
	DropFraction  float64 `yaml:"drop_fraction"`  // Fraction of the recent average that must be lost
	MinPopulation int     `yaml:"min_population"` // Ignore crashes from tiny populations
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	Windows int     `yaml:"windows"` // Consecutive windows required
	MaxCV   float64 `yaml:"max_cv"`  // Max coefficient of variation per kind
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"` // Pixels per grid cell
}

// StorageConfig holds save slot settings.
type StorageConfig struct {
	AppName string `yaml:"app_name"`
	Slot    string `yaml:"slot"` // Default save slot name
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Seed      int64         // Simulation.Seed, or a clock seed when 0
	StepDelay time.Duration // Simulation.StepDelayMS as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the scheduler cannot run with.
func (c *Config) validate() error {
	b := c.Behavior
	for name, v := range map[string]float64{
		"hunger_threshold":      b.HungerThreshold,
		"mate_energy_threshold": b.MateEnergyThreshold,
		"mate_chance":           b.MateChance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("behavior.%s must be within [0, 1], got %g", name, v)
		}
	}
	if b.MoveCost < 0 {
		return fmt.Errorf("behavior.move_cost must not be negative, got %d", b.MoveCost)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("telemetry.stats_window must be positive, got %d", c.Telemetry.StatsWindow)
	}
	if c.Simulation.TicksPerRun < 0 || c.Simulation.MaxTicks < 0 {
		return fmt.Errorf("simulation tick counts must not be negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Seed = c.Simulation.Seed
	if c.Derived.Seed == 0 {
		c.Derived.Seed = time.Now().UnixNano()
	}
	c.Derived.StepDelay = time.Duration(c.Simulation.StepDelayMS) * time.Millisecond
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
