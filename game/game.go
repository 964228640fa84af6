// Package game owns the simulation context: the ECS world, the grid index,
// the tick scheduler and the telemetry hooks fed by it.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/loader"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed     int64
	Behavior systems.BehaviorConfig

	// Rand replaces the seeded PCG source. Snapshots taken from a
	// simulation with a custom source carry no RNG state.
	Rand systems.Rand

	LogStats        bool
	StatsWindow     int // ticks per telemetry window
	PerfWindow      int
	BookmarkHistory int
	Bookmarks       telemetry.BookmarkThresholds
	SnapshotDir     string // snapshot on bookmark when set
	OutputDir       string // CSV output when set

	// Config is written to the output directory when both are set.
	Config *config.Config

	// StatsCallback receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns options with the canonical behavior policy.
func DefaultOptions() Options {
	return Options{
		Seed:            1,
		Behavior:        systems.DefaultBehaviorConfig(),
		StatsWindow:     10,
		PerfWindow:      60,
		BookmarkHistory: 20,
		Bookmarks:       telemetry.DefaultBookmarkThresholds(),
	}
}

// OptionsFromConfig maps a loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	b := cfg.Bookmarks
	return Options{
		Seed: cfg.Derived.Seed,
		Behavior: systems.BehaviorConfig{
			HungerThreshold:     cfg.Behavior.HungerThreshold,
			MateEnergyThreshold: cfg.Behavior.MateEnergyThreshold,
			MateChance:          cfg.Behavior.MateChance,
			MaxNearbyMates:      cfg.Behavior.MaxNearbyMates,
			MoveCost:            cfg.Behavior.MoveCost,
		},
		StatsWindow:     cfg.Telemetry.StatsWindow,
		PerfWindow:      cfg.Telemetry.PerfCollectorWindow,
		BookmarkHistory: cfg.Telemetry.BookmarkHistorySize,
		Bookmarks: telemetry.BookmarkThresholds{
			CrashDropFraction:  b.PopulationCrash.DropFraction,
			CrashMinPopulation: b.PopulationCrash.MinPopulation,
			StableWindows:      b.StableEcosystem.Windows,
			StableMaxCV:        b.StableEcosystem.MaxCV,
		},
		Config: cfg,
	}
}

// Simulation holds the complete simulation state.
type Simulation struct {
	world *ecs.World
	grid  *systems.Grid

	seed int64
	pcg  *rand.PCG // nil when Options.Rand was supplied
	rng  systems.Rand

	behaviorCfg systems.BehaviorConfig
	behavior    *systems.BehaviorSystem
	flora       *systems.FloraSystem
	registry    *systems.SystemRegistry

	species loader.SpeciesTable
	tick    int

	// Telemetry
	opts             Options
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
}

// NewSimulation creates an empty simulation. Call Load or Restore to
// populate it.
func NewSimulation(opts Options) (*Simulation, error) {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output manager: %w", err)
	}
	if opts.Config != nil {
		if err := om.WriteConfig(opts.Config); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config: %w", err)
		}
	}

	s := &Simulation{
		seed:          opts.Seed,
		rng:           opts.Rand,
		behaviorCfg:   opts.Behavior,
		registry:      systems.NewSystemRegistry(),
		opts:          opts,
		perfCollector: telemetry.NewPerfCollector(opts.PerfWindow, nil),
		outputManager: om,
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
	}
	if s.rng == nil {
		s.pcg = systems.NewPCG(opts.Seed)
		s.rng = rand.New(s.pcg)
	}
	world, grid := newGrid(0, 0)
	s.install(world, grid, nil, 0)

	slog.Debug("simulation created", "seed", opts.Seed, "output_dir", om.Dir())
	return s, nil
}

// newGrid creates an empty rows x cols grid in a fresh world. Nothing in s
// changes until install.
func newGrid(rows, cols int) (*ecs.World, *systems.Grid) {
	world := ecs.NewWorld()
	return world, systems.NewGrid(world, rows, cols)
}

// install makes world and grid the live state at tick and starts a new
// telemetry window.
func (s *Simulation) install(world *ecs.World, grid *systems.Grid, table loader.SpeciesTable, tick int) {
	s.world = world
	s.grid = grid
	s.species = table
	s.behavior = systems.NewBehaviorSystem(s.grid, s.rng, s.behaviorCfg)
	s.flora = systems.NewFloraSystem(s.grid)
	s.tick = tick
	s.collector = telemetry.NewCollector(s.opts.StatsWindow)
	s.collector.Reset(tick)
	s.bookmarkDetector = telemetry.NewBookmarkDetector(s.opts.BookmarkHistory, s.opts.Bookmarks)
}

// Grid exposes the grid index for read-only queries.
func (s *Simulation) Grid() *systems.Grid {
	return s.grid
}

// Species returns the loaded species table.
func (s *Simulation) Species() loader.SpeciesTable {
	return s.species
}

// Registry returns the system registry.
func (s *Simulation) Registry() *systems.SystemRegistry {
	return s.registry
}

// Seed returns the RNG seed.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int {
	return s.tick
}

// PerfStats returns timing statistics over the recent ticks.
func (s *Simulation) PerfStats() telemetry.PerfStats {
	return s.perfCollector.Stats()
}

// RecordFrame records frame timing for the graphical viewer.
func (s *Simulation) RecordFrame() {
	s.perfCollector.RecordFrame()
}

// Close flushes and closes telemetry output.
func (s *Simulation) Close() error {
	return s.outputManager.Close()
}
