package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/console"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/loader"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/viewer"
)

type flags struct {
	configPath  string
	headless    bool
	gui         bool
	logStats    bool
	statsWindow int
	snapshotDir string
	outputDir   string
	seed        int64
	maxTicks    int
	mapPath     string
	speciesPath string
	loadSlot    string
	logFile     string
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.BoolVar(&f.headless, "headless", false, "Run without a terminal or window")
	flag.BoolVar(&f.gui, "gui", false, "Open the graphical viewer instead of the terminal UI")
	flag.BoolVar(&f.logStats, "log-stats", false, "Output window stats via slog")
	flag.IntVar(&f.statsWindow, "stats-window", 0, "Stats window size in ticks (0 = use config)")
	flag.StringVar(&f.snapshotDir, "snapshot-dir", "", "Directory for bookmark snapshot files")
	flag.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = use config)")
	flag.IntVar(&f.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = config value in headless mode, unlimited otherwise)")
	flag.StringVar(&f.mapPath, "map", "", "Map file (empty = use config)")
	flag.StringVar(&f.speciesPath, "species", "", "Species file, .txt/.yaml/.csv (empty = use config)")
	flag.StringVar(&f.loadSlot, "load-slot", "", "Resume from a save slot instead of loading files")
	flag.StringVar(&f.logFile, "log-file", "", "Log file for the terminal UI (empty = discard)")

	flag.Parse()

	if err := run(f); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	if err := config.Init(f.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	closeLog, err := setupLogging(f)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := game.OptionsFromConfig(cfg)
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	if f.statsWindow > 0 {
		opts.StatsWindow = f.statsWindow
	}
	opts.LogStats = f.logStats
	opts.SnapshotDir = f.snapshotDir
	opts.OutputDir = f.outputDir

	sim, err := game.NewSimulation(opts)
	if err != nil {
		return err
	}
	defer sim.Close()

	slots, err := telemetry.OpenSlotStore(cfg.Storage.AppName)
	if err != nil {
		slog.Warn("save slots unavailable", "error", err)
	}

	if err := populate(sim, cfg, f, slots); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case f.headless:
		return runHeadless(ctx, sim, f, cfg)
	case f.gui:
		runGUI(sim, f, cfg, slots)
		return nil
	default:
		return runTerminal(ctx, sim, cfg, slots)
	}
}

// setupLogging installs the default logger. The terminal UI owns stdout, so
// it logs to a file or nowhere.
func setupLogging(f flags) (func(), error) {
	var w io.Writer = os.Stdout
	closeFn := func() {}
	if !f.headless && !f.gui {
		w = io.Discard
		if f.logFile != "" {
			file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("opening log file: %w", err)
			}
			w = file
			closeFn = func() { file.Close() }
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, nil)))
	return closeFn, nil
}

// populate loads the starting state from a save slot or the scenario files.
func populate(sim *game.Simulation, cfg *config.Config, f flags, slots *telemetry.SlotStore) error {
	if f.loadSlot != "" {
		if err := sim.LoadSlot(slots, f.loadSlot); err != nil {
			return fmt.Errorf("loading slot %q: %w", f.loadSlot, err)
		}
		slog.Info("resumed from slot", "slot", f.loadSlot, "tick", sim.Tick())
		return nil
	}

	mapPath := cfg.Input.MapPath
	if f.mapPath != "" {
		mapPath = f.mapPath
	}
	speciesPath := cfg.Input.SpeciesPath
	if f.speciesPath != "" {
		speciesPath = f.speciesPath
	}
	sc, table, err := loader.Load(mapPath, speciesPath)
	if err != nil {
		return err
	}
	return sim.Load(sc, table)
}

func runHeadless(ctx context.Context, sim *game.Simulation, f flags, cfg *config.Config) error {
	maxTicks := cfg.Simulation.MaxTicks
	if f.maxTicks > 0 {
		maxTicks = f.maxTicks
	}

	slog.Info("starting headless simulation",
		"seed", sim.Seed(),
		"stats_window", f.statsWindow,
		"max_ticks", maxTicks,
	)

	for sim.Tick() < maxTicks {
		if err := ctx.Err(); err != nil {
			slog.Info("interrupted", "tick", sim.Tick())
			break
		}
		sim.Step()
	}
	slog.Info("simulation finished", "tick", sim.Tick())
	sim.LogWorldState()

	if f.outputDir != "" {
		return sim.SaveMap(filepath.Join(f.outputDir, "final_map.txt"))
	}
	return nil
}

func runGUI(sim *game.Simulation, f flags, cfg *config.Config, slots *telemetry.SlotStore) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "EcoSim")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	saveMap := "saved_map.txt"
	if f.outputDir != "" {
		saveMap = filepath.Join(f.outputDir, saveMap)
	}
	v := viewer.New(sim, viewer.Options{
		CellSize:     cfg.Screen.CellSize,
		StepDelay:    cfg.Derived.StepDelay,
		DefaultTicks: cfg.Simulation.TicksPerRun,
		Slots:        slots,
		SlotName:     cfg.Storage.Slot,
		SaveMapPath:  saveMap,
	})

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if f.maxTicks > 0 && sim.Tick() >= f.maxTicks {
			break
		}
	}
}

func runTerminal(ctx context.Context, sim *game.Simulation, cfg *config.Config, slots *telemetry.SlotStore) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	c := console.New(screen, sim, console.Options{
		StepDelay:    cfg.Derived.StepDelay,
		DefaultTicks: cfg.Simulation.TicksPerRun,
		Slots:        slots,
	})
	err = c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
