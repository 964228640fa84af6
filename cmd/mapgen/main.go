// Map generator - writes a random map and species file, optionally after
// tuning the parameters in an interactive preview.
//
// Usage: go run ./cmd/mapgen -out-map map.txt -out-species species.txt [-preview]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pthm-cable/ecosim/loader"
	"github.com/pthm-cable/ecosim/mapgen"
	"github.com/pthm-cable/ecosim/telemetry"
)

func main() {
	p := mapgen.DefaultParams()

	flag.IntVar(&p.Rows, "rows", p.Rows, "Map rows")
	flag.IntVar(&p.Cols, "cols", p.Cols, "Map columns")
	flag.Int64Var(&p.Seed, "seed", p.Seed, "Noise and placement seed")
	flag.Float64Var(&p.Scale, "scale", p.Scale, "Base noise frequency per cell")
	flag.IntVar(&p.Octaves, "octaves", p.Octaves, "FBM octaves")
	flag.Float64Var(&p.Water, "water", p.Water, "Water threshold in [0,1] (higher = more water)")
	flag.Float64Var(&p.Obstacle, "obstacle", p.Obstacle, "Obstacle threshold in [0,1] (lower = more obstacles)")
	flag.Float64Var(&p.Plants, "plants", p.Plants, "Fraction of open cells with a plant")
	flag.Float64Var(&p.Herbivores, "herbivores", p.Herbivores, "Fraction of open cells with a herbivore")
	flag.Float64Var(&p.Omnivores, "omnivores", p.Omnivores, "Fraction of open cells with an omnivore")
	speciesIn := flag.String("species", "", "Species file to place (empty = built-in table)")
	outMap := flag.String("out-map", "map.txt", "Output map file")
	outSpecies := flag.String("out-species", "species.txt", "Output species file")
	preview := flag.Bool("preview", false, "Tune parameters in a preview window before saving")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	table := mapgen.DefaultSpecies()
	if *speciesIn != "" {
		t, err := loader.LoadSpecies(*speciesIn)
		if err != nil {
			slog.Error("failed to load species", "error", err)
			os.Exit(1)
		}
		table = t
	}

	if *preview {
		var ok bool
		if p, ok = runPreview(p, table); !ok {
			slog.Info("preview closed without saving")
			return
		}
	}

	if err := write(p, table, *outMap, *outSpecies); err != nil {
		slog.Error("failed to write map", "error", err)
		os.Exit(1)
	}
}

// write generates a scenario and saves it with its species table.
func write(p mapgen.Params, table loader.SpeciesTable, mapPath, speciesPath string) error {
	sc, err := mapgen.Generate(p, table)
	if err != nil {
		return err
	}
	if err := telemetry.WriteMapFile(mapPath, sc.Lines()); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(speciesPath), 0o755); err != nil {
		return fmt.Errorf("creating species dir: %w", err)
	}
	f, err := os.Create(speciesPath)
	if err != nil {
		return fmt.Errorf("creating species file: %w", err)
	}
	if err := loader.WriteSpecies(f, table); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing species file: %w", err)
	}

	slog.Info("map generated",
		"map", mapPath,
		"species", speciesPath,
		"rows", p.Rows,
		"cols", p.Cols,
		"seed", p.Seed,
		"terrain", len(sc.Terrain),
		"placements", len(sc.Placements),
	)
	return nil
}
