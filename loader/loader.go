// Package loader reads scenario files: species tables and map layouts.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pthm-cable/ecosim/components"
)

var (
	// ErrMalformed is returned for lines or records that cannot be parsed.
	ErrMalformed = errors.New("malformed input")

	// ErrUnknownSpecies is returned when a map uses a glyph missing from
	// the species table.
	ErrUnknownSpecies = errors.New("unknown species")
)

// SpeciesTable maps a species id to its traits.
type SpeciesTable map[rune]components.Traits

// IDs returns the species ids in ascending order.
func (t SpeciesTable) IDs() []rune {
	ids := make([]rune, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// add inserts traits after checking them.
func (t SpeciesTable) add(tr components.Traits) error {
	if _, dup := t[tr.ID]; dup {
		return fmt.Errorf("species %q defined twice: %w", tr.ID, ErrMalformed)
	}
	if _, isTerrain := components.TerrainFromGlyph(tr.ID); isTerrain || tr.ID == components.GlyphEmpty {
		return fmt.Errorf("species id %q is reserved for terrain: %w", tr.ID, ErrMalformed)
	}
	if tr.MaxEnergy <= 0 {
		return fmt.Errorf("species %q: energy must be positive, got %d: %w", tr.ID, tr.MaxEnergy, ErrMalformed)
	}
	if tr.Kind == components.KindPlant {
		if len(tr.Diet) > 0 {
			return fmt.Errorf("plant %q cannot have a diet: %w", tr.ID, ErrMalformed)
		}
		tr.RegrowthThreshold = max(1, tr.RegrowthThreshold)
	}
	t[tr.ID] = tr
	return nil
}

// Placement puts one entity of a species on the map.
type Placement struct {
	Position components.Position
	ID       rune
}

// Scenario is a parsed map: dimensions, terrain and initial placements.
type Scenario struct {
	Rows, Cols int
	Terrain    map[components.Position]components.Terrain
	Placements []Placement
}

// Validate checks every placement against the species table.
func (s Scenario) Validate(table SpeciesTable) error {
	for _, p := range s.Placements {
		if _, ok := table[p.ID]; !ok {
			return fmt.Errorf("glyph %q at %v: %w", p.ID, p.Position, ErrUnknownSpecies)
		}
	}
	return nil
}

// Lines renders the scenario back into map-file rows.
func (s Scenario) Lines() []string {
	grid := make([][]rune, s.Rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(components.GlyphEmpty), s.Cols))
	}
	for p, t := range s.Terrain {
		grid[p.Y][p.X] = t.Glyph()
	}
	for _, pl := range s.Placements {
		grid[pl.Position.Y][pl.Position.X] = pl.ID
	}
	lines := make([]string, s.Rows)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

// LoadSpecies reads a species table, choosing the format by extension:
// .yaml/.yml, .csv, otherwise the line-based text format.
func LoadSpecies(path string) (SpeciesTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening species file: %w", err)
	}
	defer f.Close()

	var table SpeciesTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		table, err = ParseSpeciesYAML(f)
	case ".csv":
		table, err = ParseSpeciesCSV(f)
	default:
		table, err = ParseSpecies(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadMap reads a map file.
func LoadMap(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("opening map file: %w", err)
	}
	defer f.Close()

	s, err := ParseMap(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load reads a map and species pair and checks that they agree.
func Load(mapPath, speciesPath string) (Scenario, SpeciesTable, error) {
	table, err := LoadSpecies(speciesPath)
	if err != nil {
		return Scenario{}, nil, err
	}
	s, err := LoadMap(mapPath)
	if err != nil {
		return Scenario{}, nil, err
	}
	if err := s.Validate(table); err != nil {
		return Scenario{}, nil, fmt.Errorf("%s: %w", mapPath, err)
	}
	return s, table, nil
}
