package mapgen

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/loader"
)

func TestGenerate_Deterministic(t *testing.T) {
	p := DefaultParams()
	a, err := Generate(p, DefaultSpecies())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(p, DefaultSpecies())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a.Lines(), b.Lines()) {
		t.Error("same seed produced different maps")
	}

	p.Seed++
	c, _ := Generate(p, DefaultSpecies())
	if reflect.DeepEqual(a.Lines(), c.Lines()) {
		t.Error("different seeds produced the same map")
	}
}

func TestGenerate_RoundTripsAndLoads(t *testing.T) {
	p := DefaultParams()
	p.Rows, p.Cols = 20, 60
	table := DefaultSpecies()

	sc, err := Generate(p, table)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := sc.Validate(table); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	seen := make(map[components.Position]bool)
	for _, pl := range sc.Placements {
		if seen[pl.Position] {
			t.Fatalf("two placements at %v", pl.Position)
		}
		seen[pl.Position] = true
		if _, ok := sc.Terrain[pl.Position]; ok {
			t.Fatalf("placement on terrain at %v", pl.Position)
		}
	}

	parsed, err := loader.ParseMap(strings.NewReader(strings.Join(sc.Lines(), "\n") + "\n"))
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	if !reflect.DeepEqual(parsed.Lines(), sc.Lines()) {
		t.Error("map did not round-trip through the file format")
	}

	sim, err := game.NewSimulation(game.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()
	if err := sim.Load(sc, table); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sim.Run(20)
	if err := sim.Grid().Validate(); err != nil {
		t.Errorf("grid invalid after run: %v", err)
	}
}

func TestGenerate_Densities(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Params)
		check  func(t *testing.T, sc loader.Scenario)
	}{
		{
			name:   "no life",
			adjust: func(p *Params) { p.Plants, p.Herbivores, p.Omnivores = 0, 0, 0 },
			check: func(t *testing.T, sc loader.Scenario) {
				if len(sc.Placements) != 0 {
					t.Errorf("got %d placements, want 0", len(sc.Placements))
				}
			},
		},
		{
			name: "open field full of plants",
			adjust: func(p *Params) {
				p.Water, p.Obstacle = 0, 1
				p.Plants, p.Herbivores, p.Omnivores = 1, 0, 0
			},
			check: func(t *testing.T, sc loader.Scenario) {
				if len(sc.Terrain) != 0 {
					t.Errorf("got %d terrain cells, want 0", len(sc.Terrain))
				}
				if len(sc.Placements) != sc.Rows*sc.Cols {
					t.Errorf("got %d placements, want %d", len(sc.Placements), sc.Rows*sc.Cols)
				}
			},
		},
		{
			name: "all water",
			adjust: func(p *Params) {
				p.Water = 1.01
			},
			check: func(t *testing.T, sc loader.Scenario) {
				if len(sc.Terrain) != sc.Rows*sc.Cols || len(sc.Placements) != 0 {
					t.Errorf("terrain %d placements %d, want all water", len(sc.Terrain), len(sc.Placements))
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.adjust(&p)
			sc, err := Generate(p, DefaultSpecies())
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			tt.check(t, sc)
		})
	}
}

func TestGenerate_MissingKindSkipped(t *testing.T) {
	table := loader.SpeciesTable{
		'P': {ID: 'P', Kind: components.KindPlant, MaxEnergy: 5, RegrowthThreshold: 2},
	}
	p := DefaultParams()
	p.Water, p.Obstacle = 0, 1
	p.Plants, p.Herbivores, p.Omnivores = 0.5, 0.25, 0.25

	sc, err := Generate(p, table)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sc.Placements) == 0 {
		t.Fatal("expected some plants")
	}
	for _, pl := range sc.Placements {
		if pl.ID != 'P' {
			t.Fatalf("placed %q without a species for it", pl.ID)
		}
	}
}

func TestGenerate_BadParams(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Params)
	}{
		{"zero rows", func(p *Params) { p.Rows = 0 }},
		{"negative cols", func(p *Params) { p.Cols = -1 }},
		{"no octaves", func(p *Params) { p.Octaves = 0 }},
		{"zero scale", func(p *Params) { p.Scale = 0 }},
		{"negative density", func(p *Params) { p.Plants = -0.1 }},
		{"densities over one", func(p *Params) { p.Plants, p.Herbivores = 0.8, 0.3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.adjust(&p)
			if _, err := Generate(p, DefaultSpecies()); !errors.Is(err, ErrBadParams) {
				t.Errorf("error = %v, want ErrBadParams", err)
			}
		})
	}
}

func TestFieldRange(t *testing.T) {
	f := NewField(DefaultParams(), 0)
	for y := range 30 {
		for x := range 30 {
			if v := f.At(x, y); v < 0 || v > 1 {
				t.Fatalf("At(%d,%d) = %v outside [0,1]", x, y, v)
			}
		}
	}
}
