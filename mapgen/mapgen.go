// Package mapgen generates random scenarios: noise-shaped water and
// obstacles with plants and animals scattered over the open cells.
package mapgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/loader"
	"github.com/pthm-cable/ecosim/systems"
)

// ErrBadParams is returned for parameters that cannot produce a map.
var ErrBadParams = errors.New("invalid generator parameters")

// Params controls map generation.
type Params struct {
	Rows, Cols int
	Seed       int64

	// FBM noise shaping
	Scale      float64 // base frequency per cell
	Octaves    int
	Lacunarity float64
	Gain       float64

	// Terrain thresholds on normalized noise in [0, 1]
	Water    float64 // water below this
	Obstacle float64 // obstacle above this (separate field)

	// Fractions of open cells
	Plants     float64
	Herbivores float64
	Omnivores  float64
}

// DefaultParams returns the generator defaults.
func DefaultParams() Params {
	return Params{
		Rows:       10,
		Cols:       45,
		Seed:       1,
		Scale:      0.12,
		Octaves:    3,
		Lacunarity: 2.0,
		Gain:       0.5,
		Water:      0.3,
		Obstacle:   0.75,
		Plants:     0.12,
		Herbivores: 0.03,
		Omnivores:  0.03,
	}
}

func (p Params) validate() error {
	switch {
	case p.Rows <= 0 || p.Cols <= 0:
		return fmt.Errorf("size %dx%d: %w", p.Rows, p.Cols, ErrBadParams)
	case p.Octaves < 1 || p.Scale <= 0:
		return fmt.Errorf("octaves %d scale %g: %w", p.Octaves, p.Scale, ErrBadParams)
	case p.Plants < 0 || p.Herbivores < 0 || p.Omnivores < 0 || p.Plants+p.Herbivores+p.Omnivores > 1:
		return fmt.Errorf("densities must be non-negative and sum to at most 1: %w", ErrBadParams)
	}
	return nil
}

// DefaultSpecies returns a small balanced species table.
func DefaultSpecies() loader.SpeciesTable {
	return loader.SpeciesTable{
		'P': {ID: 'P', Kind: components.KindPlant, MaxEnergy: 10, RegrowthThreshold: 4},
		'G': {ID: 'G', Kind: components.KindPlant, MaxEnergy: 15, RegrowthThreshold: 6},
		'H': {ID: 'H', Kind: components.KindHerbivore, Diet: components.Diet{'P', 'G'}, MaxEnergy: 20},
		'C': {ID: 'C', Kind: components.KindHerbivore, Diet: components.Diet{'P'}, MaxEnergy: 15},
		'O': {ID: 'O', Kind: components.KindOmnivore, Diet: components.Diet{'P', 'H', 'C'}, MaxEnergy: 30},
		'D': {ID: 'D', Kind: components.KindOmnivore, Diet: components.Diet{'C', 'G'}, MaxEnergy: 25},
	}
}

// Field samples fractal noise normalized to [0, 1].
type Field struct {
	noise opensimplex.Noise
	p     Params
}

// NewField creates a noise field for p with a seed offset.
func NewField(p Params, offset int64) *Field {
	return &Field{noise: opensimplex.NewNormalized(p.Seed + offset), p: p}
}

// At returns the field value at a cell.
func (f *Field) At(x, y int) float64 {
	sum, norm := 0.0, 0.0
	amp, freq := 1.0, f.p.Scale
	for range f.p.Octaves {
		sum += amp * f.noise.Eval2(float64(x)*freq, float64(y)*freq)
		norm += amp
		freq *= f.p.Lacunarity
		amp *= f.p.Gain
	}
	return math.Min(1, math.Max(0, sum/norm))
}

// Generate builds a scenario from p using the species in table. Each open
// cell receives at most one placement, so the result round-trips through a
// map file.
func Generate(p Params, table loader.SpeciesTable) (loader.Scenario, error) {
	if err := p.validate(); err != nil {
		return loader.Scenario{}, err
	}

	byKind := make(map[components.Kind][]rune)
	for _, id := range table.IDs() {
		k := table[id].Kind
		byKind[k] = append(byKind[k], id)
	}

	water := NewField(p, 0)
	rock := NewField(p, 7919)
	rng := systems.NewRand(p.Seed)

	sc := loader.Scenario{
		Rows:    p.Rows,
		Cols:    p.Cols,
		Terrain: make(map[components.Position]components.Terrain),
	}
	for y := range p.Rows {
		for x := range p.Cols {
			pos := components.Position{X: x, Y: y}
			switch {
			case water.At(x, y) < p.Water:
				sc.Terrain[pos] = components.TerrainWater
				continue
			case rock.At(x, y) > p.Obstacle:
				sc.Terrain[pos] = components.TerrainObstacle
				continue
			}

			// One uniform draw per open cell picks the kind.
			r := rng.Float64()
			var kind components.Kind
			switch {
			case r < p.Plants:
				kind = components.KindPlant
			case r < p.Plants+p.Herbivores:
				kind = components.KindHerbivore
			case r < p.Plants+p.Herbivores+p.Omnivores:
				kind = components.KindOmnivore
			default:
				continue
			}
			ids := byKind[kind]
			if len(ids) == 0 {
				continue
			}
			sc.Placements = append(sc.Placements, loader.Placement{Position: pos, ID: ids[rng.IntN(len(ids))]})
		}
	}
	return sc, nil
}
