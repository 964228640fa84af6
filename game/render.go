package game

import (
	"iter"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// CellView is the top visible occupant of a non-empty cell.
type CellView struct {
	Position components.Position
	Glyph    rune
	Category components.Category
	Energy   components.Energy // zero for terrain
}

// viewAt returns the visible content of p: animal over plant over terrain.
func (s *Simulation) viewAt(p components.Position) (CellView, bool) {
	occ := s.grid.OccupantsAt(p)
	v := CellView{Position: p}
	switch {
	case occ.HasAnimal:
		sp := s.grid.Species(occ.Animal)
		v.Glyph = sp.ID
		v.Category = components.CategoryFor(sp.Kind, false)
		v.Energy = *s.grid.Energy(occ.Animal)
	case occ.HasPlant:
		sp := s.grid.Species(occ.Plant)
		v.Glyph = sp.ID
		v.Category = components.CategoryFor(sp.Kind, s.grid.Growth(occ.Plant).Grown)
		v.Energy = *s.grid.Energy(occ.Plant)
	case occ.Terrain != components.TerrainNone:
		v.Glyph = occ.Terrain.Glyph()
		v.Category = components.TerrainCategory(occ.Terrain)
	default:
		return v, false
	}
	return v, true
}

// Cells yields every non-empty cell in row-major order.
func (s *Simulation) Cells() iter.Seq[CellView] {
	return func(yield func(CellView) bool) {
		for y := 0; y < s.grid.Rows(); y++ {
			for x := 0; x < s.grid.Cols(); x++ {
				v, ok := s.viewAt(components.Position{X: x, Y: y})
				if !ok {
					continue
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Census counts entities per kind.
func (s *Simulation) Census() telemetry.Population {
	var pop telemetry.Population
	for _, e := range s.grid.AllEntities() {
		switch s.grid.Species(e).Kind {
		case components.KindPlant:
			pop.Plants++
			if s.grid.Growth(e).Grown {
				pop.GrownPlants++
			}
		case components.KindHerbivore:
			pop.Herbivores++
		case components.KindOmnivore:
			pop.Omnivores++
		}
	}
	return pop
}

// SnapshotRows renders the grid in map-file form, one string per row.
func (s *Simulation) SnapshotRows() []string {
	return s.rows(func(p components.Position) rune {
		if v, ok := s.viewAt(p); ok {
			return v.Glyph
		}
		return components.GlyphEmpty
	})
}

// terrainRows renders terrain only.
func (s *Simulation) terrainRows() []string {
	return s.rows(func(p components.Position) rune {
		return s.grid.TerrainAt(p).Glyph()
	})
}

func (s *Simulation) rows(glyph func(components.Position) rune) []string {
	out := make([]string, s.grid.Rows())
	line := make([]rune, s.grid.Cols())
	for y := range out {
		for x := range line {
			line[x] = glyph(components.Position{X: x, Y: y})
		}
		out[y] = string(line)
	}
	return out
}

// EntityInfo describes one entity for inspection.
type EntityInfo struct {
	ID     rune
	Kind   components.Kind
	Diet   components.Diet
	Energy components.Energy
	Growth *components.Growth // plants only
}

// CellInfo is everything stored at one grid cell.
type CellInfo struct {
	Position components.Position
	Terrain  components.Terrain
	Plant    *EntityInfo
	Animal   *EntityInfo
}

// Inspect returns the contents of p. ok is false outside the grid.
func (s *Simulation) Inspect(p components.Position) (CellInfo, bool) {
	if !s.grid.InBounds(p) {
		return CellInfo{}, false
	}
	occ := s.grid.OccupantsAt(p)
	info := CellInfo{Position: p, Terrain: occ.Terrain}
	if occ.HasPlant {
		info.Plant = s.entityInfo(occ.Plant)
	}
	if occ.HasAnimal {
		info.Animal = s.entityInfo(occ.Animal)
	}
	return info, true
}

func (s *Simulation) entityInfo(e ecs.Entity) *EntityInfo {
	sp := s.grid.Species(e)
	info := &EntityInfo{
		ID:     sp.ID,
		Kind:   sp.Kind,
		Diet:   append(components.Diet(nil), sp.Diet...),
		Energy: *s.grid.Energy(e),
	}
	if g := s.grid.Growth(e); g != nil {
		growth := *g
		info.Growth = &growth
	}
	return info
}
