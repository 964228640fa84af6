// Package systems provides the grid index and the per-entity state machines
// of the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// MateEnergyFraction is the energy share above which an animal counts as a
// mate for its neighbors.
const MateEnergyFraction = 0.5

// neighbors returns the in-bounds orthogonal neighbors of p in N, S, E, W order.
func (g *Grid) neighbors(p components.Position) []components.Position {
	out := make([]components.Position, 0, len(components.Cardinals))
	for _, d := range components.Cardinals {
		n := p.Add(d)
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsFree reports whether an animal may step onto p: no terrain and no animal.
// A plant does not block.
func (g *Grid) IsFree(p components.Position) bool {
	if !g.InBounds(p) {
		return false
	}
	c := g.cells[g.index(p)]
	return c.terrain == components.TerrainNone && !c.animal.ok
}

// FreeLocations returns the neighbors of e an animal could move or spawn into.
func (g *Grid) FreeLocations(e ecs.Entity) []components.Position {
	var out []components.Position
	for _, n := range g.neighbors(*g.posMap.Get(e)) {
		if g.IsFree(n) {
			out = append(out, n)
		}
	}
	return out
}

// EdibleNeighbors returns the neighbors holding exactly one occupant whose
// species is in e's diet. Plants must be grown.
func (g *Grid) EdibleNeighbors(e ecs.Entity) []components.Position {
	diet := g.speciesMap.Get(e).Diet
	if len(diet) == 0 {
		return nil
	}

	var out []components.Position
	for _, n := range g.neighbors(*g.posMap.Get(e)) {
		occ := g.OccupantsAt(n)
		if occ.Count() != 1 {
			continue
		}
		if occ.HasPlant {
			if diet.Has(g.speciesMap.Get(occ.Plant).ID) && g.growthMap.Get(occ.Plant).Grown {
				out = append(out, n)
			}
			continue
		}
		if diet.Has(g.speciesMap.Get(occ.Animal).ID) {
			out = append(out, n)
		}
	}
	return out
}

// NearbyMates returns the neighbors holding an animal of e's species with
// more than MateEnergyFraction of its max energy.
func (g *Grid) NearbyMates(e ecs.Entity) []components.Position {
	id := g.speciesMap.Get(e).ID

	var out []components.Position
	for _, n := range g.neighbors(*g.posMap.Get(e)) {
		occ := g.OccupantsAt(n)
		if !occ.HasAnimal || g.speciesMap.Get(occ.Animal).ID != id {
			continue
		}
		en := g.energyMap.Get(occ.Animal)
		if float64(en.Current) > MateEnergyFraction*float64(en.Max) {
			out = append(out, n)
		}
	}
	return out
}
