package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// slot holds at most one entity.
type slot struct {
	entity ecs.Entity
	ok     bool
}

// cell is one grid coordinate: terrain plus one plant slot and one animal slot.
type cell struct {
	terrain components.Terrain
	plant   slot
	animal  slot
}

// Occupants is the result of a point lookup.
type Occupants struct {
	Terrain   components.Terrain
	Plant     ecs.Entity
	HasPlant  bool
	Animal    ecs.Entity
	HasAnimal bool
}

// Count returns the number of entities in the cell (0, 1 or 2).
func (o Occupants) Count() int {
	n := 0
	if o.HasPlant {
		n++
	}
	if o.HasAnimal {
		n++
	}
	return n
}

// Grid is the authoritative spatial index. It creates every entity in the
// ECS world and is the only place entities are destroyed.
type Grid struct {
	rows, cols int
	cells      []cell // row-major

	world *ecs.World

	plantMapper  *ecs.Map4[components.Position, components.Species, components.Energy, components.Growth]
	animalMapper *ecs.Map3[components.Position, components.Species, components.Energy]

	posMap     *ecs.Map[components.Position]
	speciesMap *ecs.Map[components.Species]
	energyMap  *ecs.Map[components.Energy]
	growthMap  *ecs.Map[components.Growth]

	entityFilter *ecs.Filter2[components.Position, components.Species]
}

// NewGrid creates an empty grid of the given size backed by world.
func NewGrid(world *ecs.World, rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{
		rows:         rows,
		cols:         cols,
		cells:        make([]cell, rows*cols),
		world:        world,
		plantMapper:  ecs.NewMap4[components.Position, components.Species, components.Energy, components.Growth](world),
		animalMapper: ecs.NewMap3[components.Position, components.Species, components.Energy](world),
		posMap:       ecs.NewMap[components.Position](world),
		speciesMap:   ecs.NewMap[components.Species](world),
		energyMap:    ecs.NewMap[components.Energy](world),
		growthMap:    ecs.NewMap[components.Growth](world),
		entityFilter: ecs.NewFilter2[components.Position, components.Species](world),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether p lies inside [0, cols) x [0, rows).
func (g *Grid) InBounds(p components.Position) bool {
	return p.X >= 0 && p.X < g.cols && p.Y >= 0 && p.Y < g.rows
}

func (g *Grid) index(p components.Position) int {
	return p.Y*g.cols + p.X
}

// SetTerrain marks a cell as water or obstacle. Only valid while loading:
// the cell must hold no entities.
func (g *Grid) SetTerrain(p components.Position, t components.Terrain) error {
	if !g.InBounds(p) {
		return fmt.Errorf("terrain at %v: %w", p, ErrOutOfBounds)
	}
	c := &g.cells[g.index(p)]
	if c.plant.ok || c.animal.ok {
		return fmt.Errorf("terrain at %v: %w", p, ErrOccupancyConflict)
	}
	c.terrain = t
	return nil
}

// TerrainAt returns the terrain tag of p. Out-of-bounds cells report none.
func (g *Grid) TerrainAt(p components.Position) components.Terrain {
	if !g.InBounds(p) {
		return components.TerrainNone
	}
	return g.cells[g.index(p)].terrain
}

// OccupantsAt returns everything at p.
func (g *Grid) OccupantsAt(p components.Position) Occupants {
	if !g.InBounds(p) {
		return Occupants{}
	}
	c := g.cells[g.index(p)]
	return Occupants{
		Terrain:   c.terrain,
		Plant:     c.plant.entity,
		HasPlant:  c.plant.ok,
		Animal:    c.animal.entity,
		HasAnimal: c.animal.ok,
	}
}

// Insert creates an entity for the given traits at p. Plants start grown and
// animals start with full energy.
func (g *Grid) Insert(p components.Position, t components.Traits) (ecs.Entity, error) {
	if !g.InBounds(p) {
		return ecs.Entity{}, fmt.Errorf("insert %q at %v: %w", t.ID, p, ErrOutOfBounds)
	}
	c := &g.cells[g.index(p)]
	if c.terrain != components.TerrainNone {
		return ecs.Entity{}, fmt.Errorf("insert %q at %v on terrain: %w", t.ID, p, ErrOccupancyConflict)
	}

	pos := p
	species := components.Species{ID: t.ID, Kind: t.Kind, Diet: append(components.Diet(nil), t.Diet...)}
	energy := components.Energy{Current: t.MaxEnergy, Max: t.MaxEnergy}

	switch {
	case t.Kind == components.KindPlant:
		if c.plant.ok {
			return ecs.Entity{}, fmt.Errorf("insert plant %q at %v: %w", t.ID, p, ErrOccupancyConflict)
		}
		growth := components.Growth{Threshold: max(1, t.RegrowthThreshold), Grown: true}
		e := g.plantMapper.NewEntity(&pos, &species, &energy, &growth)
		c.plant = slot{entity: e, ok: true}
		return e, nil
	case t.Kind.IsAnimal():
		if c.animal.ok {
			return ecs.Entity{}, fmt.Errorf("insert animal %q at %v: %w", t.ID, p, ErrOccupancyConflict)
		}
		e := g.animalMapper.NewEntity(&pos, &species, &energy)
		c.animal = slot{entity: e, ok: true}
		return e, nil
	default:
		return ecs.Entity{}, fmt.Errorf("insert %q: unknown kind %d", t.ID, t.Kind)
	}
}

// MoveAnimal relocates the animal at from to to. A plant at from stays put.
func (g *Grid) MoveAnimal(from, to components.Position) error {
	if !g.InBounds(from) {
		return fmt.Errorf("move from %v: %w", from, ErrNotFound)
	}
	src := &g.cells[g.index(from)]
	if !src.animal.ok {
		return fmt.Errorf("move from %v: %w", from, ErrNotFound)
	}
	if !g.InBounds(to) {
		return fmt.Errorf("move to %v: %w", to, ErrOutOfBounds)
	}
	dst := &g.cells[g.index(to)]
	if dst.terrain != components.TerrainNone || dst.animal.ok {
		return fmt.Errorf("move to %v: %w", to, ErrOccupancyConflict)
	}

	dst.animal = src.animal
	src.animal = slot{}
	*g.posMap.Get(dst.animal.entity) = to
	return nil
}

// RemoveAnimal destroys the animal at p. It reports false when there is none.
func (g *Grid) RemoveAnimal(p components.Position) bool {
	if !g.InBounds(p) {
		return false
	}
	c := &g.cells[g.index(p)]
	if !c.animal.ok {
		return false
	}
	g.world.RemoveEntity(c.animal.entity)
	c.animal = slot{}
	return true
}

// ResetPlant puts the plant at p back to Ungrown(0). It reports false when
// there is no plant.
func (g *Grid) ResetPlant(p components.Position) bool {
	if !g.InBounds(p) {
		return false
	}
	c := g.cells[g.index(p)]
	if !c.plant.ok {
		return false
	}
	EatPlant(g.growthMap.Get(c.plant.entity))
	return true
}

// Alive reports whether e still exists.
func (g *Grid) Alive(e ecs.Entity) bool {
	return g.world.Alive(e)
}

// Position returns the cached location of e.
func (g *Grid) Position(e ecs.Entity) *components.Position {
	return g.posMap.Get(e)
}

// Species returns the species of e.
func (g *Grid) Species(e ecs.Entity) *components.Species {
	return g.speciesMap.Get(e)
}

// Energy returns the energy of e.
func (g *Grid) Energy(e ecs.Entity) *components.Energy {
	return g.energyMap.Get(e)
}

// Growth returns the growth state of a plant, or nil for animals.
func (g *Grid) Growth(e ecs.Entity) *components.Growth {
	if !g.growthMap.Has(e) {
		return nil
	}
	return g.growthMap.Get(e)
}

// Traits reconstructs the species traits of e, used for offspring.
func (g *Grid) Traits(e ecs.Entity) components.Traits {
	sp := g.speciesMap.Get(e)
	t := components.Traits{
		ID:        sp.ID,
		Kind:      sp.Kind,
		Diet:      append(components.Diet(nil), sp.Diet...),
		MaxEnergy: g.energyMap.Get(e).Max,
	}
	if growth := g.Growth(e); growth != nil {
		t.RegrowthThreshold = growth.Threshold
	}
	return t
}

// Entities collects every entity of the given kind. The returned slice is a
// snapshot: mutating the grid afterwards does not change it.
func (g *Grid) Entities(kind components.Kind) []ecs.Entity {
	var out []ecs.Entity
	query := g.entityFilter.Query()
	for query.Next() {
		_, sp := query.Get()
		if sp.Kind == kind {
			out = append(out, query.Entity())
		}
	}
	return out
}

// AllEntities collects every entity in storage order. Re-inserting them in
// this order into an empty grid reproduces the same iteration order.
func (g *Grid) AllEntities() []ecs.Entity {
	var out []ecs.Entity
	query := g.entityFilter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// Validate checks the grid invariants: slot categories, cached positions,
// animal energy bounds, terrain emptiness and that every entity in the world
// is indexed exactly once.
func (g *Grid) Validate() error {
	indexed := 0
	for i := range g.cells {
		c := &g.cells[i]
		p := components.Position{X: i % g.cols, Y: i / g.cols}
		if c.terrain != components.TerrainNone && (c.plant.ok || c.animal.ok) {
			return fmt.Errorf("cell %v: entity on terrain", p)
		}
		if c.plant.ok {
			if err := g.validateSlot(p, c.plant.entity, false); err != nil {
				return err
			}
			indexed++
		}
		if c.animal.ok {
			if err := g.validateSlot(p, c.animal.entity, true); err != nil {
				return err
			}
			indexed++
		}
	}

	total := 0
	query := g.entityFilter.Query()
	for query.Next() {
		total++
	}
	if total != indexed {
		return fmt.Errorf("world holds %d entities but grid indexes %d", total, indexed)
	}
	return nil
}

func (g *Grid) validateSlot(p components.Position, e ecs.Entity, animal bool) error {
	if !g.world.Alive(e) {
		return fmt.Errorf("cell %v: dead entity in slot", p)
	}
	if got := *g.posMap.Get(e); got != p {
		return fmt.Errorf("cell %v: entity caches position %v", p, got)
	}
	sp := g.speciesMap.Get(e)
	if sp.Kind.IsAnimal() != animal {
		return fmt.Errorf("cell %v: %s in wrong slot", p, sp.Kind)
	}
	if animal {
		en := g.energyMap.Get(e)
		if en.Current < 0 || en.Current > en.Max {
			return fmt.Errorf("cell %v: energy %d outside [0, %d]", p, en.Current, en.Max)
		}
	}
	return nil
}
