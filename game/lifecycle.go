package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/loader"
	"github.com/pthm-cable/ecosim/telemetry"
)

// ErrBadSnapshot is returned when a snapshot cannot be restored.
var ErrBadSnapshot = errors.New("bad snapshot")

// Load replaces the simulation state with a scenario: terrain first, then
// placements in map order. Unknown glyphs and conflicting placements are
// load errors and leave the current state untouched.
func (s *Simulation) Load(sc loader.Scenario, table loader.SpeciesTable) error {
	if err := sc.Validate(table); err != nil {
		return err
	}

	world, grid := newGrid(sc.Rows, sc.Cols)
	for p, t := range sc.Terrain {
		if err := grid.SetTerrain(p, t); err != nil {
			return fmt.Errorf("loading terrain: %w", err)
		}
	}
	for _, pl := range sc.Placements {
		if _, err := grid.Insert(pl.Position, table[pl.ID]); err != nil {
			return fmt.Errorf("loading map: %w", err)
		}
	}
	s.install(world, grid, table, 0)

	if err := s.outputManager.WriteMap(s.SnapshotRows()); err != nil {
		slog.Error("failed to write map", "error", err)
	}

	census := s.Census()
	slog.Info("scenario loaded",
		"rows", sc.Rows,
		"cols", sc.Cols,
		"species", len(table),
		"plants", census.Plants,
		"herbivores", census.Herbivores,
		"omnivores", census.Omnivores,
	)
	return nil
}

// Snapshot captures the complete state, including the RNG position when the
// simulation owns its source.
func (s *Simulation) Snapshot() *telemetry.Snapshot {
	return s.createSnapshot(nil)
}

// createSnapshot builds a snapshot from the current state.
func (s *Simulation) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Seed:     s.seed,
		Tick:     s.tick,
		Rows:     s.grid.Rows(),
		Cols:     s.grid.Cols(),
		Terrain:  s.terrainRows(),
		Bookmark: bookmark,
	}
	if s.pcg != nil {
		if state, err := s.pcg.MarshalBinary(); err == nil {
			snapshot.RNG = state
		}
	}

	for _, id := range s.species.IDs() {
		t := s.species[id]
		var diet string
		if len(t.Diet) > 0 {
			diet = string(t.Diet)
		}
		snapshot.Species = append(snapshot.Species, telemetry.SpeciesState{
			ID:        string(t.ID),
			Kind:      t.Kind.String(),
			Diet:      diet,
			MaxEnergy: t.MaxEnergy,
			Regrowth:  t.RegrowthThreshold,
		})
	}

	for _, e := range s.grid.AllEntities() {
		pos := s.grid.Position(e)
		state := telemetry.EntityState{
			Species: string(s.grid.Species(e).ID),
			X:       pos.X,
			Y:       pos.Y,
			Energy:  s.grid.Energy(e).Current,
		}
		if growth := s.grid.Growth(e); growth != nil {
			state.Timer = growth.Timer
			state.Grown = growth.Grown
		}
		snapshot.Entities = append(snapshot.Entities, state)
	}

	return snapshot
}

// Restore replaces the simulation state with a snapshot. Entities are
// re-created in their recorded order so that a restored run continues
// exactly like the original. A rejected snapshot leaves the state untouched.
func (s *Simulation) Restore(snap *telemetry.Snapshot) error {
	table := make(loader.SpeciesTable, len(snap.Species))
	for _, st := range snap.Species {
		id := []rune(st.ID)
		kind, ok := components.ParseKind(st.Kind)
		if len(id) != 1 || !ok {
			return fmt.Errorf("species %q (%s): %w", st.ID, st.Kind, ErrBadSnapshot)
		}
		var diet components.Diet
		if st.Diet != "" {
			diet = components.Diet(st.Diet)
		}
		table[id[0]] = components.Traits{
			ID:                id[0],
			Kind:              kind,
			Diet:              diet,
			MaxEnergy:         st.MaxEnergy,
			RegrowthThreshold: st.Regrowth,
		}
	}
	if len(snap.Terrain) != snap.Rows {
		return fmt.Errorf("%d terrain rows for %d rows: %w", len(snap.Terrain), snap.Rows, ErrBadSnapshot)
	}

	world, grid := newGrid(snap.Rows, snap.Cols)
	for y, row := range snap.Terrain {
		for x, r := range []rune(row) {
			if t, ok := components.TerrainFromGlyph(r); ok {
				if err := grid.SetTerrain(components.Position{X: x, Y: y}, t); err != nil {
					return fmt.Errorf("restoring terrain: %w", err)
				}
			}
		}
	}

	for _, es := range snap.Entities {
		id := []rune(es.Species)
		if len(id) != 1 {
			return fmt.Errorf("entity species %q: %w", es.Species, ErrBadSnapshot)
		}
		traits, ok := table[id[0]]
		if !ok {
			return fmt.Errorf("entity species %q: %w", es.Species, loader.ErrUnknownSpecies)
		}
		e, err := grid.Insert(components.Position{X: es.X, Y: es.Y}, traits)
		if err != nil {
			return fmt.Errorf("restoring entity: %w", err)
		}
		if growth := grid.Growth(e); growth != nil {
			growth.Timer = es.Timer
			growth.Grown = es.Grown
			continue
		}
		energy := grid.Energy(e)
		if es.Energy < 0 || es.Energy > energy.Max {
			return fmt.Errorf("entity energy %d outside [0, %d]: %w", es.Energy, energy.Max, ErrBadSnapshot)
		}
		energy.Current = es.Energy
	}

	var pcg rand.PCG
	restoreRNG := s.pcg != nil && len(snap.RNG) > 0
	if restoreRNG {
		if err := pcg.UnmarshalBinary(snap.RNG); err != nil {
			return fmt.Errorf("restoring rng: %w", err)
		}
	}

	s.install(world, grid, table, snap.Tick)
	s.seed = snap.Seed
	if restoreRNG {
		*s.pcg = pcg
	}

	slog.Info("snapshot restored", "tick", s.tick, "entities", len(snap.Entities))
	return nil
}

// SaveMap writes the current grid to path in map-file form.
func (s *Simulation) SaveMap(path string) error {
	return telemetry.WriteMapFile(path, s.SnapshotRows())
}

// SaveSlot stores the current state in a named save slot.
func (s *Simulation) SaveSlot(store *telemetry.SlotStore, name string) error {
	if err := store.Save(name, s.Snapshot()); err != nil {
		return err
	}
	slog.Info("slot saved", "slot", name, "tick", s.tick)
	return nil
}

// LoadSlot restores the state stored in a named save slot.
func (s *Simulation) LoadSlot(store *telemetry.SlotStore, name string) error {
	snap, err := store.Load(name)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}
