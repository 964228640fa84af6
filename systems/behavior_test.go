package systems

import (
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func newBehavior(g *Grid, r *scriptedRand) *BehaviorSystem {
	return NewBehaviorSystem(g, r, DefaultBehaviorConfig())
}

func TestTick_HerbivoreEatsPlant(t *testing.T) {
	g := newTestGrid(3, 3)
	h := mustInsert(t, g, pos(1, 1), herbH)
	plant := mustInsert(t, g, pos(1, 0), plantP)
	g.Energy(h).Current = 5 // below 0.3 x 20

	out := newBehavior(g, &scriptedRand{}).Tick(h)

	if out.Action != ActionEat || out.PreyKind != components.KindPlant {
		t.Fatalf("expected to eat a plant, got %+v", out)
	}
	if got := g.Energy(h).Current; got != 15 {
		t.Errorf("expected energy 5+10=15, got %d", got)
	}
	if out.Gained != 10 {
		t.Errorf("expected gain 10, got %d", out.Gained)
	}
	if got := *g.Position(h); got != pos(1, 0) {
		t.Errorf("expected herbivore on the plant cell, got %v", got)
	}
	if growth := g.Growth(plant); growth.Grown || growth.Timer != 0 {
		t.Errorf("expected eaten plant Ungrown(0), got %+v", growth)
	}
	occ := g.OccupantsAt(pos(1, 0))
	if !occ.HasPlant || !occ.HasAnimal {
		t.Error("plant and herbivore should share the cell")
	}
	mustValidate(t, g)
}

func TestTick_EatCapsAtMax(t *testing.T) {
	g := newTestGrid(1, 2)
	h := mustInsert(t, g, pos(0, 0), components.Traits{ID: 'H', Kind: components.KindHerbivore, Diet: components.Diet{'P'}, MaxEnergy: 12})
	mustInsert(t, g, pos(1, 0), plantP)
	g.Energy(h).Current = 3

	out := newBehavior(g, &scriptedRand{}).Tick(h)

	if got := g.Energy(h).Current; got != 12 {
		t.Errorf("expected energy capped at 12, got %d", got)
	}
	if out.Gained != 9 {
		t.Errorf("expected capped gain 9, got %d", out.Gained)
	}
}

func TestTick_OmnivoreEatsHerbivore(t *testing.T) {
	g := newTestGrid(3, 3)
	o := mustInsert(t, g, pos(1, 1), omniO)
	h := mustInsert(t, g, pos(2, 1), herbH)
	g.Energy(o).Current = 4
	g.Energy(h).Current = 17

	out := newBehavior(g, &scriptedRand{}).Tick(o)

	if out.Action != ActionEat || out.PreyKind != components.KindHerbivore {
		t.Fatalf("expected to eat a herbivore, got %+v", out)
	}
	if g.Alive(h) {
		t.Error("eaten herbivore should be gone")
	}
	if got := g.Energy(o).Current; got != 21 {
		t.Errorf("expected energy 4+17=21, got %d", got)
	}
	if got := *g.Position(o); got != pos(2, 1) {
		t.Errorf("expected omnivore on the prey cell, got %v", got)
	}
	if occ := g.OccupantsAt(pos(1, 1)); occ.HasAnimal {
		t.Error("old cell should be empty")
	}
	mustValidate(t, g)
}

func TestTick_PicksAmongEdible(t *testing.T) {
	g := newTestGrid(3, 3)
	o := mustInsert(t, g, pos(1, 1), omniO)
	mustInsert(t, g, pos(1, 0), plantP)
	mustInsert(t, g, pos(0, 1), herbH)
	g.Energy(o).Current = 1

	// Edible order is N then W; index 1 selects the herbivore.
	out := newBehavior(g, &scriptedRand{ints: []int{1}}).Tick(o)

	if out.Target != pos(0, 1) || out.PreyKind != components.KindHerbivore {
		t.Errorf("expected to eat the herbivore at (0,1), got %+v", out)
	}
}

func TestTick_NotHungryDoesNotEat(t *testing.T) {
	g := newTestGrid(1, 3)
	h := mustInsert(t, g, pos(1, 0), herbH)
	plant := mustInsert(t, g, pos(2, 0), plantP)
	g.Energy(h).Current = 6 // exactly 0.3 x 20

	out := newBehavior(g, &scriptedRand{}).Tick(h)

	if out.Action != ActionMove {
		t.Fatalf("expected move, got %v", out.Action)
	}
	if !g.Growth(plant).Grown {
		t.Error("plant should not have been eaten")
	}
	if got := g.Energy(h).Current; got != 5 {
		t.Errorf("expected move cost 1, got energy %d", got)
	}
}

func TestTick_Mate(t *testing.T) {
	g := newTestGrid(3, 3)
	h := mustInsert(t, g, pos(1, 1), herbH)
	mustInsert(t, g, pos(1, 0), herbH)

	// Free order is S, E, W; index 1 selects east.
	out := newBehavior(g, &scriptedRand{floats: []float64{0.9}, ints: []int{1}}).Tick(h)

	if out.Action != ActionMate {
		t.Fatalf("expected mate, got %+v", out)
	}
	if out.Target != pos(2, 1) {
		t.Errorf("expected offspring at (2,1), got %v", out.Target)
	}
	if !g.Alive(out.Offspring) {
		t.Fatal("offspring not created")
	}
	if sp := g.Species(out.Offspring); sp.ID != 'H' || sp.Kind != components.KindHerbivore {
		t.Errorf("unexpected offspring species %+v", sp)
	}
	if en := *g.Energy(out.Offspring); en.Current != 20 || en.Max != 20 {
		t.Errorf("expected offspring at full energy, got %+v", en)
	}
	if got := *g.Position(h); got != pos(1, 1) {
		t.Errorf("parent should not move, got %v", got)
	}
	if got := g.Energy(h).Current; got != 20 {
		t.Errorf("parent should not lose energy, got %d", got)
	}
	mustValidate(t, g)
}

func TestTick_MateConditions(t *testing.T) {
	tests := []struct {
		name   string
		mates  []components.Position
		energy int
		draw   float64
	}{
		{name: "draw at chance", mates: []components.Position{pos(1, 0)}, energy: 20, draw: 0.85},
		{name: "parent at half energy", mates: []components.Position{pos(1, 0)}, energy: 10, draw: 0.99},
		{name: "three mates", mates: []components.Position{pos(1, 0), pos(1, 2), pos(2, 1)}, energy: 20, draw: 0.99},
		{name: "no mates", mates: nil, energy: 20, draw: 0.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(3, 3)
			h := mustInsert(t, g, pos(1, 1), herbH)
			for _, p := range tt.mates {
				mustInsert(t, g, p, herbH)
			}
			g.Energy(h).Current = tt.energy
			before := len(g.Entities(components.KindHerbivore))

			out := newBehavior(g, &scriptedRand{floats: []float64{tt.draw}}).Tick(h)

			if out.Action != ActionMove {
				t.Errorf("expected move, got %v", out.Action)
			}
			if got := len(g.Entities(components.KindHerbivore)); got != before {
				t.Errorf("expected no offspring, herbivores %d -> %d", before, got)
			}
		})
	}
}

func TestTick_MoveCostsOneAndFloorsAtZero(t *testing.T) {
	g := newTestGrid(1, 2)
	h := mustInsert(t, g, pos(0, 0), herbH)
	g.Energy(h).Current = 0

	out := newBehavior(g, &scriptedRand{}).Tick(h)

	if out.Action != ActionMove || out.Target != pos(1, 0) {
		t.Fatalf("expected move to (1,0), got %+v", out)
	}
	if got := g.Energy(h).Current; got != 0 {
		t.Errorf("energy should stay at 0, got %d", got)
	}
}

func TestTick_MoveOntoPlant(t *testing.T) {
	g := newTestGrid(1, 2)
	h := mustInsert(t, g, pos(0, 0), herbH)
	plant := mustInsert(t, g, pos(1, 0), plantP)
	g.ResetPlant(pos(1, 0)) // ungrown, so not edible

	out := newBehavior(g, &scriptedRand{}).Tick(h)

	if out.Action != ActionMove || *g.Position(h) != pos(1, 0) {
		t.Fatalf("expected move onto plant cell, got %+v", out)
	}
	if g.Energy(h).Current != 19 {
		t.Errorf("expected energy 19, got %d", g.Energy(h).Current)
	}
	if occ := g.OccupantsAt(pos(1, 0)); occ.Plant != plant || !occ.HasAnimal {
		t.Error("plant and animal should share the cell")
	}
	mustValidate(t, g)
}

func TestTick_BoxedInIdles(t *testing.T) {
	g := newTestGrid(3, 3)
	h := mustInsert(t, g, pos(1, 1), herbH)
	g.SetTerrain(pos(1, 0), components.TerrainObstacle)
	g.SetTerrain(pos(1, 2), components.TerrainWater)
	g.SetTerrain(pos(2, 1), components.TerrainWater)
	g.SetTerrain(pos(0, 1), components.TerrainObstacle)

	out := newBehavior(g, &scriptedRand{}).Tick(h)

	if out.Action != ActionIdle {
		t.Errorf("expected idle, got %v", out.Action)
	}
	if got := g.Energy(h).Current; got != 20 {
		t.Errorf("idle should cost nothing, got %d", got)
	}
}

func TestAction_String(t *testing.T) {
	want := map[Action]string{ActionIdle: "idle", ActionEat: "eat", ActionMate: "mate", ActionMove: "move"}
	for a, s := range want {
		if a.String() != s {
			t.Errorf("expected %q, got %q", s, a.String())
		}
	}
}
