package systems

import (
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestGrowPlant_BecomesGrownAtThreshold(t *testing.T) {
	for _, k := range []int{1, 2, 5} {
		g := components.Growth{Threshold: k}
		for tick := 1; tick <= k; tick++ {
			became := GrowPlant(&g)
			if tick < k && (became || g.Grown) {
				t.Fatalf("threshold %d: grown early at tick %d", k, tick)
			}
			if tick == k && (!became || !g.Grown) {
				t.Fatalf("threshold %d: not grown at tick %d (timer %d)", k, tick, g.Timer)
			}
		}
		if GrowPlant(&g) {
			t.Errorf("threshold %d: grown plant reported growing again", k)
		}
		if g.Timer != k {
			t.Errorf("threshold %d: timer advanced while grown to %d", k, g.Timer)
		}
	}
}

func TestEatPlant(t *testing.T) {
	g := components.Growth{Timer: 7, Threshold: 3, Grown: true}
	EatPlant(&g)
	if g.Grown || g.Timer != 0 || g.Threshold != 3 {
		t.Errorf("expected Ungrown(0) with threshold kept, got %+v", g)
	}
}

func TestFloraSystem_Tick(t *testing.T) {
	g := newTestGrid(1, 2)
	plant := mustInsert(t, g, pos(0, 0), components.Traits{ID: 'P', Kind: components.KindPlant, MaxEnergy: 4, RegrowthThreshold: 2})
	animal := mustInsert(t, g, pos(1, 0), herbH)
	flora := NewFloraSystem(g)

	g.ResetPlant(pos(0, 0))
	if flora.Tick(plant) {
		t.Error("grown after one tick with threshold 2")
	}
	if !flora.Tick(plant) {
		t.Error("expected plant grown after two ticks")
	}
	if flora.Tick(animal) {
		t.Error("animals do not grow")
	}
}
