package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

func TestComputeEnergyStats(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   EnergyStats
	}{
		{"empty", nil, EnergyStats{}},
		{"single", []float64{7}, EnergyStats{Mean: 7, P10: 7, P50: 7, P90: 7}},
		{
			"one to ten unsorted",
			[]float64{10, 3, 1, 9, 2, 8, 4, 7, 5, 6},
			EnergyStats{Mean: 5.5, Std: 3.0277, P10: 1, P50: 5, P90: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEnergyStats(tt.values)
			check := func(field string, got, want float64) {
				if math.Abs(got-want) > 0.001 {
					t.Errorf("%s = %v, want %v", field, got, want)
				}
			}
			check("mean", got.Mean, tt.want.Mean)
			check("std", got.Std, tt.want.Std)
			check("p10", got.P10, tt.want.P10)
			check("p50", got.P50, tt.want.P50)
			check("p90", got.P90, tt.want.P90)
		})
	}
}

func TestComputeEnergyStats_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeEnergyStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(10)
	if c.ShouldFlush(9) {
		t.Error("flush before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush at window end")
	}
	c.Flush(10, Population{}, nil, nil)
	if c.ShouldFlush(15) {
		t.Error("flush before second window elapsed")
	}
	if !c.ShouldFlush(20) {
		t.Error("expected flush at second window end")
	}
}

func TestCollector_RecordOutcome(t *testing.T) {
	c := NewCollector(5)

	c.RecordOutcome(components.KindHerbivore, systems.Outcome{Action: systems.ActionEat, PreyKind: components.KindPlant, Gained: 10})
	c.RecordOutcome(components.KindOmnivore, systems.Outcome{Action: systems.ActionEat, PreyKind: components.KindHerbivore, Gained: 12})
	c.RecordOutcome(components.KindHerbivore, systems.Outcome{Action: systems.ActionMate})
	c.RecordOutcome(components.KindOmnivore, systems.Outcome{Action: systems.ActionMove})
	c.RecordOutcome(components.KindOmnivore, systems.Outcome{Action: systems.ActionIdle, Err: systems.ErrNotFound})
	c.RecordStarvation(components.KindOmnivore)
	c.RecordRegrowth()

	pop := Population{Plants: 4, GrownPlants: 3, Herbivores: 2, Omnivores: 1}
	s := c.Flush(5, pop, []float64{10, 20}, []float64{30})

	checks := []struct {
		name      string
		got, want int
	}{
		{"window end", s.WindowEndTick, 5},
		{"plants", s.Plants, 4},
		{"grown plants", s.GrownPlants, 3},
		{"herbivores", s.Herbivores, 2},
		{"omnivores", s.Omnivores, 1},
		{"herb births", s.HerbBirths, 1},
		{"omni births", s.OmniBirths, 0},
		{"omni starved", s.OmniStarved, 1},
		{"herb meals", s.HerbMeals, 1},
		{"omni meals", s.OmniMeals, 1},
		{"plants eaten", s.PlantsEaten, 1},
		{"herbivores eaten", s.HerbivoresEaten, 1},
		{"energy gained", s.EnergyGained, 22},
		{"moves", s.Moves, 1},
		{"idles", s.Idles, 1},
		{"regrown", s.Regrown, 1},
		{"recovered", s.Recovered, 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if s.HerbEnergyMean != 15 {
		t.Errorf("herb energy mean = %v, want 15", s.HerbEnergyMean)
	}
	if s.OmniEnergyStd != 0 {
		t.Errorf("omni energy std = %v, want 0 for one sample", s.OmniEnergyStd)
	}

	// Counters reset for the next window
	next := c.Flush(10, pop, nil, nil)
	if next.WindowStartTick != 5 {
		t.Errorf("next window start = %d, want 5", next.WindowStartTick)
	}
	if next.HerbMeals != 0 || next.Moves != 0 || next.Recovered != 0 || next.EnergyGained != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestPopulation_Count(t *testing.T) {
	p := Population{Plants: 3, Herbivores: 2, Omnivores: 1}
	if p.Count(components.KindPlant) != 3 || p.Count(components.KindHerbivore) != 2 || p.Count(components.KindOmnivore) != 1 {
		t.Errorf("unexpected counts for %+v", p)
	}
}
