package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/ecosim/systems"
)

// manualClock advances only when told to.
type manualClock struct {
	t time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// runTick records one tick whose phases take the given durations in order.
func runTick(pc *PerfCollector, clock *manualClock, phases []string, durations []time.Duration) {
	pc.StartTick()
	for i, ph := range phases {
		pc.StartPhase(ph)
		clock.advance(durations[i])
	}
	pc.EndTick()
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPerfCollector_PhaseTiming(t *testing.T) {
	clock := newManualClock()
	pc := NewPerfCollector(10, clock.now)

	pc.StartTick()
	pc.StartPhase(PhasePlants)
	pc.AddEntities(5)
	clock.advance(time.Millisecond)
	pc.StartPhase(PhaseHerbivores)
	pc.RecordOutcome(systems.Outcome{Action: systems.ActionEat})
	pc.RecordOutcome(systems.Outcome{Action: systems.ActionMove})
	clock.advance(2 * time.Millisecond)
	pc.StartPhase(PhaseCleanup)
	clock.advance(time.Millisecond)
	pc.StartPhase(PhaseHerbivores) // re-entered phases accumulate
	pc.RecordOutcome(systems.Outcome{Action: systems.ActionMove})
	clock.advance(time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if stats.Ticks != 1 || stats.AvgTickDuration != 5*time.Millisecond {
		t.Fatalf("ticks = %d, avg = %v, want 1 tick of 5ms", stats.Ticks, stats.AvgTickDuration)
	}
	if stats.TickStdDev != 0 {
		t.Errorf("stddev of one tick = %v, want 0", stats.TickStdDev)
	}
	if stats.TicksPerSecond != 200 {
		t.Errorf("ticks per second = %v, want 200", stats.TicksPerSecond)
	}

	want := []string{PhasePlants, PhaseHerbivores, PhaseCleanup}
	if len(stats.Phases) != len(want) {
		t.Fatalf("got %d phases, want %d", len(stats.Phases), len(want))
	}
	for i, name := range want {
		if stats.Phases[i].Phase != name {
			t.Errorf("phase %d = %q, want %q", i, stats.Phases[i].Phase, name)
		}
	}

	herb, ok := stats.Phase(PhaseHerbivores)
	if !ok {
		t.Fatal("herbivores phase missing")
	}
	if herb.Avg != 3*time.Millisecond {
		t.Errorf("herbivores avg = %v, want 3ms", herb.Avg)
	}
	if !approx(herb.Pct, 60) {
		t.Errorf("herbivores pct = %v, want 60", herb.Pct)
	}
	if herb.Entities != 3 || herb.PerEntity != time.Millisecond {
		t.Errorf("herbivores entities = %v per %v, want 3 per 1ms", herb.Entities, herb.PerEntity)
	}
	if herb.Actions[systems.ActionEat] != 1 || herb.Actions[systems.ActionMove] != 2 {
		t.Errorf("herbivores actions = %v", herb.Actions)
	}

	plants, _ := stats.Phase(PhasePlants)
	if plants.Entities != 5 || !approx(plants.Pct, 20) {
		t.Errorf("plants = %+v, want 5 entities at 20%%", plants)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	clock := newManualClock()
	pc := NewPerfCollector(3, clock.now)

	for i := 1; i <= 5; i++ {
		runTick(pc, clock, []string{PhasePlants}, []time.Duration{time.Duration(i) * time.Millisecond})
	}

	stats := pc.Stats()
	if stats.Ticks != 3 {
		t.Fatalf("ticks = %d, want 3", stats.Ticks)
	}
	if stats.MinTickDuration != 3*time.Millisecond || stats.MaxTickDuration != 5*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 3ms/5ms", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.AvgTickDuration != 4*time.Millisecond {
		t.Errorf("avg = %v, want 4ms", stats.AvgTickDuration)
	}
	if stats.TickStdDev != time.Millisecond {
		t.Errorf("stddev = %v, want 1ms", stats.TickStdDev)
	}
}

func TestPerfCollector_P95(t *testing.T) {
	clock := newManualClock()
	pc := NewPerfCollector(20, clock.now)

	// Out of order so the quantile must sort.
	for i := 20; i >= 1; i-- {
		runTick(pc, clock, []string{PhaseOmnivores}, []time.Duration{time.Duration(i) * time.Millisecond})
	}

	p95 := pc.Stats().P95TickDuration
	if p95 < 18*time.Millisecond || p95 > 19*time.Millisecond {
		t.Errorf("p95 = %v, want 18ms..19ms", p95)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10, newManualClock().now)

	stats := pc.Stats()
	if stats.Ticks != 0 || stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	if _, ok := stats.Phase(PhasePlants); ok {
		t.Error("empty collector reports a plants phase")
	}

	// Outcomes outside a phase are ignored.
	pc.RecordOutcome(systems.Outcome{Action: systems.ActionEat})
	pc.AddEntities(3)
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	clock := newManualClock()
	pc := NewPerfCollector(10, clock.now)

	pc.RecordFrame()
	if pc.Stats().FPS != 0 {
		t.Error("FPS reported after a single frame")
	}
	clock.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("frame duration = %v, want 20ms", stats.FrameDuration)
	}
	if !approx(stats.FPS, 50) {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	clock := newManualClock()
	pc := NewPerfCollector(10, clock.now)

	pc.StartTick()
	pc.StartPhase(PhaseHerbivores)
	pc.RecordOutcome(systems.Outcome{Action: systems.ActionIdle})
	pc.RecordOutcome(systems.Outcome{Action: systems.ActionMate})
	clock.advance(4 * time.Millisecond)
	pc.StartPhase(PhaseTelemetry)
	clock.advance(4 * time.Millisecond)
	pc.EndTick()

	row := pc.Stats().ToCSV(40)
	if row.WindowEnd != 40 || row.AvgTickUS != 8000 {
		t.Errorf("row = %+v", row)
	}
	if !approx(row.HerbivoresPct, 50) || !approx(row.TelemetryPct, 50) || row.PlantsPct != 0 {
		t.Errorf("phase pcts = %v/%v/%v", row.HerbivoresPct, row.TelemetryPct, row.PlantsPct)
	}
	if row.Herbivores != 2 || row.HerbivoreNS != 2_000_000 {
		t.Errorf("herbivores = %v at %dns, want 2 at 2000000ns", row.Herbivores, row.HerbivoreNS)
	}
}
