package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/systems"
)

// Phase names for the simulation step. They match the system registry.
const (
	PhasePlants     = "plants"
	PhaseHerbivores = "herbivores"
	PhaseOmnivores  = "omnivores"
	PhaseCleanup    = "cleanup"
	PhaseTelemetry  = "telemetry"
)

// PhaseSample is the work one phase did during one tick. A phase entered
// more than once per tick accumulates into the same sample.
type PhaseSample struct {
	Phase    string
	Duration time.Duration
	Entities int // entities ticked
	Actions  [systems.ActionCount]int
}

// TickSample is one tick's timing, phases in the order they first ran.
type TickSample struct {
	Duration time.Duration
	Phases   []PhaseSample
}

// PerfCollector records per-tick phase timing and workload over a rolling
// window of ticks.
type PerfCollector struct {
	now func() time.Time

	ring  []TickSample
	next  int
	count int

	current    TickSample
	active     int // index into current.Phases, -1 when none
	tickStart  time.Time
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// now defaults to time.Now.
func NewPerfCollector(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	if now == nil {
		now = time.Now
	}
	return &PerfCollector{
		now:    now,
		ring:   make([]TickSample, windowSize),
		active: -1,
	}
}

// StartTick begins a new tick sample.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = TickSample{}
	p.active = -1
}

// StartPhase closes the running phase and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)

	p.active = slices.IndexFunc(p.current.Phases, func(s PhaseSample) bool { return s.Phase == phase })
	if p.active < 0 {
		p.current.Phases = append(p.current.Phases, PhaseSample{Phase: phase})
		p.active = len(p.current.Phases) - 1
	}
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active >= 0 {
		p.current.Phases[p.active].Duration += now.Sub(p.phaseStart)
	}
}

// AddEntities counts n entities ticked by the running phase.
func (p *PerfCollector) AddEntities(n int) {
	if p.active >= 0 {
		p.current.Phases[p.active].Entities += n
	}
}

// RecordOutcome counts one animal tick and its action against the running
// phase.
func (p *PerfCollector) RecordOutcome(out systems.Outcome) {
	if p.active < 0 {
		return
	}
	ph := &p.current.Phases[p.active]
	ph.Entities++
	if int(out.Action) < systems.ActionCount {
		ph.Actions[out.Action]++
	}
}

// EndTick closes the running phase and stores the tick sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.active = -1
	p.current.Duration = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame records frame timing for the graphical viewer.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// samples returns the stored ticks, oldest first.
func (p *PerfCollector) samples() []TickSample {
	out := make([]TickSample, 0, p.count)
	start := (p.next - p.count + len(p.ring)) % len(p.ring)
	for i := range p.count {
		out = append(out, p.ring[(start+i)%len(p.ring)])
	}
	return out
}

// PhaseStats summarises one phase over the window.
type PhaseStats struct {
	Phase     string
	Avg       time.Duration // mean time per tick
	Pct       float64       // share of mean tick time
	Entities  float64       // mean entities per tick
	PerEntity time.Duration
	Actions   [systems.ActionCount]int // totals over the window
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Ticks int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration
	TickStdDev      time.Duration
	TicksPerSecond  float64

	Phases []PhaseStats // in tick order

	FrameDuration time.Duration
	FPS           float64
}

// Phase returns the stats of the named phase.
func (s PerfStats) Phase(name string) (PhaseStats, bool) {
	i := slices.IndexFunc(s.Phases, func(ph PhaseStats) bool { return ph.Phase == name })
	if i < 0 {
		return PhaseStats{Phase: name}, false
	}
	return s.Phases[i], true
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return out
	}

	samples := p.samples()
	durations := make([]float64, len(samples))
	byPhase := make(map[string]*PhaseStats)
	for i, s := range samples {
		durations[i] = float64(s.Duration)
		for _, ph := range s.Phases {
			agg, ok := byPhase[ph.Phase]
			if !ok {
				agg = &PhaseStats{Phase: ph.Phase}
				byPhase[ph.Phase] = agg
				out.Phases = append(out.Phases, PhaseStats{Phase: ph.Phase})
			}
			agg.Avg += ph.Duration
			agg.Entities += float64(ph.Entities)
			for a, n := range ph.Actions {
				agg.Actions[a] += n
			}
		}
	}

	mean := stat.Mean(durations, nil)
	var std float64
	if len(durations) > 1 {
		std = stat.StdDev(durations, nil)
	}
	slices.Sort(durations)
	out.Ticks = len(samples)
	out.AvgTickDuration = time.Duration(mean)
	out.TickStdDev = time.Duration(std)
	out.MinTickDuration = time.Duration(durations[0])
	out.MaxTickDuration = time.Duration(durations[len(durations)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))
	if mean > 0 {
		out.TicksPerSecond = float64(time.Second) / mean
	}

	n := len(samples)
	for i := range out.Phases {
		agg := byPhase[out.Phases[i].Phase]
		agg.Avg /= time.Duration(n)
		agg.Entities /= float64(n)
		if mean > 0 {
			agg.Pct = float64(agg.Avg) / mean * 100
		}
		if agg.Entities > 0 {
			agg.PerEntity = time.Duration(float64(agg.Avg) / agg.Entities)
		}
		out.Phases[i] = *agg
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range s.Phases {
		if ph.Pct > 0.1 {
			attrs = append(attrs, ph.Phase+"_pct", float64(int(ph.Pct*10))/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("stddev_tick_us", s.TickStdDev.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range s.Phases {
		attrs = append(attrs, slog.Group(ph.Phase,
			slog.Float64("pct", ph.Pct),
			slog.Float64("entities", ph.Entities),
			slog.Int64("per_entity_ns", ph.PerEntity.Nanoseconds()),
		))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int     `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	PlantsPct     float64 `csv:"plants_pct"`
	HerbivoresPct float64 `csv:"herbivores_pct"`
	OmnivoresPct  float64 `csv:"omnivores_pct"`
	CleanupPct    float64 `csv:"cleanup_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
	Plants        float64 `csv:"plants_per_tick"`
	Herbivores    float64 `csv:"herbivores_per_tick"`
	Omnivores     float64 `csv:"omnivores_per_tick"`
	HerbivoreNS   int64   `csv:"herbivore_ns"`
	OmnivoreNS    int64   `csv:"omnivore_ns"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	plants, _ := s.Phase(PhasePlants)
	herb, _ := s.Phase(PhaseHerbivores)
	omni, _ := s.Phase(PhaseOmnivores)
	cleanup, _ := s.Phase(PhaseCleanup)
	tel, _ := s.Phase(PhaseTelemetry)
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		PlantsPct:     plants.Pct,
		HerbivoresPct: herb.Pct,
		OmnivoresPct:  omni.Pct,
		CleanupPct:    cleanup.Pct,
		TelemetryPct:  tel.Pct,
		Plants:        plants.Entities,
		Herbivores:    herb.Entities,
		Omnivores:     omni.Entities,
		HerbivoreNS:   herb.PerEntity.Nanoseconds(),
		OmnivoreNS:    omni.PerEntity.Nanoseconds(),
	}
}
