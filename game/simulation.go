package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Step runs one tick: every registered phase in order, then telemetry.
func (s *Simulation) Step() {
	s.perfCollector.StartTick()

	for _, phase := range s.registry.Phases() {
		s.perfCollector.StartPhase(phase.ID)
		s.runPhase(phase.Kind)
	}
	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// Run executes exactly n ticks.
func (s *Simulation) Run(n int) {
	for range n {
		s.Step()
	}
}

// runPhase ticks every entity of kind that existed when the phase began.
// Entities removed earlier in the phase are skipped and offspring wait for
// the next tick.
func (s *Simulation) runPhase(kind components.Kind) {
	snapshot := s.grid.Entities(kind)

	if kind == components.KindPlant {
		s.perfCollector.AddEntities(len(snapshot))
		for _, e := range snapshot {
			if s.flora.Tick(e) {
				s.collector.RecordRegrowth()
			}
		}
		return
	}

	for _, e := range snapshot {
		if !s.grid.Alive(e) {
			continue
		}
		out := s.behavior.Tick(e)
		if out.Err != nil {
			slog.Debug("recovered grid error",
				"tick", s.tick,
				"kind", kind.String(),
				"action", out.Action.String(),
				"from", out.From.String(),
				"target", out.Target.String(),
				"error", out.Err,
			)
		}
		s.collector.RecordOutcome(kind, out)
		s.perfCollector.RecordOutcome(out)
	}

	s.perfCollector.StartPhase(telemetry.PhaseCleanup)
	s.removeStarved(kind, snapshot)
}

// removeStarved removes every animal of the phase snapshot whose energy
// reached zero.
func (s *Simulation) removeStarved(kind components.Kind, snapshot []ecs.Entity) {
	for _, e := range snapshot {
		if !s.grid.Alive(e) || s.grid.Energy(e).Current > 0 {
			continue
		}
		if s.grid.RemoveAnimal(*s.grid.Position(e)) {
			s.collector.RecordStarvation(kind)
		}
	}
}
