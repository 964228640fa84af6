package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	herbEnergies, omniEnergies := s.sampleEnergyDistributions()
	stats := s.collector.Flush(s.tick, s.Census(), herbEnergies, omniEnergies)
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// sampleEnergyDistributions collects current animal energies per kind.
func (s *Simulation) sampleEnergyDistributions() (herbEnergies, omniEnergies []float64) {
	for _, e := range s.grid.AllEntities() {
		switch s.grid.Species(e).Kind {
		case components.KindHerbivore:
			herbEnergies = append(herbEnergies, float64(s.grid.Energy(e).Current))
		case components.KindOmnivore:
			omniEnergies = append(omniEnergies, float64(s.grid.Energy(e).Current))
		}
	}
	return herbEnergies, omniEnergies
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Simulation) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.createSnapshot(bookmark), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}
