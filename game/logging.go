package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/components"
)

// LogWorldState logs a census of the grid.
func (s *Simulation) LogWorldState() {
	pop := s.Census()

	var herbEnergy, omniEnergy int
	for _, e := range s.grid.AllEntities() {
		switch s.grid.Species(e).Kind {
		case components.KindHerbivore:
			herbEnergy += s.grid.Energy(e).Current
		case components.KindOmnivore:
			omniEnergy += s.grid.Energy(e).Current
		}
	}

	slog.Info("world state",
		"tick", s.tick,
		"plants", pop.Plants,
		"grown_plants", pop.GrownPlants,
		"herbivores", pop.Herbivores,
		"omnivores", pop.Omnivores,
		"herb_energy_avg", average(herbEnergy, pop.Herbivores),
		"omni_energy_avg", average(omniEnergy, pop.Omnivores),
	)
}

func average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
