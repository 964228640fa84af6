package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// GrowPlant advances an ungrown plant by one tick. It reports whether the
// plant became grown on this tick.
func GrowPlant(g *components.Growth) bool {
	if g.Grown {
		return false
	}
	g.Timer++
	if g.Timer >= g.Threshold {
		g.Grown = true
		return true
	}
	return false
}

// EatPlant resets a plant to Ungrown(0).
func EatPlant(g *components.Growth) {
	g.Grown = false
	g.Timer = 0
}

// FloraSystem advances plant regrowth.
type FloraSystem struct {
	grid *Grid
}

// NewFloraSystem creates a flora system acting on grid.
func NewFloraSystem(grid *Grid) *FloraSystem {
	return &FloraSystem{grid: grid}
}

// Tick advances one plant. It reports whether the plant became grown.
func (s *FloraSystem) Tick(e ecs.Entity) bool {
	growth := s.grid.Growth(e)
	if growth == nil {
		return false
	}
	return GrowPlant(growth)
}
