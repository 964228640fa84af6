package telemetry

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window, indexed by kind
	births  [components.KindCount]int
	starved [components.KindCount]int
	meals   [components.KindCount]int // meals taken by eater kind
	eaten   [components.KindCount]int // meals lost by prey kind

	energyGained int
	moves        int
	idles        int
	regrown      int
	recovered    int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// RecordBirth records an offspring of the given kind.
func (c *Collector) RecordBirth(kind components.Kind) {
	c.births[kind]++
}

// RecordStarvation records an animal removed with no energy left.
func (c *Collector) RecordStarvation(kind components.Kind) {
	c.starved[kind]++
}

// RecordMeal records an eater of one kind consuming prey of another.
func (c *Collector) RecordMeal(eater, prey components.Kind, gained int) {
	c.meals[eater]++
	c.eaten[prey]++
	c.energyGained += gained
}

// RecordRegrowth records a plant becoming grown again.
func (c *Collector) RecordRegrowth() {
	c.regrown++
}

// RecordRecovered records a grid error absorbed by the scheduler.
func (c *Collector) RecordRecovered() {
	c.recovered++
}

// RecordOutcome records the result of one animal tick.
func (c *Collector) RecordOutcome(kind components.Kind, out systems.Outcome) {
	if out.Err != nil {
		c.RecordRecovered()
	}
	switch out.Action {
	case systems.ActionEat:
		c.RecordMeal(kind, out.PreyKind, out.Gained)
	case systems.ActionMate:
		c.RecordBirth(kind)
	case systems.ActionMove:
		c.moves++
	default:
		c.idles++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is a census of the grid at one instant.
type Population struct {
	Plants      int
	GrownPlants int
	Herbivores  int
	Omnivores   int
}

// Count returns the number of entities of a kind.
func (p Population) Count(kind components.Kind) int {
	switch kind {
	case components.KindPlant:
		return p.Plants
	case components.KindHerbivore:
		return p.Herbivores
	case components.KindOmnivore:
		return p.Omnivores
	default:
		return 0
	}
}

// Flush produces a WindowStats and resets counters for the next window.
// herbEnergies and omniEnergies are the current energies of living animals.
func (c *Collector) Flush(currentTick int, pop Population, herbEnergies, omniEnergies []float64) WindowStats {
	herb := ComputeEnergyStats(herbEnergies)
	omni := ComputeEnergyStats(omniEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Plants:      pop.Plants,
		GrownPlants: pop.GrownPlants,
		Herbivores:  pop.Herbivores,
		Omnivores:   pop.Omnivores,

		HerbBirths:  c.births[components.KindHerbivore],
		OmniBirths:  c.births[components.KindOmnivore],
		HerbStarved: c.starved[components.KindHerbivore],
		OmniStarved: c.starved[components.KindOmnivore],

		HerbMeals:       c.meals[components.KindHerbivore],
		OmniMeals:       c.meals[components.KindOmnivore],
		PlantsEaten:     c.eaten[components.KindPlant],
		HerbivoresEaten: c.eaten[components.KindHerbivore],
		OmnivoresEaten:  c.eaten[components.KindOmnivore],
		EnergyGained:    c.energyGained,

		Moves:     c.moves,
		Idles:     c.idles,
		Regrown:   c.regrown,
		Recovered: c.recovered,

		HerbEnergyMean: herb.Mean,
		HerbEnergyStd:  herb.Std,
		HerbEnergyP10:  herb.P10,
		HerbEnergyP50:  herb.P50,
		HerbEnergyP90:  herb.P90,

		OmniEnergyMean: omni.Mean,
		OmniEnergyStd:  omni.Std,
		OmniEnergyP10:  omni.P10,
		OmniEnergyP50:  omni.P50,
		OmniEnergyP90:  omni.P90,
	}

	c.Reset(currentTick)
	return stats
}

// Reset discards the counters and starts a new window at tick.
func (c *Collector) Reset(tick int) {
	c.windowStartTick = tick
	c.births = [components.KindCount]int{}
	c.starved = [components.KindCount]int{}
	c.meals = [components.KindCount]int{}
	c.eaten = [components.KindCount]int{}
	c.energyGained = 0
	c.moves = 0
	c.idles = 0
	c.regrown = 0
	c.recovered = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
