package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// BehaviorConfig parameterises the animal decision policy.
type BehaviorConfig struct {
	HungerThreshold     float64 // eat only below this share of max energy
	MateEnergyThreshold float64 // mate only above this share of max energy
	MateChance          float64 // a uniform draw must exceed this to mate
	MaxNearbyMates      int     // mating needs fewer mates than this
	MoveCost            int     // energy spent per move
}

// DefaultBehaviorConfig returns the canonical policy.
func DefaultBehaviorConfig() BehaviorConfig {
	return BehaviorConfig{
		HungerThreshold:     0.3,
		MateEnergyThreshold: 0.5,
		MateChance:          0.85,
		MaxNearbyMates:      3,
		MoveCost:            1,
	}
}

// Action is what an animal did on its tick.
type Action uint8

const (
	ActionIdle Action = iota
	ActionEat
	ActionMate
	ActionMove

	// ActionCount is the number of actions.
	ActionCount int = iota
)

func (a Action) String() string {
	switch a {
	case ActionEat:
		return "eat"
	case ActionMate:
		return "mate"
	case ActionMove:
		return "move"
	default:
		return "idle"
	}
}

// Outcome records the result of one animal tick.
type Outcome struct {
	Action    Action
	From      components.Position
	Target    components.Position // eaten cell, offspring cell or move destination
	PreyKind  components.Kind
	Gained    int        // energy gained by eating, after capping
	Offspring ecs.Entity // valid when Action == ActionMate
	Err       error      // recovered grid error, if any
}

// BehaviorSystem runs the herbivore/omnivore state machine. Both kinds share
// the policy; only their species traits differ.
type BehaviorSystem struct {
	grid *Grid
	rng  Rand
	cfg  BehaviorConfig
}

// NewBehaviorSystem creates a behavior system acting on grid.
func NewBehaviorSystem(grid *Grid, rng Rand, cfg BehaviorConfig) *BehaviorSystem {
	return &BehaviorSystem{grid: grid, rng: rng, cfg: cfg}
}

// Tick evaluates eat, mate, move in priority order and applies the first
// that is possible. The caller removes the animal afterwards if its energy
// reached zero.
func (s *BehaviorSystem) Tick(e ecs.Entity) Outcome {
	g := s.grid
	from := *g.Position(e)
	en := *g.Energy(e)
	out := Outcome{Action: ActionIdle, From: from, Target: from}

	if edible := g.EdibleNeighbors(e); len(edible) > 0 &&
		float64(en.Current) < s.cfg.HungerThreshold*float64(en.Max) {
		return s.eat(e, from, pick(s.rng, edible))
	}

	free := g.FreeLocations(e)

	mates := g.NearbyMates(e)
	if len(mates) > 0 && len(mates) < s.cfg.MaxNearbyMates &&
		float64(en.Current) > s.cfg.MateEnergyThreshold*float64(en.Max) &&
		len(free) > 0 && s.rng.Float64() > s.cfg.MateChance {
		target := pick(s.rng, free)
		child, err := g.Insert(target, g.Traits(e))
		if err == nil {
			out.Action = ActionMate
			out.Target = target
			out.Offspring = child
			return out
		}
		out.Err = err
		return out
	}

	if len(free) > 0 {
		target := pick(s.rng, free)
		if err := g.MoveAnimal(from, target); err != nil {
			out.Err = err
			return out
		}
		energy := g.Energy(e)
		energy.Current = max(0, energy.Current-s.cfg.MoveCost)
		out.Action = ActionMove
		out.Target = target
	}
	return out
}

// eat consumes the single occupant at target and moves the predator onto it.
// Animal prey is removed at once so the predator can take its cell.
func (s *BehaviorSystem) eat(e ecs.Entity, from, target components.Position) Outcome {
	g := s.grid
	out := Outcome{Action: ActionEat, From: from, Target: target}

	occ := g.OccupantsAt(target)
	var gain int
	switch {
	case occ.HasAnimal:
		prey := g.Energy(occ.Animal)
		gain = prey.Current
		prey.Current = 0
		out.PreyKind = g.Species(occ.Animal).Kind
		g.RemoveAnimal(target)
	case occ.HasPlant:
		gain = g.Energy(occ.Plant).Current
		out.PreyKind = components.KindPlant
		g.ResetPlant(target)
	default:
		out.Action = ActionIdle
		out.Target = from
		out.Err = ErrNotFound
		return out
	}

	// Storage may have moved after the removal above.
	energy := g.Energy(e)
	before := energy.Current
	energy.Current = min(energy.Max, energy.Current+gain)
	out.Gained = energy.Current - before

	if err := g.MoveAnimal(from, target); err != nil {
		out.Err = err
	}
	return out
}
