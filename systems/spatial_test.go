package systems

import (
	"slices"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestFreeLocations(t *testing.T) {
	tests := []struct {
		name  string
		at    components.Position
		setup func(g *Grid)
		want  []components.Position
	}{
		{
			name:  "open interior in N S E W order",
			at:    pos(1, 1),
			setup: func(g *Grid) {},
			want:  []components.Position{pos(1, 0), pos(1, 2), pos(2, 1), pos(0, 1)},
		},
		{
			name:  "top edge has three",
			at:    pos(1, 0),
			setup: func(g *Grid) {},
			want:  []components.Position{pos(1, 1), pos(2, 0), pos(0, 0)},
		},
		{
			name:  "corner has two",
			at:    pos(0, 0),
			setup: func(g *Grid) {},
			want:  []components.Position{pos(0, 1), pos(1, 0)},
		},
		{
			name: "plants do not block",
			at:   pos(1, 1),
			setup: func(g *Grid) {
				g.Insert(pos(1, 0), plantP)
				g.Insert(pos(2, 1), plantP)
			},
			want: []components.Position{pos(1, 0), pos(1, 2), pos(2, 1), pos(0, 1)},
		},
		{
			name: "animals and terrain block",
			at:   pos(1, 1),
			setup: func(g *Grid) {
				g.Insert(pos(1, 0), omniO)
				g.SetTerrain(pos(1, 2), components.TerrainWater)
				g.SetTerrain(pos(0, 1), components.TerrainObstacle)
			},
			want: []components.Position{pos(2, 1)},
		},
		{
			name: "boxed in",
			at:   pos(1, 1),
			setup: func(g *Grid) {
				g.SetTerrain(pos(1, 0), components.TerrainObstacle)
				g.SetTerrain(pos(1, 2), components.TerrainObstacle)
				g.SetTerrain(pos(0, 1), components.TerrainWater)
				g.Insert(pos(2, 1), herbH)
				g.Insert(pos(2, 1), plantP)
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(3, 3)
			e := mustInsert(t, g, tt.at, herbH)
			tt.setup(g)

			got := g.FreeLocations(e)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if again := g.FreeLocations(e); !slices.Equal(got, again) {
				t.Errorf("query not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestEdibleNeighbors(t *testing.T) {
	tests := []struct {
		name  string
		eater components.Traits
		setup func(t *testing.T, g *Grid)
		want  []components.Position
	}{
		{
			name:  "grown plant in diet",
			eater: herbH,
			setup: func(t *testing.T, g *Grid) { mustInsert(t, g, pos(1, 0), plantP) },
			want:  []components.Position{pos(1, 0)},
		},
		{
			name:  "ungrown plant",
			eater: herbH,
			setup: func(t *testing.T, g *Grid) {
				mustInsert(t, g, pos(1, 0), plantP)
				g.ResetPlant(pos(1, 0))
			},
			want: nil,
		},
		{
			name:  "species not in diet",
			eater: herbH,
			setup: func(t *testing.T, g *Grid) {
				mustInsert(t, g, pos(1, 0), components.Traits{ID: 'G', Kind: components.KindPlant, MaxEnergy: 5, RegrowthThreshold: 2})
			},
			want: nil,
		},
		{
			name:  "two occupants is not edible",
			eater: omniO,
			setup: func(t *testing.T, g *Grid) {
				mustInsert(t, g, pos(2, 1), plantP)
				mustInsert(t, g, pos(2, 1), herbH)
			},
			want: nil,
		},
		{
			name:  "animal prey",
			eater: omniO,
			setup: func(t *testing.T, g *Grid) {
				mustInsert(t, g, pos(0, 1), herbH)
				mustInsert(t, g, pos(1, 2), plantP)
			},
			want: []components.Position{pos(1, 2), pos(0, 1)},
		},
		{
			name:  "same species not in diet",
			eater: herbH,
			setup: func(t *testing.T, g *Grid) { mustInsert(t, g, pos(0, 1), herbH) },
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(3, 3)
			e := mustInsert(t, g, pos(1, 1), tt.eater)
			tt.setup(t, g)

			got := g.EdibleNeighbors(e)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if again := g.EdibleNeighbors(e); !slices.Equal(got, again) {
				t.Errorf("query not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestEdibleNeighbors_PlantHasNoDiet(t *testing.T) {
	g := newTestGrid(3, 3)
	plant := mustInsert(t, g, pos(1, 1), plantP)
	mustInsert(t, g, pos(1, 0), plantP)

	if got := g.EdibleNeighbors(plant); len(got) != 0 {
		t.Errorf("plants eat nothing, got %v", got)
	}
}

func TestNearbyMates(t *testing.T) {
	g := newTestGrid(3, 3)
	e := mustInsert(t, g, pos(1, 1), herbH)
	strong := mustInsert(t, g, pos(1, 0), herbH)
	half := mustInsert(t, g, pos(1, 2), herbH)
	mustInsert(t, g, pos(2, 1), omniO)

	g.Energy(strong).Current = 11
	g.Energy(half).Current = 10 // exactly 0.5 x max does not qualify

	got := g.NearbyMates(e)
	want := []components.Position{pos(1, 0)}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if again := g.NearbyMates(e); !slices.Equal(got, again) {
		t.Errorf("query not idempotent: %v then %v", got, again)
	}
}
