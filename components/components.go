// Package components defines ECS components for the simulation.
package components

import "strings"

// Kind is the species discriminant shared by every entity.
type Kind uint8

const (
	KindPlant Kind = iota
	KindHerbivore
	KindOmnivore
)

// KindCount is the number of entity kinds.
const KindCount = 3

// String returns the lowercase name used in species files and logs.
func (k Kind) String() string {
	switch k {
	case KindPlant:
		return "plant"
	case KindHerbivore:
		return "herbivore"
	case KindOmnivore:
		return "omnivore"
	default:
		return "unknown"
	}
}

// IsAnimal reports whether entities of this kind act on their own.
func (k Kind) IsAnimal() bool {
	return k == KindHerbivore || k == KindOmnivore
}

// ParseKind maps a species file token to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plant":
		return KindPlant, true
	case "herbivore":
		return KindHerbivore, true
	case "omnivore":
		return KindOmnivore, true
	default:
		return 0, false
	}
}

// Terrain tags a cell as permanently unoccupiable.
type Terrain uint8

const (
	TerrainNone Terrain = iota
	TerrainWater
	TerrainObstacle
)

// Terrain glyphs as they appear in map files.
const (
	GlyphWater    = '~'
	GlyphObstacle = '#'
	GlyphEmpty    = ' '
)

// Glyph returns the map-file character for the terrain.
func (t Terrain) Glyph() rune {
	switch t {
	case TerrainWater:
		return GlyphWater
	case TerrainObstacle:
		return GlyphObstacle
	default:
		return GlyphEmpty
	}
}

// TerrainFromGlyph reports the terrain for a map character, if any.
func TerrainFromGlyph(r rune) (Terrain, bool) {
	switch r {
	case GlyphWater:
		return TerrainWater, true
	case GlyphObstacle:
		return TerrainObstacle, true
	default:
		return TerrainNone, false
	}
}
