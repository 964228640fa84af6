package components

// Category is the display class of a rendered cell.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategoryWater
	CategoryObstacle
	CategoryPlant        // grown plant
	CategoryPlantUngrown // plant regrowing after being eaten
	CategoryHerbivore
	CategoryOmnivore
)

// String returns the display name for a Category.
func (c Category) String() string {
	names := CategoryNames()
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// CategoryNames returns the display names for all categories.
// The order matches the Category constants.
func CategoryNames() []string {
	return []string{"Empty", "Water", "Obstacle", "Plant", "Eaten plant", "Herbivore", "Omnivore"}
}

// CategoryFor returns the display category of an entity.
func CategoryFor(kind Kind, grown bool) Category {
	switch kind {
	case KindPlant:
		if grown {
			return CategoryPlant
		}
		return CategoryPlantUngrown
	case KindHerbivore:
		return CategoryHerbivore
	case KindOmnivore:
		return CategoryOmnivore
	default:
		return CategoryEmpty
	}
}

// TerrainCategory returns the display category of a terrain tag.
func TerrainCategory(t Terrain) Category {
	switch t {
	case TerrainWater:
		return CategoryWater
	case TerrainObstacle:
		return CategoryObstacle
	default:
		return CategoryEmpty
	}
}

// IsOccupied reports whether the category shows an entity rather than
// terrain or an empty cell.
func (c Category) IsOccupied() bool {
	switch c {
	case CategoryPlant, CategoryPlantUngrown, CategoryHerbivore, CategoryOmnivore:
		return true
	default:
		return false
	}
}
