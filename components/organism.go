package components

import (
	"slices"
	"strings"
)

// Diet is the set of species ids an entity may eat.
type Diet []rune

// Has reports whether id is part of the diet.
func (d Diet) Has(id rune) bool {
	return slices.Contains(d, id)
}

// String renders the diet in species-file form, e.g. [P, H].
func (d Diet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range d {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}

// Species identifies what an entity is. It never changes after creation.
type Species struct {
	ID   rune // species id, also the rendered glyph
	Kind Kind
	Diet Diet // empty for plants
}

// Energy holds an entity's integer energy.
// Animals keep 0 <= Current <= Max. A plant's Current equals Max and is the
// amount an eater gains.
type Energy struct {
	Current int
	Max     int
}

// Fraction returns Current/Max, or 0 when Max is not positive.
func (e Energy) Fraction() float64 {
	if e.Max <= 0 {
		return 0
	}
	return float64(e.Current) / float64(e.Max)
}

// Growth is the regrowth state of a plant.
type Growth struct {
	Timer     int // ticks since last eaten
	Threshold int // ticks needed to become grown again
	Grown     bool
}

// Traits describe a species as loaded from a species table.
type Traits struct {
	ID                rune
	Kind              Kind
	Diet              Diet
	MaxEnergy         int
	RegrowthThreshold int // plants only
}
