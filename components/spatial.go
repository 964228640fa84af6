package components

import "fmt"

// Position is an entity's grid cell. X is the column and Y the row.
type Position struct {
	X, Y int
}

// String formats the position as (x,y).
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the position offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Cardinal offsets in query order: north, south, east, west.
var Cardinals = [4]Position{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: -1, Y: 0},
}
