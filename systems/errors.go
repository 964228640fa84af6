package systems

import "errors"

// Grid errors. All of them are recoverable by the scheduler.
var (
	// ErrOccupancyConflict is returned when a placement would put a second
	// plant or a second animal in a cell, or anything on terrain.
	ErrOccupancyConflict = errors.New("occupancy conflict")

	// ErrNotFound is returned when the referenced entity is no longer there.
	ErrNotFound = errors.New("not found")

	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")
)
