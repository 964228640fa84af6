package loader

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pthm-cable/ecosim/components"
)

// ParseMap reads a map layout. Each line is a row; '~' is water, '#' an
// obstacle, a space is empty and any other character is a species id.
// The column count is the longest row.
func ParseMap(r io.Reader) (Scenario, error) {
	s := Scenario{Terrain: make(map[components.Position]components.Terrain)}

	sc := bufio.NewScanner(r)
	y := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		x := 0
		for _, ch := range line {
			p := components.Position{X: x, Y: y}
			if t, ok := components.TerrainFromGlyph(ch); ok {
				s.Terrain[p] = t
			} else if ch != components.GlyphEmpty {
				s.Placements = append(s.Placements, Placement{Position: p, ID: ch})
			}
			x++
		}
		s.Cols = max(s.Cols, utf8.RuneCountInString(line))
		y++
	}
	if err := sc.Err(); err != nil {
		return Scenario{}, fmt.Errorf("reading map: %w", err)
	}
	s.Rows = y
	if s.Rows == 0 || s.Cols == 0 {
		return Scenario{}, fmt.Errorf("empty map: %w", ErrMalformed)
	}
	return s, nil
}
