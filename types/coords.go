package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate notation:
// - Columns: A, B, C... (left to right)
// - Rows: 1, 2, 3... (top to bottom)
// - Example: A1 is the top-left cell, J10 the bottom-right on a 10x10 grid

// Coord addresses a single cell; both fields are 0-indexed from the top-left.
type Coord struct {
	Row int
	Col int
}

// At is shorthand for Coord{Row: row, Col: col}.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// In returns true if c lies within an size x size grid.
func (c Coord) In(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

// Step returns the coordinate i cells away from c in direction o.
func (c Coord) Step(o Orientation, i int) Coord {
	if o == Vertical {
		return Coord{Row: c.Row + i, Col: c.Col}
	}
	return Coord{Row: c.Row, Col: c.Col + i}
}

// String renders c in letter-number notation: (0,0) -> A1, (9,9) -> J10.
func (c Coord) String() string {
	if c.Col < 0 || c.Col >= 26 || c.Row < 0 {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return fmt.Sprintf("%c%d", 'A'+rune(c.Col), c.Row+1)
}

// ParseCoord converts letter-number notation back to a Coord.
// Bounds against a particular grid are not checked.
func ParseCoord(s string) (Coord, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Coord{}, fmt.Errorf("invalid coordinate: %q", s)
	}
	col := int(s[0] - 'A')
	if col < 0 || col >= 26 {
		return Coord{}, fmt.Errorf("invalid column in coordinate: %q", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 {
		return Coord{}, fmt.Errorf("invalid row in coordinate: %q", s)
	}
	return Coord{Row: row - 1, Col: col}, nil
}
