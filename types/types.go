// Package types contains shared data structures for termsalvo.
package types

import "fmt"

// Player identifies one of the two seats at the device.
type Player int

const (
	NoPlayer Player = iota
	Player1
	Player2
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "Nobody"
	}
}

// Short returns the compact form used in phase names ("P1", "P2").
func (p Player) Short() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "P?"
	}
}

// CellState is the internal state of one grid cell.
// Legal transitions: Empty->Ship during setup, Ship->Hit and Empty->Miss during battle.
type CellState int

const (
	CellEmpty CellState = iota
	CellShip
	CellHit
	CellMiss
)

func (c CellState) String() string {
	switch c {
	case CellEmpty:
		return "Empty"
	case CellShip:
		return "Ship"
	case CellHit:
		return "Hit"
	case CellMiss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// Targeted returns true if the cell has already been fired upon.
func (c CellState) Targeted() bool {
	return c == CellHit || c == CellMiss
}

// DisplayState is what the rendering layer is allowed to see of a cell.
type DisplayState int

const (
	DisplayWater DisplayState = iota
	DisplayShip
	DisplayHit
	DisplayMiss
)

func (d DisplayState) String() string {
	switch d {
	case DisplayWater:
		return "Water"
	case DisplayShip:
		return "Ship"
	case DisplayHit:
		return "Hit"
	case DisplayMiss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// Project maps a cell state to its display state. Ship cells project as
// water unless revealShips is set.
func (c CellState) Project(revealShips bool) DisplayState {
	switch c {
	case CellShip:
		if revealShips {
			return DisplayShip
		}
		return DisplayWater
	case CellHit:
		return DisplayHit
	case CellMiss:
		return DisplayMiss
	default:
		return DisplayWater
	}
}

// Orientation is the direction a ship extends from its origin.
type Orientation int

const (
	Horizontal Orientation = iota // extends to the right (increasing column)
	Vertical                      // extends downwards (increasing row)
)

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// ShotOutcome is the result of firing at a single cell.
type ShotOutcome int

const (
	Miss ShotOutcome = iota
	Hit
)

func (s ShotOutcome) String() string {
	if s == Hit {
		return "Hit"
	}
	return "Miss"
}

// Ship is one entry of the fleet definition.
type Ship struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

func (s Ship) String() string {
	return fmt.Sprintf("%s (length %d)", s.Name, s.Length)
}

// Fleet is the ordered list of ships each player must place.
type Fleet []Ship

// Cells returns the total number of cells the fleet occupies.
func (f Fleet) Cells() int {
	n := 0
	for _, s := range f {
		n += s.Length
	}
	return n
}

// DefaultFleet returns the classic five-ship fleet.
func DefaultFleet() Fleet {
	return Fleet{
		{Name: "Carrier", Length: 5},
		{Name: "Battleship", Length: 4},
		{Name: "Cruiser", Length: 3},
		{Name: "Submarine", Length: 3},
		{Name: "Destroyer", Length: 2},
	}
}

// ShipStatus describes a placed ship for roster displays.
type ShipStatus struct {
	Ship
	Hits int
	Sunk bool
}

// BoardView is an immutable snapshot of a board as one player may see it.
// Cells is indexed as Cells[row][col].
type BoardView struct {
	Owner  Player
	Reveal bool
	Cells  [][]DisplayState
}

// Size returns the board edge length.
func (v BoardView) Size() int {
	return len(v.Cells)
}

// At returns the display state at c, or DisplayWater outside the grid.
func (v BoardView) At(c Coord) DisplayState {
	if c.Row < 0 || c.Row >= len(v.Cells) || c.Col < 0 || c.Col >= len(v.Cells[c.Row]) {
		return DisplayWater
	}
	return v.Cells[c.Row][c.Col]
}
