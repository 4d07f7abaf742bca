package engine

import (
	"termsalvo/types"
)

// placedShip tracks a ship on a board so sinkings can be reported.
type placedShip struct {
	ship types.Ship
	hits int
}

// Board is one player's square grid. The zero value is not usable; call NewBoard.
type Board struct {
	size  int
	cells [][]types.CellState
	// owner holds the index into ships for every Ship/Hit cell, -1 otherwise.
	owner [][]int
	ships []placedShip
	live  int
}

// NewBoard creates an empty size x size board.
func NewBoard(size int) *Board {
	cells := make([][]types.CellState, size)
	owner := make([][]int, size)
	for i := range cells {
		cells[i] = make([]types.CellState, size)
		owner[i] = make([]int, size)
		for j := range owner[i] {
			owner[i][j] = -1
		}
	}
	return &Board{size: size, cells: cells, owner: owner}
}

// Size returns the edge length of the board.
func (b *Board) Size() int {
	return b.size
}

// Cell returns the internal state at c. Out-of-range coordinates read as empty.
func (b *Board) Cell(c types.Coord) types.CellState {
	if !c.In(b.size) {
		return types.CellEmpty
	}
	return b.cells[c.Row][c.Col]
}

// ShipCells lists the cells a ship of the given length would cover.
func ShipCells(origin types.Coord, length int, o types.Orientation) []types.Coord {
	cells := make([]types.Coord, length)
	for i := range cells {
		cells[i] = origin.Step(o, i)
	}
	return cells
}

// CanPlace checks a placement without mutating the board.
func (b *Board) CanPlace(origin types.Coord, length int, o types.Orientation) error {
	cells := ShipCells(origin, length, o)
	for _, c := range cells {
		if !c.In(b.size) {
			return ErrOutOfBounds
		}
	}
	for _, c := range cells {
		if b.cells[c.Row][c.Col] != types.CellEmpty {
			return ErrOverlap
		}
	}
	return nil
}

// PlaceShip marks every cell of the ship as Ship, or changes nothing on failure.
func (b *Board) PlaceShip(origin types.Coord, ship types.Ship, o types.Orientation) error {
	if err := b.CanPlace(origin, ship.Length, o); err != nil {
		return &PlacementError{Ship: ship, Origin: origin, Orientation: o, Err: err}
	}
	idx := len(b.ships)
	b.ships = append(b.ships, placedShip{ship: ship})
	for _, c := range ShipCells(origin, ship.Length, o) {
		b.cells[c.Row][c.Col] = types.CellShip
		b.owner[c.Row][c.Col] = idx
	}
	b.live += ship.Length
	return nil
}

// FireAt resolves a shot at c, mutating exactly one cell on success.
func (b *Board) FireAt(c types.Coord) (types.ShotOutcome, error) {
	if !c.In(b.size) {
		return types.Miss, &FireError{Target: c, Err: ErrOutOfBounds}
	}
	switch b.cells[c.Row][c.Col] {
	case types.CellHit, types.CellMiss:
		return types.Miss, &FireError{Target: c, Err: ErrAlreadyTargeted}
	case types.CellShip:
		b.cells[c.Row][c.Col] = types.CellHit
		b.ships[b.owner[c.Row][c.Col]].hits++
		b.live--
		return types.Hit, nil
	default:
		b.cells[c.Row][c.Col] = types.CellMiss
		return types.Miss, nil
	}
}

// SunkAt returns the ship occupying c if every one of its cells has been hit.
func (b *Board) SunkAt(c types.Coord) (types.Ship, bool) {
	if !c.In(b.size) {
		return types.Ship{}, false
	}
	idx := b.owner[c.Row][c.Col]
	if idx < 0 {
		return types.Ship{}, false
	}
	s := b.ships[idx]
	return s.ship, s.hits >= s.ship.Length
}

// HasShipsRemaining returns true while any cell is still in state Ship.
func (b *Board) HasShipsRemaining() bool {
	return b.live > 0
}

// CellView maps the cell at c to what may be displayed.
func (b *Board) CellView(c types.Coord, revealShips bool) types.DisplayState {
	return b.Cell(c).Project(revealShips)
}

// View returns a snapshot of the whole board.
func (b *Board) View(owner types.Player, revealShips bool) types.BoardView {
	cells := make([][]types.DisplayState, b.size)
	for r := range cells {
		cells[r] = make([]types.DisplayState, b.size)
		for c := range cells[r] {
			cells[r][c] = b.cells[r][c].Project(revealShips)
		}
	}
	return types.BoardView{Owner: owner, Reveal: revealShips, Cells: cells}
}

// Ships returns the placed ships in placement order.
func (b *Board) Ships() []types.ShipStatus {
	out := make([]types.ShipStatus, len(b.ships))
	for i, s := range b.ships {
		out[i] = types.ShipStatus{Ship: s.ship, Hits: s.hits, Sunk: s.hits >= s.ship.Length}
	}
	return out
}
