// Package ui specifies custom controls for tview to play battleship in the terminal.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"termsalvo/config"
	"termsalvo/engine"
	"termsalvo/types"
)

// style indices into FleetBoardUI.styles
const (
	styleWater = iota
	styleWaterAlt
	styleShip
	styleHit
	styleMiss
	styleCursor
	styleGhost
	styleGhostInvalid
	styleCurtain
	styleLabel
)

type FleetBoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	eng       *engine.GameEngine
	view      types.BoardView
	phase     engine.Phase
	selRow    int
	selCol    int
	ghost     []types.Coord
	ghostOK   bool
	curtain   types.Player // player the device must be handed to, NoPlayer if none
	lastErr   string
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	focusMode bool
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *FleetBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *FleetBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *FleetBoardUI) IsFocusMode() bool {
	return g.focusMode
}

func (g *FleetBoardUI) SelectedTile() *types.Coord {
	if g.selRow == -1 && g.selCol == -1 {
		return nil
	}
	return &types.Coord{Row: g.selRow, Col: g.selCol}
}

func (g *FleetBoardUI) MoveSelection(h, v int) {
	if g.eng == nil || g.curtain != types.NoPlayer || g.phase.Stage == engine.StageGameOver {
		return
	}
	size := g.view.Size()
	if g.SelectedTile() == nil {
		g.selRow, g.selCol = size/2, size/2
		g.refresh()
		return
	}
	if g.selCol+h < 0 || g.selCol+h >= size {
		return
	}
	if g.selRow+v < 0 || g.selRow+v >= size {
		return
	}
	g.selCol += h
	g.selRow += v
	g.refresh()
}

func (g *FleetBoardUI) ResetSelection() {
	g.selRow = -1
	g.selCol = -1
	g.ghost = nil
}

// ClearSelection drops the cursor and redraws the hint.
func (g *FleetBoardUI) ClearSelection() {
	g.ResetSelection()
	g.refresh()
}

// JumpTo moves the cursor to a cell given in letter-number notation, e.g. "C7".
func (g *FleetBoardUI) JumpTo(s string) error {
	if g.eng == nil || g.curtain != types.NoPlayer || g.phase.Stage == engine.StageGameOver {
		return nil
	}
	c, err := types.ParseCoord(s)
	if err == nil && !c.In(g.view.Size()) {
		err = fmt.Errorf("%s is off the board", strings.ToUpper(strings.TrimSpace(s)))
	}
	if err != nil {
		g.lastErr = err.Error()
		g.refreshHint()
		return err
	}
	g.selRow, g.selCol = c.Row, c.Col
	g.lastErr = ""
	g.refresh()
	return nil
}

func NewFleetBoard(c *config.Config, hint *tview.TextView) *FleetBoardUI {
	board := &FleetBoardUI{
		Box:    tview.NewBox(),
		hint:   hint,
		selRow: -1,
		selCol: -1,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		size := board.view.Size()
		if size == 0 {
			return x, y, 1, 1
		}
		ghost := make(map[types.Coord]bool, len(board.ghost))
		for _, c := range board.ghost {
			ghost[c] = true
		}
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				c := types.At(row, col)
				bg, fg, r := board.cellLook(c)
				if board.curtain == types.NoPlayer {
					if ghost[c] {
						bg = board.styles[styleGhost]
						if !board.ghostOK {
							bg = board.styles[styleGhostInvalid]
						}
					}
					if row == board.selRow && col == board.selCol {
						bg = board.styles[styleCursor]
					}
				}
				drawCell(screen, tcell.StyleDefault.Background(bg).Foreground(fg), r, col, row, x+4, y+1)
			}
		}
		drawCoordinates(screen, x, y, board)
		return x, y, size*2 + 4, size + 1
	})
	return board
}

// cellLook picks background, foreground and rune for a cell.
func (g *FleetBoardUI) cellLook(c types.Coord) (tcell.Color, tcell.Color, rune) {
	sym := g.cfg.Theme.Symbols
	if g.curtain != types.NoPlayer {
		return g.styles[styleCurtain], g.styles[styleLabel], sym.Curtain
	}
	water := g.styles[styleWater]
	if g.cfg.Theme.Checkered && (c.Row+c.Col)%2 == 1 {
		water = g.styles[styleWaterAlt]
	}
	switch g.view.At(c) {
	case types.DisplayShip:
		return water, g.styles[styleShip], sym.Ship
	case types.DisplayHit:
		return water, g.styles[styleHit], sym.Hit
	case types.DisplayMiss:
		return water, g.styles[styleMiss], sym.Miss
	default:
		return water, g.styles[styleWaterAlt], sym.Water
	}
}

// curtainFor returns the player the board must be hidden for after a phase
// change, or NoPlayer when the same player keeps the device. The final board
// stays visible at game over.
func curtainFor(from, to engine.Phase) types.Player {
	if to.Stage == engine.StageGameOver || from.Player == to.Player {
		return types.NoPlayer
	}
	return to.Player
}

// ConnectEngine attaches the board to a game engine and starts rendering it.
func (g *FleetBoardUI) ConnectEngine(e *engine.GameEngine) {
	g.eng = e
	g.curtain = types.NoPlayer
	g.lastErr = ""
	g.ResetSelection()

	e.OnPhaseChange(func(from, to engine.Phase) {
		if next := curtainFor(from, to); next != types.NoPlayer {
			g.curtain = next
			g.ResetSelection()
		}
		g.refresh()
	})

	e.OnGameEnd(func(winner types.Player) {
		g.ResetSelection()
		g.refresh()
	})

	if g.infoPanel != nil {
		g.infoPanel.SetEngine(e)
	}
	g.refresh()
}

// Activate handles Enter: dismiss the hand-off screen, place a ship or fire.
func (g *FleetBoardUI) Activate() {
	if g.eng == nil {
		return
	}
	if g.curtain != types.NoPlayer {
		g.curtain = types.NoPlayer
		g.refresh()
		return
	}
	sel := g.SelectedTile()
	if sel == nil {
		g.MoveSelection(0, 0)
		return
	}
	var err error
	if g.phase.Stage == engine.StageSetup {
		err = g.eng.Handle(engine.PlacementIntent{Coord: *sel})
	} else {
		err = g.eng.Handle(engine.FireIntent{Coord: *sel})
	}
	g.report(err)
}

// Action performs the phase's secondary action: rotate during setup, end
// turn during battle.
func (g *FleetBoardUI) Action() {
	if g.phase.Allows(engine.IntentToggleOrientation) {
		g.Rotate()
		return
	}
	g.EndTurn()
}

// Rotate flips the orientation of the ship being placed.
func (g *FleetBoardUI) Rotate() {
	if g.eng == nil || g.curtain != types.NoPlayer {
		return
	}
	g.report(g.eng.Handle(engine.ToggleOrientationIntent{}))
}

// EndTurn hands the device to the other player.
func (g *FleetBoardUI) EndTurn() {
	if g.eng == nil || g.curtain != types.NoPlayer {
		return
	}
	g.report(g.eng.Handle(engine.EndTurnIntent{}))
}

// NewGame restarts with the same settings.
func (g *FleetBoardUI) NewGame() {
	if g.eng == nil {
		return
	}
	g.curtain = types.NoPlayer
	g.report(g.eng.Handle(engine.NewGameIntent{}))
}

func (g *FleetBoardUI) report(err error) {
	g.lastErr = ""
	if err != nil {
		g.lastErr = errorText(err)
		log.Debug().Err(err).Msg("intent rejected")
	}
	g.refresh()
}

// errorText turns engine errors into something a player can act on.
func errorText(err error) string {
	switch {
	case errors.Is(err, engine.ErrOutOfBounds):
		return "Invalid placement: ship would leave the grid."
	case errors.Is(err, engine.ErrOverlap):
		return "Invalid placement: overlaps another ship."
	case errors.Is(err, engine.ErrAlreadyTargeted):
		return "You already fired there."
	case errors.Is(err, engine.ErrTurnAlreadyFired):
		return "You already fired. Press e to end your turn."
	case errors.Is(err, engine.ErrTurnNotYetFired):
		return "Fire before ending your turn."
	case errors.Is(err, engine.ErrWrongPhase):
		return "Not now. Press n for a new game."
	default:
		return err.Error()
	}
}

// Close detaches the engine.
func (g *FleetBoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.OnPhaseChange(nil)
	g.eng.OnGameEnd(nil)
	g.eng = nil
}

func (g *FleetBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.WaterColor),        // 0
		tcell.PaletteColor(c.Theme.Colors.WaterColorAlt),     // 1
		tcell.PaletteColor(c.Theme.Colors.ShipColor),         // 2
		tcell.PaletteColor(c.Theme.Colors.HitColor),          // 3
		tcell.PaletteColor(c.Theme.Colors.MissColor),         // 4
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // 5
		tcell.PaletteColor(c.Theme.Colors.GhostColor),        // 6
		tcell.PaletteColor(c.Theme.Colors.GhostInvalidColor), // 7
		tcell.PaletteColor(c.Theme.Colors.CurtainColor),      // 8
		tcell.PaletteColor(c.Theme.Colors.LabelColor),        // 9
	}
	g.cfg = c
}

// viewer is the player currently holding the device.
func (g *FleetBoardUI) viewer() types.Player {
	return g.phase.Player
}

// refresh re-reads everything it displays from the engine.
func (g *FleetBoardUI) refresh() {
	if g.eng == nil {
		return
	}
	g.phase = g.eng.CurrentPhase()
	view, err := g.eng.CurrentDisplayBoard(g.viewer())
	if err != nil {
		log.Error().Err(err).Msg("display board")
	}
	g.view = view

	g.ghost, g.ghostOK = nil, false
	if sel := g.SelectedTile(); sel != nil && g.phase.Stage == engine.StageSetup {
		cells, err := g.eng.PlacementPreview(*sel)
		g.ghost, g.ghostOK = cells, err == nil
	}
	if g.infoPanel != nil {
		g.infoPanel.Refresh(g.viewer(), g.curtain)
	}
	g.refreshHint()
}

func (g *FleetBoardUI) refreshHint() {
	if g.eng == nil {
		return
	}
	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	if g.curtain != types.NoPlayer {
		g.hint.SetText(fmt.Sprintf("  Pass the device to %s, then press ⏎", g.curtain))
		return
	}

	status := "  " + g.eng.StatusMessage()
	if sel := g.SelectedTile(); sel != nil {
		status += "  " + sel.String()
	}
	if cursor, _, ok := g.eng.Cursor(); ok {
		status += fmt.Sprintf("  [%s]", cursor.Orientation)
	}
	if g.lastErr != "" {
		status += "  [red]" + tview.Escape(g.lastErr) + "[-]"
	}

	controls := []string{"hjkl/↑↓←→ move", ": jump"}
	for _, k := range g.phase.ValidIntents() {
		switch k {
		case engine.IntentPlace:
			controls = append(controls, "⏎ place")
		case engine.IntentFire:
			controls = append(controls, "⏎ fire")
		case engine.IntentToggleOrientation:
			controls = append(controls, "r rotate")
		case engine.IntentEndTurn:
			controls = append(controls, "e end turn")
		case engine.IntentNewGame:
			controls = append(controls, "n new game")
		}
	}
	controls = append(controls, "f focus", "q quit")

	g.hint.SetText(fmt.Sprintf("%s\n  %s", status, strings.Join(controls, "   ")))
}

// drawCell draws a 2 character wide cell.
func drawCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	s.SetContent(l+x*2+1, t+y, ' ', nil, c)
}

func drawCoordinates(s tcell.Screen, x, y int, ui *FleetBoardUI) {
	size := ui.view.Size()
	style := tcell.StyleDefault.Foreground(ui.styles[styleLabel])
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursor]).Foreground(tcell.ColorBlack)

	for ix := 0; ix < size; ix++ {
		_style := style
		if ix == ui.selCol {
			_style = highlight
		}
		s.SetContent(x+4+(ix*2), y, rune('A'+ix), nil, _style)
		s.SetContent(x+4+(ix*2)+1, y, ' ', nil, _style)
	}

	for iy := 0; iy < size; iy++ {
		_style := style
		if iy == ui.selRow {
			_style = highlight
		}
		label := fmt.Sprintf("%2d", iy+1)
		s.SetContent(x+1, y+1+iy, rune(label[0]), nil, _style)
		s.SetContent(x+2, y+1+iy, rune(label[1]), nil, _style)
	}
}
