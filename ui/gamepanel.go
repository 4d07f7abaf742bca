package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"termsalvo/engine"
	"termsalvo/types"
)

// GameInfoPanel displays the fleets and the shot log alongside the board.
type GameInfoPanel struct {
	box *tview.TextView
	eng *engine.GameEngine
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetEngine sets the engine the panel reads from.
func (p *GameInfoPanel) SetEngine(e *engine.GameEngine) {
	p.eng = e
}

// Refresh redraws the panel for viewer. While the device is being handed to
// curtain, nothing player-specific is shown.
func (p *GameInfoPanel) Refresh(viewer, curtain types.Player) {
	if p.eng == nil {
		p.box.SetText("")
		return
	}
	phase := p.eng.CurrentPhase()

	var text string
	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf("[white]Game:[-:-:-] %s\n", p.eng.SessionID())
	text += fmt.Sprintf("[white]Phase:[-:-:-] %s\n", phase)

	if curtain != types.NoPlayer {
		text += fmt.Sprintf("\n[yellow]Waiting for %s[-]\n", curtain)
		p.box.SetText(text)
		return
	}

	if cursor, _, ok := p.eng.Cursor(); ok {
		text += "\n[white::b]Place Fleet[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"
		for i, ship := range p.eng.Settings().Fleet {
			marker := " "
			style := "[dimgray]"
			switch {
			case i < cursor.Index:
				marker = "[green]✓[-]"
				style = "[white]"
			case i == cursor.Index:
				marker = "[yellow]>[-]"
				style = "[yellow]"
			}
			text += fmt.Sprintf("%s %s%-10s %d[-]\n", marker, style, ship.Name, ship.Length)
		}
		p.box.SetText(text)
		return
	}

	text += "\n[white::b]Your Fleet[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += rosterText(p.eng.Roster(viewer, viewer), true)

	text += "\n[white::b]Enemy Fleet[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += rosterText(p.eng.Roster(viewer, viewer.Opponent()), phase.Stage == engine.StageGameOver)

	shots := p.eng.Shots()
	if len(shots) > 0 {
		text += "\n[white::b]Shots[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"

		maxVisible := 8
		start := 0
		if len(shots) > maxVisible {
			start = len(shots) - maxVisible
		}
		for i := start; i < len(shots); i++ {
			s := shots[i]
			marker := " "
			if i == len(shots)-1 {
				marker = "[white]>[-]"
			}
			result := "[dimgray]miss[-]"
			if s.Outcome == types.Hit {
				result = "[red]hit[-]"
			}
			if s.Sunk != "" {
				result = fmt.Sprintf("[red]sank %s[-]", s.Sunk)
			}
			text += fmt.Sprintf("%s[dimgray]%3d.[-] %s %-3s %s\n", marker, i+1, s.Shooter.Short(), s.Target, result)
		}
		if start > 0 {
			text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	p.box.SetText(text)
}

// rosterText lists ships with hit counts when showHits is set, otherwise
// only afloat/sunk.
func rosterText(ships []types.ShipStatus, showHits bool) string {
	var text string
	for _, s := range ships {
		state := "[green]afloat[-]"
		if s.Sunk {
			state = "[red]sunk[-]"
		} else if showHits && s.Hits > 0 {
			state = fmt.Sprintf("[yellow]%d/%d hit[-]", s.Hits, s.Length)
		}
		text += fmt.Sprintf("  %-10s %s\n", s.Name, state)
	}
	return text
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *FleetBoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *FleetBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	board.infoPanel = infoPanel
	if board.eng != nil {
		infoPanel.SetEngine(board.eng)
		board.refresh()
	}

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)         // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), 30, 0, false) // Info panel (fixed width)

	// Main vertical flex: board area on top, status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *FleetBoardUI) {
	gameFrame.Clear()

	boardWidth := 24 // default for 10x10
	boardHeight := 11
	if size := board.view.Size(); size > 0 {
		boardWidth = size*2 + 4 // 2 chars per cell + coordinates
		boardHeight = size + 1
	}

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)               // left spacer
	centerRow.AddItem(board.Box, boardWidth, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)               // right spacer

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false) // bottom spacer
}
