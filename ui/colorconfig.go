package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"termsalvo/config"
	"termsalvo/types"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	selectedWaterColor int
	selectedShipColor  int
	editingShip        bool // true = editing ship color, false = editing water color
}

type namedColor struct {
	code int
	name string
}

// Sea tones for the water.
var waterColors = []namedColor{
	{17, "Navy"},
	{18, "Dark Blue"},
	{19, "Deep Blue"},
	{24, "Dark Cyan"},
	{25, "Ocean"},
	{26, "Royal Blue"},
	{27, "Bright Blue"},
	{31, "Steel Blue"},
	{32, "Sky Blue"},
	{23, "Teal"},
	{30, "Lagoon"},
	{36, "Sea Green"},
	{22, "Dark Green"},
	{236, "Night"},
	{16, "Black"},
}

// Hull colours that contrast with the water.
var shipColors = []namedColor{
	{246, "Steel Gray"},
	{250, "Light Gray"},
	{255, "White"},
	{244, "Medium Gray"},
	{240, "Gunmetal"},
	{180, "Tan"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{220, "Yellow"},
	{214, "Orange"},
	{70, "Olive"},
	{232, "Black"},
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:                cfg,
		onDone:             onDone,
		selectedWaterColor: cfg.Theme.Colors.WaterColor,
		selectedShipColor:  cfg.Theme.Colors.ShipColor,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.colorList.SetMainTextColor(MenuColors.Label)
	cc.colorList.SetSelectedBackgroundColor(MenuColors.ButtonFocus)
	cc.colorList.SetBorderColor(MenuColors.Border)

	cc.populateColorList()

	// Preview follows the highlighted entry.
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		colors := cc.activeColors()
		if index < 0 || index >= len(colors) {
			return
		}
		if cc.editingShip {
			cc.selectedShipColor = colors[index].code
		} else {
			cc.selectedWaterColor = colors[index].code
		}
	})

	// Enter applies and saves.
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(cc.activeColors()) {
			return
		}
		if cc.editingShip {
			cc.cfg.Theme.Colors.ShipColor = cc.selectedShipColor
			cc.save()
			cc.editingShip = false
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.WaterColor = cc.selectedWaterColor
		cc.cfg.Theme.Colors.WaterColorAlt = altWater(cc.selectedWaterColor)
		cc.save()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	// Layout: list on left, preview on right
	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 32, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

// altWater picks the checkerboard partner of a water colour.
func altWater(code int) int {
	for i, c := range waterColors {
		if c.code == code && i > 0 {
			return waterColors[i-1].code
		}
	}
	return code
}

func (cc *ColorConfigUI) save() {
	if err := cc.cfg.Save(); err != nil {
		log.Error().Err(err).Msg("save config")
	}
}

func (cc *ColorConfigUI) activeColors() []namedColor {
	if cc.editingShip {
		return shipColors
	}
	return waterColors
}

// populateColorList fills the list with appropriate colors based on editing mode.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	current := cc.selectedWaterColor
	if cc.editingShip {
		cc.colorList.SetTitle(" Select Ship Color (Tab: switch to water) ")
		current = cc.selectedShipColor
	} else {
		cc.colorList.SetTitle(" Select Water Color (Tab: switch to ship) ")
	}
	for i, c := range cc.activeColors() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range cc.activeColors() {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

// previewFleet is a fixed little battle scene for the preview grid.
var previewFleet = map[types.Coord]types.DisplayState{
	types.At(1, 1): types.DisplayShip,
	types.At(1, 2): types.DisplayHit,
	types.At(1, 3): types.DisplayShip,
	types.At(3, 5): types.DisplayShip,
	types.At(4, 5): types.DisplayShip,
	types.At(5, 5): types.DisplayHit,
	types.At(5, 1): types.DisplayMiss,
	types.At(2, 4): types.DisplayMiss,
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 20 || height < 10 {
		return x, y, width, height
	}
	colors := cc.cfg.Theme.Colors
	sym := cc.cfg.Theme.Symbols
	water := tcell.PaletteColor(cc.selectedWaterColor)
	waterAlt := tcell.PaletteColor(altWater(cc.selectedWaterColor))

	startX := x + 2
	startY := y + 1
	size := 7

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			bg := water
			if cc.cfg.Theme.Checkered && (row+col)%2 == 1 {
				bg = waterAlt
			}
			style := tcell.StyleDefault.Background(bg).Foreground(waterAlt)
			ch := sym.Water
			switch previewFleet[types.At(row, col)] {
			case types.DisplayShip:
				style = style.Foreground(tcell.PaletteColor(cc.selectedShipColor))
				ch = sym.Ship
			case types.DisplayHit:
				style = style.Foreground(tcell.PaletteColor(colors.HitColor))
				ch = sym.Hit
			case types.DisplayMiss:
				style = style.Foreground(tcell.PaletteColor(colors.MissColor))
				ch = sym.Miss
			}
			drawCell(screen, style, ch, col, row, startX, startY)
		}
	}

	info := fmt.Sprintf("Water: %d  Ship: %d", cc.selectedWaterColor, cc.selectedShipColor)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+size+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between water color and ship color editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingShip = !cc.editingShip
	cc.populateColorList()
}
