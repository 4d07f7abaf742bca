package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the palette for the menu screens.
var MenuColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	Label       tcell.Color // Light gray for labels
	Hint        tcell.Color // Dim gray for hints
	ButtonBG    tcell.Color // Button background
	ButtonFocus tcell.Color // Focused button / selected list entry
	ButtonText  tcell.Color // Button text
}{
	Border:      tcell.PaletteColor(60),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	ButtonBG:    tcell.PaletteColor(24),
	ButtonFocus: tcell.PaletteColor(31),
	ButtonText:  tcell.PaletteColor(255),
}
