// Package ui provides terminal UI components for termsalvo.
package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termsalvo/engine"
)

var gridSizes = []int{8, 10, 12, 15}

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	onStart  func(engine.Settings)
	onCancel func()
	onColors func()

	settings engine.Settings
}

// NewGameSetup creates a new game setup form seeded with defaults.
func NewGameSetup(defaults engine.Settings, onStart func(engine.Settings), onCancel func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		onColors: onColors,
		settings: defaults,
	}

	sizes := gridSizes
	initial := -1
	for i, n := range sizes {
		if n == defaults.GridSize {
			initial = i
		}
	}
	if initial == -1 {
		sizes = append([]int{defaults.GridSize}, sizes...)
		initial = 0
	}
	labels := make([]string, len(sizes))
	for i, n := range sizes {
		labels[i] = fmt.Sprintf("%dx%d", n, n)
	}

	form := tview.NewForm()

	form.AddDropDown("Grid Size", labels, initial, func(option string, index int) {
		if index >= 0 && index < len(sizes) {
			setup.settings.GridSize = sizes[index]
		}
	})

	fleet := make([]string, len(defaults.Fleet))
	for i, s := range defaults.Fleet {
		fleet[i] = fmt.Sprintf("%s %d", s.Name, s.Length)
	}
	form.AddButton("Start Game", func() {
		onStart(setup.settings)
	})

	form.AddButton("Board Colors", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)
	form.SetLabelColor(MenuColors.Label)
	form.SetBorderColor(MenuColors.Border)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	fleetText := tview.NewTextView().
		SetText("Fleet: " + strings.Join(fleet, ", ")).
		SetTextAlign(tview.AlignCenter)
	fleetText.SetTextColor(MenuColors.Label)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(fleetText, 1, 0, false).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// Settings returns the settings currently selected in the form.
func (s *GameSetupUI) Settings() engine.Settings {
	return s.settings
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
