// termsalvo is a two-player, same-device battleship game for the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"termsalvo/config"
	"termsalvo/engine"
	"termsalvo/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagGridSize   = flag.Int("size", 0, "Grid size (5-26)")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.FleetBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termsalvo %s\n", Version)
		return
	}

	// A missing .env is fine; it only carries log overrides.
	_ = godotenv.Load()

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging disabled: %s\n", err)
	} else {
		defer logFile.Close()
	}

	quickStart := *flagQuickStart || *flagGridSize > 0 || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⚓ termsalvo ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewFleetBoard(cfg, gameHint)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedTile() != nil {
				gameBoard.ClearSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			gameBoard.Activate()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, 1)
			case 'k':
				gameBoard.MoveSelection(0, -1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case ' ':
				gameBoard.Action()
			case 'r':
				gameBoard.Rotate()
			case 'e':
				gameBoard.EndTurn()
			case 'n':
				gameBoard.NewGame()
			case ':':
				showJumpInput()
				return nil
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return event
	})

	setupUI := ui.NewGameSetup(
		cfg.Settings(),
		func(settings engine.Settings) {
			startGame(settings)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 60), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		settings := cfg.Settings()
		if *flagGridSize > 0 {
			settings.GridSize = *flagGridSize
		}
		startGame(settings)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Error().Err(err).Msg("application exited")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging points the global zerolog logger at the configured log file.
func setupLogging(c *config.Config) (*os.File, error) {
	zerolog.SetGlobalLevel(c.LogLevel())
	log.Logger = zerolog.Nop()

	path, err := c.LogPath()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Str("version", Version).Logger()
	return f, nil
}

// showJumpInput asks for a cell in letter-number notation and moves the
// cursor there.
func showJumpInput() {
	input := tview.NewInputField().
		SetLabel("Go to cell: ").
		SetFieldWidth(4).
		SetAcceptanceFunc(func(text string, last rune) bool {
			return len(text) <= 3
		})
	input.SetBorder(true)
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			if err := gameBoard.JumpTo(input.GetText()); err != nil {
				log.Debug().Err(err).Str("input", input.GetText()).Msg("jump rejected")
			}
		}
		rootPage.RemovePage("jump")
		app.SetFocus(gameBoard.Box)
	})
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(input, 3, 0, true).
		AddItem(nil, 0, 1, false)
	rootPage.AddPage("jump", ui.CreateCenteredForm(column, 24), true, true)
	app.SetFocus(input)
}

// startGame starts a game with the given settings.
func startGame(settings engine.Settings) {
	eng, err := engine.New(settings, engine.WithLogger(log.Logger))
	if err != nil {
		log.Warn().Err(err).Int("grid_size", settings.GridSize).Msg("cannot start game")
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	gameBoard.Close()
	gameBoard.ConnectEngine(eng)
	rootPage.SwitchToPage("gameview")
	app.SetFocus(gameBoard.Box)
}
