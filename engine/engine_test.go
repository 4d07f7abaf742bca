package engine

import (
	"errors"
	"strings"
	"testing"

	"termsalvo/types"
)

func newTestEngine(t *testing.T) *GameEngine {
	t.Helper()
	e, err := New(DefaultSettings())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// placeFleet places the default fleet horizontally on rows 0..4, column 0.
func placeFleet(t *testing.T, e *GameEngine) {
	t.Helper()
	for i := range e.Settings().Fleet {
		if err := e.PlaceShip(types.At(i, 0)); err != nil {
			t.Fatalf("placing ship %d: %v", i, err)
		}
	}
}

// fleetCells lists the cells placeFleet occupies.
func fleetCells(fleet types.Fleet) []types.Coord {
	var cells []types.Coord
	for row, ship := range fleet {
		for col := 0; col < ship.Length; col++ {
			cells = append(cells, types.At(row, col))
		}
	}
	return cells
}

func toBattle(t *testing.T) *GameEngine {
	t.Helper()
	e := newTestEngine(t)
	placeFleet(t, e)
	placeFleet(t, e)
	if got := e.CurrentPhase(); got != BattlePhase(types.Player1) {
		t.Fatalf("expected BattleTurn(P1), got %s", got)
	}
	return e
}

func expectRejected(t *testing.T, err error, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	var re *RejectedError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RejectedError, got %T", err)
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
	}{
		{"too small", Settings{GridSize: 4, Fleet: types.DefaultFleet()}},
		{"too large", Settings{GridSize: 27, Fleet: types.DefaultFleet()}},
		{"empty fleet", Settings{GridSize: 10}},
		{"unnamed ship", Settings{GridSize: 10, Fleet: types.Fleet{{Length: 2}}}},
		{"ship too long", Settings{GridSize: 5, Fleet: types.Fleet{{Name: "Long", Length: 6}}}},
		{"zero length", Settings{GridSize: 10, Fleet: types.Fleet{{Name: "Raft", Length: 0}}}},
		{"crowded", Settings{GridSize: 5, Fleet: types.DefaultFleet()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.s); !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestNewGameStartsInSetupP1(t *testing.T) {
	e := newTestEngine(t)
	if got := e.CurrentPhase(); got != SetupPhase(types.Player1) {
		t.Fatalf("expected SetupP1, got %s", got)
	}
	cursor, ship, ok := e.Cursor()
	if !ok || cursor.Index != 0 || cursor.Orientation != types.Horizontal || ship.Name != "Carrier" {
		t.Fatalf("unexpected cursor %+v %v %v", cursor, ship, ok)
	}
	if got, want := e.StatusMessage(), "Player 1 Setup: place your Carrier (length 5)"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
	if len(e.SessionID()) != 8 {
		t.Fatalf("unexpected session id %q", e.SessionID())
	}
}

func TestEndToEndScenario(t *testing.T) {
	e := newTestEngine(t)

	// Player 1 places the Carrier across the top row.
	if err := e.PlaceShip(types.At(0, 0)); err != nil {
		t.Fatalf("place carrier: %v", err)
	}
	view, err := e.CurrentDisplayBoard(types.Player1)
	if err != nil {
		t.Fatalf("CurrentDisplayBoard: %v", err)
	}
	for c := 0; c < 5; c++ {
		if view.At(types.At(0, c)) != types.DisplayShip {
			t.Fatalf("cell (0,%d) should show Ship", c)
		}
	}
	if view.At(types.At(0, 5)) != types.DisplayWater {
		t.Fatal("cell (0,5) should be empty")
	}

	for row := 1; row < 5; row++ {
		if err := e.PlaceShip(types.At(row, 0)); err != nil {
			t.Fatalf("place ship on row %d: %v", row, err)
		}
	}
	if got := e.CurrentPhase(); got != SetupPhase(types.Player2) {
		t.Fatalf("expected SetupP2, got %s", got)
	}
	if got := e.StatusMessage(); !strings.HasPrefix(got, "Player 2 Setup: place your Carrier") {
		t.Fatalf("unexpected status %q", got)
	}

	placeFleet(t, e)
	if got := e.CurrentPhase(); got != BattlePhase(types.Player1) {
		t.Fatalf("expected BattleTurn(P1), got %s", got)
	}

	outcome, err := e.Fire(types.At(0, 0))
	if err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if outcome != types.Hit {
		t.Fatalf("expected Hit, got %s", outcome)
	}
	phase := e.CurrentPhase()
	if phase.Stage != StageBattle || phase.Player != types.Player1 || !phase.Fired {
		t.Fatalf("expected BattleTurn(P1, fired), got %s", phase)
	}
	if got := e.StatusMessage(); got != "HIT!" {
		t.Fatalf("status = %q, want HIT!", got)
	}

	_, err = e.Fire(types.At(5, 5))
	expectRejected(t, err, ErrTurnAlreadyFired)

	if err := e.EndTurn(); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if got := e.CurrentPhase(); got != BattlePhase(types.Player2) {
		t.Fatalf("expected BattleTurn(P2), got %s", got)
	}
	if got := e.StatusMessage(); got != "Player 2's turn to fire!" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestFailedPlacementKeepsCursorAndPhase(t *testing.T) {
	e := newTestEngine(t)
	e.PlaceShip(types.At(0, 0))
	before, _, _ := e.Cursor()

	err := e.PlaceShip(types.At(0, 7))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	err = e.PlaceShip(types.At(0, 2))
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	after, ship, _ := e.Cursor()
	if after != before || ship.Name != "Battleship" {
		t.Fatalf("cursor moved after failed placement: %+v -> %+v (%s)", before, after, ship.Name)
	}
	if got := e.CurrentPhase(); got != SetupPhase(types.Player1) {
		t.Fatalf("phase changed to %s", got)
	}
}

func TestToggleOrientation(t *testing.T) {
	e := newTestEngine(t)
	want := types.Horizontal
	for i := 0; i < 5; i++ {
		want = want.Toggle()
		got, err := e.ToggleOrientation()
		if err != nil {
			t.Fatalf("ToggleOrientation: %v", err)
		}
		if got != want {
			t.Fatalf("toggle %d: got %s, want %s", i, got, want)
		}
	}
	view, _ := e.CurrentDisplayBoard(types.Player1)
	for r := range view.Cells {
		for c := range view.Cells[r] {
			if view.Cells[r][c] != types.DisplayWater {
				t.Fatal("toggling orientation touched the board")
			}
		}
	}
	// Odd number of toggles leaves the cursor vertical.
	if err := e.PlaceShip(types.At(0, 0)); err != nil {
		t.Fatalf("PlaceShip: %v", err)
	}
	view, _ = e.CurrentDisplayBoard(types.Player1)
	if view.At(types.At(4, 0)) != types.DisplayShip || view.At(types.At(0, 1)) != types.DisplayWater {
		t.Fatal("carrier should have been placed vertically")
	}
}

func TestOrientationResetsForEachPlayer(t *testing.T) {
	e := newTestEngine(t)
	e.ToggleOrientation()
	for col := range e.Settings().Fleet {
		if err := e.PlaceShip(types.At(0, col)); err != nil {
			t.Fatalf("vertical placement %d: %v", col, err)
		}
	}
	cursor, _, ok := e.Cursor()
	if !ok || cursor.Index != 0 || cursor.Orientation != types.Horizontal {
		t.Fatalf("expected fresh horizontal cursor for player 2, got %+v", cursor)
	}
}

func TestWrongPhaseRejections(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Fire(types.At(0, 0))
	expectRejected(t, err, ErrWrongPhase)
	expectRejected(t, e.EndTurn(), ErrWrongPhase)

	e = toBattle(t)
	expectRejected(t, e.PlaceShip(types.At(9, 9)), ErrWrongPhase)
	_, err = e.ToggleOrientation()
	expectRejected(t, err, ErrWrongPhase)
	expectRejected(t, e.EndTurn(), ErrTurnNotYetFired)
	if _, _, ok := e.Cursor(); ok {
		t.Fatal("cursor should not be available during battle")
	}
	if _, err := e.PlacementPreview(types.At(0, 0)); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase from preview, got %v", err)
	}
	if got := e.CurrentPhase(); got != BattlePhase(types.Player1) {
		t.Fatalf("rejections changed the phase to %s", got)
	}
}

func TestRepeatShotDoesNotConsumeTurn(t *testing.T) {
	e := toBattle(t)
	e.Fire(types.At(9, 9))
	e.EndTurn()
	e.Fire(types.At(9, 9))
	e.EndTurn()

	_, err := e.Fire(types.At(9, 9))
	if !errors.Is(err, ErrAlreadyTargeted) {
		t.Fatalf("expected ErrAlreadyTargeted, got %v", err)
	}
	if got := e.CurrentPhase(); got.Fired {
		t.Fatal("a rejected shot must not set the fired flag")
	}
	if _, err := e.Fire(types.At(8, 8)); err != nil {
		t.Fatalf("player should still be able to fire: %v", err)
	}
}

func TestWinEndsGameImmediately(t *testing.T) {
	e := toBattle(t)
	var ended []types.Player
	e.OnGameEnd(func(winner types.Player) {
		ended = append(ended, winner)
		// Callbacks run outside the lock and may query the engine.
		if e.CurrentPhase().Stage != StageGameOver {
			t.Error("game end callback ran before the phase changed")
		}
	})

	cells := fleetCells(e.Settings().Fleet)
	if len(cells) != 17 {
		t.Fatalf("default fleet should cover 17 cells, got %d", len(cells))
	}
	miss := 9
	for i, c := range cells {
		if _, err := e.Fire(c); err != nil {
			t.Fatalf("P1 shot %d at %s: %v", i, c, err)
		}
		if i == len(cells)-1 {
			break
		}
		if err := e.EndTurn(); err != nil {
			t.Fatalf("P1 end turn: %v", err)
		}
		if _, err := e.Fire(types.At(miss, i%10)); err != nil {
			t.Fatalf("P2 shot: %v", err)
		}
		if i%10 == 9 {
			miss--
		}
		if err := e.EndTurn(); err != nil {
			t.Fatalf("P2 end turn: %v", err)
		}
	}

	if got := e.CurrentPhase(); got != GameOverPhase(types.Player1) {
		t.Fatalf("expected GameOver(P1), got %s", got)
	}
	if len(ended) != 1 || ended[0] != types.Player1 {
		t.Fatalf("expected one game end for Player 1, got %v", ended)
	}
	if got, want := e.StatusMessage(), "GAME OVER! Player 1 WINS!"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}

	expectRejected(t, e.EndTurn(), ErrWrongPhase)
	_, err := e.Fire(types.At(7, 7))
	expectRejected(t, err, ErrWrongPhase)
	expectRejected(t, e.PlaceShip(types.At(7, 7)), ErrWrongPhase)

	view, _ := e.CurrentDisplayBoard(types.Player2)
	if !view.Reveal || view.Owner != types.Player1 {
		t.Fatalf("game over should reveal the opponent board, got owner %s reveal %v", view.Owner, view.Reveal)
	}
	if view.At(types.At(0, 0)) != types.DisplayShip {
		t.Fatal("player 1's untouched ships should be visible after the game")
	}
}

func TestSunkStatusMessage(t *testing.T) {
	e := toBattle(t)
	// The destroyer sits on row 4, columns 0-1.
	e.Fire(types.At(4, 0))
	e.EndTurn()
	e.Fire(types.At(9, 9))
	e.EndTurn()
	e.Fire(types.At(4, 1))
	if got, want := e.StatusMessage(), "HIT! You sank the Destroyer!"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
	shots := e.Shots()
	if len(shots) != 3 || shots[2].Sunk != "Destroyer" || shots[1].Outcome != types.Miss {
		t.Fatalf("unexpected shot log: %+v", shots)
	}

	roster := e.Roster(types.Player1, types.Player2)
	for _, s := range roster {
		if s.Name == "Destroyer" && !s.Sunk {
			t.Fatal("destroyer should be reported sunk")
		}
		if s.Name != "Destroyer" && s.Hits != 0 {
			t.Fatalf("opponent roster leaked hits on %s", s.Name)
		}
	}
}

func TestFogOfWarDuringBattle(t *testing.T) {
	e := toBattle(t)
	e.Fire(types.At(0, 0))
	e.Fire(types.At(0, 1)) // rejected, turn already fired

	for _, p := range []types.Player{types.Player1, types.Player2} {
		view, err := e.CurrentDisplayBoard(p)
		if err != nil {
			t.Fatalf("CurrentDisplayBoard(%s): %v", p, err)
		}
		if view.Owner != p.Opponent() || view.Reveal {
			t.Fatalf("%s should see the fogged opponent board, got owner %s reveal %v", p, view.Owner, view.Reveal)
		}
		for r := range view.Cells {
			for c := range view.Cells[r] {
				if view.Cells[r][c] == types.DisplayShip {
					t.Fatalf("%s sees an un-hit ship at (%d,%d)", p, r, c)
				}
			}
		}
	}
	view, _ := e.CurrentDisplayBoard(types.Player1)
	if view.At(types.At(0, 0)) != types.DisplayHit {
		t.Fatal("hit should be visible through the fog")
	}
}

func TestDisplayBoardDuringSetup(t *testing.T) {
	e := newTestEngine(t)
	e.PlaceShip(types.At(0, 0))

	own, _ := e.CurrentDisplayBoard(types.Player1)
	if own.Owner != types.Player1 || !own.Reveal {
		t.Fatal("placing player should see their own ships")
	}
	other, _ := e.CurrentDisplayBoard(types.Player2)
	if other.Reveal || other.At(types.At(0, 0)) != types.DisplayWater {
		t.Fatal("other player must not see ships during setup")
	}
	if _, err := e.CurrentDisplayBoard(types.NoPlayer); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestOwnBoard(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.OwnBoard(types.Player2); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("player 2 must not see a board during player 1 setup, got %v", err)
	}
	e = toBattle(t)
	e.Fire(types.At(9, 9))
	e.EndTurn()
	e.Fire(types.At(0, 0))

	view, err := e.OwnBoard(types.Player1)
	if !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("player 1 board must be hidden on player 2's turn, got %v", err)
	}
	view, err = e.OwnBoard(types.Player2)
	if err != nil {
		t.Fatalf("OwnBoard: %v", err)
	}
	if view.At(types.At(9, 9)) != types.DisplayMiss || view.At(types.At(0, 1)) != types.DisplayShip {
		t.Fatal("own board should show incoming misses and own ships")
	}
}

func TestPlacementPreview(t *testing.T) {
	e := newTestEngine(t)
	cells, err := e.PlacementPreview(types.At(0, 7))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("expected 3 in-bounds cells, got %d", len(cells))
	}
	cells, err = e.PlacementPreview(types.At(2, 2))
	if err != nil || len(cells) != 5 {
		t.Fatalf("expected legal 5-cell preview, got %v %v", cells, err)
	}
}

func TestEventsAndHandle(t *testing.T) {
	e := newTestEngine(t)
	var phases []Phase
	var shots []Shot
	e.OnPhaseChange(func(from, to Phase) { phases = append(phases, to) })
	e.OnShot(func(s Shot) { shots = append(shots, s) })

	for row := 0; row < 5; row++ {
		if err := e.Handle(PlacementIntent{Coord: types.At(row, 0)}); err != nil {
			t.Fatalf("Handle placement: %v", err)
		}
	}
	if err := e.Handle(ToggleOrientationIntent{}); err != nil {
		t.Fatalf("Handle toggle: %v", err)
	}
	for col := 0; col < 5; col++ {
		if err := e.Handle(PlacementIntent{Coord: types.At(0, col)}); err != nil {
			t.Fatalf("Handle placement: %v", err)
		}
	}
	if err := e.Handle(FireIntent{Coord: types.At(9, 9)}); err != nil {
		t.Fatalf("Handle fire: %v", err)
	}
	if err := e.Handle(EndTurnIntent{}); err != nil {
		t.Fatalf("Handle end turn: %v", err)
	}

	want := []Phase{
		SetupPhase(types.Player2),
		BattlePhase(types.Player1),
		{Stage: StageBattle, Player: types.Player1, Fired: true},
		BattlePhase(types.Player2),
	}
	if len(phases) != len(want) {
		t.Fatalf("expected %d phase events, got %v", len(want), phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phase event %d = %s, want %s", i, phases[i], want[i])
		}
	}
	if len(shots) != 1 || shots[0].Outcome != types.Miss || shots[0].Shooter != types.Player1 {
		t.Fatalf("unexpected shot events %+v", shots)
	}

	session := e.SessionID()
	if err := e.Handle(NewGameIntent{}); err != nil {
		t.Fatalf("Handle new game: %v", err)
	}
	if got := e.CurrentPhase(); got != SetupPhase(types.Player1) {
		t.Fatalf("expected SetupP1 after new game, got %s", got)
	}
	if e.SessionID() == session {
		t.Fatal("new game should get a fresh session id")
	}
	if len(e.Shots()) != 0 {
		t.Fatal("new game should clear the shot log")
	}
	view, _ := e.CurrentDisplayBoard(types.Player1)
	if view.At(types.At(0, 0)) != types.DisplayWater {
		t.Fatal("new game should clear the boards")
	}
}

type customIntent struct{}

func (customIntent) Kind() IntentKind { return IntentFire }

func TestHandlePointerAndUnknownIntents(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		name    string
		in      Intent
		wantErr error
	}{
		{"pointer placement", &PlacementIntent{Coord: types.At(0, 0)}, nil},
		{"pointer rotate", &ToggleOrientationIntent{}, nil},
		{"pointer fire in setup", &FireIntent{Coord: types.At(5, 5)}, ErrWrongPhase},
		{"pointer end turn in setup", &EndTurnIntent{}, ErrWrongPhase},
		{"nil pointer", (*FireIntent)(nil), ErrUnknownIntent},
		{"nil intent", nil, ErrUnknownIntent},
		{"foreign type", customIntent{}, ErrUnknownIntent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Handle(tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Handle(%T): %v", tt.in, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Handle(%T) = %v, want %v", tt.in, err, tt.wantErr)
			}
		})
	}

	cursor, _, ok := e.Cursor()
	if !ok || cursor.Index != 1 || cursor.Orientation != types.Vertical {
		t.Fatalf("pointer intents should have placed one ship and rotated, cursor %+v", cursor)
	}
	if err := e.Handle(&NewGameIntent{}); err != nil {
		t.Fatalf("Handle new game: %v", err)
	}
	if cursor, _, _ := e.Cursor(); cursor.Index != 0 {
		t.Fatalf("expected a fresh cursor after new game, got %+v", cursor)
	}
}

func TestValidIntents(t *testing.T) {
	tests := []struct {
		phase Phase
		allow []IntentKind
		deny  []IntentKind
	}{
		{SetupPhase(types.Player1), []IntentKind{IntentPlace, IntentToggleOrientation, IntentNewGame}, []IntentKind{IntentFire, IntentEndTurn}},
		{BattlePhase(types.Player2), []IntentKind{IntentFire, IntentNewGame}, []IntentKind{IntentEndTurn, IntentPlace, IntentToggleOrientation}},
		{Phase{Stage: StageBattle, Player: types.Player1, Fired: true}, []IntentKind{IntentEndTurn}, []IntentKind{IntentFire}},
		{GameOverPhase(types.Player1), []IntentKind{IntentNewGame}, []IntentKind{IntentPlace, IntentFire, IntentEndTurn, IntentToggleOrientation}},
	}
	for _, tt := range tests {
		for _, k := range tt.allow {
			if !tt.phase.Allows(k) {
				t.Errorf("%s should allow %s", tt.phase, k)
			}
		}
		for _, k := range tt.deny {
			if tt.phase.Allows(k) {
				t.Errorf("%s should not allow %s", tt.phase, k)
			}
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{SetupPhase(types.Player1), "SetupP1"},
		{SetupPhase(types.Player2), "SetupP2"},
		{BattlePhase(types.Player1), "BattleTurn(P1)"},
		{Phase{Stage: StageBattle, Player: types.Player2, Fired: true}, "BattleTurn(P2, fired)"},
		{GameOverPhase(types.Player2), "GameOver(P2)"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
