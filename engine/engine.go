// Package engine implements the hot-seat battleship rules: ship placement,
// turn sequencing, shot resolution, fog of war and win detection.
package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"termsalvo/types"
)

// PlacementCursor tracks which fleet ship is placed next and how it is oriented.
type PlacementCursor struct {
	Index       int
	Orientation types.Orientation
}

// Shot is one accepted shot in the game log.
type Shot struct {
	Shooter types.Player
	Target  types.Coord
	Outcome types.ShotOutcome
	Sunk    string // name of the ship this shot sank, if any
}

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithLogger sets the logger used for engine events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *GameEngine) {
		e.baseLog = l
	}
}

// GameEngine owns both boards and the phase. All methods are safe to call
// from any goroutine; each runs to completion under a single lock.
type GameEngine struct {
	settings Settings
	boards   [2]*Board
	phase    Phase
	cursor   PlacementCursor
	shots    []Shot

	session string
	baseLog zerolog.Logger
	log     zerolog.Logger

	phaseCallback func(from, to Phase)
	shotCallback  func(shot Shot)
	endCallback   func(winner types.Player)
	pending       []func()

	mu sync.Mutex
}

// New creates an engine in SetupP1 with empty boards.
func New(settings Settings, opts ...Option) (*GameEngine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	fleet := make(types.Fleet, len(settings.Fleet))
	copy(fleet, settings.Fleet)
	settings.Fleet = fleet

	e := &GameEngine{
		settings: settings,
		baseLog:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e, nil
}

// reset starts a fresh game. Caller must hold mu (or own e exclusively).
func (e *GameEngine) reset() {
	e.boards = [2]*Board{NewBoard(e.settings.GridSize), NewBoard(e.settings.GridSize)}
	e.cursor = PlacementCursor{}
	e.shots = nil
	e.session = uuid.NewString()[:8]
	e.log = e.baseLog.With().Str("session", e.session).Logger()
	e.phase = SetupPhase(types.Player1)
	e.log.Info().
		Int("grid_size", e.settings.GridSize).
		Int("fleet_cells", e.settings.Fleet.Cells()).
		Msg("new game")
}

func (e *GameEngine) board(p types.Player) *Board {
	if p == types.Player2 {
		return e.boards[1]
	}
	return e.boards[0]
}

// unlockAndNotify releases mu and then runs queued callbacks, so callbacks
// can query the engine.
func (e *GameEngine) unlockAndNotify() {
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (e *GameEngine) setPhase(to Phase) {
	from := e.phase
	e.phase = to
	if from.Stage != to.Stage || from.Player != to.Player {
		e.log.Info().Stringer("from", from).Stringer("to", to).Msg("phase change")
	}
	if cb := e.phaseCallback; cb != nil {
		e.pending = append(e.pending, func() { cb(from, to) })
	}
}

func (e *GameEngine) rejected(k IntentKind, err error) {
	e.log.Debug().Err(err).Stringer("intent", k).Stringer("phase", e.phase).Msg("intent rejected")
}

// OnPhaseChange registers a callback for every phase change, including the
// shot-fired flag being set.
func (e *GameEngine) OnPhaseChange(fn func(from, to Phase)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.phaseCallback = fn
}

// OnShot registers a callback for every accepted shot.
func (e *GameEngine) OnShot(fn func(shot Shot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shotCallback = fn
}

// OnGameEnd registers a callback for when a fleet is fully sunk.
func (e *GameEngine) OnGameEnd(fn func(winner types.Player)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endCallback = fn
}

// PlaceShip places the cursor's current ship for the player in setup.
// On success the cursor advances; once the fleet is exhausted the phase moves
// on to the other player's setup or to the first battle turn.
func (e *GameEngine) PlaceShip(origin types.Coord) error {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if err := e.phase.reject(IntentPlace); err != nil {
		e.rejected(IntentPlace, err)
		return err
	}
	p := e.phase.Player
	ship := e.settings.Fleet[e.cursor.Index]
	if err := e.board(p).PlaceShip(origin, ship, e.cursor.Orientation); err != nil {
		e.rejected(IntentPlace, err)
		return err
	}
	e.log.Debug().
		Stringer("player", p).
		Str("ship", ship.Name).
		Stringer("origin", origin).
		Stringer("orientation", e.cursor.Orientation).
		Msg("ship placed")

	e.cursor.Index++
	if e.cursor.Index < len(e.settings.Fleet) {
		return nil
	}
	// Orientation resets to horizontal for each player's setup.
	e.cursor = PlacementCursor{}
	if p == types.Player1 {
		e.setPhase(SetupPhase(types.Player2))
	} else {
		e.setPhase(BattlePhase(types.Player1))
	}
	return nil
}

// Fire shoots at the opponent's board. Only one shot per turn is accepted.
// If the shot sinks the last ship the game ends immediately.
func (e *GameEngine) Fire(target types.Coord) (types.ShotOutcome, error) {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if err := e.phase.reject(IntentFire); err != nil {
		e.rejected(IntentFire, err)
		return types.Miss, err
	}
	shooter := e.phase.Player
	b := e.board(shooter.Opponent())
	outcome, err := b.FireAt(target)
	if err != nil {
		e.rejected(IntentFire, err)
		return types.Miss, err
	}

	shot := Shot{Shooter: shooter, Target: target, Outcome: outcome}
	if outcome == types.Hit {
		if s, sunk := b.SunkAt(target); sunk {
			shot.Sunk = s.Name
		}
	}
	e.shots = append(e.shots, shot)
	e.log.Info().
		Stringer("shooter", shooter).
		Stringer("target", target).
		Stringer("outcome", outcome).
		Str("sunk", shot.Sunk).
		Msg("shot")
	if cb := e.shotCallback; cb != nil {
		e.pending = append(e.pending, func() { cb(shot) })
	}

	if !b.HasShipsRemaining() {
		e.setPhase(GameOverPhase(shooter))
		e.log.Info().Stringer("winner", shooter).Int("shots", len(e.shots)).Msg("game over")
		if cb := e.endCallback; cb != nil {
			e.pending = append(e.pending, func() { cb(shooter) })
		}
		return outcome, nil
	}
	next := e.phase
	next.Fired = true
	e.setPhase(next)
	return outcome, nil
}

// EndTurn passes the turn to the other player once a shot has been fired.
func (e *GameEngine) EndTurn() error {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if err := e.phase.reject(IntentEndTurn); err != nil {
		e.rejected(IntentEndTurn, err)
		return err
	}
	e.setPhase(BattlePhase(e.phase.Player.Opponent()))
	return nil
}

// ToggleOrientation flips the placement orientation and returns the new one.
func (e *GameEngine) ToggleOrientation() (types.Orientation, error) {
	e.mu.Lock()
	defer e.unlockAndNotify()

	if err := e.phase.reject(IntentToggleOrientation); err != nil {
		e.rejected(IntentToggleOrientation, err)
		return e.cursor.Orientation, err
	}
	e.cursor.Orientation = e.cursor.Orientation.Toggle()
	return e.cursor.Orientation, nil
}

// NewGame discards the current game and returns to SetupP1. It is accepted in every phase.
func (e *GameEngine) NewGame() {
	e.mu.Lock()
	defer e.unlockAndNotify()

	from := e.phase
	e.reset()
	if cb := e.phaseCallback; cb != nil {
		to := e.phase
		e.pending = append(e.pending, func() { cb(from, to) })
	}
}

// CurrentPhase returns the current phase.
func (e *GameEngine) CurrentPhase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Settings returns the settings the engine was built with.
func (e *GameEngine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.settings
	s.Fleet = append(types.Fleet(nil), e.settings.Fleet...)
	return s
}

// SessionID identifies the current game in logs.
func (e *GameEngine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Cursor returns the placement cursor and the ship it points at.
// ok is false outside setup.
func (e *GameEngine) Cursor() (cursor PlacementCursor, ship types.Ship, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase.Stage != StageSetup {
		return PlacementCursor{}, types.Ship{}, false
	}
	return e.cursor, e.settings.Fleet[e.cursor.Index], true
}

// PlacementPreview returns the in-bounds cells the next ship would cover with
// its origin at c, and the error placing it there would produce.
func (e *GameEngine) PlacementPreview(origin types.Coord) ([]types.Coord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.phase.reject(IntentPlace); err != nil {
		return nil, err
	}
	length := e.settings.Fleet[e.cursor.Index].Length
	b := e.board(e.phase.Player)
	var cells []types.Coord
	for _, c := range ShipCells(origin, length, e.cursor.Orientation) {
		if c.In(b.Size()) {
			cells = append(cells, c)
		}
	}
	return cells, b.CanPlace(origin, length, e.cursor.Orientation)
}

// CurrentDisplayBoard returns the board forPlayer should be looking at now.
//
// During setup that is the placing player's board, revealed only to its
// owner. During battle it is always the opponent's board under fog of war.
// Once the game is over the opponent's board is revealed.
func (e *GameEngine) CurrentDisplayBoard(forPlayer types.Player) (types.BoardView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if forPlayer != types.Player1 && forPlayer != types.Player2 {
		return types.BoardView{}, fmt.Errorf("unknown player %d", forPlayer)
	}
	switch e.phase.Stage {
	case StageSetup:
		owner := e.phase.Player
		return e.board(owner).View(owner, owner == forPlayer), nil
	case StageBattle:
		owner := forPlayer.Opponent()
		return e.board(owner).View(owner, false), nil
	default:
		owner := forPlayer.Opponent()
		return e.board(owner).View(owner, true), nil
	}
}

// OwnBoard returns forPlayer's own board with ships revealed. It is refused
// while the other player has the device.
func (e *GameEngine) OwnBoard(forPlayer types.Player) (types.BoardView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if forPlayer != types.Player1 && forPlayer != types.Player2 {
		return types.BoardView{}, fmt.Errorf("unknown player %d", forPlayer)
	}
	if e.phase.Stage != StageGameOver && e.phase.Player != forPlayer {
		return types.BoardView{}, fmt.Errorf("%s board during %s: %w", forPlayer, e.phase, ErrWrongPhase)
	}
	return e.board(forPlayer).View(forPlayer, true), nil
}

// Roster lists owner's placed ships as forPlayer may see them. Hit counts on
// the opponent's afloat ships are hidden until the game is over.
func (e *GameEngine) Roster(forPlayer, owner types.Player) []types.ShipStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	ships := e.board(owner).Ships()
	if owner == forPlayer || e.phase.Stage == StageGameOver {
		return ships
	}
	for i := range ships {
		if !ships[i].Sunk {
			ships[i].Hits = 0
		}
	}
	return ships
}

// Shots returns every accepted shot in order.
func (e *GameEngine) Shots() []Shot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Shot(nil), e.shots...)
}

// StatusMessage describes what the active player should do next.
func (e *GameEngine) StatusMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase.Stage {
	case StageSetup:
		ship := e.settings.Fleet[e.cursor.Index]
		return fmt.Sprintf("%s Setup: place your %s (length %d)", e.phase.Player, ship.Name, ship.Length)
	case StageBattle:
		if !e.phase.Fired || len(e.shots) == 0 {
			return fmt.Sprintf("%s's turn to fire!", e.phase.Player)
		}
		last := e.shots[len(e.shots)-1]
		if last.Outcome == types.Miss {
			return "MISS!"
		}
		if last.Sunk != "" {
			return fmt.Sprintf("HIT! You sank the %s!", last.Sunk)
		}
		return "HIT!"
	default:
		return fmt.Sprintf("GAME OVER! %s WINS!", e.phase.Player)
	}
}
