package engine

import (
	"fmt"

	"termsalvo/types"
)

// Stage is the top-level step of the game state machine.
type Stage int

const (
	StageSetup Stage = iota
	StageBattle
	StageGameOver
)

var stageNames = map[Stage]string{
	StageSetup:    "Setup",
	StageBattle:   "BattleTurn",
	StageGameOver: "GameOver",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return "Unknown"
}

// Phase is the single game state value.
//
// Player means the placing player during setup, the firing player during
// battle and the winner once the game is over. Fired is only meaningful
// during battle and is set once the active player has taken their shot.
type Phase struct {
	Stage  Stage
	Player types.Player
	Fired  bool
}

// SetupPhase returns the setup phase for p.
func SetupPhase(p types.Player) Phase {
	return Phase{Stage: StageSetup, Player: p}
}

// BattlePhase returns a fresh battle turn for p.
func BattlePhase(p types.Player) Phase {
	return Phase{Stage: StageBattle, Player: p}
}

// GameOverPhase returns the terminal phase won by p.
func GameOverPhase(winner types.Player) Phase {
	return Phase{Stage: StageGameOver, Player: winner}
}

func (p Phase) String() string {
	switch p.Stage {
	case StageSetup:
		return "Setup" + p.Player.Short()
	case StageBattle:
		if p.Fired {
			return fmt.Sprintf("BattleTurn(%s, fired)", p.Player.Short())
		}
		return fmt.Sprintf("BattleTurn(%s)", p.Player.Short())
	case StageGameOver:
		return fmt.Sprintf("GameOver(%s)", p.Player.Short())
	default:
		return "Unknown"
	}
}

// ValidIntents lists the intents the engine will accept in this phase.
func (p Phase) ValidIntents() []IntentKind {
	switch p.Stage {
	case StageSetup:
		return []IntentKind{IntentPlace, IntentToggleOrientation, IntentNewGame}
	case StageBattle:
		if p.Fired {
			return []IntentKind{IntentEndTurn, IntentNewGame}
		}
		return []IntentKind{IntentFire, IntentNewGame}
	default:
		return []IntentKind{IntentNewGame}
	}
}

// Allows reports whether an intent of kind k is valid in this phase.
func (p Phase) Allows(k IntentKind) bool {
	for _, v := range p.ValidIntents() {
		if v == k {
			return true
		}
	}
	return false
}

// reject explains why kind is not allowed in p. It returns nil when it is.
func (p Phase) reject(k IntentKind) error {
	if p.Allows(k) {
		return nil
	}
	err := ErrWrongPhase
	if p.Stage == StageBattle {
		switch {
		case k == IntentFire && p.Fired:
			err = ErrTurnAlreadyFired
		case k == IntentEndTurn && !p.Fired:
			err = ErrTurnNotYetFired
		}
	}
	return &RejectedError{Intent: k, Phase: p, Err: err}
}
