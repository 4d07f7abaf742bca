package engine

import (
	"fmt"

	"termsalvo/types"
)

// IntentKind names a user intent.
type IntentKind int

const (
	IntentPlace IntentKind = iota
	IntentFire
	IntentEndTurn
	IntentToggleOrientation
	IntentNewGame
)

func (k IntentKind) String() string {
	switch k {
	case IntentPlace:
		return "place"
	case IntentFire:
		return "fire"
	case IntentEndTurn:
		return "end turn"
	case IntentToggleOrientation:
		return "rotate"
	case IntentNewGame:
		return "new game"
	default:
		return "unknown"
	}
}

// Intent is an input event from the presentation layer.
type Intent interface {
	Kind() IntentKind
}

// PlacementIntent places the cursor's current ship with its origin at Coord.
type PlacementIntent struct {
	Coord types.Coord
}

// FireIntent fires at Coord on the opponent's board.
type FireIntent struct {
	Coord types.Coord
}

// EndTurnIntent hands the turn to the other player.
type EndTurnIntent struct{}

// ToggleOrientationIntent flips the placement orientation.
type ToggleOrientationIntent struct{}

// NewGameIntent discards the current game and starts over.
type NewGameIntent struct{}

func (PlacementIntent) Kind() IntentKind         { return IntentPlace }
func (FireIntent) Kind() IntentKind              { return IntentFire }
func (EndTurnIntent) Kind() IntentKind           { return IntentEndTurn }
func (ToggleOrientationIntent) Kind() IntentKind { return IntentToggleOrientation }
func (NewGameIntent) Kind() IntentKind           { return IntentNewGame }

// Handle dispatches an intent to the matching engine operation. Pointers to
// intents are accepted too. Anything else fails with ErrUnknownIntent.
func (e *GameEngine) Handle(in Intent) error {
	switch v := deref(in).(type) {
	case PlacementIntent:
		return e.PlaceShip(v.Coord)
	case FireIntent:
		_, err := e.Fire(v.Coord)
		return err
	case EndTurnIntent:
		return e.EndTurn()
	case ToggleOrientationIntent:
		_, err := e.ToggleOrientation()
		return err
	case NewGameIntent:
		e.NewGame()
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownIntent, in)
	}
}

// deref unwraps non-nil pointer intents. Nil pointers are left as they are.
func deref(in Intent) Intent {
	switch v := in.(type) {
	case *PlacementIntent:
		if v != nil {
			return *v
		}
	case *FireIntent:
		if v != nil {
			return *v
		}
	case *EndTurnIntent:
		if v != nil {
			return *v
		}
	case *ToggleOrientationIntent:
		if v != nil {
			return *v
		}
	case *NewGameIntent:
		if v != nil {
			return *v
		}
	}
	return in
}
