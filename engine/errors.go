package engine

import (
	"errors"
	"fmt"

	"termsalvo/types"
)

// Placement failures.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOverlap     = errors.New("overlaps another ship")
)

// Fire failures.
var ErrAlreadyTargeted = errors.New("cell already targeted")

// Intent rejections.
var (
	ErrWrongPhase       = errors.New("not allowed in this phase")
	ErrTurnAlreadyFired = errors.New("already fired this turn")
	ErrTurnNotYetFired  = errors.New("must fire before ending the turn")
)

// ErrUnknownIntent is returned by Handle for an intent it cannot dispatch.
var ErrUnknownIntent = errors.New("unknown intent")

// ErrInvalidSettings is returned by New for an unusable grid size or fleet.
var ErrInvalidSettings = errors.New("invalid game settings")

// PlacementError reports a rejected ship placement.
type PlacementError struct {
	Ship        types.Ship
	Origin      types.Coord
	Orientation types.Orientation
	Err         error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("cannot place %s at %s (%s): %s",
		e.Ship.Name, e.Origin, e.Orientation, e.Err)
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}

// FireError reports a rejected shot.
type FireError struct {
	Target types.Coord
	Err    error
}

func (e *FireError) Error() string {
	return fmt.Sprintf("cannot fire at %s: %s", e.Target, e.Err)
}

func (e *FireError) Unwrap() error {
	return e.Err
}

// RejectedError reports an intent that is not valid in the current phase.
type RejectedError struct {
	Intent IntentKind
	Phase  Phase
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected during %s: %s", e.Intent, e.Phase, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}
