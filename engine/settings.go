package engine

import (
	"fmt"

	"termsalvo/types"
)

const (
	DefaultGridSize = 10
	MinGridSize     = 5
	MaxGridSize     = 26 // columns are lettered A-Z
)

// Settings holds the per-game configuration. It is fixed once the engine is built.
type Settings struct {
	GridSize int
	Fleet    types.Fleet
}

// DefaultSettings returns a 10x10 grid with the classic fleet.
func DefaultSettings() Settings {
	return Settings{
		GridSize: DefaultGridSize,
		Fleet:    types.DefaultFleet(),
	}
}

// Validate checks that a game can actually be played with these settings.
func (s Settings) Validate() error {
	if s.GridSize < MinGridSize || s.GridSize > MaxGridSize {
		return fmt.Errorf("%w: grid size %d not in [%d, %d]", ErrInvalidSettings, s.GridSize, MinGridSize, MaxGridSize)
	}
	if len(s.Fleet) == 0 {
		return fmt.Errorf("%w: fleet is empty", ErrInvalidSettings)
	}
	for i, ship := range s.Fleet {
		if ship.Name == "" {
			return fmt.Errorf("%w: ship %d has no name", ErrInvalidSettings, i+1)
		}
		if ship.Length < 1 || ship.Length > s.GridSize {
			return fmt.Errorf("%w: %s length %d not in [1, %d]", ErrInvalidSettings, ship.Name, ship.Length, s.GridSize)
		}
	}
	// Keep at least half the grid as water so every fleet stays placeable.
	if cells := s.Fleet.Cells(); cells > s.GridSize*s.GridSize/2 {
		return fmt.Errorf("%w: fleet needs %d cells, grid allows %d", ErrInvalidSettings, cells, s.GridSize*s.GridSize/2)
	}
	return nil
}
