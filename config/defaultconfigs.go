package config

import (
	"termsalvo/engine"
	"termsalvo/types"
)

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		Checkered: true,
		Colors: ConfigColors{
			WaterColor:        25,
			WaterColorAlt:     24,
			ShipColor:         246,
			HitColor:          160,
			MissColor:         255,
			CursorColorBG:     220,
			GhostColor:        71,
			GhostInvalidColor: 124,
			CurtainColor:      236,
			LabelColor:        250,
		},
		Symbols: ConfigSymbols{
			Water:   '~',
			Ship:    '■',
			Hit:     '✕',
			Miss:    '•',
			Curtain: '░',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameConfig{
			GridSize: engine.DefaultGridSize,
			Fleet:    types.DefaultFleet(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
