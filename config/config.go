package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"termsalvo/engine"
	"termsalvo/types"
)

var (
	cfgFile = "termsalvo/config.json"
	logFile = "termsalvo/termsalvo.log"
)

// Environment overrides, usually set through a .env file.
const (
	EnvLogLevel = "TERMSALVO_LOG_LEVEL"
	EnvLogFile  = "TERMSALVO_LOG_FILE"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	WaterColor        int `json:"water"`
	WaterColorAlt     int `json:"water_alt"`
	ShipColor         int `json:"ship"`
	HitColor          int `json:"hit"`
	MissColor         int `json:"miss"`
	CursorColorBG     int `json:"cursor_bg"`
	GhostColor        int `json:"ghost"`
	GhostInvalidColor int `json:"ghost_invalid"`
	CurtainColor      int `json:"curtain"`
	LabelColor        int `json:"label"`
}

type ConfigSymbols struct {
	Water   rune `json:"water"`
	Ship    rune `json:"ship"`
	Hit     rune `json:"hit"`
	Miss    rune `json:"miss"`
	Curtain rune `json:"curtain"`
}

type Theme struct {
	Checkered bool          `json:"checkered"`
	Colors    ConfigColors  `json:"colors"`
	Symbols   ConfigSymbols `json:"symbols"`
}

// GameConfig holds the settings a new game is built with.
type GameConfig struct {
	GridSize int         `json:"grid_size"`
	Fleet    types.Fleet `json:"fleet"`
}

// LogConfig controls the log file. The terminal belongs to the UI, so logs
// never go to stdout.
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Config struct {
	Theme Theme      `json:"theme"`
	Game  GameConfig `json:"game"`
	Log   LogConfig  `json:"log"`

	// env holds the session-only overrides. It is never saved.
	env LogConfig
}

// InitConfig loads the user config from the XDG config dir, if any, on top of
// the defaults and applies environment overrides.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return LoadConfig(absPath)
}

// LoadConfig reads filePath over DefaultConfig. An empty or missing path
// yields the defaults.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig
	config.Game.Fleet = append(types.Fleet(nil), DefaultConfig.Game.Fleet...)
	if filePath != "" {
		if err := readCfgFile(filePath, &config); err != nil {
			return nil, err
		}
	}
	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv() {
	c.env = LogConfig{
		Level: os.Getenv(EnvLogLevel),
		File:  os.Getenv(EnvLogFile),
	}
}

// effectiveLog merges the environment overrides over the file settings.
func (c *Config) effectiveLog() LogConfig {
	l := c.Log
	if c.env.Level != "" {
		l.Level = c.env.Level
	}
	if c.env.File != "" {
		l.File = c.env.File
	}
	return l
}

func (c *Config) Validate() error {
	s := c.Theme.Symbols
	for _, r := range []rune{s.Water, s.Ship, s.Hit, s.Miss, s.Curtain} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if err := c.Settings().Validate(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if level := c.effectiveLog().Level; level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
			return &InvalidConfig{fmt.Sprintf("unknown log level %q", level)}
		}
	}
	return nil
}

// Settings converts the game section into engine settings.
func (c *Config) Settings() engine.Settings {
	return engine.Settings{
		GridSize: c.Game.GridSize,
		Fleet:    append(types.Fleet(nil), c.Game.Fleet...),
	}
}

// LogLevel returns the configured level, falling back to info. Environment
// overrides win over the file.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.effectiveLog().Level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// LogPath returns the log file path, creating its directory under the XDG
// state dir when no explicit file is configured.
func (c *Config) LogPath() (string, error) {
	if f := c.effectiveLog().File; f != "" {
		return f, nil
	}
	return xdg.StateFile(logFile)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}
