package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the full runtime configuration. Every field has a default;
// a missing file or a partial file is not an error.
type Config struct {
	Engine  TickConfig  `toml:"engine"`
	Physics TickConfig  `toml:"physics"`
	Logic   TickConfig  `toml:"logic"`
	Render  TickConfig  `toml:"render"`
	Game    GameConfig  `toml:"game"`
	Log     LogConfig   `toml:"log"`
	Audio   AudioConfig `toml:"audio"`
}

// TickConfig sets a subsystem's tick frequency in Hz
type TickConfig struct {
	Rate int `toml:"rate"`
}

// Interval converts the rate into a pacing duration
func (t TickConfig) Interval() time.Duration {
	if t.Rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(t.Rate)
}

// GameConfig holds player-facing settings
type GameConfig struct {
	Player string `toml:"player"`
}

// LogConfig controls the structured log output. The terminal owns
// stdout, so logs always go to a file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Build constructs the logger described by this section
func (l LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", l.Level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{l.File}
	cfg.ErrorOutputPaths = []string{l.File}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// AudioConfig toggles sound output
type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Engine:  TickConfig{Rate: 120},
		Physics: TickConfig{Rate: 120},
		Logic:   TickConfig{Rate: 120},
		Render:  TickConfig{Rate: 30},
		Game:    GameConfig{Player: "player"},
		Log:     LogConfig{Level: "info", File: "astro-blast.log"},
		Audio:   AudioConfig{Enabled: true},
	}
}

// Load reads a TOML file over the defaults. A missing file yields the
// defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}
