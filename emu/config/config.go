// Package config reads emulator settings from flags, environment and the
// ~/.chyp8 config file.
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
)

// Keys used in the config file and environment (prefixed with CHYP8_).
const (
	KeyScale        = "scale"
	KeyRefresh      = "refresh"
	KeyWrapYByWidth = "wrap-y-by-width"
	KeyKeys         = "keys"
	KeyDebug        = "debug"
	KeyQuiet        = "quiet"
)

const (
	DefaultScale   = 15
	DefaultRefresh = 60

	maxScale   = 64
	maxRefresh = 1000
)

// Config holds the settings the start command runs with.
type Config struct {
	ROMPath      string
	Scale        int
	Refresh      int
	WrapYByWidth bool
	Keys         map[string]string
	Debug        bool
	Quiet        bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyScale, DefaultScale)
	v.SetDefault(KeyRefresh, DefaultRefresh)
	v.SetDefault(KeyWrapYByWidth, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyQuiet, false)
}

// Load builds a validated Config from v.
func Load(v *viper.Viper, romPath string) (Config, error) {
	cfg := Config{
		ROMPath:      romPath,
		Scale:        v.GetInt(KeyScale),
		Refresh:      v.GetInt(KeyRefresh),
		WrapYByWidth: v.GetBool(KeyWrapYByWidth),
		Keys:         v.GetStringMapString(KeyKeys),
		Debug:        v.GetBool(KeyDebug),
		Quiet:        v.GetBool(KeyQuiet),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var (
	ErrNoROM        = errors.New("no ROM path given")
	ErrInvalidValue = errors.New("invalid config value")
)

// Validate checks every field is in range.
func (c Config) Validate() error {
	if c.ROMPath == "" {
		return ErrNoROM
	}
	if c.Scale < 1 || c.Scale > maxScale {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidValue, KeyScale, maxScale, c.Scale)
	}
	if c.Refresh < 1 || c.Refresh > maxRefresh {
		return fmt.Errorf("%w: %s must be between 1 and %d Hz, got %d", ErrInvalidValue, KeyRefresh, maxRefresh, c.Refresh)
	}
	if c.Debug && c.Quiet {
		return fmt.Errorf("%w: %s and %s are mutually exclusive", ErrInvalidValue, KeyDebug, KeyQuiet)
	}
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
