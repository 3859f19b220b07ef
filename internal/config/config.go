// Package config loads command-line settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/arcball"
	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// Keys understood in the config file. Environment variables use the
// CUBESIM_ prefix and upper case, e.g. CUBESIM_TURN_STEP.
const (
	KeyTurnStep      = "turn_step"
	KeyArcballGain   = "arcball_gain"
	KeyDragThreshold = "drag_threshold"
	KeySpacing       = "spacing"
	KeyShuffleMin    = "shuffle_min"
	KeyShuffleMax    = "shuffle_max"
	KeyFPS           = "fps"
	KeyDB            = "db"
	KeyVerbose       = "verbose"
)

// DefaultFPS is the interactive viewer's update rate.
const DefaultFPS = 60

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the resolved configuration.
type Config struct {
	TurnStep      float32
	ArcballGain   float32
	DragThreshold float64
	Spacing       float32
	ShuffleMin    int
	ShuffleMax    int
	FPS           int
	DB            string // empty selects the default database path
	Verbose       bool
}

// New returns a viper instance with defaults and environment binding set
// up. Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyTurnStep, cube.DefaultStep)
	v.SetDefault(KeyArcballGain, arcball.DefaultGain)
	v.SetDefault(KeyDragThreshold, arcball.DefaultThreshold)
	v.SetDefault(KeySpacing, cube.DefaultSpacing)
	v.SetDefault(KeyShuffleMin, cubesim.DefaultShuffleMin)
	v.SetDefault(KeyShuffleMax, cubesim.DefaultShuffleMax)
	v.SetDefault(KeyFPS, DefaultFPS)
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix("CUBESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultDir returns ~/.cubesim.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cubesim"), nil
}

// Load reads file into v, or ~/.cubesim/config.yaml when file is empty, and
// returns the validated configuration. A missing default file is not an
// error; a missing explicit file is.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := Config{
		TurnStep:      float32(v.GetFloat64(KeyTurnStep)),
		ArcballGain:   float32(v.GetFloat64(KeyArcballGain)),
		DragThreshold: v.GetFloat64(KeyDragThreshold),
		Spacing:       float32(v.GetFloat64(KeySpacing)),
		ShuffleMin:    v.GetInt(KeyShuffleMin),
		ShuffleMax:    v.GetInt(KeyShuffleMax),
		FPS:           v.GetInt(KeyFPS),
		DB:            v.GetString(KeyDB),
		Verbose:       v.GetBool(KeyVerbose),
	}
	return c, c.Validate()
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	switch {
	case c.TurnStep <= 0 || c.TurnStep > cube.QuarterTurn:
		return fmt.Errorf("%w: %s %v must be in (0, 90]", ErrInvalid, KeyTurnStep, c.TurnStep)
	case c.ArcballGain <= 0:
		return fmt.Errorf("%w: %s %v must be positive", ErrInvalid, KeyArcballGain, c.ArcballGain)
	case c.DragThreshold < 0:
		return fmt.Errorf("%w: %s %v must not be negative", ErrInvalid, KeyDragThreshold, c.DragThreshold)
	case c.Spacing <= 0:
		return fmt.Errorf("%w: %s %v must be positive", ErrInvalid, KeySpacing, c.Spacing)
	case c.ShuffleMin < 0 || c.ShuffleMax < c.ShuffleMin:
		return fmt.Errorf("%w: shuffle range [%d, %d]", ErrInvalid, c.ShuffleMin, c.ShuffleMax)
	case c.FPS <= 0:
		return fmt.Errorf("%w: %s %d must be positive", ErrInvalid, KeyFPS, c.FPS)
	}
	return nil
}

// Options converts the configuration to engine options.
func (c Config) Options() []cubesim.Option {
	return []cubesim.Option{
		cubesim.WithTurnStep(c.TurnStep),
		cubesim.WithArcballGain(c.ArcballGain),
		cubesim.WithDragThreshold(c.DragThreshold),
		cubesim.WithSpacing(c.Spacing),
		cubesim.WithShuffleRange(c.ShuffleMin, c.ShuffleMax),
	}
}
