// Package cli implements the command-line interface for cubesim.
package cli

import (
	"context"
	"os"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubesim/internal/config"
	"github.com/SeamusWaldron/cubesim/internal/storage"
)

const version = "0.2.0"

var (
	// Global flags
	configFile string

	v   = config.New()
	cfg config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubesim",
	Short: "3x3x3 puzzle simulator",
	Long: `cubesim - A 3x3x3 twisty puzzle simulator.

Turn slices from the keyboard, spin the puzzle with the mouse, shuffle it,
script move sequences, or mirror a GoCube smart cube over Bluetooth.
Every committed turn is journaled to a local SQLite database.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(v, configFile); err != nil {
			return err
		}
		if cfg.Verbose {
			log.SetLogLevel(log.Debug)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: ~/.cubesim/config.yaml)")
	flags.String("db", "", "Database file path (default: ~/.cubesim/cubesim.db)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Float64("turn-step", 3, "Degrees a turn advances per tick")
	flags.Float64("arcball-gain", 2, "Multiplier applied to arcball drag angles")
	flags.Float64("drag-threshold", 4, "Squared pixel distance before a drag registers")
	flags.Float64("spacing", 1.1, "Distance between neighbouring sub-cube centers")
	flags.Int("fps", config.DefaultFPS, "Interactive update rate")

	for key, name := range map[string]string{
		config.KeyDB:            "db",
		config.KeyVerbose:       "verbose",
		config.KeyTurnStep:      "turn-step",
		config.KeyArcballGain:   "arcball-gain",
		config.KeyDragThreshold: "drag-threshold",
		config.KeySpacing:       "spacing",
		config.KeyFPS:           "fps",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// openDB opens the configured database, or the default one.
func openDB() (*storage.DB, error) {
	if cfg.DB != "" {
		return storage.Open(cfg.DB)
	}
	return storage.OpenDefault()
}
