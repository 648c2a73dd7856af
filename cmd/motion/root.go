package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "motion",
	Short: "Motion is a CSS animation runtime",
	Long: `Motion drives enter and exit transitions of animated elements and renders
the class and inline style each element needs in every frame.

Transitions are resolved from a library of named specifications, which can be
extended with a YAML or JSON file passed through --config.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Library file (YAML or JSON) merged over the built-in transitions")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// newLogger builds the logger selected by the persistent flags. Logs go to
// Stderr so that Stdout stays free for command output.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	switch logging.Format(format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return logging.NewWithOptions(os.Stderr, level, logging.Format(format)), nil
}

// loadLibrary loads path, falling back to the --config flag and then to the
// built-in presets.
func loadLibrary(cmd *cobra.Command, path string) (*config.Library, error) {
	if path == "" {
		path, _ = cmd.Flags().GetString("config")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
