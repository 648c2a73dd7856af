package main

import (
	"fmt"

	"github.com/aretw0/motion/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a transition library file",
	Long: `Decodes the library file, resolves every named specification and transition
against the built-in presets and reports the first error found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		lib, err := loadLibrary(cmd, path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		report, err := tui.Describe(lib)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Library is valid: %d specifications, %d enter and %d exit transitions\n",
			len(report.Specs), len(report.Enters), len(report.Exits))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
