package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/motion/internal/presentation/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Describe the transition library",
	Long: `Prints every specification and transition of the library with the classes and
inline styles it renders. Without --format, terminals get rendered Markdown and
pipes get a plain tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		format, _ := cmd.Flags().GetString("format")

		lib, err := loadLibrary(cmd, path)
		if err != nil {
			return err
		}
		report, err := tui.Describe(lib)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), report, format)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringP("format", "f", "", "Output format: tree, markdown, yaml or json")
}

func writeReport(w io.Writer, report *tui.Report, format string) error {
	if format == "" {
		format = "tree"
		if tui.IsTerminal(w) {
			format = "glamour"
		}
	}

	switch format {
	case "tree":
		_, err := io.WriteString(w, report.Tree())
		return err
	case "markdown":
		_, err := io.WriteString(w, report.Markdown())
		return err
	case "glamour":
		render, err := tui.NewRenderer(tui.Width(w))
		if err != nil {
			return err
		}
		out, err := render(report.Markdown())
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown format %q. Supported: tree, markdown, yaml, json", format)
	}
}
