package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/motion/internal/presentation/graph"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [frame.json]",
	Short: "Export the visibility cycle as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the visibility states. Given a stored
frame (as written by the file store or returned by GET /sessions/{id}), the
states held by its elements are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay *graph.Overlay
		if len(args) > 0 {
			frame, err := readFrame(args[0])
			if err != nil {
				return err
			}
			overlay = graph.OverlayOf(frame)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func readFrame(path string) (*domain.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var frame domain.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &frame, nil
}
