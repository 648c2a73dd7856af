package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/motion"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of motion",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "motion version %s\n", strings.TrimSpace(motion.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
