package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/mp3probe"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		v := mp3probe.GetVersionInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mp3probe %s\n", v.Version)
		fmt.Fprintf(out, "  commit: %s\n", v.GitCommit)
		fmt.Fprintf(out, "  built:  %s\n", v.BuildTime)
		fmt.Fprintf(out, "  go:     %s\n", v.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
