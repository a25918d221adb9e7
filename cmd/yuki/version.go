package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"yuki/internal/platform"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of yuki",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "yuki version %s (%s, %s/%s)\n", Version, platform.Name(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
