package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yuki/internal/commands"
	"yuki/internal/sysinfo"
)

// sysinfoCmd prints the same report as the "system info" voice command.
var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Show CPU, memory, disk and uptime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		system := commands.NewSystem(sysinfo.New(), nil, nil)
		fmt.Fprintln(cmd.OutOrStdout(), system.FullInfo(cmd.Context()))
		fmt.Fprintln(cmd.OutOrStdout(), system.Processes(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sysinfoCmd)
}
