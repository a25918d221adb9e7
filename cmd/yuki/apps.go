package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yuki/internal/commands"
	"yuki/internal/config"
	"yuki/internal/platform"
)

// appsCmd manages the applications Yuki can open by name.
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Manage applications that can be opened by voice",
}

func init() {
	appsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List configured applications",
			Args:  cobra.NoArgs,
			RunE: withApps(func(cmd *cobra.Command, cfg *config.Config, apps *commands.Apps, _ []string) error {
				for _, name := range apps.List() {
					path, _ := cfg.ApplicationPath(name)
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, path)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:     "add <name> <path>",
			Short:   "Add or replace an application",
			Example: `  yuki apps add code "/Applications/Visual Studio Code.app"`,
			Args:    cobra.ExactArgs(2),
			RunE: withApps(func(cmd *cobra.Command, _ *config.Config, apps *commands.Apps, args []string) error {
				if !apps.Add(args[0], args[1]) {
					return fmt.Errorf("could not add %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s added\n", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove an application",
			Args:  cobra.ExactArgs(1),
			RunE: withApps(func(cmd *cobra.Command, _ *config.Config, apps *commands.Apps, args []string) error {
				if !apps.Remove(args[0]) {
					return fmt.Errorf("%s is not configured", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s removed\n", args[0])
				return nil
			}),
		},
	)
	rootCmd.AddCommand(appsCmd)
}

func withApps(fn func(*cobra.Command, *config.Config, *commands.Apps, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return fn(cmd, cfg, commands.NewApps(cfg, platform.Exec{}), args)
	}
}
