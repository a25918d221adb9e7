package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yuki/internal/audio"
)

// devicesCmd lists microphones PortAudio can open.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := audio.InputDevices()
		if err != nil {
			return err
		}
		for i, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
