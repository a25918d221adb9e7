package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yuki/internal/models"
)

// modelsCmd groups the offline speech model commands.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage offline speech recognition models",
}

func init() {
	modelsCmd.AddCommand(newModelsListCmd(), newModelsDownloadCmd(), newModelsRemoveCmd())
	rootCmd.AddCommand(modelsCmd)
}

func newModelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known models and their download state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc := cfg.Speech()
			manager, err := models.NewManager(sc.ModelsDir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tENGINE\tNAME\tLANGUAGE\tSIZE\tSTATE")
			for _, m := range models.Registry {
				state := "-"
				if manager.IsDownloaded(m) {
					state = "downloaded"
				}
				if sc.Engine == string(m.Engine) && sc.ModelID == m.ID {
					state += " (active)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d MB\t%s\n",
					m.ID, models.EngineName(m.Engine), m.Name, m.Language, m.Size/(1024*1024), state)
			}
			return w.Flush()
		},
	}
}

func newModelsDownloadCmd() *cobra.Command {
	var use bool
	cmd := &cobra.Command{
		Use:     "download <id>",
		Short:   "Download and unpack a model",
		Example: "  yuki models download vosk-en-small --use",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			info, ok := models.GetModel(args[0])
			if !ok {
				return fmt.Errorf("unknown model %q; see 'yuki models list'", args[0])
			}
			manager, err := models.NewManager(cfg.Speech().ModelsDir)
			if err != nil {
				return err
			}

			progress := make(chan models.Progress, 1)
			printed := make(chan struct{})
			go func() {
				defer close(printed)
				printProgress(os.Stderr, progress)
			}()
			err = manager.Download(cmd.Context(), info, progress)
			close(progress)
			<-printed
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s ready at %s\n", info.ID, manager.GetModelPath(info))

			if use {
				if err := cfg.Set("speech.engine", string(info.Engine)); err != nil {
					return err
				}
				return cfg.SetModelID(info.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&use, "use", false, "make the model the active recognizer")
	return cmd
}

func newModelsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			info, ok := models.GetModel(args[0])
			if !ok {
				return fmt.Errorf("unknown model %q; see 'yuki models list'", args[0])
			}
			manager, err := models.NewManager(cfg.Speech().ModelsDir)
			if err != nil {
				return err
			}
			if err := manager.Delete(info); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s removed\n", info.ID)
			return nil
		},
	}
}

func printProgress(w io.Writer, progress <-chan models.Progress) {
	for p := range progress {
		if p.Total > 0 {
			fmt.Fprintf(w, "\r%s: %5.1f%%", p.ModelID, float64(p.Downloaded)*100/float64(p.Total))
		}
		if p.Done {
			fmt.Fprintln(w)
		}
	}
}
