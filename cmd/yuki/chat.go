package main

import (
	"fmt"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"yuki/internal/app"
)

// chatCmd runs the text REPL.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Yuki by typing",
	Long: `Chat sends each line to the command processor as if it had been
spoken after the wake word. Replies are printed, not spoken.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     filepath.Join(filepath.Dir(cfg.History().Database), "chat_history"),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("init readline: %w", err)
		}
		defer rl.Close()

		opts := app.Options{
			Processor: newProcessor(cfg, apiKeys(cfg)),
			WakeWords: cfg.Voice().WakeWords(),
			Out:       rl.Stdout(),
		}
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			opts.History = store
		}
		return app.New(opts).Chat(cmd.Context(), rl)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
