package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"yuki/internal/config"
	"yuki/internal/llm"
	"yuki/internal/setup"
)

// setupCmd installs system dependencies and builds the launcher.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install dependencies and build the yuki launcher",
	Long: `Setup checks the Go toolchain version and the system package manager,
then installs PortAudio, creates the application directories and default
config, downloads modules and builds the launcher. It must run from the
project directory. A failed check exits with status 1 before anything is
installed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}
		sc, err := setupConfig()
		if err != nil {
			return err
		}
		runner := setup.ExecRunner{Dir: root, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
		return setup.New(setup.OptionsFrom(sc, root, configPath()), runner, cmd.OutOrStdout()).Run(cmd.Context())
	},
}

// setupLLMCmd installs Ollama and pulls the conversation model.
var setupLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Install Ollama and download the conversation model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lc := cfg.LLM()
		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = lc.ModelName
		}

		client := llm.NewOllama(llm.OllamaConfig{
			URL:         lc.OllamaURL,
			Model:       model,
			Temperature: lc.Temperature,
			MaxTokens:   lc.MaxTokens,
		})
		runner := setup.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
		if err := setup.NewLLMSetup(runner, client, cmd.OutOrStdout()).Run(cmd.Context()); err != nil {
			return err
		}

		if model != lc.ModelName {
			if err := cfg.Set("llm.model_name", model); err != nil {
				return err
			}
		}
		if !lc.EnableLLM {
			return cfg.Set("llm.enable_llm", true)
		}
		return nil
	},
}

func init() {
	setupLLMCmd.Flags().String("model", "", "Ollama model to pull (default from config)")
	setupLLMCmd.Long = "Recommended models:\n" + recommendedModels()
	setupCmd.AddCommand(setupLLMCmd)
	rootCmd.AddCommand(setupCmd)
}

// setupConfig returns the setup section of an existing config file without
// creating one; the installer creates it as a step.
func setupConfig() (config.SetupConfig, error) {
	if _, err := os.Stat(configPath()); errors.Is(err, fs.ErrNotExist) {
		return config.Default().Setup, nil
	}
	cfg, err := config.Load(configPath())
	if err != nil {
		return config.SetupConfig{}, err
	}
	return cfg.Setup(), nil
}

func recommendedModels() string {
	var s string
	for _, m := range setup.RecommendedModels {
		s += fmt.Sprintf("  %-14s %-7s %s\n", m.Name, m.Size, m.Description)
	}
	return s
}
