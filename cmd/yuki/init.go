package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"yuki/internal/config"
	"yuki/internal/models"
)

// initOptions are the answers collected by the init form.
type initOptions struct {
	Language      string
	WakeWord      string
	Engine        string
	ModelID       string
	OpenAIKey     string
	WeatherKey    string
	EnableLLM     bool
	Notifications bool
	Tray          bool
}

// initCmd writes the config file from an interactive form.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the config file interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := initOptionsFrom(cfg)

		if err := initForm(&opts).Run(); err != nil {
			return err
		}
		if err := applyInit(cfg, opts); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config saved to %s\n", cfg.Path())
		if opts.Engine == string(models.EngineVosk) {
			fmt.Fprintf(cmd.OutOrStdout(), "Run 'yuki models download %s' to fetch the speech model.\n", opts.ModelID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initOptionsFrom(cfg *config.Config) initOptions {
	ui, keys := cfg.UI(), cfg.APIKeys()
	return initOptions{
		Language:      ui.Language,
		WakeWord:      cfg.Voice().WakeWord,
		Engine:        cfg.Speech().Engine,
		ModelID:       cfg.Speech().ModelID,
		OpenAIKey:     keys.OpenAIAPI,
		WeatherKey:    keys.WeatherAPI,
		EnableLLM:     cfg.LLM().EnableLLM,
		Notifications: ui.Notifications,
		Tray:          ui.Tray,
	}
}

func initForm(opts *initOptions) *huh.Form {
	var voskModels []huh.Option[string]
	for _, m := range models.GetModelsByEngine(models.EngineVosk) {
		voskModels = append(voskModels, huh.NewOption(m.Name+" ("+m.Language+")", m.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Reply language").
				Options(
					huh.NewOption("ไทย", "th"),
					huh.NewOption("English", "en"),
				).
				Value(&opts.Language),
			huh.NewInput().
				Title("Wake word").
				Value(&opts.WakeWord),
			huh.NewSelect[string]().
				Title("Speech recognition").
				Options(
					huh.NewOption("Cloud (OpenAI, Thai and English)", string(models.EngineCloud)),
					huh.NewOption("Vosk (offline, English)", string(models.EngineVosk)),
				).
				Value(&opts.Engine),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Vosk model").
				Options(voskModels...).
				Value(&opts.ModelID),
		).WithHideFunc(func() bool {
			return opts.Engine != string(models.EngineVosk)
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Used for cloud speech and the cloud LLM").
				EchoMode(huh.EchoModePassword).
				Value(&opts.OpenAIKey),
			huh.NewInput().
				Title("Visual Crossing weather API key").
				EchoMode(huh.EchoModePassword).
				Value(&opts.WeatherKey),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Answer free-form questions with an LLM?").
				Value(&opts.EnableLLM),
			huh.NewConfirm().
				Title("Show desktop notifications?").
				Value(&opts.Notifications),
			huh.NewConfirm().
				Title("Show the tray icon?").
				Value(&opts.Tray),
		),
	)
}

func applyInit(cfg *config.Config, opts initOptions) error {
	values := []struct {
		key   string
		value any
	}{
		{"ui.language", opts.Language},
		{"voice.wake_word", opts.WakeWord},
		{"speech.engine", opts.Engine},
		{"speech.model_id", opts.ModelID},
		{"api_keys.openai_api", opts.OpenAIKey},
		{"api_keys.weather_api", opts.WeatherKey},
		{"llm.enable_llm", opts.EnableLLM},
		{"ui.notifications", opts.Notifications},
		{"ui.tray", opts.Tray},
	}
	for _, v := range values {
		if err := cfg.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}
