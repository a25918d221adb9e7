package main

import (
	"fmt"

	"github.com/spf13/viper"

	"yuki/internal/commands"
	"yuki/internal/config"
	"yuki/internal/dialog"
	"yuki/internal/history"
	"yuki/internal/i18n"
	"yuki/internal/llm"
	"yuki/internal/models"
	"yuki/internal/platform"
	"yuki/internal/speech"
	"yuki/internal/speech/vosk"
	"yuki/internal/sysinfo"
	"yuki/internal/weather"
	"yuki/internal/youtube"
)

// loadConfig reads the config file, then applies its language and
// logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	i18n.SetLanguage(i18n.Language(cfg.UI().Language))
	if err := initLogging(cfg.Logging()); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, nil
}

// apiKeys returns the configured keys, overridden by YUKI_OPENAI_API and
// YUKI_WEATHER_API.
func apiKeys(cfg *config.Config) config.APIKeys {
	keys := cfg.APIKeys()
	if v := viper.GetString("openai_api"); v != "" {
		keys.OpenAIAPI = v
	}
	if v := viper.GetString("weather_api"); v != "" {
		keys.WeatherAPI = v
	}
	return keys
}

func newProcessor(cfg *config.Config, keys config.APIKeys) *commands.Processor {
	var conversation commands.Conversation
	if lc := cfg.LLM(); lc.EnableLLM {
		conversation = llm.FromConfig(lc, keys)
	}

	opener := platform.Browser{}
	return commands.NewProcessor(commands.Options{
		WakeWords: cfg.Voice().WakeWords(),
		Tables:    commands.LoadTables(),
		Opener:    opener,
		Weather:   weather.New(cfg.Weather(), keys.WeatherAPI),
		LLM:       conversation,
		Web:       commands.NewWeb(opener, cfg.WebServices()),
		Apps:      commands.NewApps(cfg, platform.Exec{}),
		Media:     commands.NewMedia(opener, youtube.New("")),
		System:    commands.NewSystem(sysinfo.New(), platform.Power{}, dialog.Zenity{}),
	})
}

// newRecognizers registers every speech engine and loads the configured one.
func newRecognizers(cfg *config.Config, keys config.APIKeys) (*speech.Factory, error) {
	sc := cfg.Speech()
	rate := cfg.Audio().SampleRate

	manager, err := models.NewManager(sc.ModelsDir)
	if err != nil {
		return nil, err
	}
	factory := speech.NewFactory(manager)
	factory.Register(models.EngineVosk, vosk.Builder(rate))
	factory.Register(models.EngineCloud, func(string) (speech.Recognizer, error) {
		return speech.NewCloud(speech.CloudConfig{
			URL:        sc.CloudURL,
			Model:      sc.CloudModel,
			APIKey:     keys.OpenAIAPI,
			SampleRate: rate,
		})
	})

	if err := factory.Load(models.Engine(sc.Engine), sc.ModelID); err != nil {
		return nil, fmt.Errorf("load %s recognizer: %w", sc.Engine, err)
	}
	return factory, nil
}

// openHistory opens the history store, or returns nil when history is off.
func openHistory(cfg *config.Config) (*history.Store, error) {
	hc := cfg.History()
	if !hc.Enabled {
		return nil, nil
	}
	store, err := history.Open(hc.Database)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}
