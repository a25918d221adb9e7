package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"yuki/internal/app"
	"yuki/internal/audio"
	"yuki/internal/config"
	"yuki/internal/dialog"
	"yuki/internal/hotkey"
	"yuki/internal/i18n"
	"yuki/internal/notify"
	"yuki/internal/platform"
	"yuki/internal/tray"
	"yuki/internal/tts"
	"yuki/internal/voice"
)

var noTray bool

// runCmd starts the voice assistant.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Listen for voice commands",
	Long: `Run greets you, then listens on the default microphone. Say "ยูกิ"
followed by a command, or press the push-to-talk hotkey before speaking.
Say "ยูกิ shutdown" or press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runVoice(cmd.Context(), cfg)
	},
}

func init() {
	runCmd.Flags().BoolVar(&noTray, "no-tray", false, "run without the tray icon and hotkey")
	rootCmd.AddCommand(runCmd)
}

func runVoice(ctx context.Context, cfg *config.Config) error {
	keys := apiKeys(cfg)
	vc, ac, ui := cfg.Voice(), cfg.Audio(), cfg.UI()

	recognizers, err := newRecognizers(cfg, keys)
	if err != nil {
		return err
	}
	defer recognizers.Close()

	recorder, err := audio.New(ac.SampleRate, ac.ChunkSize)
	if err != nil {
		return fmt.Errorf("open microphone: %w", err)
	}
	defer recorder.Close()

	synth := tts.New(tts.Config{
		Language:  vc.TTSLanguage,
		Slow:      vc.SpeechRate < 1,
		OutputDir: ac.OutputDirectory,
	})
	engine := voice.New(voice.ConfigFrom(vc, ac), recorder, recognizers, synth, audio.NewPlayer())
	notifier := notify.New(ui.Notifications)

	opts := app.Options{
		Processor: newProcessor(cfg, keys),
		Voice:     engine,
		WakeWords: vc.WakeWords(),
		Notifier:  notifier,
		Dirs:      []string{ac.OutputDirectory, filepath.Dir(cfg.Logging().File)},
		Version:   cfg.Snapshot().Version,
		Platform:  platform.Name(),
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts.History = store
	}
	application := app.New(opts)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if noTray || !ui.Tray {
		return application.Run(ctx)
	}
	return runWithTray(ctx, cfg, application, engine, notifier)
}

// runWithTray shows the tray icon and registers the push-to-talk hotkey on
// the main thread, and runs the assistant until it stops or Quit is chosen.
func runWithTray(ctx context.Context, cfg *config.Config, application *app.App, engine *voice.Engine, notifier *notify.Notifier) error {
	errc := make(chan error, 1)

	hotkey.RunOnMainThread(func() {
		keys := hotkey.New(engine.Arm)
		t := tray.New(tray.Callbacks{
			OnNotificationsToggle: func() bool {
				on, err := cfg.ToggleNotifications()
				if err != nil {
					slog.Error("failed to save notification setting", "error", err)
				}
				notifier.SetEnabled(on)
				return on
			},
			OnPushToTalk:   engine.Arm,
			OnHotkeyChange: func() string { return changeHotkey(cfg, keys) },
			OnQuit:         application.Stop,
		}, cfg.NotificationsEnabled(), cfg.UI().Hotkey.String())
		engine.OnState(t.SetState)

		t.Run(func() {
			hk := cfg.UI().Hotkey
			if err := keys.Register(hk); err != nil {
				slog.Error("failed to register hotkey", "hotkey", hk.String(), "error", err)
				dialog.ShowError(i18n.T("app_name"), i18n.T("error_hotkey_register")+": "+hk.String())
			}
			go func() {
				errc <- application.Run(ctx)
				keys.Unregister()
				t.Quit()
			}()
		})
	})

	return <-errc
}

// changeHotkey asks for a new hotkey, registers and saves it, and returns
// the hotkey in effect afterwards.
func changeHotkey(cfg *config.Config, keys *hotkey.Handler) string {
	current := keys.Current()
	hk, err := dialog.SelectHotkey(current)
	if err != nil {
		slog.Debug("hotkey unchanged", "reason", err)
		return current.String()
	}
	if err := keys.Register(hk); err != nil {
		dialog.ShowError(i18n.T("app_name"), i18n.T("error_hotkey_register")+": "+hk.String())
		if err := keys.Register(current); err != nil {
			slog.Error("failed to restore hotkey", "hotkey", current.String(), "error", err)
		}
		return current.String()
	}
	if err := cfg.SetHotkey(hk); err != nil {
		slog.Error("failed to save hotkey", "error", err)
	}
	dialog.ShowInfo(i18n.T("app_name"), i18n.Tf("hotkey_changed", hk.String()))
	return hk.String()
}
