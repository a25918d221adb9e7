package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yuki/internal/apperrors"
	"yuki/internal/config"
	"yuki/internal/logging"
)

var (
	cfgFile string
	verbose bool

	logCloser io.Closer
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "yuki",
	Short: "Thai voice assistant",
	Long: `Yuki listens for her name, runs spoken commands (time, weather, web,
applications, media, system) and answers anything else through an LLM.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	defer func() {
		if logCloser != nil {
			logCloser.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return apperrors.ExitCode(err)
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads overrides from YUKI_* environment variables.
func initConfig() {
	viper.SetEnvPrefix("YUKI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func configPath() string {
	if p := viper.GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath
}

// setupLogging installs a console logger. loadConfig replaces it with the
// configured one once the config file is read.
func setupLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// initLogging switches to the configured level and rotated log file.
func initLogging(lc config.LoggingConfig) error {
	level := logging.ParseLevel(lc.Level)
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	closer, err := logging.Init(logging.Options{
		Level:      level,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
	})
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}
