package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the default logger.
type Options struct {
	Level      slog.Level
	File       string // empty disables the file sink
	MaxSizeMB  int
	MaxBackups int
	Console    io.Writer // defaults to os.Stderr
}

// Init creates and sets the package-level default slog logger.
// Records go to the console and, when File is set, to a size-rotated file.
// The returned closer releases the file sink.
func Init(opts Options) (io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var (
		out    io.Writer = console
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, err
		}
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		out = io.MultiWriter(console, rotated)
		closer = rotated
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level})
	slog.SetDefault(slog.New(handler).With("logger", "yuki_ai"))
	return closer, nil
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Command logs an utterance received from the user.
func Command(text string) {
	slog.Info("command", "user", "user", "text", text)
}

// Response logs a reply spoken by the assistant.
func Response(text string) {
	slog.Info("response", "text", text)
}

// Performance logs how long an operation took.
func Performance(op string, d time.Duration) {
	slog.Info("performance", "op", op, "duration", d.Round(time.Millisecond))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
