package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"CRITICAL", slog.LevelError},
		{"", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func Test_Init_WritesConsoleAndFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "yuki_ai.log")

	closer, err := Init(Options{
		Level:      slog.LevelInfo,
		File:       file,
		MaxSizeMB:  1,
		MaxBackups: 1,
		Console:    &console,
	})
	require.NoError(t, err)

	Command("ยูกิ กี่โมงแล้ว")
	Performance("Text-to-speech", 1500*time.Millisecond)
	slog.Debug("hidden")
	require.NoError(t, closer.Close())

	out := console.String()
	assert.Contains(t, out, "msg=command")
	assert.Contains(t, out, "op=Text-to-speech")
	assert.Contains(t, out, "duration=1.5s")
	assert.NotContains(t, out, "hidden")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=command")
}

func Test_Init_ConsoleOnly(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var console bytes.Buffer
	closer, err := Init(Options{Level: slog.LevelDebug, Console: &console})
	require.NoError(t, err)
	defer closer.Close()

	Response("สวัสดีค่ะ")
	assert.Contains(t, console.String(), "msg=response")
}
