package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.PersistentFlags().Set("config", "")
	})
	return Execute(), out.String()
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Setup_FailedPreconditionExitsOne(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{
			name:   "runtime missing",
			config: "setup:\n  runtime_command: yuki-test-missing-runtime\n",
			want:   "yuki-test-missing-runtime is not installed",
		},
		{
			name:   "invalid minimum version",
			config: "setup:\n  minimum_version: not-a-version\n",
			want:   `invalid minimum version "not-a-version"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.config)

			code, out := runCLI(t, "setup", "--config", path)

			assert.Equal(t, 1, code)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "Installation complete")
		})
	}
}

func Test_Setup_BrokenConfigExitsTwo(t *testing.T) {
	path := writeConfig(t, "setup: [unterminated\n")

	code, _ := runCLI(t, "setup", "--config", path)

	assert.Equal(t, 2, code)
}
