package setup

import (
	"context"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	LookPath(name string) (string, error)
	// Output runs a command and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Run runs a command with its output streamed to the user.
	Run(ctx context.Context, name string, args ...string) error
	// Start launches a command in the background.
	Start(name string, args ...string) error
}

// ExecRunner runs commands with os/exec in Dir.
type ExecRunner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// LookPath searches PATH.
func (r ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Output runs a command and returns its trimmed combined output.
func (r ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Run runs a command and waits for it.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Start launches a command without waiting. Its output is discarded.
func (r ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
