// Package platform wraps OS-specific actions: opening URLs, launching
// applications and controlling power state.
package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/browser"
)

// IsMacOS reports whether the process runs on macOS.
func IsMacOS() bool { return runtime.GOOS == "darwin" }

// IsWindows reports whether the process runs on Windows.
func IsWindows() bool { return runtime.GOOS == "windows" }

// IsLinux reports whether the process runs on Linux.
func IsLinux() bool { return runtime.GOOS == "linux" }

// Name returns a display name for the current OS.
func Name() string {
	switch {
	case IsMacOS():
		return "macOS"
	case IsWindows():
		return "Windows"
	default:
		return "Linux"
	}
}

// Browser opens URLs in the default browser.
type Browser struct{}

// OpenURL opens url in the default browser.
func (Browser) OpenURL(url string) error {
	return browser.OpenURL(url)
}

// Exec starts local programs.
type Exec struct{}

// Exists reports whether path exists on disk.
func (Exec) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Start launches the program at path without waiting for it.
func (Exec) Start(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Candidate is a possible install location of an application.
type Candidate struct {
	Path    string   // checked for existence
	Command []string // program and arguments that start it
}

// Candidates returns locations where an application called name is
// commonly installed on the current OS, in lookup order.
func Candidates(name string) []Candidate {
	switch {
	case IsMacOS():
		var out []Candidate
		for _, bundle := range []string{
			"/Applications/" + name + ".app",
			"/Applications/" + strings.ReplaceAll(name, " ", "") + ".app",
		} {
			out = append(out, Candidate{Path: bundle, Command: []string{"open", bundle}})
		}
		return out
	case IsWindows():
		exe := name + ".exe"
		var out []Candidate
		for _, p := range []string{
			filepath.Join(`C:\Program Files`, name, exe),
			filepath.Join(`C:\Program Files (x86)`, name, exe),
			filepath.Join(`C:\Users`, os.Getenv("USERNAME"), `AppData\Local\Programs`, name, exe),
		} {
			out = append(out, Candidate{Path: p, Command: []string{p}})
		}
		return out
	default:
		if p, err := exec.LookPath(name); err == nil {
			return []Candidate{{Path: p, Command: []string{p}}}
		}
		return nil
	}
}

// PowerAction is a machine power state change.
type PowerAction string

const (
	PowerShutdown PowerAction = "shutdown"
	PowerRestart  PowerAction = "restart"
	PowerSleep    PowerAction = "sleep"
)

// PowerCommands returns the commands that perform action on goos.
func PowerCommands(goos string, action PowerAction) ([][]string, error) {
	switch action {
	case PowerShutdown:
		if goos == "windows" {
			return [][]string{{"shutdown", "/s", "/t", "0"}}, nil
		}
		return [][]string{{"sudo", "shutdown", "-h", "now"}}, nil
	case PowerRestart:
		if goos == "windows" {
			return [][]string{{"shutdown", "/r", "/t", "0"}}, nil
		}
		return [][]string{{"sudo", "reboot"}}, nil
	case PowerSleep:
		switch goos {
		case "darwin":
			return [][]string{{"pmset", "sleepnow"}}, nil
		case "windows":
			return [][]string{
				{"powercfg", "/hibernate", "off"},
				{"rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0"},
			}, nil
		default:
			return [][]string{{"systemctl", "suspend"}}, nil
		}
	}
	return nil, fmt.Errorf("unknown power action %q", action)
}

// Power changes the machine power state.
type Power struct{}

// Do runs the commands for action on the current OS.
func (Power) Do(ctx context.Context, action PowerAction) error {
	cmds, err := PowerCommands(runtime.GOOS, action)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		if out, err := exec.CommandContext(ctx, c[0], c[1:]...).CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w: %s", strings.Join(c, " "), err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}
