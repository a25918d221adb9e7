package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
)

// Player plays audio files with the platform's command-line player.
type Player struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// NewPlayer creates a player for the current OS.
func NewPlayer() *Player {
	return &Player{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// linuxPlayers in preference order; aplay cannot decode mp3 and is the
// last resort.
var linuxPlayers = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"aplay", "-q"},
}

// Command returns the program and arguments that play path.
func (p *Player) Command(path string) ([]string, error) {
	switch p.goos {
	case "darwin":
		return []string{"afplay", path}, nil
	case "windows":
		return []string{"powershell", "-NoProfile", "-Command",
			fmt.Sprintf(`$p = New-Object -ComObject WMPlayer.OCX; $p.URL = '%s'; $p.controls.play(); while ($p.playState -ne 1) { Start-Sleep -Milliseconds 100 }`, path)}, nil
	}
	for _, cmd := range linuxPlayers {
		if _, err := p.lookPath(cmd[0]); err == nil {
			return append(append([]string(nil), cmd...), path), nil
		}
	}
	return nil, fmt.Errorf("no audio player found (tried mpg123, ffplay, aplay)")
}

// Play plays path and waits until playback ends.
func (p *Player) Play(ctx context.Context, path string) error {
	cmd, err := p.Command(path)
	if err != nil {
		return err
	}
	slog.Debug("playing audio", "file", path, "player", cmd[0])
	if err := p.run(ctx, cmd[0], cmd[1:]...); err != nil {
		return fmt.Errorf("play %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Cleanup removes the oldest files matching pattern in dir so that at
// most keep remain.
func Cleanup(dir, pattern string, keep int) error {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return err
	}
	if len(matches) <= keep {
		return nil
	}

	type file struct {
		path string
		mod  int64
	}
	files := make([]file, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		files = append(files, file{m, info.ModTime().UnixNano()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })

	for i := 0; i < len(files)-keep; i++ {
		if err := os.Remove(files[i].path); err != nil {
			return err
		}
		slog.Debug("removed old audio file", "file", files[i].path)
	}
	return nil
}
