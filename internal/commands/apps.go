package commands

import (
	"log/slog"
	"strings"

	"yuki/internal/config"
	"yuki/internal/i18n"
	"yuki/internal/platform"
	"yuki/internal/textproc"
)

var appTriggers = []string{"เปิดแอป", "open app", "เปิดแอปพลิเคชัน", "open application"}

var appPatterns = []string{"เปิดแอป", "open app", "เปิดแอปพลิเคชัน", "open application", "เปิด application"}

// appAliases map spoken words to configured application names.
var appAliases = [][2]string{
	{"code", "vscode"},
	{"editor", "vscode"},
	{"browser", "chrome"},
	{"web browser", "chrome"},
	{"music", "spotify"},
	{"player", "spotify"},
	{"chat", "discord"},
	{"messaging", "discord"},
	{"video", "vlc"},
	{"media", "vlc"},
	{"photo", "photoshop"},
	{"image", "photoshop"},
	{"video editor", "premiere"},
	{"design", "figma"},
	{"game", "steam"},
	{"stream", "obs"},
	{"record", "obs"},
}

// commonApps lists well-known applications and the words that name them.
var commonApps = []struct {
	name    string
	aliases []string
}{
	{"vscode", []string{"vscode", "vs code", "visual studio code", "code editor"}},
	{"chrome", []string{"chrome", "google chrome", "browser"}},
	{"safari", []string{"safari", "apple browser"}},
	{"firefox", []string{"firefox", "mozilla"}},
	{"terminal", []string{"terminal", "command line", "cmd"}},
	{"calculator", []string{"calculator", "calc", "เครื่องคิดเลข"}},
	{"calendar", []string{"calendar", "ปฏิทิน"}},
	{"mail", []string{"mail", "email", "อีเมล"}},
	{"spotify", []string{"spotify", "music player", "เพลง"}},
	{"discord", []string{"discord", "chat"}},
	{"slack", []string{"slack", "team chat"}},
	{"zoom", []string{"zoom", "video call", "meeting"}},
	{"teams", []string{"teams", "microsoft teams"}},
	{"photoshop", []string{"photoshop", "adobe photoshop", "photo editor"}},
	{"premiere", []string{"premiere", "adobe premiere", "video editor"}},
	{"illustrator", []string{"illustrator", "adobe illustrator", "vector editor"}},
	{"figma", []string{"figma", "design tool"}},
	{"canva", []string{"canva", "design"}},
	{"steam", []string{"steam", "game launcher"}},
	{"minecraft", []string{"minecraft", "game"}},
	{"obs", []string{"obs", "streaming", "recording"}},
	{"vlc", []string{"vlc", "media player", "video player"}},
	{"itunes", []string{"itunes", "music", "apple music"}},
}

// AppRegistry stores configured application paths.
type AppRegistry interface {
	Applications() map[string]string
	ApplicationPath(name string) (string, bool)
	AddApplication(name, path string) error
	RemoveApplication(name string) error
}

// Launcher starts local programs.
type Launcher interface {
	Exists(path string) bool
	Start(path string, args ...string) error
}

// Apps opens local applications.
type Apps struct {
	registry   AppRegistry
	launcher   Launcher
	candidates func(name string) []platform.Candidate
}

// NewApps creates the application family.
func NewApps(registry AppRegistry, launcher Launcher) *Apps {
	return &Apps{
		registry:   registry,
		launcher:   launcher,
		candidates: platform.Candidates,
	}
}

// Matches reports whether command asks to open an application.
func (a *Apps) Matches(command string) bool {
	return textproc.ContainsAny(strings.ToLower(command), appTriggers)
}

// Handle processes an application command.
func (a *Apps) Handle(command string) string {
	lower := strings.ToLower(command)
	apps := a.registry.Applications()

	for _, name := range config.SortedKeys(apps) {
		if matchesApp(lower, name) {
			return a.open(name, apps[name])
		}
	}

	for _, alias := range appAliases {
		if strings.Contains(lower, alias[0]) {
			if path, ok := apps[alias[1]]; ok {
				return a.open(alias[1], path)
			}
		}
	}

	for _, app := range commonApps {
		if textproc.ContainsAny(lower, app.aliases) {
			if path, ok := apps[app.name]; ok {
				return a.open(app.name, path)
			}
			return a.openAlternative(app.name)
		}
	}

	return i18n.T("app_unknown")
}

// List returns the configured application names.
func (a *Apps) List() []string {
	return config.SortedKeys(a.registry.Applications())
}

// Add stores an application path in the configuration.
func (a *Apps) Add(name, path string) bool {
	if err := a.registry.AddApplication(name, path); err != nil {
		slog.Error("error adding application", "app", name, "error", err)
		return false
	}
	slog.Info("added application", "app", name, "path", path)
	return true
}

// Remove deletes an application from the configuration.
func (a *Apps) Remove(name string) bool {
	if _, ok := a.registry.ApplicationPath(name); !ok {
		return false
	}
	if err := a.registry.RemoveApplication(name); err != nil {
		slog.Error("error removing application", "app", name, "error", err)
		return false
	}
	slog.Info("removed application", "app", name)
	return true
}

func matchesApp(command, name string) bool {
	lower := strings.ToLower(name)
	for _, p := range appPatterns {
		if strings.Contains(command, p+" "+name) || strings.Contains(command, p+" "+lower) {
			return true
		}
	}
	return false
}

func (a *Apps) open(name, path string) string {
	if !a.launcher.Exists(path) {
		return a.openAlternative(name)
	}
	if err := a.launcher.Start(path); err != nil {
		slog.Error("error opening application", "app", name, "error", err)
		return i18n.Tf("open_failed", name)
	}
	return i18n.Tf("opened", name)
}

func (a *Apps) openAlternative(name string) string {
	for _, c := range a.candidates(name) {
		if !a.launcher.Exists(c.Path) {
			continue
		}
		if err := a.launcher.Start(c.Command[0], c.Command[1:]...); err != nil {
			slog.Error("error in alternative open", "app", name, "error", err)
			return i18n.Tf("app_cannot_run", name)
		}
		return i18n.Tf("opened", name)
	}
	return i18n.Tf("app_not_found", name)
}
