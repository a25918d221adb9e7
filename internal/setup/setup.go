// Package setup bootstraps a development install: it checks the toolchain
// and package manager, installs the audio library, prepares the app
// directories and builds the launcher.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/expr-lang/expr"

	"yuki/internal/apperrors"
	"yuki/internal/config"
)

// Options configures the installer.
type Options struct {
	Root           string // project directory holding go.mod
	ConfigPath     string // relative to Root unless absolute
	RuntimeCommand string
	MinimumVersion string
	PackageManager string // empty: chosen by GOOS
	Launcher       string // binary built from ./cmd/yuki, relative to Root
	Dirs           []string
	GOOS           string
	GOARCH         string
}

// OptionsFrom builds Options from the setup settings.
func OptionsFrom(cfg config.SetupConfig, root, configPath string) Options {
	return Options{
		Root:           root,
		ConfigPath:     configPath,
		RuntimeCommand: cfg.RuntimeCommand,
		MinimumVersion: cfg.MinimumVersion,
		PackageManager: cfg.PackageManager,
		Launcher:       cfg.Launcher,
		Dirs:           []string{"output", "logs", "models", "data"},
	}
}

// Step is one installation step. If, when set, is an expr condition over
// os and arch; the step is skipped when it is false.
type Step struct {
	Name string
	If   string
	Run  func(ctx context.Context) error
}

// packageManagers maps a package manager to its install arguments and the
// audio library package name.
var packageManagers = map[string]struct {
	install []string
	audio   string
}{
	"brew":    {[]string{"install"}, "portaudio"},
	"apt-get": {[]string{"install", "-y"}, "portaudio19-dev"},
	"dnf":     {[]string{"install", "-y"}, "portaudio-devel"},
	"pacman":  {[]string{"-S", "--noconfirm"}, "portaudio"},
	"choco":   {[]string{"install", "-y"}, "portaudio"},
}

// DefaultPackageManager returns the package manager expected on goos.
func DefaultPackageManager(goos string) string {
	switch goos {
	case "darwin":
		return "brew"
	case "windows":
		return "choco"
	default:
		return "apt-get"
	}
}

var versionRe = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// Installer runs the preconditions and steps in order.
type Installer struct {
	opts   Options
	runner Runner
	out    io.Writer
}

// New creates an installer. Empty options get defaults.
func New(opts Options, runner Runner, out io.Writer) *Installer {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.GOARCH == "" {
		opts.GOARCH = runtime.GOARCH
	}
	if opts.RuntimeCommand == "" {
		opts.RuntimeCommand = "go"
	}
	if opts.MinimumVersion == "" {
		opts.MinimumVersion = "1.22"
	}
	if opts.PackageManager == "" {
		opts.PackageManager = DefaultPackageManager(opts.GOOS)
	}
	if opts.Launcher == "" {
		opts.Launcher = "yuki"
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath
	}
	return &Installer{opts: opts, runner: runner, out: out}
}

// Run checks the preconditions, then runs every step in order. A failed
// precondition stops before anything is installed.
func (i *Installer) Run(ctx context.Context) error {
	fmt.Fprintln(i.out, "Installing Yuki AI...")

	if err := i.CheckRuntime(ctx); err != nil {
		i.fail(err)
		return err
	}
	if err := i.CheckPackageManager(); err != nil {
		i.fail(err)
		return err
	}

	env := map[string]any{"os": i.opts.GOOS, "arch": i.opts.GOARCH}
	for _, step := range i.Steps() {
		ok, err := evalCondition(step.If, env)
		if err != nil {
			return apperrors.NewStepError(step.Name, err)
		}
		if !ok {
			fmt.Fprintf(i.out, "⏭  %s (skipped)\n", step.Name)
			continue
		}

		fmt.Fprintf(i.out, "📦 %s...\n", step.Name)
		if err := step.Run(ctx); err != nil {
			fmt.Fprintf(i.out, "❌ %s failed: %v\n", step.Name, err)
			return apperrors.NewStepError(step.Name, err)
		}
	}

	fmt.Fprintln(i.out, "✅ Installation complete. Run ./"+i.opts.Launcher+" run to start Yuki.")
	return nil
}

func (i *Installer) fail(err error) {
	var pre *apperrors.PreconditionError
	if errors.As(err, &pre) {
		fmt.Fprintf(i.out, "❌ %s\n", pre.Reason)
		return
	}
	fmt.Fprintf(i.out, "❌ %v\n", err)
}

// CheckRuntime verifies the toolchain version.
func (i *Installer) CheckRuntime(ctx context.Context) error {
	cmd := i.opts.RuntimeCommand
	fmt.Fprintf(i.out, "🔍 Checking %s version...\n", cmd)

	minimum, err := semver.NewVersion(i.opts.MinimumVersion)
	if err != nil {
		return apperrors.NewPreconditionError("runtime", fmt.Sprintf("invalid minimum version %q", i.opts.MinimumVersion))
	}

	if _, err := i.runner.LookPath(cmd); err != nil {
		return apperrors.NewPreconditionError("runtime", fmt.Sprintf("%s is not installed; %s or newer is required", cmd, minimum))
	}
	out, err := i.runner.Output(ctx, cmd, "version")
	if err != nil {
		return apperrors.NewPreconditionError("runtime", fmt.Sprintf("%s version failed: %v", cmd, err))
	}

	found := versionRe.FindString(out)
	v, err := semver.NewVersion(found)
	if err != nil {
		return apperrors.NewPreconditionError("runtime", fmt.Sprintf("cannot parse %s version from %q", cmd, out))
	}
	if v.LessThan(minimum) {
		return apperrors.NewPreconditionError("runtime", fmt.Sprintf("%s %s or newer is required (found %s)", cmd, minimum, v))
	}

	fmt.Fprintf(i.out, "✅ %s %s found\n", cmd, v)
	return nil
}

// CheckPackageManager verifies the package manager is on PATH.
func (i *Installer) CheckPackageManager() error {
	pm := i.opts.PackageManager
	fmt.Fprintf(i.out, "🔍 Checking %s...\n", pm)

	if _, ok := packageManagers[pm]; !ok {
		return apperrors.NewPreconditionError("package_manager", fmt.Sprintf("unsupported package manager %q", pm))
	}
	if _, err := i.runner.LookPath(pm); err != nil {
		return apperrors.NewPreconditionError("package_manager", fmt.Sprintf("%s is not installed; install it first", pm))
	}

	fmt.Fprintf(i.out, "✅ %s found\n", pm)
	return nil
}

// Steps returns the installation steps in order.
func (i *Installer) Steps() []Step {
	return []Step{
		{Name: "Installing audio library", Run: i.installAudio},
		{Name: "Creating application environment", Run: i.createEnvironment},
		{Name: "Downloading modules", Run: func(ctx context.Context) error {
			return i.runner.Run(ctx, i.opts.RuntimeCommand, "mod", "download")
		}},
		{Name: "Building launcher", Run: func(ctx context.Context) error {
			return i.runner.Run(ctx, i.opts.RuntimeCommand, "build", "-o", i.opts.Launcher, "./cmd/yuki")
		}},
		{Name: "Marking launcher executable", If: `os != "windows"`, Run: func(context.Context) error {
			return os.Chmod(filepath.Join(i.opts.Root, i.opts.Launcher), 0755)
		}},
	}
}

func (i *Installer) installAudio(ctx context.Context) error {
	pm := packageManagers[i.opts.PackageManager]
	args := append(append([]string(nil), pm.install...), pm.audio)
	return i.runner.Run(ctx, i.opts.PackageManager, args...)
}

func (i *Installer) createEnvironment(context.Context) error {
	for _, dir := range i.opts.Dirs {
		if err := os.MkdirAll(filepath.Join(i.opts.Root, dir), 0755); err != nil {
			return err
		}
	}
	_, err := config.Load(i.configFile())
	return err
}

func (i *Installer) configFile() string {
	if filepath.IsAbs(i.opts.ConfigPath) {
		return i.opts.ConfigPath
	}
	return filepath.Join(i.opts.Root, i.opts.ConfigPath)
}

func evalCondition(cond string, env map[string]any) (bool, error) {
	if cond == "" {
		return true, nil
	}
	program, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", cond, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", cond, err)
	}
	return out.(bool), nil
}
