// Package app runs the assistant: welcome, listen, reply, farewell.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"yuki/internal/commands"
	"yuki/internal/history"
	"yuki/internal/i18n"
	"yuki/internal/logging"
	"yuki/internal/voice"
)

// farewellTimeout bounds the goodbye speech after the run context ends.
const farewellTimeout = 15 * time.Second

// Processor turns an utterance into a reply.
type Processor interface {
	Process(ctx context.Context, text string) commands.Reply
}

// Voice listens and speaks.
type Voice interface {
	Listen(ctx context.Context, handler voice.Handler) error
	Speak(ctx context.Context, text string) error
}

// Notifier shows desktop notifications.
type Notifier interface {
	Ready()
	Heard(text string)
	Reply(text string)
	Error(msg string)
}

// Recorder stores exchanges.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Options wires the app. Notifier and History may be nil.
type Options struct {
	Processor Processor
	Voice     Voice
	WakeWords []string // the first is prefixed to chat lines that lack one
	Notifier  Notifier
	History   Recorder
	Dirs      []string // created on start
	Version   string
	Platform  string
	Out       io.Writer
}

// App is the running assistant.
type App struct {
	processor Processor
	voice     Voice
	wakeWords []string
	notifier  Notifier
	history   Recorder
	dirs      []string
	version   string
	platform  string
	out       io.Writer

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates an app.
func New(opts Options) *App {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &App{
		processor: opts.Processor,
		voice:     opts.Voice,
		wakeWords: opts.WakeWords,
		notifier:  opts.Notifier,
		history:   opts.History,
		dirs:      opts.Dirs,
		version:   opts.Version,
		platform:  opts.Platform,
		out:       out,
	}
}

// Run greets the user and listens until ctx is done, Stop is called or a
// shutdown command is heard, then says goodbye.
func (a *App) Run(ctx context.Context) error {
	for _, dir := range a.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer cancel()

	a.banner()
	a.say(ctx, i18n.T("welcome"))
	if a.notifier != nil {
		a.notifier.Ready()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.voice.Listen(gctx, func(ctx context.Context, text string) {
			if reply := a.Exchange(ctx, text, history.SourceVoice); reply.Shutdown {
				cancel()
			}
		})
	})
	err := g.Wait()

	a.farewell()
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Stop ends Run.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Exchange processes one utterance: it prints and speaks the reply and
// records the exchange. Utterances not addressed to the assistant are
// dropped silently. A shutdown reply is printed but not spoken; the
// farewell follows instead.
func (a *App) Exchange(ctx context.Context, text string, source history.Source) commands.Reply {
	start := time.Now()
	if source == history.SourceVoice {
		fmt.Fprintf(a.out, "%s: %s\n", i18n.T("you_said"), text)
	}

	reply := a.process(ctx, text)
	if reply.IsIgnored() || reply.Text == "" {
		return reply
	}

	fmt.Fprintf(a.out, "%s: %s\n", i18n.T("yuki_said"), reply.Text)
	logging.Response(reply.Text)
	if a.notifier != nil {
		a.notifier.Heard(text)
		a.notifier.Reply(reply.Text)
	}

	if source == history.SourceVoice && !reply.Shutdown {
		a.say(ctx, reply.Text)
	}

	if a.history != nil {
		err := a.history.Record(ctx, history.Entry{
			Source:   source,
			Input:    text,
			Reply:    reply.Text,
			Action:   reply.Action,
			Duration: time.Since(start),
		})
		if err != nil {
			slog.Warn("history not recorded", "error", err)
		}
	}
	return reply
}

func (a *App) process(ctx context.Context, text string) (reply commands.Reply) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("error handling command", "text", text, "panic", r)
			reply = commands.Reply{Text: i18n.T("error"), Action: "error"}
		}
	}()
	return a.processor.Process(ctx, text)
}

func (a *App) say(ctx context.Context, text string) {
	if err := a.voice.Speak(ctx, text); err != nil {
		slog.Error("speech output failed", "error", err)
		if a.notifier != nil {
			a.notifier.Error(err.Error())
		}
	}
}

func (a *App) banner() {
	const rule = "=================================================="
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, "🎤 "+i18n.T("app_tooltip"))
	fmt.Fprintln(a.out, rule)
	fmt.Fprintf(a.out, "Version: %s\n", a.version)
	fmt.Fprintf(a.out, "Platform: %s\n", a.platform)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "- Say 'ยูกิ' to wake up")
	fmt.Fprintln(a.out, "- Say 'ยูกิ shutdown' to exit")
	fmt.Fprintln(a.out, "- Say 'ยูกิ help' for more commands")
	fmt.Fprintln(a.out, rule)
}

func (a *App) farewell() {
	ctx, cancel := context.WithTimeout(context.Background(), farewellTimeout)
	defer cancel()
	fmt.Fprintln(a.out, i18n.T("farewell"))
	a.say(ctx, i18n.T("farewell"))
	slog.Info("yuki stopped")
}
