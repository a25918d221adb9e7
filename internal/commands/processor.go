// Package commands turns recognised utterances into replies: wake word
// handling, the command table and the web, app, media and system families.
package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"yuki/internal/i18n"
	"yuki/internal/textproc"
)

// Ignored is the reply text for utterances not addressed to the assistant.
const Ignored = "..."

// Actions reported in Reply.Action besides table actions.
const (
	ActionIgnored  = "ignored"
	ActionWake     = "wake"
	ActionSearch   = "search"
	ActionWeb      = "web"
	ActionApp      = "app"
	ActionMedia    = "media"
	ActionSystem   = "system"
	ActionLLM      = "llm"
	ActionUnknown  = "unknown"
	ActionShutdown = "shutdown"
)

// llmContext is passed to the conversation backend with every request.
const llmContext = "You are being spoken to through a voice assistant. Keep responses concise and natural for speech."

var (
	searchTriggers = []string{"ค้นหา", "search", "เสิร์ช"}
	searchExtract  = []string{"ค้นหา", "search", "เสิร์ช", "หา"}
	webOpenActions = map[string][2]string{
		"open_google":    {"https://www.google.com", "Google"},
		"open_youtube":   {"https://www.youtube.com", "YouTube"},
		"open_facebook":  {"https://www.facebook.com", "Facebook"},
		"open_instagram": {"https://www.instagram.com", "Instagram"},
		"open_chatgpt":   {"https://chat.openai.com", "ChatGPT"},
		"open_gemini":    {"https://gemini.google.com/app", "Gemini"},
	}
)

// Reply is the outcome of processing one utterance.
type Reply struct {
	Text     string
	Action   string
	Shutdown bool
}

// IsIgnored reports whether the utterance was not addressed to the assistant.
func (r Reply) IsIgnored() bool {
	return r.Action == ActionIgnored
}

// Conversation answers free-form input. Implementations never fail; errors
// are reported as apology text.
type Conversation interface {
	Generate(ctx context.Context, input, hint string) string
}

// WeatherReporter describes today's weather.
type WeatherReporter interface {
	Report(ctx context.Context) string
}

// Opener opens URLs in a browser.
type Opener interface {
	OpenURL(url string) error
}

// Options wires the processor's collaborators. Nil families are skipped.
type Options struct {
	WakeWords []string
	Tables    Tables
	Opener    Opener
	Weather   WeatherReporter
	LLM       Conversation
	Web       *Web
	Apps      *Apps
	Media     *Media
	System    *System
	Now       func() time.Time
}

// Processor handles voice commands.
type Processor struct {
	mu          sync.Mutex
	callCount   int
	lastCommand time.Time

	wakeWords []string
	tables    Tables
	opener    Opener
	weather   WeatherReporter
	llm       Conversation
	web       *Web
	apps      *Apps
	media     *Media
	system    *System
	now       func() time.Time
}

// NewProcessor creates a processor.
func NewProcessor(opts Options) *Processor {
	words := make([]string, 0, len(opts.WakeWords))
	for _, w := range opts.WakeWords {
		if w = textproc.CleanText(w); w != "" {
			words = append(words, w)
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tables := opts.Tables
	if tables.Responses == nil {
		tables.Responses = map[string]string{}
	}
	slog.Info("command processor initialized", "rules", len(tables.Rules), "wake_words", words)
	return &Processor{
		wakeWords: words,
		tables:    tables,
		opener:    opts.Opener,
		weather:   opts.Weather,
		llm:       opts.LLM,
		web:       opts.Web,
		apps:      opts.Apps,
		media:     opts.Media,
		system:    opts.System,
		now:       now,
	}
}

// Process handles one recognised utterance.
func (p *Processor) Process(ctx context.Context, text string) Reply {
	if text == "" {
		return Reply{}
	}

	text = textproc.ProcessThaiText(textproc.CleanText(text))

	if p.isWakeCall(text) {
		return Reply{Text: p.wakeReply(), Action: ActionWake}
	}

	command, ok := p.stripWakeWord(text)
	if !ok {
		return Reply{Text: Ignored, Action: ActionIgnored}
	}

	p.mu.Lock()
	p.callCount = 0
	p.mu.Unlock()

	if command == "" {
		return Reply{Text: p.response("no_command"), Action: ActionUnknown}
	}

	reply := p.execute(ctx, command)

	p.mu.Lock()
	p.lastCommand = p.now()
	p.mu.Unlock()

	return reply
}

// LastCommand returns when the last addressed command was processed.
func (p *Processor) LastCommand() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCommand
}

func (p *Processor) isWakeCall(text string) bool {
	text = strings.TrimSpace(text)
	for _, w := range p.wakeWords {
		if text == w {
			return true
		}
	}
	return false
}

func (p *Processor) stripWakeWord(text string) (string, bool) {
	for _, w := range p.wakeWords {
		if strings.HasPrefix(text, w) {
			return strings.TrimSpace(text[len(w):]), true
		}
	}
	return "", false
}

func (p *Processor) wakeReply() string {
	p.mu.Lock()
	p.callCount++
	n := p.callCount
	p.mu.Unlock()

	if n <= 5 {
		return i18n.T("wake_" + strconv.Itoa(n))
	}
	return i18n.T("wake_overflow")
}

func (p *Processor) execute(ctx context.Context, command string) Reply {
	for _, rule := range p.tables.Rules {
		if rule.Match(command) {
			slog.Info("command matched", "command", command, "pattern", rule.Pattern, "action", rule.Action)
			return p.executeAction(ctx, rule.Action)
		}
	}

	switch {
	case isWebSearch(command):
		return Reply{Text: p.webSearch(command), Action: ActionSearch}
	case p.web != nil && p.web.Matches(command):
		return Reply{Text: p.web.Handle(command), Action: ActionWeb}
	case p.apps != nil && p.apps.Matches(command):
		return Reply{Text: p.apps.Handle(command), Action: ActionApp}
	case p.media != nil && p.media.Matches(command):
		return Reply{Text: p.media.Handle(ctx, command), Action: ActionMedia}
	case p.system != nil && p.system.Matches(command):
		return Reply{Text: p.system.Handle(ctx, command), Action: ActionSystem}
	}

	if p.llm != nil {
		slog.Info("using llm for command", "command", command)
		reply := p.llm.Generate(ctx, command, llmContext)
		slog.Info("llm conversation", "user", command, "yuki", reply)
		return Reply{Text: reply, Action: ActionLLM}
	}

	slog.Info("no llm available, using default response", "command", command)
	return Reply{Text: p.response("unknown_command"), Action: ActionUnknown}
}

func (p *Processor) executeAction(ctx context.Context, action string) Reply {
	reply := Reply{Action: action}
	switch {
	case action == "time":
		now := p.now()
		reply.Text = i18n.Tf("time_now", now.Hour(), now.Minute(), now.Second())
	case action == "greeting", action == "name":
		reply.Text = p.response(action)
	case action == "weather":
		if p.weather == nil {
			reply.Text = i18n.T("weather_failed")
		} else {
			reply.Text = p.weather.Report(ctx)
		}
	case action == ActionShutdown:
		slog.Info("shutdown command received")
		reply.Text = i18n.T("shutdown")
		reply.Shutdown = true
	case strings.HasPrefix(action, "open_"):
		reply.Text = p.openAction(action)
	default:
		reply.Text = action
	}
	return reply
}

func (p *Processor) openAction(action string) string {
	target, ok := webOpenActions[action]
	if !ok || p.opener == nil {
		return i18n.Tf("action_unknown", action)
	}
	if err := p.opener.OpenURL(target[0]); err != nil {
		slog.Error("error handling web action", "action", action, "error", err)
		return i18n.T("action_failed")
	}
	return i18n.Tf("opened", target[1])
}

// isWebSearch matches the explicit search words anywhere, and หา only at the
// start or as a separate word so that words containing it are not searches.
func isWebSearch(command string) bool {
	if textproc.ContainsAny(command, searchTriggers) {
		return true
	}
	return strings.HasPrefix(command, "หา") || strings.Contains(command, " หา ")
}

func (p *Processor) webSearch(command string) string {
	if p.web != nil && p.web.NamesEngine(command) {
		return p.web.Search(command)
	}
	query := textproc.ExtractQuery(command, searchExtract)
	if query == "" {
		return p.response("no_query")
	}
	if p.opener != nil {
		url := textproc.CreateSearchURL("https://www.google.com", query)
		if err := p.opener.OpenURL(url); err != nil {
			slog.Error("error performing search", "query", query, "error", err)
			return i18n.T("web_search_failed")
		}
	}
	return i18n.Tf("search_google", query)
}

// response returns a reply template from responses.json, falling back to
// the catalogue and finally to the unknown command reply.
func (p *Processor) response(key string) string {
	if r, ok := p.tables.Responses[key]; ok {
		return r
	}
	if i18n.Has(key) {
		return i18n.T(key)
	}
	if r, ok := p.tables.Responses["unknown_command"]; ok {
		return r
	}
	return i18n.T("unknown_command")
}
