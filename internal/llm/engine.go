package llm

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"yuki/internal/config"
	"yuki/internal/httpclient"
	"yuki/internal/i18n"
)

// SystemPrompt sets Yuki's persona for every conversation.
const SystemPrompt = `You are Yuki (ยูกิ), a helpful Thai AI assistant. You are friendly, polite, and speak in Thai with some English when appropriate.

Key characteristics:
- You are helpful and always try to assist users
- You speak in Thai primarily, but can use English when needed
- You are polite and use respectful language (ค่ะ/ครับ)
- You have a cheerful personality
- You can help with various tasks like answering questions, providing information, and having conversations
- You are a voice assistant - keep responses concise and natural for speech

When responding:
- Keep responses VERY SHORT (maximum 1 sentence, 20-30 words)
- Use natural Thai language
- Be friendly and engaging
- If you don't know something, say so politely
- Don't make up information
- Responses should be easy to speak and understand
- NO long explanations or lists

Remember: You are Yuki, a helpful Thai AI voice assistant! Keep responses brief and voice-friendly!`

// Backend is a chat service.
type Backend interface {
	Name() string
	Available(ctx context.Context) bool
	Chat(ctx context.Context, messages []Message) (string, error)
}

// fallbackTopics in match order; the first topic with a keyword in the
// input answers. English keywords match whole words only.
var fallbackTopics = []struct {
	key     string
	pattern *regexp.Regexp
}{
	{"fallback_greeting", keywordPattern("สวัสดี", "hello", "hi")},
	{"fallback_name", keywordPattern("ชื่อ", "name", "คุณคือใคร")},
	{"fallback_help", keywordPattern("ช่วย", "help", "ช่วยเหลือ")},
	{"fallback_thanks", keywordPattern("ขอบคุณ", "thank", "thanks")},
	{"fallback_food", keywordPattern("อาหาร", "food", "กิน", "แนะนำอาหาร")},
	{"fallback_thailand", keywordPattern("ประเทศไทย", "thailand", "ไทย")},
}

// keywordPattern matches any of keywords, case-insensitively. Thai keywords
// match inside longer text.
func keywordPattern(keywords ...string) *regexp.Regexp {
	alts := make([]string, len(keywords))
	for i, kw := range keywords {
		alts[i] = regexp.QuoteMeta(kw)
		if isASCII(kw) {
			alts[i] = `\b` + alts[i] + `\b`
		}
	}
	return regexp.MustCompile("(?i)" + strings.Join(alts, "|"))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Engine holds the conversation history and picks a backend per request:
// the first available one, or keyword replies when none is.
type Engine struct {
	mu       sync.Mutex
	backends []Backend
	window   int
	history  []Message
}

// NewEngine creates an engine over backends in preference order.
func NewEngine(window int, backends ...Backend) *Engine {
	if window <= 0 {
		window = 10
	}
	return &Engine{backends: backends, window: window}
}

// FromConfig builds the Ollama and, when enabled, OpenAI backends. opts
// apply to both clients.
func FromConfig(cfg config.LLMConfig, keys config.APIKeys, opts ...httpclient.Option) *Engine {
	backends := []Backend{NewOllama(OllamaConfig{
		URL:         cfg.OllamaURL,
		Model:       cfg.ModelName,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, opts...)}
	if cfg.UseCloudAPI {
		backends = append(backends, NewOpenAI(OpenAIConfig{
			URL:         cfg.OpenAIURL,
			Model:       cfg.OpenAIModel,
			APIKey:      keys.OpenAIAPI,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}, opts...))
	}
	slog.Info("llm engine initialized", "model", cfg.ModelName, "cloud", cfg.UseCloudAPI)
	return NewEngine(cfg.ContextWindow, backends...)
}

// IsAvailable reports whether any backend can answer.
func (e *Engine) IsAvailable(ctx context.Context) bool {
	return e.pick(ctx) != nil
}

func (e *Engine) pick(ctx context.Context) Backend {
	for _, b := range e.backends {
		if b.Available(ctx) {
			return b
		}
	}
	return nil
}

// Generate answers input. It never fails: backend errors become apology
// replies and no backend means a keyword reply.
func (e *Engine) Generate(ctx context.Context, input, hint string) string {
	b := e.pick(ctx)
	if b == nil {
		return Fallback(input)
	}

	reply, err := b.Chat(ctx, e.messages(input, hint))
	if err != nil {
		slog.Error("llm backend failed", "backend", b.Name(), "error", err)
		return failureReply(b, err)
	}

	e.remember(input, reply)
	return reply
}

func failureReply(b Backend, err error) string {
	var apiErr *httpclient.APIError
	switch {
	case errors.As(err, &apiErr):
		return i18n.T("llm_failed")
	case b.Name() == "ollama":
		return i18n.T("llm_ollama_failed")
	case b.Name() == "openai":
		return i18n.T("llm_cloud_failed")
	}
	return i18n.T("llm_unreachable")
}

func (e *Engine) messages(input, hint string) []Message {
	e.mu.Lock()
	defer e.mu.Unlock()

	msgs := []Message{{Role: "system", Content: SystemPrompt}}
	if hint != "" {
		msgs = append(msgs, Message{Role: "system", Content: "Context: " + hint})
	}
	recent := e.history
	if len(recent) > e.window {
		recent = recent[len(recent)-e.window:]
	}
	msgs = append(msgs, recent...)
	return append(msgs, Message{Role: "user", Content: input})
}

func (e *Engine) remember(input, reply string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history,
		Message{Role: "user", Content: input},
		Message{Role: "assistant", Content: reply},
	)
	if limit := e.window * 2; len(e.history) > limit {
		e.history = append([]Message(nil), e.history[len(e.history)-limit:]...)
	}
}

// History returns a copy of the conversation history.
func (e *Engine) History() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Message(nil), e.history...)
}

// ClearHistory forgets the conversation.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
	slog.Info("conversation history cleared")
}

// Fallback answers input from a fixed keyword table.
func Fallback(input string) string {
	for _, topic := range fallbackTopics {
		if topic.pattern.MatchString(input) {
			return i18n.T(topic.key)
		}
	}
	return i18n.T("fallback_unknown")
}
