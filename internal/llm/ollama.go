// Package llm holds the conversation backends: a local Ollama server, the
// OpenAI chat API and a keyword fallback.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yuki/internal/httpclient"
)

const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultModel     = "llama3.2:1b"
	DefaultTimeout   = 30 * time.Second
	probeTimeout     = 5 * time.Second
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ollama is a client for a local Ollama server.
type Ollama struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	http        *httpclient.Client
	probe       *httpclient.Client
	pull        *httpclient.Client
}

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	URL         string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOllamaConfig returns the default configuration.
func DefaultOllamaConfig() OllamaConfig {
	return OllamaConfig{
		URL:         DefaultOllamaURL,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   500,
		Timeout:     DefaultTimeout,
	}
}

// NewOllama creates an Ollama client. Chat requests retry like every other
// backend; probes fail fast and pulls are bounded only by their context.
func NewOllama(cfg OllamaConfig, opts ...httpclient.Option) *Ollama {
	def := DefaultOllamaConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}

	return &Ollama{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		http:        httpclient.New(append([]httpclient.Option{httpclient.WithTimeout(cfg.Timeout)}, opts...)...),
		probe:       httpclient.New(withOptions(opts, httpclient.WithTimeout(probeTimeout), httpclient.WithRetry(0, 0, 0))...),
		pull:        httpclient.New(withOptions(opts, httpclient.WithTimeout(0))...),
	}
}

func withOptions(opts []httpclient.Option, extra ...httpclient.Option) []httpclient.Option {
	return append(append([]httpclient.Option(nil), opts...), extra...)
}

// Name identifies the backend in logs.
func (c *Ollama) Name() string { return "ollama" }

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict"`
	} `json:"options"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Error   string  `json:"error,omitempty"`
}

// Chat sends the conversation and returns the assistant reply.
func (c *Ollama) Chat(ctx context.Context, messages []Message) (string, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: messages,
	}
	req.Options.Temperature = c.temperature
	req.Options.NumPredict = c.maxTokens

	slog.Debug("ollama chat request", "model", c.model, "messages", len(messages))
	start := time.Now()

	var result chatResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/chat", req, &result); err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama: %s", result.Error)
	}

	slog.Debug("ollama chat reply", "duration", time.Since(start).Round(time.Millisecond))
	return strings.TrimSpace(result.Message.Content), nil
}

// Available reports whether the server answers and lists the configured
// model.
func (c *Ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	models, err := c.ListModels(ctx)
	if err != nil {
		slog.Debug("ollama not available", "error", err)
		return false
	}
	for _, m := range models {
		if m == c.model {
			return true
		}
	}
	return false
}

// Running reports whether the server answers at all.
func (c *Ollama) Running(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := c.ListModels(ctx)
	return err == nil
}

// ListModels returns the names of the locally installed models.
func (c *Ollama) ListModels(ctx context.Context) ([]string, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.probe.GetJSON(ctx, c.baseURL+"/api/tags", &result); err != nil {
		return nil, err
	}

	models := make([]string, len(result.Models))
	for i, m := range result.Models {
		models[i] = m.Name
	}
	return models, nil
}

// Pull downloads model into the server. It blocks until the download
// finishes or ctx is done.
func (c *Ollama) Pull(ctx context.Context, model string) error {
	if model == "" {
		model = c.model
	}
	slog.Info("pulling model", "model", model)

	body := map[string]any{"name": model, "stream": false}
	if err := c.pull.PostJSON(ctx, c.baseURL+"/api/pull", body, nil); err != nil {
		return fmt.Errorf("pull %s: %w", model, err)
	}
	slog.Info("model pulled", "model", model)
	return nil
}

// ModelInfo returns the server's description of the configured model.
func (c *Ollama) ModelInfo(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	info := map[string]any{}
	if err := c.probe.PostJSON(ctx, c.baseURL+"/api/show", map[string]string{"name": c.model}, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// Model returns the current model.
func (c *Ollama) Model() string {
	return c.model
}

// SetModel sets the model.
func (c *Ollama) SetModel(model string) {
	c.model = model
}
