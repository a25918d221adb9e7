package llm

import (
	"context"
	"errors"
	"strings"

	"yuki/internal/httpclient"
)

// DefaultOpenAIURL is the chat completions endpoint.
const DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is a client for the OpenAI chat completions API.
type OpenAI struct {
	url         string
	model       string
	key         string
	temperature float64
	maxTokens   int
	http        *httpclient.Client
}

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	URL         string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

// NewOpenAI creates an OpenAI client.
func NewOpenAI(cfg OpenAIConfig, opts ...httpclient.Option) *OpenAI {
	if cfg.URL == "" {
		cfg.URL = DefaultOpenAIURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	opts = append([]httpclient.Option{httpclient.WithToken(cfg.APIKey)}, opts...)
	return &OpenAI{
		url:         cfg.URL,
		model:       cfg.Model,
		key:         cfg.APIKey,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		http:        httpclient.New(opts...),
	}
}

// Name identifies the backend in logs.
func (c *OpenAI) Name() string { return "openai" }

// Available reports whether an API key is configured.
func (c *OpenAI) Available(context.Context) bool {
	return c.key != ""
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat sends the conversation and returns the first choice.
func (c *OpenAI) Chat(ctx context.Context, messages []Message) (string, error) {
	req := completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var resp completionResponse
	if err := c.http.PostJSON(ctx, c.url, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
