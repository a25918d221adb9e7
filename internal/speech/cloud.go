package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"yuki/internal/apperrors"
	"yuki/internal/audio"
	"yuki/internal/httpclient"
)

// DefaultCloudURL is the OpenAI transcription endpoint.
const DefaultCloudURL = "https://api.openai.com/v1/audio/transcriptions"

// CloudConfig configures the cloud recognizer.
type CloudConfig struct {
	URL        string
	Model      string
	APIKey     string
	SampleRate int
}

// CloudRecognizer uploads phrases to the OpenAI transcription API.
type CloudRecognizer struct {
	url        string
	model      string
	sampleRate int
	http       *httpclient.Client
}

// NewCloud creates a cloud recognizer.
func NewCloud(cfg CloudConfig, opts ...httpclient.Option) (*CloudRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewConfigurationError("api_keys.openai_api", errors.New("required by the cloud speech engine"))
	}
	if cfg.URL == "" {
		cfg.URL = DefaultCloudURL
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = audio.SampleRate
	}
	opts = append([]httpclient.Option{httpclient.WithToken(cfg.APIKey)}, opts...)
	return &CloudRecognizer{
		url:        cfg.URL,
		model:      cfg.Model,
		sampleRate: cfg.SampleRate,
		http:       httpclient.New(opts...),
	}, nil
}

// Name identifies the engine.
func (c *CloudRecognizer) Name() string {
	return "cloud"
}

// Transcribe uploads samples as a WAV file.
func (c *CloudRecognizer) Transcribe(ctx context.Context, samples []float32, lang string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", "phrase.wav")
	if err != nil {
		return "", err
	}
	if err := audio.WriteWAV(part, samples, c.sampleRate); err != nil {
		return "", fmt.Errorf("encode wav: %w", err)
	}
	fields := map[string]string{"model": c.model, "response_format": "json"}
	if base := BaseLanguage(lang); base != "" {
		fields["language"] = base
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := c.http.Post(ctx, c.url, form.FormDataContentType(), body.Bytes(), &result); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", apperrors.ErrNoSpeech
	}
	return text, nil
}

// Close is a no-op.
func (c *CloudRecognizer) Close() {}
