// Package tts synthesizes speech with the Google Translate TTS endpoint.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"yuki/internal/apperrors"
	"yuki/internal/httpclient"
)

const (
	// DefaultURL is the Google Translate speech endpoint.
	DefaultURL = "https://translate.google.com/translate_tts"
	// MaxChunk is the longest text, in characters, the endpoint accepts.
	MaxChunk = 200
	// FilePattern matches the files written by Synthesize.
	FilePattern = "response_*.mp3"
)

// Config configures the synthesizer.
type Config struct {
	URL       string
	Language  string // "th", "en"
	Slow      bool
	OutputDir string
}

// Google synthesizes mp3 files.
type Google struct {
	cfg  Config
	http *httpclient.Client
	now  func() time.Time
}

// New creates a synthesizer.
func New(cfg Config, opts ...httpclient.Option) *Google {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Language == "" {
		cfg.Language = "th"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	opts = append([]httpclient.Option{
		httpclient.WithHeader("User-Agent", "Mozilla/5.0"),
		httpclient.WithTimeout(15 * time.Second),
	}, opts...)
	return &Google{cfg: cfg, http: httpclient.New(opts...), now: time.Now}
}

// OutputDir returns the directory files are written to.
func (g *Google) OutputDir() string {
	return g.cfg.OutputDir
}

// Synthesize writes text as speech to a new mp3 file and returns its path.
func (g *Google) Synthesize(ctx context.Context, text string) (string, error) {
	chunks := Split(text, MaxChunk)
	if len(chunks) == 0 {
		return "", apperrors.ErrEmptySpeech
	}

	var mp3 bytes.Buffer
	for i, chunk := range chunks {
		data, err := g.http.Get(ctx, g.chunkURL(chunk, i, len(chunks)))
		if err != nil {
			return "", fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		mp3.Write(data)
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.cfg.OutputDir, fmt.Sprintf("response_%d.mp3", g.now().UnixNano()))
	if err := os.WriteFile(path, mp3.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write speech: %w", err)
	}
	return path, nil
}

func (g *Google) chunkURL(text string, idx, total int) string {
	speed := "1"
	if g.cfg.Slow {
		speed = "0.3"
	}
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.cfg.Language)
	q.Set("q", text)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(utf8.RuneCountInString(text)))
	q.Set("ttsspeed", speed)
	return g.cfg.URL + "?" + q.Encode()
}

// Split breaks text into chunks of at most max characters, cutting at
// whitespace when possible. Words longer than max are cut hard.
func Split(text string, max int) []string {
	var (
		chunks []string
		cur    []rune
	)
	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > max {
			flush()
			cur = append(cur, w[:max]...)
			flush()
			w = w[max:]
		}
		if len(cur) > 0 && len(cur)+1+len(w) > max {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	flush()
	return chunks
}
