// Package speech abstracts speech recognition engines.
package speech

import (
	"context"
	"strings"
)

// Recognizer turns audio into text.
type Recognizer interface {
	// Transcribe recognizes speech in samples (float32, mono, at the
	// recognizer's sample rate). lang is a BCP 47 tag such as "th-TH";
	// engines with single-language models ignore it.
	Transcribe(ctx context.Context, samples []float32, lang string) (string, error)

	// Close releases engine resources.
	Close()

	// Name identifies the engine in logs.
	Name() string
}

// BaseLanguage returns the primary subtag of a BCP 47 tag: "th-TH" -> "th".
func BaseLanguage(tag string) string {
	base, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(base)
}
