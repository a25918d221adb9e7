// Package vosk recognizes speech offline with Vosk models.
package vosk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"

	"yuki/internal/apperrors"
	"yuki/internal/audio"
	"yuki/internal/speech"
)

// Recognizer implements speech.Recognizer with Vosk.
type Recognizer struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	recognizer *vosk.VoskRecognizer
}

type result struct {
	Text string `json:"text"`
}

// New loads the model directory at modelPath.
func New(modelPath string, sampleRate int) (*Recognizer, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("vosk model not found: %s", modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}

	if sampleRate <= 0 {
		sampleRate = audio.SampleRate
	}
	rec, err := vosk.NewRecognizer(model, float64(sampleRate))
	if err != nil {
		model.Free()
		return nil, err
	}

	return &Recognizer{model: model, recognizer: rec}, nil
}

// Builder adapts New to speech.Builder.
func Builder(sampleRate int) speech.Builder {
	return func(modelPath string) (speech.Recognizer, error) {
		return New(modelPath, sampleRate)
	}
}

// Name identifies the engine.
func (v *Recognizer) Name() string {
	return "vosk"
}

// Transcribe recognizes one phrase. The model decides the language.
func (v *Recognizer) Transcribe(_ context.Context, samples []float32, _ string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer == nil {
		return "", apperrors.ErrNoRecognizer
	}

	v.recognizer.AcceptWaveform(audio.ToPCM16(samples))
	raw := v.recognizer.FinalResult()
	v.recognizer.Reset()

	var r result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("decode vosk result: %w", err)
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return "", apperrors.ErrNoSpeech
	}
	return text, nil
}

// Close frees the model.
func (v *Recognizer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
}
