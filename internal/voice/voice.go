// Package voice runs the listen and speak loop: microphone frames are cut
// into phrases, transcribed and handed to the command processor, and
// replies are synthesized and played back.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"yuki/internal/apperrors"
	"yuki/internal/audio"
	"yuki/internal/config"
	"yuki/internal/logging"
	"yuki/internal/speech"
	"yuki/internal/tts"
)

// Source delivers microphone frames.
type Source interface {
	Start(ctx context.Context) (<-chan []float32, error)
	Stop()
	SampleRate() int
}

// Recognizers returns the active recognizer, or nil when none is loaded.
type Recognizers interface {
	Current() speech.Recognizer
}

// Synthesizer turns text into an audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Player plays an audio file to completion.
type Player interface {
	Play(ctx context.Context, path string) error
}

// Handler receives each transcribed utterance.
type Handler func(ctx context.Context, text string)

// State is what the engine is doing, shown in the tray.
type State int32

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateSpeaking
)

// Config holds the engine settings.
type Config struct {
	Language  string // recognizer language, e.g. "th-TH"
	WakeWord  string // prefixed to push-to-talk phrases
	Segmenter audio.SegmenterConfig
	Ambient   time.Duration // noise calibration before the first phrase
	OutputDir string
	KeepFiles int
	// FlushAfterPhrase drops frames captured while a phrase was being
	// handled, so the assistant does not hear its own reply.
	FlushAfterPhrase bool
}

// ConfigFrom builds a Config from the voice and audio settings.
func ConfigFrom(v config.VoiceConfig, a config.AudioConfig) Config {
	return Config{
		Language: v.Language,
		WakeWord: v.WakeWord,
		Segmenter: audio.SegmenterConfig{
			SampleRate:      a.SampleRate,
			EnergyThreshold: a.EnergyThreshold,
			DynamicEnergy:   a.DynamicEnergy,
			PauseThreshold:  config.Seconds(a.PauseThreshold),
			ListenTimeout:   config.Seconds(a.ListenTimeout),
			PhraseTimeLimit: config.Seconds(a.PhraseTimeLimit),
		},
		Ambient:          config.Seconds(a.AmbientDuration),
		OutputDir:        a.OutputDirectory,
		KeepFiles:        a.KeepAudioFiles,
		FlushAfterPhrase: true,
	}
}

// Engine listens and speaks.
type Engine struct {
	cfg         Config
	source      Source
	recognizers Recognizers
	synth       Synthesizer
	player      Player

	speakMu sync.Mutex
	armed   atomic.Bool
	state   atomic.Int32
	onState atomic.Pointer[func(State)]
}

// New creates an engine.
func New(cfg Config, source Source, recognizers Recognizers, synth Synthesizer, player Player) *Engine {
	return &Engine{
		cfg:         cfg,
		source:      source,
		recognizers: recognizers,
		synth:       synth,
		player:      player,
	}
}

// OnState registers a callback for state changes.
func (e *Engine) OnState(fn func(State)) {
	e.onState.Store(&fn)
}

// State returns the current state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	if State(e.state.Swap(int32(s))) == s {
		return
	}
	if fn := e.onState.Load(); fn != nil && *fn != nil {
		(*fn)(s)
	}
}

// Arm addresses the next phrase to the assistant, as if it began with the
// wake word.
func (e *Engine) Arm() {
	e.armed.Store(true)
	slog.Info("push-to-talk armed")
}

// Armed reports whether the next phrase will be addressed.
func (e *Engine) Armed() bool {
	return e.armed.Load()
}

// Listen captures phrases until ctx is done or the source closes, calling
// handler for every recognised utterance. Recognition failures are logged
// and listening continues.
func (e *Engine) Listen(ctx context.Context, handler Handler) error {
	frames, err := e.source.Start(ctx)
	if err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	defer e.source.Stop()
	defer e.setState(StateIdle)

	segCfg := e.cfg.Segmenter
	segCfg.SampleRate = e.source.SampleRate()
	seg := audio.NewSegmenter(segCfg)

	calibrate := e.cfg.Ambient
	if calibrate > 0 {
		slog.Info("adjusting for ambient noise", "duration", calibrate)
	}
	e.setState(StateListening)

	for {
		var (
			frame []float32
			ok    bool
		)
		select {
		case <-ctx.Done():
			return nil
		case frame, ok = <-frames:
		}
		if !ok {
			slog.Info("recording stopped")
			return nil
		}

		if calibrate > 0 {
			seg.Calibrate(frame)
			calibrate -= audio.Duration(len(frame), segCfg.SampleRate)
			if calibrate <= 0 {
				slog.Info("ambient noise calibrated", "threshold", int(seg.Threshold()))
			}
			continue
		}

		phrase, ev := seg.Feed(frame)
		switch ev {
		case audio.EventTimeout:
			slog.Debug("listen timeout, no speech detected")
		case audio.EventPhrase:
			e.handlePhrase(ctx, phrase, handler)
			if e.cfg.FlushAfterPhrase {
				flush(frames)
			}
			e.setState(StateListening)
		}
	}
}

func (e *Engine) handlePhrase(ctx context.Context, phrase []float32, handler Handler) {
	rec := e.recognizers.Current()
	if rec == nil {
		slog.Warn("phrase dropped", "error", apperrors.ErrNoRecognizer)
		return
	}

	e.setState(StateProcessing)
	start := time.Now()
	text, err := rec.Transcribe(ctx, phrase, e.cfg.Language)
	logging.Performance("speech_recognition", time.Since(start))

	switch {
	case errors.Is(err, apperrors.ErrNoSpeech):
		slog.Debug("could not understand audio")
		return
	case err != nil:
		slog.Error("speech recognition failed", "engine", rec.Name(), "error", err)
		return
	}

	if e.armed.CompareAndSwap(true, false) {
		text = Addressed(text, e.cfg.WakeWord)
	}
	logging.Command(text)
	handler(ctx, text)
}

// Addressed prefixes text with the wake word unless it already starts
// with it.
func Addressed(text, wake string) string {
	if wake == "" || strings.HasPrefix(strings.ToLower(text), strings.ToLower(wake)) {
		return text
	}
	return wake + " " + text
}

func flush(frames <-chan []float32) {
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Speak synthesizes text, plays it and removes old audio files. Blank text
// is ignored.
func (e *Engine) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	e.speakMu.Lock()
	defer e.speakMu.Unlock()

	prev := e.State()
	e.setState(StateSpeaking)
	defer e.setState(prev)

	start := time.Now()
	path, err := e.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if err := e.player.Play(ctx, path); err != nil {
		return err
	}
	logging.Performance("text_to_speech", time.Since(start))

	if e.cfg.KeepFiles > 0 && e.cfg.OutputDir != "" {
		if err := audio.Cleanup(e.cfg.OutputDir, tts.FilePattern, e.cfg.KeepFiles); err != nil {
			slog.Warn("audio cleanup failed", "dir", e.cfg.OutputDir, "error", err)
		}
	}
	return nil
}
