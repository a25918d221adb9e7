package audio

import (
	"math"
	"time"
)

// Event is the outcome of feeding one frame to a Segmenter.
type Event int

const (
	// EventNone means more frames are needed.
	EventNone Event = iota
	// EventPhrase means a complete phrase is available.
	EventPhrase
	// EventTimeout means no speech started within the listen timeout.
	EventTimeout
)

const (
	// dampingBase and speechRatio shape the dynamic threshold: each second
	// of audio keeps 15% of the old threshold and moves the rest towards
	// 1.5 times the observed energy.
	dampingBase = 0.15
	speechRatio = 1.5
	// minSpeech discards clicks and pops shorter than this.
	minSpeech = 300 * time.Millisecond
	// preRoll is the quiet audio kept before a phrase starts.
	preRoll = 500 * time.Millisecond
)

// SegmenterConfig sets the energy and timing rules for phrase detection.
type SegmenterConfig struct {
	SampleRate      int
	EnergyThreshold float64
	DynamicEnergy   bool
	PauseThreshold  time.Duration // silence that ends a phrase
	ListenTimeout   time.Duration // zero waits forever
	PhraseTimeLimit time.Duration // zero allows any length
}

// Segmenter splits a stream of frames into phrases by energy. It is not
// safe for concurrent use.
type Segmenter struct {
	cfg       SegmenterConfig
	threshold float64

	inPhrase bool
	waited   time.Duration
	pre      [][]float32
	preDur   time.Duration
	phrase   []float32
	length   time.Duration
	speech   time.Duration
	pause    time.Duration
}

// NewSegmenter creates a segmenter.
func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = SampleRate
	}
	return &Segmenter{cfg: cfg, threshold: cfg.EnergyThreshold}
}

// Threshold returns the current energy threshold.
func (s *Segmenter) Threshold() float64 {
	return s.threshold
}

// Calibrate adapts the threshold to one frame of ambient noise.
func (s *Segmenter) Calibrate(frame []float32) {
	s.adjust(Energy(frame), Duration(len(frame), s.cfg.SampleRate))
}

func (s *Segmenter) adjust(energy float64, d time.Duration) {
	damping := math.Pow(dampingBase, d.Seconds())
	s.threshold = s.threshold*damping + energy*speechRatio*(1-damping)
}

// Feed consumes one frame. It returns EventPhrase with the phrase samples
// once a phrase ends, and EventTimeout when the listen timeout passes
// without speech. Either event resets the segmenter.
func (s *Segmenter) Feed(frame []float32) ([]float32, Event) {
	d := Duration(len(frame), s.cfg.SampleRate)
	energy := Energy(frame)

	if !s.inPhrase {
		if energy > s.threshold {
			s.start(frame, d)
			return nil, EventNone
		}
		if s.cfg.DynamicEnergy {
			s.adjust(energy, d)
		}
		s.keep(frame, d)
		s.waited += d
		if s.cfg.ListenTimeout > 0 && s.waited >= s.cfg.ListenTimeout {
			s.Reset()
			return nil, EventTimeout
		}
		return nil, EventNone
	}

	s.phrase = append(s.phrase, frame...)
	s.length += d
	if energy > s.threshold {
		s.pause = 0
		s.speech += d
	} else {
		s.pause += d
	}

	limited := s.cfg.PhraseTimeLimit > 0 && s.length >= s.cfg.PhraseTimeLimit
	if s.pause <= s.cfg.PauseThreshold && !limited {
		return nil, EventNone
	}

	phrase, speech := s.phrase, s.speech
	s.Reset()
	if speech < minSpeech {
		return nil, EventNone
	}
	return phrase, EventPhrase
}

func (s *Segmenter) start(frame []float32, d time.Duration) {
	s.inPhrase = true
	s.phrase = nil
	for _, p := range s.pre {
		s.phrase = append(s.phrase, p...)
	}
	s.phrase = append(s.phrase, frame...)
	s.length = s.preDur + d
	s.speech = d
	s.pause = 0
	s.pre, s.preDur = nil, 0
}

func (s *Segmenter) keep(frame []float32, d time.Duration) {
	s.pre = append(s.pre, frame)
	s.preDur += d
	for len(s.pre) > 1 && s.preDur > preRoll {
		s.preDur -= Duration(len(s.pre[0]), s.cfg.SampleRate)
		s.pre = s.pre[1:]
	}
}

// Reset drops any partial phrase and restarts the listen timeout. The
// threshold is kept.
func (s *Segmenter) Reset() {
	s.inPhrase = false
	s.waited = 0
	s.pre, s.preDur = nil, 0
	s.phrase = nil
	s.length, s.speech, s.pause = 0, 0, 0
}
