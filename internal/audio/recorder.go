// Package audio captures microphone input, splits it into phrases and plays
// synthesized speech.
package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate is the capture rate expected by the recognizers.
	SampleRate = 16000
	// Channels is mono.
	Channels = 1
	// FramesPerBuffer is the default chunk size.
	FramesPerBuffer = 1024
)

// inputStream is the part of *portaudio.Stream the capture loop uses.
type inputStream interface {
	AvailableToRead() (int, error)
	Read() error
	Stop() error
	Close() error
}

// Recorder streams microphone frames.
type Recorder struct {
	mu         sync.Mutex
	stream     inputStream
	buffer     []float32
	sampleRate int
	running    bool
	done       chan struct{}
}

// New initializes portaudio and creates a recorder. Zero values select
// SampleRate and FramesPerBuffer.
func New(sampleRate, chunkSize int) (*Recorder, error) {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	if chunkSize <= 0 {
		chunkSize = FramesPerBuffer
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	return &Recorder{
		buffer:     make([]float32, chunkSize),
		sampleRate: sampleRate,
	}, nil
}

// SampleRate returns the capture rate.
func (r *Recorder) SampleRate() int {
	return r.sampleRate
}

// Start opens the default input device and sends every captured chunk to
// the returned channel until ctx is done or Stop is called. Chunks are
// dropped while the consumer is busy.
func (r *Recorder) Start(ctx context.Context) (<-chan []float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil, fmt.Errorf("recorder already running")
	}

	stream, err := portaudio.OpenDefaultStream(
		Channels, 0,
		float64(r.sampleRate),
		len(r.buffer),
		r.buffer,
	)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	return r.run(ctx, stream), nil
}

// run starts the capture loop over an opened stream. The caller holds mu.
func (r *Recorder) run(ctx context.Context, stream inputStream) <-chan []float32 {
	frames := make(chan []float32, 32)
	done := make(chan struct{})
	r.stream = stream
	r.running = true
	r.done = done

	go r.recordLoop(ctx, stream, frames, done)
	return frames
}

// recordLoop owns stream: it is stopped and closed only here, after the
// last Read.
func (r *Recorder) recordLoop(ctx context.Context, stream inputStream, frames chan<- []float32, done chan<- struct{}) {
	defer func() {
		stream.Stop()
		stream.Close()

		r.mu.Lock()
		if r.stream == stream {
			r.stream = nil
			r.running = false
		}
		r.mu.Unlock()

		close(frames)
		close(done)
	}()

	for {
		if ctx.Err() != nil || !r.IsRecording() {
			return
		}

		available, err := stream.AvailableToRead()
		if err != nil || available < len(r.buffer) {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err := stream.Read(); err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		frame := make([]float32, len(r.buffer))
		copy(frame, r.buffer)
		select {
		case frames <- frame:
		default:
		}
	}
}

// Stop stops capturing and returns once the stream is closed.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	done := r.done
	r.mu.Unlock()

	<-done
}

// Close stops capturing and releases portaudio.
func (r *Recorder) Close() {
	r.Stop()
	portaudio.Terminate()
}

// IsRecording reports whether the recorder is capturing.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// InputDevices lists the names of the available input devices.
func InputDevices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}
