package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// ToPCM16 converts float samples in [-1, 1] to little-endian 16-bit PCM.
func ToPCM16(samples []float32) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s*math.MaxInt16)))
	}
	return pcm
}

// Energy returns the RMS of samples on the 16-bit scale, so thresholds are
// comparable to those of 16-bit capture libraries.
func Energy(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) * math.MaxInt16
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Duration returns how long n samples last at rate.
func Duration(n, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(rate)
}
