package audio

import (
	"context"
	"math"
	"time"
)

// Waveform is decoded audio held as one float64 slice per channel, with
// samples scaled to [-1, 1].
type Waveform struct {
	Samples    [][]float64
	SampleRate int
}

// NewWaveform wraps per-channel sample slices. All channels must have the same length.
func NewWaveform(sampleRate int, channels ...[]float64) *Waveform {
	return &Waveform{Samples: channels, SampleRate: sampleRate}
}

// Channels returns the channel count
func (w *Waveform) Channels() int {
	return len(w.Samples)
}

// Len returns the number of frames (samples per channel)
func (w *Waveform) Len() int {
	if len(w.Samples) == 0 {
		return 0
	}
	return len(w.Samples[0])
}

// Duration returns the playback length
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(w.Len()) / float64(w.SampleRate) * float64(time.Second))
}

// Peak returns the maximum absolute sample value across all channels.
func (w *Waveform) Peak() float64 {
	peak := 0.0
	for _, ch := range w.Samples {
		for _, s := range ch {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// Resample converts every channel to rate using a band-limited filter.
// It is a no-op when the waveform is already at rate. On error the waveform
// is left unchanged.
func (w *Waveform) Resample(ctx context.Context, rate int) error {
	if rate <= 0 || w.SampleRate == rate {
		return nil
	}
	out := make([][]float64, len(w.Samples))
	for i, ch := range w.Samples {
		resampled, err := Resample(ctx, ch, w.SampleRate, rate)
		if err != nil {
			return err
		}
		out[i] = resampled
	}
	w.Samples = out
	w.SampleRate = rate
	return nil
}

// Downmix averages all channels into one. It is a no-op for mono audio.
func (w *Waveform) Downmix() {
	if len(w.Samples) <= 1 {
		return
	}
	n := w.Len()
	mono := make([]float64, n)
	scale := 1 / float64(len(w.Samples))
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, ch := range w.Samples {
			sum += ch[i]
		}
		mono[i] = sum * scale
	}
	w.Samples = [][]float64{mono}
}

// Normalize scales the waveform so its peak absolute value is exactly 1.0.
// Silent audio is left untouched; the return value reports whether scaling happened.
func (w *Waveform) Normalize() bool {
	peak := w.Peak()
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return false
	}
	for _, ch := range w.Samples {
		for i, s := range ch {
			ch[i] = s / peak
		}
	}
	return true
}
