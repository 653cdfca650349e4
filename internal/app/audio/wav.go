package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM = 1
	outBitDepth  = 16
)

// ErrTooLong is returned when audio exceeds the normalizer's maximum duration.
var ErrTooLong = errors.New("audio exceeds the maximum duration")

// sniffWAV reports whether the header looks like a RIFF/WAVE container.
func sniffWAV(header []byte) bool {
	return len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE"))
}

// decodePCMWAV reads an integer PCM WAV file. ok is false when the file is a
// WAVE container go-audio cannot read directly (float, extensible, compressed),
// so the caller can fall back to ffmpeg. The data chunk length is checked
// against maxDuration before any sample is read.
func decodePCMWAV(r io.ReadSeeker, maxDuration time.Duration) (w *Waveform, ok bool, err error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, true, fmt.Errorf("invalid wav header: %v", d.Err())
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, false, nil
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return nil, true, fmt.Errorf("wav header declares %d channels at %d Hz", d.NumChans, d.SampleRate)
	}
	frameSize := int(d.NumChans) * int(d.BitDepth) / 8
	if frameSize <= 0 {
		return nil, true, fmt.Errorf("wav header declares %d-bit samples", d.BitDepth)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, true, fmt.Errorf("find pcm data: %w", err)
	}
	if maxDuration > 0 {
		seconds := float64(d.PCMSize/frameSize) / float64(d.SampleRate)
		if seconds > maxDuration.Seconds() {
			return nil, true, fmt.Errorf("%w: wav header declares %.1fs", ErrTooLong, seconds)
		}
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, true, fmt.Errorf("read pcm data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, true, fmt.Errorf("wav file has no audio samples")
	}

	return fromInterleaved(buf.Data, int(d.NumChans), int(d.SampleRate), int(d.BitDepth)), true, nil
}

// fromInterleaved splits interleaved integer samples into scaled channels.
// 8-bit WAV samples are unsigned; every other depth is signed.
func fromInterleaved(data []int, channels, sampleRate, bitDepth int) *Waveform {
	frames := len(data) / channels
	offset := 0.0
	scale := math.Ldexp(1, bitDepth-1)
	if bitDepth == 8 {
		offset = 128
		scale = 128
	}

	samples := make([][]float64, channels)
	for c := range samples {
		samples[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			samples[c][i] = (float64(data[i*channels+c]) - offset) / scale
		}
	}
	return &Waveform{Samples: samples, SampleRate: sampleRate}
}

// toPCM16 quantizes a mono waveform, clamping to the int16 range.
func toPCM16(ch []float64) []int {
	out := make([]int, len(ch))
	for i, s := range ch {
		v := math.Round(s * math.MaxInt16)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		out[i] = int(v)
	}
	return out
}

// WriteWAV encodes w as 16-bit PCM. Multi-channel waveforms are interleaved.
func WriteWAV(path string, w *Waveform) (err error) {
	if w.Channels() == 0 {
		return fmt.Errorf("waveform has no channels")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	channels := w.Channels()
	frames := w.Len()
	data := make([]int, 0, frames*channels)
	quantized := make([][]int, channels)
	for c, ch := range w.Samples {
		quantized[c] = toPCM16(ch)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			data = append(data, quantized[c][i])
		}
	}

	enc := wav.NewEncoder(f, w.SampleRate, outBitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: w.SampleRate},
		Data:           data,
		SourceBitDepth: outBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// ReadWAV decodes an integer PCM WAV file into a waveform.
func ReadWAV(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, ok, err := decodePCMWAV(f, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unsupported wav encoding")
	}
	return w, nil
}
