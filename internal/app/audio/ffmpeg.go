package audio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"fir-voice/internal/app/model"
)

// Tools locates the ffmpeg/ffprobe binaries used for containers that are not plain PCM WAV.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// DefaultTools resolves ffmpeg and ffprobe from PATH.
func DefaultTools() Tools {
	return Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe"}
}

// Available reports whether both binaries can be found.
func (t Tools) Available() bool {
	if t.FFmpeg == "" || t.FFprobe == "" {
		return false
	}
	if _, err := exec.LookPath(t.FFmpeg); err != nil {
		return false
	}
	_, err := exec.LookPath(t.FFprobe)
	return err == nil
}

// Probe reads the first audio stream's parameters with ffprobe.
func (t Tools) Probe(ctx context.Context, filePath string) (*model.AudioInfo, error) {
	cmd := exec.CommandContext(ctx, t.FFprobe, "-v", "error", "-print_format", "json", "-show_streams", "-show_format", filePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		if stream.SampleRate <= 0 || stream.Channels <= 0 {
			return nil, fmt.Errorf("audio stream reports %d channels at %d Hz", stream.Channels, stream.SampleRate)
		}
		info := &model.AudioInfo{
			Container:  probeOutput.Format.FormatName,
			Codec:      stream.CodecName,
			SampleRate: stream.SampleRate,
			Channels:   stream.Channels,
		}
		if d, err := strconv.ParseFloat(probeOutput.Format.Duration, 64); err == nil {
			info.Duration = d
		}
		return info, nil
	}
	return nil, fmt.Errorf("no audio stream found")
}

// DecodePCM decodes any container ffmpeg understands into a waveform at the
// stream's native rate and channel count. ffmpeg's output is streamed; once
// more than maxFrames frames arrive the process is killed and ErrTooLong is
// returned. maxFrames <= 0 means no limit.
func (t Tools) DecodePCM(ctx context.Context, filePath string, info *model.AudioInfo, maxFrames int) (*Waveform, error) {
	cmd := exec.CommandContext(ctx, t.FFmpeg,
		"-nostdin", "-v", "error",
		"-i", filePath,
		"-vn",
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(info.SampleRate),
		"-ac", strconv.Itoa(info.Channels),
		"pipe:1",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	var r io.Reader = stdout
	if maxFrames > 0 {
		// one frame past the limit is enough to know it was exceeded
		r = io.LimitReader(stdout, int64(maxFrames+1)*int64(2*info.Channels))
	}
	samples, readErr := readPCM16(r, info.Channels, maxFrames, expectedFrames(info, maxFrames))
	if readErr != nil {
		// ffmpeg blocks on a full pipe once we stop reading
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()

	switch {
	case readErr != nil:
		return nil, readErr
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case waitErr != nil:
		return nil, fmt.Errorf("FFmpeg error: %v, stderr: %s", waitErr, strings.TrimSpace(stderr.String()))
	case len(samples[0]) == 0:
		return nil, fmt.Errorf("ffmpeg produced no audio samples")
	}
	return &Waveform{Samples: samples, SampleRate: info.SampleRate}, nil
}

// readPCM16 splits interleaved signed 16-bit little-endian frames into
// channels scaled to [-1, 1]. A trailing partial frame is dropped.
func readPCM16(r io.Reader, channels, maxFrames, capacity int) ([][]float64, error) {
	br := bufio.NewReaderSize(r, 64<<10)
	frame := make([]byte, 2*channels)
	samples := make([][]float64, channels)
	for c := range samples {
		samples[c] = make([]float64, 0, capacity)
	}

	for frames := 0; ; frames++ {
		if _, err := io.ReadFull(br, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return samples, nil
			}
			return nil, fmt.Errorf("read ffmpeg output: %w", err)
		}
		if maxFrames > 0 && frames >= maxFrames {
			return nil, fmt.Errorf("%w: more than %d frames decoded", ErrTooLong, maxFrames)
		}
		for c := range samples {
			v := int16(binary.LittleEndian.Uint16(frame[2*c:]))
			samples[c] = append(samples[c], float64(v)/-math.MinInt16)
		}
	}
}

// expectedFrames sizes the sample slices from the probed duration.
func expectedFrames(info *model.AudioInfo, maxFrames int) int {
	n := int(info.Duration*float64(info.SampleRate)) + 1
	if maxFrames > 0 && n > maxFrames {
		n = maxFrames
	}
	return n
}
