// Package wavio decodes PCM WAV files into mono float samples.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidFile is returned for input that is not a readable PCM WAV file.
	ErrInvalidFile = errors.New("wavio: invalid wav file")
	// ErrEmpty is returned for a WAV file without samples.
	ErrEmpty = errors.New("wavio: no samples")
)

// Audio is a decoded mono signal.
type Audio struct {
	Samples    []float64
	SampleRate int
	Channels   int // channel count of the source before downmixing
	BitDepth   int
}

// Duration returns the signal length in seconds.
func (a Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Decode reads a WAV stream, scales integer PCM into [-1, 1] and averages all
// channels into one.
func Decode(r io.ReadSeeker) (Audio, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Audio{}, ErrInvalidFile
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Audio{}, fmt.Errorf("read pcm: %w", err)
	}

	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return Audio{}, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = int(d.BitDepth)
	}
	if depth <= 0 || depth > 32 {
		return Audio{}, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidFile, depth)
	}

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	if frames == 0 {
		return Audio{}, ErrEmpty
	}

	return Audio{
		Samples:    downmix(buf.Data[:frames*channels], channels, depth),
		SampleRate: buf.Format.SampleRate,
		Channels:   channels,
		BitDepth:   depth,
	}, nil
}

// DecodeFile opens and decodes path.
func DecodeFile(path string) (Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Audio{}, err
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return Audio{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return a, nil
}

// downmix averages interleaved channels. 8-bit WAV data is unsigned and is
// re-centred first.
func downmix(data []int, channels, depth int) []float64 {
	scale := float64(int64(1) << (depth - 1))
	offset := 0.0
	if depth == 8 {
		offset = scale
	}

	out := make([]float64, len(data)/channels)
	for i := range out {
		sum := 0.0
		for c := range channels {
			sum += (float64(data[i*channels+c]) - offset) / scale
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// Encode writes samples as integer PCM with the given bit depth, clamping to
// [-1, 1]. The WAV header is finalized before Encode returns.
func Encode(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", sampleRate)
	}
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("wavio: unsupported bit depth %d", bitDepth)
	}

	peak := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		s = max(-1, min(1, s))
		data[i] = int(s * peak)
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}

	return enc.Close()
}
