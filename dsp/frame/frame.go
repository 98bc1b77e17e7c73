// Package frame slices a mono sample sequence into fixed-size, possibly
// overlapping frames.
//
// Frame i starts at sample i*hop and spans size samples. The count of frames
// for a signal of length n is floor((n-size)/hop); a trailing frame that would
// read past the end of the signal is never produced.
package frame

import (
	"iter"

	"github.com/adwait1544/echo-guard/dsp/core"
)

const (
	// DefaultSize is the default frame length in samples.
	DefaultSize = 2048
	// DefaultHop is the default offset between frame starts in samples.
	DefaultHop = 512
)

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLimit caps the number of frames produced. Frames past the limit are
// truncated, not resampled. A limit of 0 means no cap.
func WithLimit(n int) Option {
	return func(s *Segmenter) {
		s.limit = n
	}
}

// Segmenter produces frame views over a signal. It holds no per-signal state
// and can be shared.
type Segmenter struct {
	size  int
	hop   int
	limit int
}

// New returns a Segmenter with the given frame size and hop.
func New(size, hop int, opts ...Option) (*Segmenter, error) {
	s := &Segmenter{size: size, hop: hop}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.size <= 0 {
		return nil, core.Invalidf("frame size must be > 0: %d", s.size)
	}

	if s.hop <= 0 {
		return nil, core.Invalidf("hop size must be > 0: %d", s.hop)
	}

	if s.limit < 0 {
		return nil, core.Invalidf("frame limit must be >= 0: %d", s.limit)
	}

	return s, nil
}

// Size returns the frame length in samples.
func (s *Segmenter) Size() int { return s.size }

// Hop returns the frame offset in samples.
func (s *Segmenter) Hop() int { return s.hop }

// Limit returns the frame cap, 0 when uncapped.
func (s *Segmenter) Limit() int { return s.limit }

// RawCount returns floor((n-size)/hop) clamped at zero, ignoring the limit.
func (s *Segmenter) RawCount(n int) int {
	if n < s.size {
		return 0
	}

	return (n - s.size) / s.hop
}

// Count returns the number of frames Frames yields for a signal of length n.
func (s *Segmenter) Count(n int) int {
	count := s.RawCount(n)
	if s.limit > 0 && count > s.limit {
		return s.limit
	}

	return count
}

// Frames yields (index, frame) pairs in order. Each frame is a view into
// signal and must not be modified. The sequence can be ranged over repeatedly.
func (s *Segmenter) Frames(signal []float64) iter.Seq2[int, []float64] {
	count := s.Count(len(signal))

	return func(yield func(int, []float64) bool) {
		for i := range count {
			start := i * s.hop
			if !yield(i, signal[start:start+s.size:start+s.size]) {
				return
			}
		}
	}
}

// At returns frame i as a view into signal. ok is false when i is out of range.
func (s *Segmenter) At(signal []float64, i int) (frame []float64, ok bool) {
	if i < 0 || i >= s.Count(len(signal)) {
		return nil, false
	}

	start := i * s.hop

	return signal[start : start+s.size : start+s.size], true
}
