package mfcc

import (
	"github.com/adwait1544/echo-guard/dsp/cepstrum"
	"github.com/adwait1544/echo-guard/dsp/core"
	"github.com/adwait1544/echo-guard/dsp/frame"
	"github.com/adwait1544/echo-guard/dsp/mel"
)

// DefaultMaxFrames caps the number of matrix rows.
const DefaultMaxFrames = 100

// Config holds feature extraction parameters.
type Config struct {
	FrameSize    int
	HopSize      int
	Filters      int
	Coefficients int
	MaxFrames    int
	Workers      int
	DirectDFT    bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the standard extraction parameters.
func DefaultConfig() Config {
	return Config{
		FrameSize:    frame.DefaultSize,
		HopSize:      frame.DefaultHop,
		Filters:      mel.DefaultFilters,
		Coefficients: cepstrum.DefaultCoefficients,
		MaxFrames:    DefaultMaxFrames,
		Workers:      1,
	}
}

// WithFrameSize sets the frame length in samples.
func WithFrameSize(n int) Option {
	return func(cfg *Config) { cfg.FrameSize = n }
}

// WithHopSize sets the offset between frame starts in samples.
func WithHopSize(n int) Option {
	return func(cfg *Config) { cfg.HopSize = n }
}

// WithFilters sets the number of mel bands.
func WithFilters(n int) Option {
	return func(cfg *Config) { cfg.Filters = n }
}

// WithCoefficients sets the number of cepstral coefficients per frame.
func WithCoefficients(n int) Option {
	return func(cfg *Config) { cfg.Coefficients = n }
}

// WithMaxFrames caps the number of frames kept.
func WithMaxFrames(n int) Option {
	return func(cfg *Config) { cfg.MaxFrames = n }
}

// WithWorkers sets how many goroutines compute frames. 1 is sequential.
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// WithDirectDFT computes spectra with the direct O(N^2) transform instead of
// an FFT plan.
func WithDirectDFT() Option {
	return func(cfg *Config) { cfg.DirectDFT = true }
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first invalid parameter.
func (cfg Config) Validate() error {
	switch {
	case cfg.FrameSize < 2:
		return core.Invalidf("frame size must be >= 2: %d", cfg.FrameSize)
	case cfg.HopSize <= 0:
		return core.Invalidf("hop size must be > 0: %d", cfg.HopSize)
	case cfg.Filters <= 0:
		return core.Invalidf("filter count must be > 0: %d", cfg.Filters)
	case cfg.Coefficients <= 0:
		return core.Invalidf("coefficient count must be > 0: %d", cfg.Coefficients)
	case cfg.MaxFrames <= 0:
		return core.Invalidf("max frames must be > 0: %d", cfg.MaxFrames)
	case cfg.Workers <= 0:
		return core.Invalidf("workers must be > 0: %d", cfg.Workers)
	}
	return nil
}
