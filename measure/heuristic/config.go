package heuristic

import (
	"math"

	"github.com/adwait1544/echo-guard/dsp/core"
)

// Default scoring parameters.
const (
	DefaultVarianceLow  = 0.01
	DefaultVarianceHigh = 100.0
	DefaultDriftScale   = 100.0
	DefaultOutlierSigma = 2.0
	DefaultMaxOutliers  = 10
)

// Config holds scoring parameters.
type Config struct {
	VarianceLow  float64
	VarianceHigh float64
	DriftScale   float64
	OutlierSigma float64
	MaxOutliers  int
	Statistics   bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the standard scoring parameters.
func DefaultConfig() Config {
	return Config{
		VarianceLow:  DefaultVarianceLow,
		VarianceHigh: DefaultVarianceHigh,
		DriftScale:   DefaultDriftScale,
		OutlierSigma: DefaultOutlierSigma,
		MaxOutliers:  DefaultMaxOutliers,
		Statistics:   true,
	}
}

// WithVarianceBounds sets the row variance range outside of which a row is
// flagged.
func WithVarianceBounds(low, high float64) Option {
	return func(cfg *Config) {
		cfg.VarianceLow = low
		cfg.VarianceHigh = high
	}
}

// WithDriftScale sets the per-row drift that maps to zero consistency.
func WithDriftScale(scale float64) Option {
	return func(cfg *Config) { cfg.DriftScale = scale }
}

// WithOutlierSigma sets how many standard deviations above the mean delta a
// frame must be to count as a splice candidate.
func WithOutlierSigma(sigma float64) Option {
	return func(cfg *Config) { cfg.OutlierSigma = sigma }
}

// WithMaxOutliers caps the number of reported splice candidates.
func WithMaxOutliers(n int) Option {
	return func(cfg *Config) { cfg.MaxOutliers = n }
}

// WithoutStatistics skips the statistical summary.
func WithoutStatistics() Option {
	return func(cfg *Config) { cfg.Statistics = false }
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
	case !finite(cfg.VarianceLow) || !finite(cfg.VarianceHigh) || cfg.VarianceLow < 0:
		return core.Invalidf("variance bounds must be finite and >= 0: [%g, %g]", cfg.VarianceLow, cfg.VarianceHigh)
	case cfg.VarianceLow > cfg.VarianceHigh:
		return core.Invalidf("variance low %g exceeds high %g", cfg.VarianceLow, cfg.VarianceHigh)
	case !finite(cfg.DriftScale) || cfg.DriftScale <= 0:
		return core.Invalidf("drift scale must be > 0: %g", cfg.DriftScale)
	case !finite(cfg.OutlierSigma) || cfg.OutlierSigma < 0:
		return core.Invalidf("outlier sigma must be >= 0: %g", cfg.OutlierSigma)
	case cfg.MaxOutliers < 0:
		return core.Invalidf("max outliers must be >= 0: %d", cfg.MaxOutliers)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
