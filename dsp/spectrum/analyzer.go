package spectrum

import (
	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/adwait1544/echo-guard/dsp/core"
)

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerConfig)

type analyzerConfig struct {
	direct bool
}

// WithDirect forces the O(N^2) direct transform even when an FFT plan is
// available.
func WithDirect() AnalyzerOption {
	return func(c *analyzerConfig) {
		c.direct = true
	}
}

// Analyzer computes magnitude spectra for frames of a fixed length. It owns
// scratch buffers and is not safe for concurrent use.
type Analyzer struct {
	n    int
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
	tw   twiddles
	re   []float64
	im   []float64
}

// NewAnalyzer returns an Analyzer for frames of length n.
func NewAnalyzer(n int, opts ...AnalyzerOption) (*Analyzer, error) {
	if n <= 0 {
		return nil, core.Invalidf("spectrum frame size must be > 0: %d", n)
	}

	var cfg analyzerConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a := &Analyzer{
		n:  n,
		re: make([]float64, Bins(n)),
		im: make([]float64, Bins(n)),
	}

	if !cfg.direct {
		if plan, err := algofft.NewPlan64(n); err == nil {
			a.plan = plan
			a.in = make([]complex128, n)
			a.out = make([]complex128, n)
		}
	}

	if a.plan == nil {
		a.tw = newTwiddles(n)
	}

	return a, nil
}

// Size returns the frame length this Analyzer accepts.
func (a *Analyzer) Size() int { return a.n }

// UsesFFT reports whether bins come from an FFT plan.
func (a *Analyzer) UsesFFT() bool { return a.plan != nil }

// Magnitude writes the magnitudes of bins [0, n/2) of frame into dst.
func (a *Analyzer) Magnitude(dst, frame []float64) error {
	if len(frame) != a.n {
		return core.Invalidf("spectrum frame length %d, want %d", len(frame), a.n)
	}

	if len(dst) != len(a.re) {
		return core.Invalidf("spectrum dst length %d, want %d", len(dst), len(a.re))
	}

	if len(dst) == 0 {
		return nil
	}

	if a.plan == nil {
		a.tw.direct(a.re, a.im, frame)
		MagnitudeFromParts(dst, a.re, a.im)
		return nil
	}

	for i, x := range frame {
		a.in[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return err
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	MagnitudeFromParts(dst, a.re, a.im)

	return nil
}
