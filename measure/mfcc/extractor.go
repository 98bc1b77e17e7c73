package mfcc

import (
	"golang.org/x/sync/errgroup"

	"github.com/adwait1544/echo-guard/dsp/cepstrum"
	"github.com/adwait1544/echo-guard/dsp/core"
	"github.com/adwait1544/echo-guard/dsp/frame"
	"github.com/adwait1544/echo-guard/dsp/mel"
	"github.com/adwait1544/echo-guard/dsp/spectrum"
	"github.com/adwait1544/echo-guard/dsp/window"
	"github.com/adwait1544/echo-guard/stats/frequency"
)

// Extractor computes MFCC matrices with a fixed configuration. It holds only
// read-only state and is safe for concurrent use.
type Extractor struct {
	cfg    Config
	seg    *frame.Segmenter
	coeffs []float64
	dct    *cepstrum.DCT
}

// NewExtractor validates the options and precomputes the window and DCT basis.
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seg, err := frame.New(cfg.FrameSize, cfg.HopSize, frame.WithLimit(cfg.MaxFrames))
	if err != nil {
		return nil, err
	}

	dct, err := cepstrum.NewDCT(cfg.Filters, cfg.Coefficients)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		cfg:    cfg,
		seg:    seg,
		coeffs: window.Hamming(cfg.FrameSize),
		dct:    dct,
	}, nil
}

// Extract computes the MFCC matrix of signal with the default configuration.
func Extract(signal []float64, sampleRate int) (*Matrix, error) {
	e, err := NewExtractor()
	if err != nil {
		return nil, err
	}
	return e.Extract(signal, sampleRate)
}

// Config returns the extraction parameters.
func (e *Extractor) Config() Config { return e.cfg }

// Frames returns the number of rows Extract produces for n samples.
func (e *Extractor) Frames(n int) int { return e.seg.Count(n) }

// Extract computes one row of cepstral coefficients per retained frame.
func (e *Extractor) Extract(signal []float64, sampleRate int) (*Matrix, error) {
	m, _, err := e.run(signal, sampleRate, false, false)
	return m, err
}

// ExtractWithProfile is Extract plus the spectral shape descriptors of the
// same windowed frames, averaged over the rows. The descriptors come from the
// magnitude spectra the cepstra are built from, so no frame is transformed
// twice. A 0-row result has a zero profile.
func (e *Extractor) ExtractWithProfile(signal []float64, sampleRate int) (*Matrix, frequency.Stats, error) {
	m, profile, err := e.run(signal, sampleRate, false, true)
	if err != nil {
		return nil, frequency.Stats{}, err
	}
	return m, frequency.Mean(profile), nil
}

// ExtractMel computes one row of log mel energies per retained frame, which
// is the matrix Extract feeds into the DCT.
func (e *Extractor) ExtractMel(signal []float64, sampleRate int) (*Matrix, error) {
	m, _, err := e.run(signal, sampleRate, true, false)
	return m, err
}

// run fills the matrix and, when profiled is set, one spectral descriptor set
// per row.
func (e *Extractor) run(signal []float64, sampleRate int, melOnly, profiled bool) (*Matrix, []frequency.Stats, error) {
	if sampleRate <= 0 {
		return nil, nil, core.Invalidf("sample rate must be > 0: %d", sampleRate)
	}

	if len(signal) == 0 {
		return nil, nil, core.Invalidf("signal is empty")
	}

	if ok, i := core.AllFinite(signal); !ok {
		return nil, nil, core.Invalidf("sample %d is not finite", i)
	}

	fb, err := mel.NewFilterbank(spectrum.Bins(e.cfg.FrameSize), sampleRate, e.cfg.Filters)
	if err != nil {
		return nil, nil, err
	}

	cols := e.cfg.Coefficients
	if melOnly {
		cols = e.cfg.Filters
	}

	rows := e.seg.Count(len(signal))
	data := make([]float64, rows*cols)
	if rows == 0 {
		return newMatrix(0, cols, data), nil, nil
	}

	var out rowSink
	out.data, out.cols = data, cols
	if profiled {
		out.profile = make([]frequency.Stats, rows)
		out.sampleRate = sampleRate
	}

	workers := min(e.cfg.Workers, rows)
	if workers == 1 {
		w, err := e.newWorker(fb, melOnly)
		if err != nil {
			return nil, nil, err
		}
		if err := w.span(&out, signal, 0, rows); err != nil {
			return nil, nil, err
		}
		return newMatrix(rows, cols, data), out.profile, nil
	}

	var g errgroup.Group
	chunk := (rows + workers - 1) / workers
	for lo := 0; lo < rows; lo += chunk {
		hi := min(lo+chunk, rows)
		g.Go(func() error {
			w, err := e.newWorker(fb, melOnly)
			if err != nil {
				return err
			}
			return w.span(&out, signal, lo, hi)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return newMatrix(rows, cols, data), out.profile, nil
}

// rowSink is the shared output of a run. Workers write disjoint row ranges.
type rowSink struct {
	data       []float64
	cols       int
	profile    []frequency.Stats
	sampleRate int
}

// worker owns the per-goroutine scratch of the frame pipeline.
type worker struct {
	e        *Extractor
	fb       *mel.Filterbank
	analyzer *spectrum.Analyzer
	windowed []float64
	mags     []float64
	energies []float64
	melOnly  bool
}

func (e *Extractor) newWorker(fb *mel.Filterbank, melOnly bool) (*worker, error) {
	var opts []spectrum.AnalyzerOption
	if e.cfg.DirectDFT {
		opts = append(opts, spectrum.WithDirect())
	}

	analyzer, err := spectrum.NewAnalyzer(e.cfg.FrameSize, opts...)
	if err != nil {
		return nil, err
	}

	return &worker{
		e:        e,
		fb:       fb,
		analyzer: analyzer,
		windowed: make([]float64, e.cfg.FrameSize),
		mags:     make([]float64, fb.Bins()),
		energies: make([]float64, fb.Filters()),
		melOnly:  melOnly,
	}, nil
}

// span fills rows [lo, hi) of out.
func (w *worker) span(out *rowSink, signal []float64, lo, hi int) error {
	for i := lo; i < hi; i++ {
		f, _ := w.e.seg.At(signal, i)
		if err := w.row(out.data[i*out.cols:(i+1)*out.cols], f); err != nil {
			return err
		}
		if out.profile != nil {
			out.profile[i] = frequency.Calculate(w.mags, out.sampleRate)
		}
	}
	return nil
}

func (w *worker) row(dst, f []float64) error {
	if err := window.ApplyCoefficients(w.windowed, f, w.e.coeffs); err != nil {
		return err
	}

	if err := w.analyzer.Magnitude(w.mags, w.windowed); err != nil {
		return err
	}

	if w.melOnly {
		return w.fb.Apply(dst, w.mags)
	}

	if err := w.fb.Apply(w.energies, w.mags); err != nil {
		return err
	}

	return w.e.dct.Transform(dst, w.energies)
}
