package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// dftScratch is the reusable state of one DFTMagnitude call: the twiddle
// table for the last frame length and the real/imaginary bin buffers.
type dftScratch struct {
	tw   twiddles
	re   []float64
	im   []float64
	size int
}

var dftPool = sync.Pool{
	New: func() any { return &dftScratch{} },
}

// getDFTScratch returns scratch sized for an n-point transform. Twiddles are
// rebuilt only when the pooled entry was last used for another length.
func getDFTScratch(n int) *dftScratch {
	s := dftPool.Get().(*dftScratch)
	if s.size != n {
		s.tw = newTwiddles(n)
		s.size = n
	}

	bins := Bins(n)
	if cap(s.re) < bins {
		s.re = make([]float64, bins)
		s.im = make([]float64, bins)
	}
	s.re, s.im = s.re[:bins], s.im[:bins]

	return s
}

func putDFTScratch(s *dftScratch) {
	dftPool.Put(s)
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Bins returns the number of bins retained for a frame of length n.
func Bins(n int) int {
	return n / 2
}
