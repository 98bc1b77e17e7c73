package spectrum

import (
	"math"

	"github.com/adwait1544/echo-guard/dsp/core"
)

// twiddles holds cos/sin of 2*pi*m/n for m in [0, n).
type twiddles struct {
	cos []float64
	sin []float64
}

func newTwiddles(n int) twiddles {
	tw := twiddles{cos: make([]float64, n), sin: make([]float64, n)}
	step := 2 * math.Pi / float64(n)
	for m := range n {
		tw.cos[m] = math.Cos(step * float64(m))
		tw.sin[m] = math.Sin(step * float64(m))
	}
	return tw
}

// direct evaluates the first len(re) bins of the DFT of frame.
func (tw twiddles) direct(re, im, frame []float64) {
	n := len(frame)
	for k := range re {
		var sr, si float64
		idx := 0
		for _, x := range frame {
			sr += x * tw.cos[idx]
			si -= x * tw.sin[idx]
			idx += k
			if idx >= n {
				idx -= n
			}
		}
		re[k] = sr
		im[k] = si
	}
}

// DFTMagnitude writes the direct-DFT magnitude of frame into dst, which must
// have length len(frame)/2. It returns dst. Twiddle tables and bin buffers
// are pooled, so repeated calls at one frame length only allocate on a pool
// miss. It is safe for concurrent use.
func DFTMagnitude(dst, frame []float64) ([]float64, error) {
	n := len(frame)
	if n == 0 {
		return nil, core.Invalidf("spectrum frame must not be empty")
	}

	if len(dst) != Bins(n) {
		return nil, core.Invalidf("spectrum dst length %d, want %d", len(dst), Bins(n))
	}

	if len(dst) == 0 {
		return dst, nil
	}

	s := getDFTScratch(n)
	s.tw.direct(s.re, s.im, frame)
	MagnitudeFromParts(dst, s.re, s.im)
	putDFTScratch(s)

	return dst, nil
}
