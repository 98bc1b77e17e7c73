// Package window generates the Hamming taper applied to every frame before it
// is transformed.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hamming coefficients: w[i] = hammingA0 - hammingA1*cos(2*pi*i/(n-1)).
const (
	hammingA0 = 0.54
	hammingA1 = 0.46
)

// Hamming returns n symmetric Hamming coefficients. The endpoints are 0.08
// and, for odd n, the midpoint is 1.
//
// Windows shorter than two samples cannot be tapered and are returned as all
// ones, so applying them leaves the frame unchanged. n <= 0 yields nil.
func Hamming(n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n < 2 {
		out[0] = 1
		return out
	}

	step := 2 * math.Pi / float64(n-1)
	for i := range out {
		out[i] = hammingA0 - hammingA1*math.Cos(step*float64(i))
	}

	return out
}

// ApplyCoefficients writes samples*coeffs into dst. All three slices must
// have the same length; samples is left untouched.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}
