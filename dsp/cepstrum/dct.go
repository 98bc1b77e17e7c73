// Package cepstrum decorrelates log-mel energies into cepstral coefficients
// with an unnormalized DCT-II:
//
//	c_k = sum_{i=0}^{M-1} e_i * cos(pi*k*(i+0.5)/M),  k in [0, K)
//
// No orthonormal scaling is applied. Consumers compare coefficients relative
// to each other, so the absolute scale does not matter.
package cepstrum

import (
	"math"

	"github.com/adwait1544/echo-guard/dsp/core"
)

// DefaultCoefficients is the default number of cepstral coefficients.
const DefaultCoefficients = 13

// DCT is a precomputed K x M DCT-II basis. It is immutable and safe for
// concurrent use.
type DCT struct {
	inputs int
	basis  [][]float64
}

// NewDCT returns a transform from inputs values to coefficients outputs.
// coefficients may exceed inputs; the extra rows are still well defined.
func NewDCT(inputs, coefficients int) (*DCT, error) {
	if inputs <= 0 {
		return nil, core.Invalidf("dct input length must be > 0: %d", inputs)
	}

	if coefficients <= 0 {
		return nil, core.Invalidf("dct coefficient count must be > 0: %d", coefficients)
	}

	m := float64(inputs)
	basis := make([][]float64, coefficients)
	for k := range basis {
		row := make([]float64, inputs)
		for i := range row {
			row[i] = math.Cos(math.Pi * float64(k) * (float64(i) + 0.5) / m)
		}
		basis[k] = row
	}

	return &DCT{inputs: inputs, basis: basis}, nil
}

// Inputs returns the expected input length M.
func (d *DCT) Inputs() int { return d.inputs }

// Coefficients returns the output length K.
func (d *DCT) Coefficients() int { return len(d.basis) }

// Transform writes the K coefficients of in into dst.
func (d *DCT) Transform(dst, in []float64) error {
	if len(in) != d.inputs {
		return core.Invalidf("dct input length %d, want %d", len(in), d.inputs)
	}

	if len(dst) != len(d.basis) {
		return core.Invalidf("dct dst length %d, want %d", len(dst), len(d.basis))
	}

	for k, row := range d.basis {
		sum := 0.0
		for i, e := range in {
			sum += e * row[i]
		}
		dst[k] = sum
	}

	return nil
}

// DCT2 computes k coefficients of in without keeping the basis.
func DCT2(in []float64, k int) ([]float64, error) {
	d, err := NewDCT(len(in), k)
	if err != nil {
		return nil, err
	}

	out := make([]float64, k)
	if err := d.Transform(out, in); err != nil {
		return nil, err
	}

	return out, nil
}
