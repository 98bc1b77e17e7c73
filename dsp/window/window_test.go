package window

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestHammingEndpointsAndMidpoint(t *testing.T) {
	for _, n := range []int{2, 3, 5, 64, 513, 2048, 2049} {
		w := Hamming(n)
		if len(w) != n {
			t.Fatalf("n=%d: len=%d", n, len(w))
		}

		if !almostEqual(w[0], 0.08, 1e-9) || !almostEqual(w[n-1], 0.08, 1e-9) {
			t.Fatalf("n=%d: endpoints %v, %v, want 0.08", n, w[0], w[n-1])
		}

		if n%2 == 1 {
			if mid := w[(n-1)/2]; !almostEqual(mid, 1, 1e-9) {
				t.Fatalf("n=%d: midpoint %v, want 1", n, mid)
			}
		}
	}
}

func TestHammingMatchesFormula(t *testing.T) {
	const n = 2048
	w := Hamming(n)
	for i, v := range w {
		want := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		if !almostEqual(v, want, 1e-12) {
			t.Fatalf("w[%d]=%v, want %v", i, v, want)
		}
	}
}

func TestShortWindowIsIdentity(t *testing.T) {
	w := Hamming(1)
	if len(w) != 1 || w[0] != 1 {
		t.Fatalf("Hamming(1) = %v, want [1]", w)
	}

	dst := make([]float64, 1)
	if err := ApplyCoefficients(dst, []float64{0.25}, w); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 0.25 {
		t.Fatalf("single-sample window changed frame: %v", dst[0])
	}

	for _, n := range []int{0, -3} {
		if Hamming(n) != nil {
			t.Fatalf("Hamming(%d) should be nil", n)
		}
	}
}

func TestHammingSymmetric(t *testing.T) {
	for _, n := range []int{4, 257, 2048} {
		w := Hamming(n)
		for i := range n / 2 {
			if !almostEqual(w[i], w[n-1-i], 1e-12) {
				t.Fatalf("n=%d: w[%d]=%v, w[%d]=%v", n, i, w[i], n-1-i, w[n-1-i])
			}
		}
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 1, 1, 1, 1}
	coeffs := Hamming(5)
	dst := make([]float64, 5)

	if err := ApplyCoefficients(dst, samples, coeffs); err != nil {
		t.Fatalf("ApplyCoefficients error: %v", err)
	}

	for i := range dst {
		if !almostEqual(dst[i], coeffs[i], 1e-15) {
			t.Fatalf("dst[%d]=%v, want %v", i, dst[i], coeffs[i])
		}
		if samples[i] != 1 {
			t.Fatalf("samples mutated at %d", i)
		}
	}

	if err := ApplyCoefficients(dst[:4], samples, coeffs); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
