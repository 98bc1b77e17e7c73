package spectrum

import (
	"strconv"
	"testing"

	"github.com/adwait1544/echo-guard/internal/testutil"
)

func BenchmarkAnalyzer(b *testing.B) {
	for _, n := range []int{256, 1024, 2048} {
		frame := testutil.DeterministicNoise(1, 1, n)
		dst := make([]float64, n/2)

		b.Run("fft/"+strconv.Itoa(n), func(b *testing.B) {
			a, _ := NewAnalyzer(n)
			b.ReportAllocs()
			for range b.N {
				_ = a.Magnitude(dst, frame)
			}
		})

		b.Run("direct/"+strconv.Itoa(n), func(b *testing.B) {
			a, _ := NewAnalyzer(n, WithDirect())
			b.ReportAllocs()
			for range b.N {
				_ = a.Magnitude(dst, frame)
			}
		})
	}
}

func BenchmarkDFTMagnitude(b *testing.B) {
	for _, n := range []int{256, 1024} {
		frame := testutil.DeterministicNoise(2, 1, n)
		dst := make([]float64, n/2)

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				_, _ = DFTMagnitude(dst, frame)
			}
		})
	}
}
