package mfcc

import (
	"strconv"
	"testing"

	"github.com/adwait1544/echo-guard/internal/testutil"
)

func BenchmarkExtract(b *testing.B) {
	signal := testutil.DeterministicNoise(1, 0.5, 3*sampleRate)

	for _, workers := range []int{1, 4} {
		b.Run("workers="+strconv.Itoa(workers), func(b *testing.B) {
			e, err := NewExtractor(WithWorkers(workers))
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			for b.Loop() {
				if _, err := e.Extract(signal, sampleRate); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
