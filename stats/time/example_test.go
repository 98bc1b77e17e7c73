package time_test

import (
	"fmt"

	timestats "github.com/adwait1544/echo-guard/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f zc=%d clipped=%d\n", s.RMS, s.ZeroCrossings, s.Clipped)

	// Output:
	// rms=1.0 zc=3 clipped=4
}
