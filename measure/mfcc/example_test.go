package mfcc_test

import (
	"fmt"
	"math"

	"github.com/adwait1544/echo-guard/measure/mfcc"
)

func ExampleExtract() {
	const rate = 44100

	signal := make([]float64, rate)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/rate)
	}

	m, err := mfcc.Extract(signal, rate)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d frames x %d coefficients\n", m.Rows(), m.Cols())
	// Output:
	// 82 frames x 13 coefficients
}

func ExampleNewExtractor() {
	e, err := mfcc.NewExtractor(mfcc.WithFrameSize(512), mfcc.WithHopSize(256), mfcc.WithWorkers(4))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(e.Frames(16000))
	// Output:
	// 60
}
