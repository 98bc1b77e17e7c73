package authenticity

import (
	"errors"
	"math"
	"testing"

	"github.com/adwait1544/echo-guard/dsp/core"
	"github.com/adwait1544/echo-guard/internal/testutil"
	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

type fixedNoise float64

func (f fixedNoise) Sample() float64 { return float64(f) }

func TestCombine(t *testing.T) {
	tests := []struct {
		name        string
		consistency float64
		anomaly     float64
		noise       Noise
		want        float64
	}{
		{name: "perfect", consistency: 1, anomaly: 0, noise: NoNoise, want: 1},
		{name: "worst", consistency: 0, anomaly: 1, noise: NoNoise, want: 0},
		{name: "silence", consistency: 1, anomaly: 1, noise: nil, want: 0.7},
		{name: "mixed", consistency: 0.675, anomaly: 0.5, noise: NoNoise, want: 0.6225},
		{name: "clamp high", consistency: 1, anomaly: 0, noise: fixedNoise(0.05), want: 1},
		{name: "clamp low", consistency: 0, anomaly: 1, noise: fixedNoise(-0.05), want: 0},
		{name: "shift", consistency: 0.5, anomaly: 0.5, noise: fixedNoise(0.05), want: 0.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := heuristic.Summary{Consistency: tt.consistency, AnomalyRatio: tt.anomaly}
			testutil.RequireNearlyEqual(t, "authenticity", Combine(sum, tt.noise), tt.want, 1e-12)
		})
	}
}

func TestUniformNoiseBoundsAndSeed(t *testing.T) {
	a, err := NewUniformNoise(42, DefaultNoiseAmplitude)
	if err != nil {
		t.Fatalf("NewUniformNoise() error = %v", err)
	}

	b, err := NewUniformNoise(42, DefaultNoiseAmplitude)
	if err != nil {
		t.Fatalf("NewUniformNoise() error = %v", err)
	}

	c, err := NewUniformNoise(43, DefaultNoiseAmplitude)
	if err != nil {
		t.Fatalf("NewUniformNoise() error = %v", err)
	}

	differs := false
	for range 1000 {
		x, y, z := a.Sample(), b.Sample(), c.Sample()
		if x != y {
			t.Fatalf("same seed diverged: %g vs %g", x, y)
		}
		if math.Abs(x) > DefaultNoiseAmplitude {
			t.Fatalf("sample %g exceeds amplitude", x)
		}
		if x != z {
			differs = true
		}
	}

	if !differs {
		t.Fatal("different seeds produced identical sequences")
	}
}

func TestNewUniformNoiseValidation(t *testing.T) {
	for _, amp := range []float64{-0.1, 1.5, math.NaN(), math.Inf(1)} {
		if _, err := NewUniformNoise(1, amp); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("NewUniformNoise(%g) error = %v, want ErrInvalidInput", amp, err)
		}
	}
}

func TestHeuristicClassifier(t *testing.T) {
	var _ Classifier = (*HeuristicClassifier)(nil)

	base := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	shifted := make([]float64, len(base))
	for i, v := range base {
		shifted[i] = v + 5
	}

	m, err := mfcc.NewMatrix(13, [][]float64{base, shifted})
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}

	c, err := NewHeuristicClassifier(nil, nil)
	if err != nil {
		t.Fatalf("NewHeuristicClassifier() error = %v", err)
	}

	if !c.Deterministic() {
		t.Fatal("classifier without noise should be deterministic")
	}

	got, err := c.Predict(m)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// 0.7*0.675 + 0.3*1
	testutil.RequireNearlyEqual(t, "predict", got, 0.7725, 1e-12)

	if _, err := c.Predict(nil); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Predict(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestHeuristicClassifierWithNoise(t *testing.T) {
	noise, err := NewUniformNoise(7, DefaultNoiseAmplitude)
	if err != nil {
		t.Fatalf("NewUniformNoise() error = %v", err)
	}

	c, err := NewHeuristicClassifier(nil, noise)
	if err != nil {
		t.Fatalf("NewHeuristicClassifier() error = %v", err)
	}

	if c.Deterministic() {
		t.Fatal("classifier with noise reported deterministic")
	}

	m, err := mfcc.NewMatrix(2, testutil.ConstantRows([]float64{0, 2}, 4))
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}

	for range 100 {
		got, err := c.Predict(m)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		// Base score is 1.
		if got < 1-DefaultNoiseAmplitude || got > 1 {
			t.Fatalf("Predict() = %g outside [0.95, 1]", got)
		}
	}
}
