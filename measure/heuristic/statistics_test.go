package heuristic

import (
	"slices"
	"testing"

	"github.com/adwait1544/echo-guard/internal/testutil"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

func TestDescribeColumns(t *testing.T) {
	st, err := Describe(mustMatrix(t, 2, [][]float64{{1, 10}, {3, 10}, {5, 10}}))
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	if len(st.Coefficients) != 2 {
		t.Fatalf("coefficients = %d, want 2", len(st.Coefficients))
	}

	c0 := st.Coefficients[0]
	testutil.RequireNearlyEqual(t, "mean", c0.Mean, 3, 1e-12)
	// Population std of {1, 3, 5} is sqrt(8/3).
	testutil.RequireNearlyEqual(t, "std", c0.Std, 1.632993161855452, 1e-12)
	if c0.Min != 1 || c0.Max != 5 {
		t.Fatalf("min/max = %g/%g, want 1/5", c0.Min, c0.Max)
	}

	c1 := st.Coefficients[1]
	if c1.Mean != 10 || c1.Std != 0 || c1.Min != 10 || c1.Max != 10 {
		t.Fatalf("constant column = %+v", c1)
	}

	// Deltas are 2 and 2.
	testutil.RequireNearlyEqual(t, "delta mean", st.DeltaMean, 2, 1e-12)
	testutil.RequireNearlyEqual(t, "delta variance", st.DeltaVariance, 0, 1e-12)
}

func TestDescribeFindsSplice(t *testing.T) {
	rows := testutil.ConstantRows(ramp(13, 0), 40)
	for i := 25; i < len(rows); i++ {
		rows[i] = ramp(13, 4)
	}

	st, err := Describe(matrix(t, rows))
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	if !slices.Equal(st.SpliceCandidates, []int{25}) {
		t.Fatalf("splice candidates = %v, want [25]", st.SpliceCandidates)
	}
}

func TestDescribeOnExtractedSplice(t *testing.T) {
	const rate = 16000

	quiet := testutil.DeterministicSine(300, rate, 0.01, rate)
	loud := testutil.DeterministicNoise(9, 0.9, rate)

	m, err := mfcc.Extract(testutil.Splice(quiet, loud), rate)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	st, err := Describe(m)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	if len(st.SpliceCandidates) == 0 {
		t.Fatal("no splice candidates at the discontinuity")
	}

	// Frames straddling sample 16000 start between (16000-2048)/512 and 16000/512.
	first := st.SpliceCandidates[0]
	if first < 27 || first > 32 {
		t.Fatalf("first splice candidate = %d, want within [27, 32]", first)
	}
}

func TestDescribeCapsCandidates(t *testing.T) {
	rows := make([][]float64, 0, 200)
	for i := range 200 {
		offset := 0.0
		if i%20 == 5 {
			offset = 50
		}
		rows = append(rows, ramp(13, offset))
	}

	for _, tt := range []struct {
		max  int
		want int
	}{
		{max: DefaultMaxOutliers, want: 10},
		{max: 3, want: 3},
		{max: 0, want: 0},
	} {
		s, err := NewScorer(WithMaxOutliers(tt.max))
		if err != nil {
			t.Fatalf("NewScorer() error = %v", err)
		}

		st, err := s.Describe(matrix(t, rows))
		if err != nil {
			t.Fatalf("Describe() error = %v", err)
		}

		if len(st.SpliceCandidates) != tt.want {
			t.Fatalf("max=%d candidates = %v, want %d", tt.max, st.SpliceCandidates, tt.want)
		}

		if !slices.IsSorted(st.SpliceCandidates) {
			t.Fatalf("candidates not ascending: %v", st.SpliceCandidates)
		}

		if tt.want > 0 && st.SpliceCandidates[0] != 5 {
			t.Fatalf("first candidate = %d, want 5", st.SpliceCandidates[0])
		}
	}
}

func TestDescribeSingleRow(t *testing.T) {
	st, err := Describe(matrix(t, [][]float64{ramp(13, 0)}))
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	if len(st.Coefficients) != 13 || st.DeltaMean != 0 || len(st.SpliceCandidates) != 0 {
		t.Fatalf("Describe() = %+v", st)
	}
}
