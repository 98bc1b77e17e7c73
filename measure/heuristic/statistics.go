package heuristic

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/adwait1544/echo-guard/measure/mfcc"
)

// CoefficientStats describes one coefficient column across all frames.
type CoefficientStats struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// Statistics is the descriptive summary of a matrix. SpliceCandidates holds
// the indices of frames whose delta from the previous frame is an outlier, in
// ascending order.
type Statistics struct {
	Coefficients     []CoefficientStats `json:"coefficients" yaml:"coefficients"`
	DeltaMean        float64            `json:"delta_mean" yaml:"delta_mean"`
	DeltaVariance    float64            `json:"delta_variance" yaml:"delta_variance"`
	DeltaStd         float64            `json:"delta_std" yaml:"delta_std"`
	SpliceCandidates []int              `json:"splice_candidates" yaml:"splice_candidates"`
}

// Describe summarizes m with the default parameters.
func Describe(m *mfcc.Matrix) (Statistics, error) {
	return defaultScorer.Describe(m)
}

// Describe summarizes m.
func (s *Scorer) Describe(m *mfcc.Matrix) (Statistics, error) {
	if err := validate(m); err != nil {
		return Statistics{}, err
	}
	return s.statistics(m, frameDeltas(m)), nil
}

func (s *Scorer) statistics(m *mfcc.Matrix, deltas []float64) Statistics {
	st := Statistics{
		Coefficients:     []CoefficientStats{},
		SpliceCandidates: []int{},
	}

	if m.Rows() == 0 {
		return st
	}

	st.Coefficients = make([]CoefficientStats, m.Cols())
	for j := range st.Coefficients {
		col := m.Column(j)
		mean, std := stat.PopMeanStdDev(col, nil)
		st.Coefficients[j] = CoefficientStats{
			Mean: mean,
			Std:  std,
			Min:  floats.Min(col),
			Max:  floats.Max(col),
		}
	}

	if len(deltas) == 0 {
		return st
	}

	st.DeltaMean, st.DeltaVariance = stat.PopMeanVariance(deltas, nil)
	st.DeltaStd = math.Sqrt(st.DeltaVariance)

	threshold := st.DeltaMean + s.cfg.OutlierSigma*st.DeltaStd
	for i, d := range deltas {
		if len(st.SpliceCandidates) == s.cfg.MaxOutliers {
			break
		}
		if d > threshold {
			st.SpliceCandidates = append(st.SpliceCandidates, i+1)
		}
	}

	return st
}
