package heuristic

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/adwait1544/echo-guard/dsp/core"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

// Summary is the outcome of scoring one matrix.
type Summary struct {
	Consistency  float64     `json:"consistency" yaml:"consistency"`
	AnomalyRatio float64     `json:"anomaly_ratio" yaml:"anomaly_ratio"`
	Rows         int         `json:"rows" yaml:"rows"`
	Cols         int         `json:"cols" yaml:"cols"`
	Statistics   *Statistics `json:"statistics,omitempty" yaml:"statistics,omitempty"`
}

// Scorer computes heuristic summaries. It is immutable and safe for
// concurrent use.
type Scorer struct {
	cfg Config
}

// NewScorer validates the options and returns a Scorer.
func NewScorer(opts ...Option) (*Scorer, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

var defaultScorer = &Scorer{cfg: DefaultConfig()}

// Score scores m with the default parameters.
func Score(m *mfcc.Matrix) (Summary, error) { return defaultScorer.Score(m) }

// Consistency returns the temporal consistency of m with the default
// parameters.
func Consistency(m *mfcc.Matrix) (float64, error) { return defaultScorer.Consistency(m) }

// AnomalyRatio returns the anomaly ratio of m with the default parameters.
func AnomalyRatio(m *mfcc.Matrix) (float64, error) { return defaultScorer.AnomalyRatio(m) }

// Config returns the scoring parameters.
func (s *Scorer) Config() Config { return s.cfg }

// Score computes consistency, anomaly ratio and, unless disabled, statistics.
func (s *Scorer) Score(m *mfcc.Matrix) (Summary, error) {
	if err := validate(m); err != nil {
		return Summary{}, err
	}

	deltas := frameDeltas(m)
	sum := Summary{
		Consistency:  s.consistency(m.Rows(), deltas),
		AnomalyRatio: s.anomalyRatio(m),
		Rows:         m.Rows(),
		Cols:         m.Cols(),
	}

	if s.cfg.Statistics {
		st := s.statistics(m, deltas)
		sum.Statistics = &st
	}

	return sum, nil
}

// Consistency returns 1 - clamp(drift / (rows*scale)).
func (s *Scorer) Consistency(m *mfcc.Matrix) (float64, error) {
	if err := validate(m); err != nil {
		return 0, err
	}
	return s.consistency(m.Rows(), frameDeltas(m)), nil
}

// AnomalyRatio returns the fraction of rows with variance outside the bounds.
func (s *Scorer) AnomalyRatio(m *mfcc.Matrix) (float64, error) {
	if err := validate(m); err != nil {
		return 0, err
	}
	return s.anomalyRatio(m), nil
}

func (s *Scorer) consistency(rows int, deltas []float64) float64 {
	if rows < 2 {
		return 1
	}
	total := floats.Sum(deltas)
	return 1 - core.ClampUnit(total/(float64(rows)*s.cfg.DriftScale))
}

func (s *Scorer) anomalyRatio(m *mfcc.Matrix) float64 {
	rows := m.Rows()
	if rows == 0 {
		return 0
	}

	flagged := 0
	for i := range rows {
		_, variance := stat.PopMeanVariance(m.Row(i), nil)
		if variance > s.cfg.VarianceHigh || variance < s.cfg.VarianceLow {
			flagged++
		}
	}

	return core.ClampUnit(float64(flagged) / float64(rows))
}

// frameDeltas returns the L1 distance of every row from its predecessor.
// Element i-1 holds the delta of row i.
func frameDeltas(m *mfcc.Matrix) []float64 {
	if m.Rows() < 2 {
		return nil
	}

	deltas := make([]float64, m.Rows()-1)
	prev := m.Row(0)
	for i := 1; i < m.Rows(); i++ {
		cur := m.Row(i)
		deltas[i-1] = floats.Distance(cur, prev, 1)
		prev = cur
	}
	return deltas
}

func validate(m *mfcc.Matrix) error {
	if m == nil {
		return core.Invalidf("feature matrix is nil")
	}
	if m.Cols() == 0 {
		return core.Invalidf("feature matrix has no columns")
	}
	return nil
}
