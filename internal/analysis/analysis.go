// Package analysis runs the full authenticity pipeline for one recording:
// signal statistics, MFCC extraction, heuristic scoring, the combination
// policy and an optional remote verdict.
package analysis

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/adwait1544/echo-guard/internal/reasoner"
	"github.com/adwait1544/echo-guard/measure/authenticity"
	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/measure/mfcc"
	"github.com/adwait1544/echo-guard/stats/frequency"
	timestats "github.com/adwait1544/echo-guard/stats/time"
)

// Input is one decoded recording.
type Input struct {
	Name       string
	Samples    []float64
	SampleRate int
}

// Result is the outcome of analyzing one recording.
type Result struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	AnalyzedAt    time.Time         `json:"analyzed_at" yaml:"analyzed_at"`
	SampleRate    int               `json:"sample_rate" yaml:"sample_rate"`
	Duration      float64           `json:"duration_s" yaml:"duration_s"`
	Signal        timestats.Stats   `json:"signal" yaml:"signal"`
	Spectral      frequency.Stats   `json:"spectral" yaml:"spectral"`
	Summary       heuristic.Summary `json:"summary" yaml:"summary"`
	Authenticity  float64           `json:"authenticity" yaml:"authenticity"`
	Deterministic bool              `json:"deterministic" yaml:"deterministic"`
	Verdict       *reasoner.Verdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	VerdictError  string            `json:"verdict_error,omitempty" yaml:"verdict_error,omitempty"`
	Elapsed       time.Duration     `json:"elapsed_ns" yaml:"elapsed"`

	// Features is the extracted matrix. It is not part of reports.
	Features *mfcc.Matrix `json:"-" yaml:"-"`
}

// Option configures a Service.
type Option func(*Service)

// WithReasoner enables the remote verdict step.
func WithReasoner(r reasoner.Reasoner) Option {
	return func(s *Service) { s.reasoner = r }
}

// WithReasonerTimeout bounds each verdict request. Zero means no extra bound.
func WithReasonerTimeout(d time.Duration) Option {
	return func(s *Service) { s.reasonTimeout = d }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service analyzes recordings. It is safe for concurrent use when its
// collaborators are.
type Service struct {
	extractor     *mfcc.Extractor
	scorer        *heuristic.Scorer
	classifier    authenticity.Classifier
	reasoner      reasoner.Reasoner
	reasonTimeout time.Duration
	log           logrus.FieldLogger
	now           func() time.Time
}

// New builds a Service. A nil extractor, scorer or classifier is replaced by
// the default configuration of that stage.
func New(extractor *mfcc.Extractor, scorer *heuristic.Scorer, classifier authenticity.Classifier, opts ...Option) (*Service, error) {
	var err error
	if extractor == nil {
		if extractor, err = mfcc.NewExtractor(); err != nil {
			return nil, err
		}
	}

	if scorer == nil {
		if scorer, err = heuristic.NewScorer(); err != nil {
			return nil, err
		}
	}

	if classifier == nil {
		if classifier, err = authenticity.NewHeuristicClassifier(scorer, authenticity.NoNoise); err != nil {
			return nil, err
		}
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		extractor:  extractor,
		scorer:     scorer,
		classifier: classifier,
		log:        discard,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// summaryCombiner is implemented by classifiers that can reuse a summary
// instead of rescoring the matrix.
type summaryCombiner interface {
	Combine(sum heuristic.Summary) float64
}

type determinism interface {
	Deterministic() bool
}

// Analyze runs the pipeline on in. Validation errors from the core wrap
// core.ErrInvalidInput. A failing reasoner does not fail the analysis; its
// error is recorded in Result.VerdictError.
func (s *Service) Analyze(ctx context.Context, in Input) (Result, error) {
	start := s.now()
	res := Result{
		ID:         uuid.NewString(),
		Name:       in.Name,
		AnalyzedAt: start.UTC(),
		SampleRate: in.SampleRate,
	}
	if in.SampleRate > 0 {
		res.Duration = float64(len(in.Samples)) / float64(in.SampleRate)
	}

	log := s.log.WithFields(logrus.Fields{
		"analysis_id": res.ID,
		"name":        in.Name,
	})

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	log.WithFields(logrus.Fields{
		"samples":     len(in.Samples),
		"sample_rate": in.SampleRate,
	}).Debug("starting analysis")

	var g errgroup.Group
	g.Go(func() error {
		m, profile, err := s.extractor.ExtractWithProfile(in.Samples, in.SampleRate)
		if err != nil {
			return fmt.Errorf("extract features: %w", err)
		}
		res.Features = m
		res.Spectral = profile
		return nil
	})
	g.Go(func() error {
		res.Signal = timestats.Calculate(in.Samples)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("analysis rejected input")
		return Result{}, err
	}

	sum, err := s.scorer.Score(res.Features)
	if err != nil {
		return Result{}, fmt.Errorf("score features: %w", err)
	}
	res.Summary = sum

	if c, ok := s.classifier.(summaryCombiner); ok {
		res.Authenticity = c.Combine(sum)
	} else if res.Authenticity, err = s.classifier.Predict(res.Features); err != nil {
		return Result{}, fmt.Errorf("classify: %w", err)
	}

	if d, ok := s.classifier.(determinism); ok {
		res.Deterministic = d.Deterministic()
	}

	log.WithFields(logrus.Fields{
		"rows":         sum.Rows,
		"consistency":  sum.Consistency,
		"anomaly":      sum.AnomalyRatio,
		"authenticity": res.Authenticity,
		"silent":       res.Signal.Silent,
	}).Info("scored recording")

	if s.reasoner != nil {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		s.reason(ctx, log, &res)
	}

	res.Elapsed = s.now().Sub(start)
	log.WithField("duration", res.Elapsed).Debug("analysis finished")

	return res, nil
}

func (s *Service) reason(ctx context.Context, log logrus.FieldLogger, res *Result) {
	if s.reasonTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reasonTimeout)
		defer cancel()
	}

	v, err := s.reasoner.Reason(ctx, reasoner.Evidence{
		Name:         res.Name,
		Duration:     res.Duration,
		Summary:      res.Summary,
		Authenticity: res.Authenticity,
		Signal:       res.Signal,
		Spectral:     res.Spectral,
	})
	if err != nil {
		log.WithError(err).Warn("reasoner failed")
		res.VerdictError = err.Error()
		return
	}

	log.WithField("label", v.Label).Info("received verdict")
	res.Verdict = &v
}

// AnalyzeAll analyzes inputs with at most parallel concurrent analyses and
// returns results in input order. The first error cancels the rest.
func (s *Service) AnalyzeAll(ctx context.Context, inputs []Input, parallel int) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, in := range inputs {
		g.Go(func() error {
			res, err := s.Analyze(ctx, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
