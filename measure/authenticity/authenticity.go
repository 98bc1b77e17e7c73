// Package authenticity combines heuristic scores into a single authenticity
// estimate in [0, 1].
//
// The baseline policy is
//
//	clamp(0.7*consistency + 0.3*(1 - anomalyRatio) + noise, 0, 1)
//
// where noise comes from an injected Noise source. NoNoise keeps the result
// deterministic. UniformNoise models stated uncertainty and makes the result
// non-deterministic across seeds, so it must stay out of golden outputs.
package authenticity

import (
	"math/rand/v2"
	"sync"

	"github.com/adwait1544/echo-guard/dsp/core"
	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

// Policy weights.
const (
	ConsistencyWeight = 0.7
	PatternWeight     = 0.3

	// DefaultNoiseAmplitude bounds the optional perturbation.
	DefaultNoiseAmplitude = 0.05
)

// Noise yields a perturbation added before clamping.
type Noise interface {
	Sample() float64
}

// NoNoise is the zero perturbation.
var NoNoise Noise = noNoise{}

type noNoise struct{}

func (noNoise) Sample() float64 { return 0 }

// UniformNoise draws uniformly from [-amplitude, +amplitude] with a seeded
// PCG generator. It is safe for concurrent use.
type UniformNoise struct {
	mu        sync.Mutex
	rng       *rand.Rand
	amplitude float64
}

// NewUniformNoise returns a seeded UniformNoise. amplitude must be finite and
// in [0, 1].
func NewUniformNoise(seed uint64, amplitude float64) (*UniformNoise, error) {
	if !(amplitude >= 0 && amplitude <= 1) {
		return nil, core.Invalidf("noise amplitude must be in [0, 1]: %g", amplitude)
	}

	return &UniformNoise{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		amplitude: amplitude,
	}, nil
}

// Amplitude returns the perturbation bound.
func (n *UniformNoise) Amplitude() float64 { return n.amplitude }

// Sample returns the next perturbation.
func (n *UniformNoise) Sample() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return (n.rng.Float64()*2 - 1) * n.amplitude
}

// Combine applies the baseline policy to a summary. A nil noise acts as
// NoNoise.
func Combine(sum heuristic.Summary, noise Noise) float64 {
	if noise == nil {
		noise = NoNoise
	}

	score := ConsistencyWeight*sum.Consistency + PatternWeight*(1-sum.AnomalyRatio)

	return core.ClampUnit(score + noise.Sample())
}

// Classifier turns a feature matrix into an authenticity probability.
// Learned models plug in by implementing it.
type Classifier interface {
	Predict(m *mfcc.Matrix) (float64, error)
}

// HeuristicClassifier scores a matrix and applies Combine.
type HeuristicClassifier struct {
	scorer *heuristic.Scorer
	noise  Noise
}

// NewHeuristicClassifier returns a classifier over scorer. A nil scorer uses
// the default parameters and a nil noise acts as NoNoise.
func NewHeuristicClassifier(scorer *heuristic.Scorer, noise Noise) (*HeuristicClassifier, error) {
	if scorer == nil {
		var err error
		if scorer, err = heuristic.NewScorer(); err != nil {
			return nil, err
		}
	}

	if noise == nil {
		noise = NoNoise
	}

	return &HeuristicClassifier{scorer: scorer, noise: noise}, nil
}

// Deterministic reports whether Predict is repeatable for the same input.
func (c *HeuristicClassifier) Deterministic() bool {
	_, ok := c.noise.(noNoise)
	return ok
}

// Predict scores m and combines the result.
func (c *HeuristicClassifier) Predict(m *mfcc.Matrix) (float64, error) {
	sum, err := c.scorer.Score(m)
	if err != nil {
		return 0, err
	}
	return c.Combine(sum), nil
}

// Combine applies the policy to an existing summary with the classifier's
// noise source.
func (c *HeuristicClassifier) Combine(sum heuristic.Summary) float64 {
	return Combine(sum, c.noise)
}
