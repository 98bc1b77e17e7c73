package main

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adwait1544/echo-guard/internal/analysis"
	"github.com/adwait1544/echo-guard/internal/reasoner"
	"github.com/adwait1544/echo-guard/internal/report"
	"github.com/adwait1544/echo-guard/internal/wavio"
	"github.com/adwait1544/echo-guard/measure/authenticity"
	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

func (a *app) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file.wav>...",
		Short: "Score recordings and print a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd.Context(), args)
		},
	}

	f := cmd.Flags()
	f.Int("workers", 1, "goroutines per recording for frame extraction")
	f.Bool("direct-dft", false, "use the direct DFT instead of an FFT plan")
	f.Uint64("noise-seed", 0, "enable seeded score perturbation (non-deterministic output)")
	f.Bool("reason", false, "ask the configured model for a verdict")
	f.Int("parallel", 1, "recordings analyzed concurrently")

	return cmd
}

func (a *app) analyze(ctx context.Context, paths []string) error {
	format, err := report.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}

	svc, err := a.service()
	if err != nil {
		return err
	}

	inputs := make([]analysis.Input, 0, len(paths))
	for _, p := range paths {
		audio, err := wavio.DecodeFile(p)
		if err != nil {
			return err
		}

		a.log.WithFields(logrus.Fields{
			"path":        p,
			"sample_rate": audio.SampleRate,
			"channels":    audio.Channels,
			"bit_depth":   audio.BitDepth,
			"duration":    audio.Duration(),
		}).Debug("decoded recording")

		inputs = append(inputs, analysis.Input{
			Name:       filepath.Base(p),
			Samples:    audio.Samples,
			SampleRate: audio.SampleRate,
		})
	}

	if a.cfg.Analysis.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Analysis.Timeout)
		defer cancel()
	}

	results, err := svc.AnalyzeAll(ctx, inputs, a.cfg.Analysis.Parallel)
	if err != nil {
		return err
	}

	return report.Render(a.stdout, format, results...)
}

func (a *app) service() (*analysis.Service, error) {
	extractor, err := mfcc.NewExtractor(a.cfg.Feature.Options()...)
	if err != nil {
		return nil, err
	}

	scorer, err := heuristic.NewScorer(a.cfg.Score.Options()...)
	if err != nil {
		return nil, err
	}

	noise, err := a.cfg.Noise.Source()
	if err != nil {
		return nil, err
	}

	classifier, err := authenticity.NewHeuristicClassifier(scorer, noise)
	if err != nil {
		return nil, err
	}

	opts := []analysis.Option{analysis.WithLogger(a.log)}
	if a.cfg.Reasoner.Enabled {
		r, err := reasoner.NewOpenAI(a.cfg.Reasoner.Client())
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			analysis.WithReasoner(r),
			analysis.WithReasonerTimeout(a.cfg.Reasoner.Timeout),
		)
	}

	return analysis.New(extractor, scorer, classifier, opts...)
}
