package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adwait1544/echo-guard/internal/report"
	"github.com/adwait1544/echo-guard/internal/wavio"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

func (a *app) newFeaturesCmd() *cobra.Command {
	var melOnly bool

	cmd := &cobra.Command{
		Use:   "features <file.wav>",
		Short: "Print the MFCC matrix of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.features(args[0], melOnly)
		},
	}

	cmd.Flags().BoolVar(&melOnly, "mel", false, "print log mel energies instead of cepstral coefficients")

	return cmd
}

func (a *app) features(path string, melOnly bool) error {
	format, err := report.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}

	extractor, err := mfcc.NewExtractor(a.cfg.Feature.Options()...)
	if err != nil {
		return err
	}

	audio, err := wavio.DecodeFile(path)
	if err != nil {
		return err
	}

	extract := extractor.Extract
	if melOnly {
		extract = extractor.ExtractMel
	}

	m, err := extract(audio.Samples, audio.SampleRate)
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"path": path,
		"rows": m.Rows(),
		"cols": m.Cols(),
	}).Debug("extracted features")

	return report.RenderMatrix(a.stdout, format, m)
}
