package main

import (
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adwait1544/echo-guard/internal/config"
)

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"output":     "output.format",
	"workers":    "feature.workers",
	"direct-dft": "feature.direct_dft",
	"noise-seed": "noise.seed",
	"reason":     "reasoner.enabled",
	"parallel":   "analysis.parallel",
}

type app struct {
	v          *viper.Viper
	cfg        *config.Config
	log        *logrus.Logger
	stdout     io.Writer
	stderr     io.Writer
	configFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: config.New(), stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "echoguard",
		Short: "Audio authenticity scoring from MFCC heuristics",
		Long: `echoguard extracts mel-frequency cepstral coefficients from WAV recordings
and scores them for temporal consistency, spectral anomalies and splice
candidates. An optional remote model can turn the evidence into a verdict.

Digital silence is always reported as anomalous by the variance heuristic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "",
		"config file (default ./echoguard.yaml or $HOME/.config/echoguard/echoguard.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.StringP("output", "o", "table", "output format (table, json, yaml)")

	cmd.AddCommand(a.newAnalyzeCmd(), a.newFeaturesCmd())

	return cmd
}

// initialize binds flags, reads the config file and builds the logger once
// flags are parsed.
func (a *app) initialize(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	if cmd.Flags().Changed("noise-seed") {
		a.v.Set("noise.enabled", true)
	}

	home, _ := os.UserHomeDir()
	if err := config.ReadFile(a.v, a.configFile, home); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	log, err := cfg.Log.Logger(a.stderr)
	if err != nil {
		return err
	}

	if used := a.v.ConfigFileUsed(); used != "" {
		log.WithField("path", used).Debug("using config file")
	}

	a.cfg = cfg
	a.log = log

	return nil
}

// bindFlags binds each known flag to its configuration key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error

	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}
