// Package config loads echo-guard settings from defaults, an optional YAML
// file, ECHOGUARD_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/adwait1544/echo-guard/dsp/core"
	"github.com/adwait1544/echo-guard/internal/reasoner"
	"github.com/adwait1544/echo-guard/internal/report"
	"github.com/adwait1544/echo-guard/measure/authenticity"
	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ECHOGUARD"

// Config represents the application configuration.
type Config struct {
	Feature  FeatureConfig  `mapstructure:"feature"`
	Score    ScoreConfig    `mapstructure:"score"`
	Noise    NoiseConfig    `mapstructure:"noise"`
	Reasoner ReasonerConfig `mapstructure:"reasoner"`
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// FeatureConfig contains MFCC extraction settings.
type FeatureConfig struct {
	FrameSize    int  `mapstructure:"frame_size"`
	HopSize      int  `mapstructure:"hop_size"`
	Filters      int  `mapstructure:"filters"`
	Coefficients int  `mapstructure:"coefficients"`
	MaxFrames    int  `mapstructure:"max_frames"`
	Workers      int  `mapstructure:"workers"`
	DirectDFT    bool `mapstructure:"direct_dft"`
}

// ScoreConfig contains heuristic scoring settings.
type ScoreConfig struct {
	VarianceLow  float64 `mapstructure:"variance_low"`
	VarianceHigh float64 `mapstructure:"variance_high"`
	DriftScale   float64 `mapstructure:"drift_scale"`
	OutlierSigma float64 `mapstructure:"outlier_sigma"`
	MaxOutliers  int     `mapstructure:"max_outliers"`
	Statistics   bool    `mapstructure:"statistics"`
}

// NoiseConfig controls the optional random perturbation of the final score.
type NoiseConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Seed      uint64  `mapstructure:"seed"`
	Amplitude float64 `mapstructure:"amplitude"`
}

// ReasonerConfig contains remote verdict settings.
type ReasonerConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains report settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// AnalysisConfig contains per-run settings.
type AnalysisConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Parallel int           `mapstructure:"parallel"`
}

// New returns a viper instance with defaults and environment overrides
// installed.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("reasoner.api_key", EnvPrefix+"_REASONER_API_KEY", "OPENAI_API_KEY")

	return v
}

// SetDefaults installs the default value of every key.
func SetDefaults(v *viper.Viper) {
	f := mfcc.DefaultConfig()
	v.SetDefault("feature.frame_size", f.FrameSize)
	v.SetDefault("feature.hop_size", f.HopSize)
	v.SetDefault("feature.filters", f.Filters)
	v.SetDefault("feature.coefficients", f.Coefficients)
	v.SetDefault("feature.max_frames", f.MaxFrames)
	v.SetDefault("feature.workers", f.Workers)
	v.SetDefault("feature.direct_dft", f.DirectDFT)

	s := heuristic.DefaultConfig()
	v.SetDefault("score.variance_low", s.VarianceLow)
	v.SetDefault("score.variance_high", s.VarianceHigh)
	v.SetDefault("score.drift_scale", s.DriftScale)
	v.SetDefault("score.outlier_sigma", s.OutlierSigma)
	v.SetDefault("score.max_outliers", s.MaxOutliers)
	v.SetDefault("score.statistics", s.Statistics)

	v.SetDefault("noise.enabled", false)
	v.SetDefault("noise.seed", 0)
	v.SetDefault("noise.amplitude", authenticity.DefaultNoiseAmplitude)

	v.SetDefault("reasoner.enabled", false)
	v.SetDefault("reasoner.base_url", "")
	v.SetDefault("reasoner.model", reasoner.DefaultModel)
	v.SetDefault("reasoner.api_key", "")
	v.SetDefault("reasoner.timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.format", string(report.FormatTable))

	v.SetDefault("analysis.timeout", 2*time.Minute)
	v.SetDefault("analysis.parallel", 1)
}

// ReadFile merges a YAML config file into v. An empty path searches
// ./echoguard.yaml and $HOME/.config/echoguard/echoguard.yaml and tolerates
// their absence; an explicit path must exist.
func ReadFile(v *viper.Viper, path, home string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("echoguard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "echoguard"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Feature.mfcc().Validate(); err != nil {
		return fmt.Errorf("feature: %w", err)
	}

	if err := c.Score.heuristic().Validate(); err != nil {
		return fmt.Errorf("score: %w", err)
	}

	if c.Noise.Amplitude < 0 || c.Noise.Amplitude > 1 {
		return core.Invalidf("noise amplitude must be in [0, 1]: %g", c.Noise.Amplitude)
	}

	if c.Reasoner.Enabled && c.Reasoner.APIKey == "" {
		return core.Invalidf("reasoner enabled without api key")
	}

	if c.Reasoner.Timeout < 0 || c.Analysis.Timeout < 0 {
		return core.Invalidf("timeouts cannot be negative")
	}

	if c.Analysis.Parallel <= 0 {
		return core.Invalidf("analysis parallel must be > 0: %d", c.Analysis.Parallel)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return core.Invalidf("log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return core.Invalidf("log format must be text or json: %q", c.Log.Format)
	}

	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return core.Invalidf("output format %q", c.Output.Format)
	}

	return nil
}

func (c FeatureConfig) mfcc() mfcc.Config {
	return mfcc.ApplyOptions(c.Options()...)
}

// Options converts the settings into extractor options.
func (c FeatureConfig) Options() []mfcc.Option {
	opts := []mfcc.Option{
		mfcc.WithFrameSize(c.FrameSize),
		mfcc.WithHopSize(c.HopSize),
		mfcc.WithFilters(c.Filters),
		mfcc.WithCoefficients(c.Coefficients),
		mfcc.WithMaxFrames(c.MaxFrames),
		mfcc.WithWorkers(c.Workers),
	}
	if c.DirectDFT {
		opts = append(opts, mfcc.WithDirectDFT())
	}
	return opts
}

func (c ScoreConfig) heuristic() heuristic.Config {
	return heuristic.ApplyOptions(c.Options()...)
}

// Options converts the settings into scorer options.
func (c ScoreConfig) Options() []heuristic.Option {
	opts := []heuristic.Option{
		heuristic.WithVarianceBounds(c.VarianceLow, c.VarianceHigh),
		heuristic.WithDriftScale(c.DriftScale),
		heuristic.WithOutlierSigma(c.OutlierSigma),
		heuristic.WithMaxOutliers(c.MaxOutliers),
	}
	if !c.Statistics {
		opts = append(opts, heuristic.WithoutStatistics())
	}
	return opts
}

// Source returns the configured noise source.
func (c NoiseConfig) Source() (authenticity.Noise, error) {
	if !c.Enabled {
		return authenticity.NoNoise, nil
	}
	return authenticity.NewUniformNoise(c.Seed, c.Amplitude)
}

// Client returns the reasoner client settings.
func (c ReasonerConfig) Client() reasoner.Config {
	return reasoner.Config{APIKey: c.APIKey, BaseURL: c.BaseURL, Model: c.Model}
}

// Logger builds a logger writing to w.
func (c LogConfig) Logger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)

	if c.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l, nil
}
