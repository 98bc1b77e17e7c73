// Package time computes single-pass time-domain statistics of a PCM signal.
//
// The numbers describe the waveform that was fed to feature extraction. They
// are evidence for reports, not inputs to the heuristic scores.
package time

import "math"

// FloorDB is reported for zero amplitudes so that levels stay finite.
const FloorDB = -240.0

// ClipLevel is the absolute amplitude at and above which a sample counts as
// clipped.
const ClipLevel = 1.0

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int     `json:"length" yaml:"length"`
	DC            float64 `json:"dc" yaml:"dc"`
	RMS           float64 `json:"rms" yaml:"rms"`
	RMSdB         float64 `json:"rms_db" yaml:"rms_db"`
	Peak          float64 `json:"peak" yaml:"peak"`
	PeakdB        float64 `json:"peak_db" yaml:"peak_db"`
	CrestFactor   float64 `json:"crest_factor" yaml:"crest_factor"`
	Variance      float64 `json:"variance" yaml:"variance"`
	ZeroCrossings int     `json:"zero_crossings" yaml:"zero_crossings"`
	Clipped       int     `json:"clipped" yaml:"clipped"`
	Silent        bool    `json:"silent" yaml:"silent"`
}

// ampTodB converts an amplitude to decibels, 20*log10(|value|), bounded below
// by FloorDB.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return FloorDB
	}

	return math.Max(20*math.Log10(a), FloorDB)
}

func emptyStats() Stats {
	return Stats{
		RMSdB:  FloorDB,
		PeakdB: FloorDB,
		Silent: true,
	}
}

// Calculate computes all statistics in a single pass. Mean and variance use
// Welford's online algorithm.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	var (
		mean          float64
		m2            float64
		sumSq         float64
		peak          float64
		zeroCrossings int
		clipped       int
	)

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		mean += delta / ni
		m2 += delta * (x - mean)

		sumSq += x * x

		a := math.Abs(x)
		if a > peak {
			peak = a
		}

		if a >= ClipLevel {
			clipped++
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:        n,
		DC:            mean,
		RMS:           rms,
		RMSdB:         ampTodB(rms),
		Peak:          peak,
		PeakdB:        ampTodB(peak),
		CrestFactor:   crest,
		Variance:      m2 / nf,
		ZeroCrossings: zeroCrossings,
		Clipped:       clipped,
		Silent:        peak == 0,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum float64
	for _, x := range signal {
		sum += x * x
	}

	return math.Sqrt(sum / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// CrestFactor returns peak / RMS, or 0 when RMS is zero.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}

	return Peak(signal) / r
}

// ZeroCrossings counts consecutive sample pairs with opposite signs.
func ZeroCrossings(signal []float64) int {
	var count int
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}

// Clipped counts samples at or above ClipLevel in magnitude.
func Clipped(signal []float64) int {
	var count int
	for _, x := range signal {
		if math.Abs(x) >= ClipLevel {
			count++
		}
	}

	return count
}
