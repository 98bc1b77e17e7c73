// Package frequency computes spectral shape descriptors from half-spectrum
// magnitudes.
//
// Magnitude slices hold bins [0, N/2) of an N-point transform, so bin i sits
// at i*sampleRate/(2*len(magnitude)) Hz.
package frequency

import "math"

// DefaultRolloff is the energy fraction used by Calculate.
const DefaultRolloff = 0.85

// Stats holds spectral shape descriptors.
type Stats struct {
	Centroid float64 `json:"centroid_hz" yaml:"centroid_hz"` // magnitude-weighted mean frequency
	Spread   float64 `json:"spread_hz" yaml:"spread_hz"`     // std around the centroid
	Flatness float64 `json:"flatness" yaml:"flatness"`       // Wiener entropy, 0..1
	Rolloff  float64 `json:"rolloff_hz" yaml:"rolloff_hz"`   // 85% energy point
	PeakHz   float64 `json:"peak_hz" yaml:"peak_hz"`
}

func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*binCount)
}

// Calculate computes all descriptors. A spectrum with no energy yields zero
// descriptors.
func Calculate(magnitude []float64, sampleRate int) Stats {
	n := len(magnitude)
	if n == 0 || sampleRate <= 0 {
		return Stats{}
	}

	sr := float64(sampleRate)

	var sum, energy, peak float64
	peakBin := 0
	for i, v := range magnitude {
		sum += v
		energy += v * v
		if v > peak {
			peak = v
			peakBin = i
		}
	}

	cent := centroid(magnitude, sr, sum)

	return Stats{
		Centroid: cent,
		Spread:   spread(magnitude, sr, cent, sum),
		Flatness: flatness(magnitude),
		Rolloff:  rolloff(magnitude, sr, DefaultRolloff, energy),
		PeakHz:   binFreq(peakBin, sr, n),
	}
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate int) float64 {
	sum := 0.0
	for _, v := range magnitude {
		sum += v
	}
	return centroid(magnitude, float64(sampleRate), sum)
}

func centroid(magnitude []float64, sampleRate, sumMag float64) float64 {
	n := len(magnitude)
	if n == 0 || sumMag == 0 {
		return 0
	}
	weightedSum := 0.0
	for i, v := range magnitude {
		weightedSum += binFreq(i, sampleRate, n) * v
	}
	return weightedSum / sumMag
}

func spread(magnitude []float64, sampleRate, cent, sumMag float64) float64 {
	n := len(magnitude)
	if n == 0 || sumMag == 0 {
		return 0
	}
	weightedSqSum := 0.0
	for i, v := range magnitude {
		diff := binFreq(i, sampleRate, n) - cent
		weightedSqSum += diff * diff * v
	}
	return math.Sqrt(weightedSqSum / sumMag)
}

// Flatness returns exp(mean(log|X_i|)) / mean(|X_i|) over bins 1..N-1.
// Any zero bin makes the geometric mean, and so the flatness, zero.
func Flatness(magnitude []float64) float64 {
	return flatness(magnitude)
}

func flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	nBins := float64(n - 1)
	sumLin := 0.0
	sumLog := 0.0

	for _, v := range magnitude[1:] {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	return math.Exp(sumLog/nBins) / (sumLin / nBins)
}

// Rolloff returns the frequency below which percent (0..1) of the energy
// lies. Energy is the sum of squared magnitudes.
func Rolloff(magnitude []float64, sampleRate int, percent float64) float64 {
	energy := 0.0
	for _, v := range magnitude {
		energy += v * v
	}
	return rolloff(magnitude, float64(sampleRate), percent, energy)
}

func rolloff(magnitude []float64, sampleRate, percent, totalEnergy float64) float64 {
	n := len(magnitude)
	if n == 0 || totalEnergy == 0 {
		return 0
	}
	threshold := percent * totalEnergy
	cumEnergy := 0.0
	for i, v := range magnitude {
		cumEnergy += v * v
		if cumEnergy >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}

// Mean averages descriptors field by field. It returns zero Stats for no
// input.
func Mean(all []Stats) Stats {
	if len(all) == 0 {
		return Stats{}
	}

	var m Stats
	for _, s := range all {
		m.Centroid += s.Centroid
		m.Spread += s.Spread
		m.Flatness += s.Flatness
		m.Rolloff += s.Rolloff
		m.PeakHz += s.PeakHz
	}

	n := float64(len(all))
	m.Centroid /= n
	m.Spread /= n
	m.Flatness /= n
	m.Rolloff /= n
	m.PeakHz /= n

	return m
}
