package mel

import (
	"math"

	"github.com/adwait1544/echo-guard/dsp/core"
)

const (
	// DefaultFilters is the default number of mel bands.
	DefaultFilters = 26

	// EnergyFloor is added to every band sum before taking the log.
	EnergyFloor = 1e-10
)

// LogFloor is the smallest value a band energy can take.
var LogFloor = math.Log(EnergyFloor)

// HzToMel converts frequency in Hz to mel scale.
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale frequency back to Hz.
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// Filterbank maps spectra of a fixed length and sample rate onto mel bands.
// It is immutable after construction and safe for concurrent use.
type Filterbank struct {
	bins       int
	sampleRate int
	start      []int // first bin of each band
	end        []int // last bin of each band, < start when the band is empty
}

// NewFilterbank builds a filterbank for spectra of length bins taken from
// audio at sampleRate, with the given number of bands.
func NewFilterbank(bins, sampleRate, filters int) (*Filterbank, error) {
	if bins <= 0 {
		return nil, core.Invalidf("mel spectrum length must be > 0: %d", bins)
	}

	if sampleRate <= 0 {
		return nil, core.Invalidf("mel sample rate must be > 0: %d", sampleRate)
	}

	if filters <= 0 {
		return nil, core.Invalidf("mel filter count must be > 0: %d", filters)
	}

	binMels := make([]float64, bins)
	for j := range binMels {
		freq := float64(j) * float64(sampleRate) / (2 * float64(bins))
		binMels[j] = HzToMel(freq)
	}

	fb := fromBinMels(binMels, filters, HzToMel(float64(sampleRate)/2))
	fb.sampleRate = sampleRate

	return fb, nil
}

// fromBinMels assigns bins to bands given each bin's mel value. binMels must
// be non-decreasing.
func fromBinMels(binMels []float64, filters int, melMax float64) *Filterbank {
	fb := &Filterbank{
		bins:  len(binMels),
		start: make([]int, filters),
		end:   make([]int, filters),
	}

	width := melMax / float64(filters)
	first := 0
	for b := range filters {
		lo := float64(b) * width
		hi := float64(b+1) * width

		for first < len(binMels) && binMels[first] < lo {
			first++
		}

		last := first - 1
		for last+1 < len(binMels) && binMels[last+1] <= hi {
			last++
		}

		fb.start[b] = first
		fb.end[b] = last
	}

	return fb
}

// Bins returns the spectrum length the filterbank accepts.
func (fb *Filterbank) Bins() int { return fb.bins }

// Filters returns the number of bands.
func (fb *Filterbank) Filters() int { return len(fb.start) }

// SampleRate returns the sample rate the band edges were computed for.
func (fb *Filterbank) SampleRate() int { return fb.sampleRate }

// Band returns the inclusive bin range of band b. The range is empty when
// last < first.
func (fb *Filterbank) Band(b int) (first, last int) {
	return fb.start[b], fb.end[b]
}

// Apply writes log(sum + 1e-10) of each band of spectrum into dst.
func (fb *Filterbank) Apply(dst, spectrum []float64) error {
	if len(spectrum) != fb.bins {
		return core.Invalidf("mel spectrum length %d, want %d", len(spectrum), fb.bins)
	}

	if len(dst) != len(fb.start) {
		return core.Invalidf("mel dst length %d, want %d", len(dst), len(fb.start))
	}

	for b := range dst {
		sum := 0.0
		for j := fb.start[b]; j <= fb.end[b]; j++ {
			sum += spectrum[j]
		}
		dst[b] = core.FlooredLog(sum, EnergyFloor)
	}

	return nil
}

// Energies is the allocating form of Apply.
func (fb *Filterbank) Energies(spectrum []float64) ([]float64, error) {
	out := make([]float64, len(fb.start))
	if err := fb.Apply(out, spectrum); err != nil {
		return nil, err
	}
	return out, nil
}
