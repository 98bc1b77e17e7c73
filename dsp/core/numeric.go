package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampUnit limits value to [0, 1]. NaN maps to 0.
func ClampUnit(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}

	return Clamp(value, 0, 1)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// AllFinite reports whether every value is neither NaN nor Inf. It returns the
// index of the first offending value, or -1.
func AllFinite(values []float64) (bool, int) {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false, i
		}
	}

	return true, -1
}

// FlooredLog returns log(x + floor). The floor keeps silent inputs finite.
func FlooredLog(x, floor float64) float64 {
	return math.Log(x + floor)
}
