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

// NearlyEqual reports whether a and b are equal within eps, absolutely or
// relative to the larger magnitude.
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

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FirstNonFinite returns the index of the first NaN or ±Inf in xs, or -1.
func FirstNonFinite(xs []float64) int {
	for i, v := range xs {
		if !IsFinite(v) {
			return i
		}
	}

	return -1
}

// MaxAbs returns the largest absolute value in xs, 0 for an empty slice.
func MaxAbs(xs []float64) float64 {
	peak := 0.0
	for _, v := range xs {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}
