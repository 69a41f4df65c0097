package core

import "math"

const defaultEpsilon = 1e-12

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

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// IsFinite32 is IsFinite for float32 values.
func IsFinite32(x float32) bool {
	return IsFinite(float64(x))
}

// IsFinitePositive reports whether x is finite and strictly greater than zero.
func IsFinitePositive(x float64) bool {
	return x > 0 && IsFinite(x)
}
