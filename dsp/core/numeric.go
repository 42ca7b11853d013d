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

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// Binomial returns the binomial coefficient C(n, k).
//
// The value is accumulated as a falling product in float64 and truncated,
// which stays exact for the small degrees used in polynomial expansion and
// avoids the factorial overflow of the textbook formula. Out-of-range k
// yields 0.
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}

	ret := 1.0
	for i := 1; i <= k; i++ {
		// Multiply before dividing: every partial product is an integer.
		ret = ret * float64(n+1-i) / float64(i)
	}

	return int(ret)
}
