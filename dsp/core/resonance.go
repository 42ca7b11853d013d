package core

import "math"

// ResonantToCutoff converts the undamped natural frequency w of a
// second-order low-pass
//
//	H(s) = w^2 / (s^2 + 2*damping*w*s + w^2)
//
// into the frequency at which its magnitude response has dropped by 3 dB.
// The unit of the result follows the unit of w (rad/s or Hz).
//
// Inputs must be real and non-negative; otherwise the result is NaN.
func ResonantToCutoff(w, damping float64) float64 {
	if damping < 0 {
		return math.NaN()
	}

	return resonanceSolve(w, 2*damping*damping-1)
}

// CutoffToResonant is the inverse of [ResonantToCutoff]: it returns the
// natural frequency of the second-order low-pass whose -3 dB point is w.
func CutoffToResonant(w, damping float64) float64 {
	if damping < 0 {
		return math.NaN()
	}

	return resonanceSolve(w, 1-2*damping*damping)
}

// resonanceSolve returns sqrt(-b/2 + sqrt(b^2/4 + w^4)) with b = 2*w^2*c.
func resonanceSolve(w, c float64) float64 {
	if w < 0 || math.IsNaN(w) {
		return math.NaN()
	}

	w2 := w * w
	b := 2 * w2 * c

	return math.Sqrt(-b/2 + math.Sqrt(b*b/4+w2*w2))
}
