package lti

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Response computes the discrete frequency response H(e^jwTs) at angular
// frequency w (rad/s) for sampling period ts (seconds).
func (c Coefficients) Response(w, ts float64) complex128 {
	zInv := cmplx.Exp(complex(0, -w*ts))

	// Horner in z^-1, lowest power last.
	var num, den complex128
	for i := len(c.B) - 1; i >= 0; i-- {
		num = num*zInv + complex(c.B[i], 0)
	}

	for i := len(c.A) - 1; i >= 0; i-- {
		den = den*zInv + complex(c.A[i], 0)
	}

	return num / den
}

// MagnitudeDB returns 20*log10(|H|) at angular frequency w (rad/s).
func (c Coefficients) MagnitudeDB(w, ts float64) float64 {
	return core.LinearToDB(cmplx.Abs(c.Response(w, ts)))
}

// Phase returns the phase response in radians, wrapped to (-pi, pi].
func (c Coefficients) Phase(w, ts float64) float64 {
	return core.WrapPi(cmplx.Phase(c.Response(w, ts)))
}

// ImpulseResponse returns the first n samples of the response to a unit
// impulse from rest.
func (c Coefficients) ImpulseResponse(n int) []float64 {
	return c.run(n, func(k int) float64 {
		if k == 0 {
			return 1
		}

		return 0
	})
}

// StepResponse returns the first n samples of the response to a unit step
// from rest.
func (c Coefficients) StepResponse(n int) []float64 {
	return c.run(n, func(int) float64 { return 1 })
}

// run evaluates the recursion from rest for input x(k). Histories are kept
// newest first so each output is two dot products.
func (c Coefficients) run(n int, x func(k int) float64) []float64 {
	if n <= 0 || len(c.A) == 0 || len(c.B) != len(c.A) {
		return nil
	}

	order := c.Order()
	u := make([]float64, order+1) // u[k], u[k-1], ...
	y := make([]float64, order)   // y[k-1], y[k-2], ...
	out := make([]float64, n)

	for k := range out {
		copy(u[1:], u[:order])
		u[0] = x(k)

		v := vecmath.DotProduct(c.B, u)
		if order > 0 {
			v -= vecmath.DotProduct(c.A[1:], y)
			copy(y[1:], y[:order-1])
			y[0] = v
		}

		out[k] = v
	}

	return out
}

// Spectrum returns bins 0..n/2 of the DFT of the first n impulse response
// samples. n must be a power of two.
func (c Coefficients) Spectrum(n int) ([]complex128, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("lti: spectrum size %d is not a power of two: %w", n, ErrInvalidParameter)
	}

	if len(c.A) == 0 {
		return nil, ErrNotDiscretized
	}

	ir := c.ImpulseResponse(n)

	in := make([]complex128, n)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("lti: fft plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("lti: fft: %w", err)
	}

	return out[:n/2+1], nil
}

// BinFrequency returns the angular frequency (rad/s) of spectrum bin k for
// an n-point spectrum at sampling period ts.
func BinFrequency(k, n int, ts float64) float64 {
	return 2 * math.Pi * float64(k) / (float64(n) * ts)
}
