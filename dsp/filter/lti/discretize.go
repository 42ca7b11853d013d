package lti

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lti/dsp/core"
)

// TransferFunction is a proper rational transfer function Num(s)/Den(s) of a
// single-input single-output continuous-time system.
//
// Values built by [NewTransferFunction] have a non-zero leading denominator
// coefficient and a numerator padded to the denominator length.
type TransferFunction struct {
	Num Poly
	Den Poly
}

// NewTransferFunction validates and normalises num/den. Leading zeros are
// stripped from the denominator, the numerator is left-padded with zeros to
// the denominator length.
func NewTransferFunction(num, den []float64) (TransferFunction, error) {
	for _, c := range num {
		if !core.IsFinite(c) {
			return TransferFunction{}, fmt.Errorf("lti: numerator coefficient %v: %w", c, ErrInvalidParameter)
		}
	}

	for _, c := range den {
		if !core.IsFinite(c) {
			return TransferFunction{}, fmt.Errorf("lti: denominator coefficient %v: %w", c, ErrInvalidParameter)
		}
	}

	d := Poly(den).trim()
	if len(d) == 0 {
		return TransferFunction{}, fmt.Errorf("lti: zero denominator: %w", ErrInvalidParameter)
	}

	n := Poly(num).trim()
	if len(n) > len(d) {
		return TransferFunction{}, fmt.Errorf("lti: numerator degree %d > denominator degree %d: %w",
			len(n)-1, len(d)-1, ErrImproper)
	}

	return TransferFunction{
		Num: n.padTo(len(d)),
		Den: d.Clone(),
	}, nil
}

// Order returns the denominator degree.
func (tf TransferFunction) Order() int {
	return len(tf.Den) - 1
}

// Response evaluates H(jw) at angular frequency w (rad/s).
func (tf TransferFunction) Response(w float64) complex128 {
	s := complex(0, w)
	return tf.Num.EvalComplex(s) / tf.Den.EvalComplex(s)
}

// Clone returns a deep copy of tf.
func (tf TransferFunction) Clone() TransferFunction {
	return TransferFunction{Num: tf.Num.Clone(), Den: tf.Den.Clone()}
}

// Coefficients are the discrete-time filter polynomials in powers of z^-1,
// normalised so that A[0] == 1:
//
//	y[k] = B[0]*u[k] + ... + B[n]*u[k-n] - A[1]*y[k-1] - ... - A[n]*y[k-n]
type Coefficients struct {
	B []float64 // feedforward (numerator)
	A []float64 // feedback (denominator), A[0] == 1
}

// Order returns the recursion order n.
func (c Coefficients) Order() int {
	return len(c.A) - 1
}

// Clone returns a deep copy of c.
func (c Coefficients) Clone() Coefficients {
	return Coefficients{
		B: Poly(c.B).Clone(),
		A: Poly(c.A).Clone(),
	}
}

// substitution describes s = k * P(z) / Q(z) with linear P and Q.
type substitution struct {
	k    float64
	p, q linear
}

func newSubstitution(m Method, ts, prewarp float64) (substitution, error) {
	switch m {
	case Tustin:
		k := 2 / ts
		if prewarp > 0 {
			half := prewarp * ts / 2
			if half >= math.Pi/2 {
				return substitution{}, fmt.Errorf("lti: prewarp frequency %v rad/s at or above Nyquist for Ts=%v: %w",
					prewarp, ts, ErrDegenerate)
			}

			tan := math.Tan(half)
			if tan <= 0 || !core.IsFinite(tan) {
				return substitution{}, fmt.Errorf("lti: tan(%v) unusable for prewarping: %w", half, ErrDegenerate)
			}

			k = prewarp / tan
		}

		return substitution{k: k, p: linear{1, -1}, q: linear{1, 1}}, nil
	case ForwardEuler:
		return substitution{k: 1 / ts, p: linear{1, -1}, q: linear{0, 1}}, nil
	case BackwardEuler:
		return substitution{k: 1 / ts, p: linear{1, -1}, q: linear{1, 0}}, nil
	}

	return substitution{}, fmt.Errorf("lti: %v: %w", m, ErrInvalidParameter)
}

// apply maps a polynomial in s of length n+1 onto a polynomial in z of the
// same length after multiplying through by Q(z)^n:
//
//	sum_i c_i s^i  ->  sum_i c_i k^i P(z)^i Q(z)^(n-i)
func (sub substitution) apply(p Poly, n int) Poly {
	out := make(Poly, n+1)
	for idx, c := range p {
		if c == 0 {
			continue
		}

		i := len(p) - 1 - idx
		term := sub.p.pow(i).Mul(sub.q.pow(n - i))
		scale := c * ipow(sub.k, i)
		for m, v := range term {
			out[m] += scale * v
		}
	}

	return out
}

// Discretize converts tf into discrete coefficients with the given method
// and sampling period ts (seconds). prewarp (rad/s) is only used by Tustin;
// zero disables prewarping.
//
// The result has the same order as tf. Calling Discretize twice with the
// same arguments yields identical coefficients.
func Discretize(tf TransferFunction, m Method, ts, prewarp float64) (Coefficients, error) {
	if len(tf.Den) == 0 {
		return Coefficients{}, ErrNotConfigured
	}

	if len(tf.Num) != len(tf.Den) {
		return Coefficients{}, fmt.Errorf("lti: numerator length %d, denominator length %d: %w",
			len(tf.Num), len(tf.Den), ErrDimension)
	}

	if ts <= 0 || !core.IsFinite(ts) {
		return Coefficients{}, fmt.Errorf("lti: sampling period %v: %w", ts, ErrInvalidParameter)
	}

	if prewarp < 0 || !core.IsFinite(prewarp) {
		return Coefficients{}, fmt.Errorf("lti: prewarp frequency %v: %w", prewarp, ErrInvalidParameter)
	}

	sub, err := newSubstitution(m, ts, prewarp)
	if err != nil {
		return Coefficients{}, err
	}

	n := tf.Order()
	b := sub.apply(tf.Num, n)
	a := sub.apply(tf.Den, n)

	a0 := a[0]
	if a0 == 0 || !core.IsFinite(a0) {
		return Coefficients{}, fmt.Errorf("lti: leading denominator coefficient %v after %v substitution: %w",
			a0, m, ErrDegenerate)
	}

	for i := range a {
		b[i] /= a0
		a[i] /= a0

		if !core.IsFinite(b[i]) || !core.IsFinite(a[i]) {
			return Coefficients{}, fmt.Errorf("lti: non-finite coefficient after %v substitution: %w", m, ErrDegenerate)
		}
	}

	a[0] = 1

	return Coefficients{B: b, A: a}, nil
}
