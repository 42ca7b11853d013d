package lti

import "github.com/cwbudde/algo-lti/dsp/core"

// Poly holds real polynomial coefficients, highest degree first:
// Poly{a, b, c} is a*x^2 + b*x + c.
type Poly []float64

// Degree returns the polynomial degree, ignoring leading zeros. The zero
// polynomial has degree -1.
func (p Poly) Degree() int {
	for i, c := range p {
		if c != 0 {
			return len(p) - 1 - i
		}
	}

	return -1
}

// Eval evaluates p at x with Horner's scheme.
func (p Poly) Eval(x float64) float64 {
	var y float64
	for _, c := range p {
		y = y*x + c
	}

	return y
}

// EvalComplex evaluates p at the complex point x.
func (p Poly) EvalComplex(x complex128) complex128 {
	var y complex128
	for _, c := range p {
		y = y*x + complex(c, 0)
	}

	return y
}

// Mul returns the product p*q.
func (p Poly) Mul(q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return nil
	}

	out := make(Poly, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}

		for j, b := range q {
			out[i+j] += a * b
		}
	}

	return out
}

// Clone returns an independent copy of p.
func (p Poly) Clone() Poly {
	if p == nil {
		return nil
	}

	out := make(Poly, len(p))
	copy(out, p)

	return out
}

// trim drops leading zero coefficients.
func (p Poly) trim() Poly {
	for i, c := range p {
		if c != 0 {
			return p[i:]
		}
	}

	return p[:0]
}

// padTo left-pads p with zeros to length n. p must not be longer than n.
func (p Poly) padTo(n int) Poly {
	out := make(Poly, n)
	copy(out[n-len(p):], p)

	return out
}

// linear is the first-order polynomial c1*z + c0.
type linear struct {
	c1, c0 float64
}

// pow expands (c1*z + c0)^n with the binomial theorem. The result has
// length n+1, highest degree first.
func (l linear) pow(n int) Poly {
	out := make(Poly, n+1)
	for j := 0; j <= n; j++ {
		// coefficient of z^j
		out[n-j] = float64(core.Binomial(n, j)) * ipow(l.c1, j) * ipow(l.c0, n-j)
	}

	return out
}

// ipow returns x^n for n >= 0 by repeated multiplication, so that 0^0 == 1
// and small integer powers stay exact.
func ipow(x float64, n int) float64 {
	r := 1.0
	for ; n > 0; n-- {
		r *= x
	}

	return r
}
