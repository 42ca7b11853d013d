package lti

import (
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/core"
	"gonum.org/v1/gonum/mat"
)

// differenceMatrix returns the order x order matrix D whose row j applies
// the j-th backward difference to an output history h, where h[m] = y[-m]:
//
//	(D h)[j] = sum_m (-1)^m C(j, m) h[m] = nabla^j y[0]
//
// D is lower triangular with a +-1 diagonal and therefore invertible.
func differenceMatrix(order int) *mat.Dense {
	d := mat.NewDense(order, order, nil)
	for j := 0; j < order; j++ {
		sign := 1.0
		for m := 0; m <= j; m++ {
			d.Set(j, m, sign*float64(core.Binomial(j, m)))
			sign = -sign
		}
	}

	return d
}

// historyFromDerivatives synthesizes per-channel output histories (row per
// channel, most recent first) from output derivatives at t0 (row per
// channel: y, y^(1), y^(2), ...).
//
// The history is the one whose backward differences, scaled by Ts^-j,
// equal the given derivatives exactly. h[0] is y(t0) itself.
func historyFromDerivatives(derivs [][]float64, ts float64) ([][]float64, error) {
	channels := len(derivs)
	if channels == 0 || len(derivs[0]) == 0 {
		return nil, nil
	}

	order := len(derivs[0])

	rhs := mat.NewDense(order, channels, nil)
	for ch, row := range derivs {
		scale := 1.0
		for j, v := range row {
			rhs.Set(j, ch, scale*v)
			scale *= ts
		}
	}

	var h mat.Dense
	if err := h.Solve(differenceMatrix(order), rhs); err != nil {
		return nil, fmt.Errorf("lti: initial condition synthesis: %w", err)
	}

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = mat.Col(nil, ch, &h)
	}

	return out, nil
}

// derivativesFromHistory is the inverse of historyFromDerivatives: it
// estimates y, y^(1), ... from lag-major output history rows.
func derivativesFromHistory(rows [][]float64, channels int, ts float64) [][]float64 {
	out := make([][]float64, channels)

	order := len(rows)
	if order == 0 {
		for ch := range out {
			out[ch] = []float64{}
		}

		return out
	}

	hist := mat.NewDense(order, channels, nil)
	for m, row := range rows {
		hist.SetRow(m, row)
	}

	var diffs mat.Dense
	diffs.Mul(differenceMatrix(order), hist)

	for ch := range out {
		out[ch] = mat.Col(nil, ch, &diffs)

		scale := 1.0
		for j := range out[ch] {
			out[ch][j] /= scale
			scale *= ts
		}
	}

	return out
}
