package lti

import (
	"flag"
	"math"
	"os"
	"slices"
	"testing"

	"github.com/cwbudde/algo-lti/internal/refvec"
	"github.com/cwbudde/algo-lti/internal/testutil"
	"gopkg.in/yaml.v3"
)

var updateFixtures = flag.Bool("update", false, "regenerate testdata/linear_system.yml")

const referencePath = "testdata/linear_system.yml"

const referenceHeader = `# Reference responses of continuous transfer functions discretized with
# Tustin (optionally prewarped), forward Euler and backward Euler.
#
# Generated by TestReferenceFixture; rerun it with -update after changing
# referenceCases. Do not edit by hand.
`

// referenceCases are the parameters of each fixture record. Inputs and
// outputs are derived from them.
var referenceCases = []refvec.Record{
	{N: 8, Order: 1, Ts: 0.5, Num: []float64{0, 1}, Den: []float64{1, 1}, YDY0: []float64{0}},
	{N: 8, Order: 2, Ts: 0.5, Num: []float64{0, 0, 1}, Den: []float64{1, 2, 1}, YDY0: []float64{0, 0}},
	{
		N: 40, Order: 2, Ts: 0.01, Omega: 6.28318531,
		Num: []float64{0, 0, 39.4784176}, Den: []float64{1, 8.79645943, 39.4784176},
		YDY0: []float64{0.25, -1},
	},
	{N: 30, Order: 2, Ts: 0.02, Num: []float64{0.5, 0, 2}, Den: []float64{1, 3, 2}, YDY0: []float64{1, 0.5}},
	{
		N: 30, Order: 3, Ts: 0.05, Omega: 2,
		Num: []float64{0, 1, 0.5, 3}, Den: []float64{1, 4, 6, 4},
		YDY0: []float64{0.1, 0.2, -0.3},
	},
}

// TestReferenceFixture recomputes every fixture record with a direct
// scalar difference equation, built by polynomial convolution and the
// Newton backward-difference formula, and compares it with the file.
func TestReferenceFixture(t *testing.T) {
	generated := make([]refvec.Record, len(referenceCases))
	for i, c := range referenceCases {
		generated[i] = referenceRecord(c)
	}

	if *updateFixtures {
		writeReference(t, generated)
	}

	recs, err := refvec.Load(referencePath)
	if err != nil {
		t.Fatal(err)
	}

	if len(recs) != len(generated) {
		t.Fatalf("fixture has %d records, want %d", len(recs), len(generated))
	}

	for i, want := range generated {
		got := recs[i]
		if got.N != want.N || got.Order != want.Order || got.Ts != want.Ts || got.Omega != want.Omega ||
			!slices.Equal(got.Num, want.Num) || !slices.Equal(got.Den, want.Den) ||
			!slices.Equal(got.YDY0, want.YDY0) {
			t.Errorf("record %d: parameters differ from referenceCases", i)
			continue
		}

		for name, pair := range map[string][2][]float64{
			"u":        {got.U, want.U},
			"y_tustin": {got.Tustin, want.Tustin},
			"y_fwd":    {got.Forward, want.Forward},
			"y_bwd":    {got.Back, want.Back},
		} {
			if d, _ := testutil.MaxAbsDiff(pair[0], pair[1]); d > 1e-9 {
				t.Errorf("record %d %s: deviation %v", i, name, d)
			}
		}
	}
}

func writeReference(t *testing.T, recs []refvec.Record) {
	t.Helper()

	var node yaml.Node
	if err := node.Encode(recs); err != nil {
		t.Fatal(err)
	}

	flowLeaves(&node)

	body, err := yaml.Marshal(&node)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(referencePath, append([]byte(referenceHeader), body...), 0o644); err != nil {
		t.Fatal(err)
	}
}

// flowLeaves prints sequences of scalars on one line.
func flowLeaves(n *yaml.Node) {
	if n.Kind == yaml.SequenceNode && len(n.Content) > 0 && n.Content[0].Kind == yaml.ScalarNode {
		n.Style = yaml.FlowStyle
	}

	for _, c := range n.Content {
		flowLeaves(c)
	}
}

func referenceRecord(c refvec.Record) refvec.Record {
	r := c
	r.U = testutil.SineStep(c.N)

	// One channel per record; YDY0 is y, y^(1), ... at the start time.
	hist := referenceHistory(c.YDY0, c.Ts)

	out := map[Method][]float64{}
	for _, m := range Methods {
		k, q := referenceSubstitution(m, c.Ts, c.Omega)
		b := expandReference(c.Num, c.Order, k, q)
		a := expandReference(c.Den, c.Order, k, q)
		out[m] = differenceEquation(b, a, r.U, hist)
	}

	r.Tustin = out[Tustin]
	r.Forward = out[ForwardEuler]
	r.Back = out[BackwardEuler]

	return r
}

// referenceSubstitution returns s = k*(1 - z^-1)/q(z^-1), q ascending in
// powers of z^-1.
func referenceSubstitution(m Method, ts, omega float64) (float64, []float64) {
	switch m {
	case ForwardEuler:
		return 1 / ts, []float64{0, 1}
	case BackwardEuler:
		return 1 / ts, []float64{1}
	}

	if omega > 0 {
		return omega / math.Tan(omega*ts/2), []float64{1, 1}
	}

	return 2 / ts, []float64{1, 1}
}

// expandReference multiplies poly(s), highest degree first, through by
// q^n and returns the result ascending in powers of z^-1.
func expandReference(poly []float64, n int, k float64, q []float64) []float64 {
	padded := make([]float64, n+1)
	copy(padded[n+1-len(poly):], poly)

	out := make([]float64, n+1)
	for idx, c := range padded {
		i := n - idx

		term := []float64{c * math.Pow(k, float64(i))}
		for range i {
			term = convolve(term, []float64{1, -1})
		}

		for range n - i {
			term = convolve(term, q)
		}

		for m, v := range term {
			out[m] += v
		}
	}

	return out
}

func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}

	return out
}

// referenceHistory returns y[0], y[-1], ... whose backward differences
// scaled by Ts^-m are the derivatives d, by stepping the difference table
// back one sample at a time.
func referenceHistory(d []float64, ts float64) []float64 {
	diffs := make([]float64, len(d)+1)
	for m, v := range d {
		diffs[m] = v * math.Pow(ts, float64(m))
	}

	hist := make([]float64, len(d))
	for j := range hist {
		hist[j] = diffs[0]
		for m := 0; m < len(d); m++ {
			diffs[m] -= diffs[m+1]
		}
	}

	return hist
}

// differenceEquation runs a0*y[k] = sum b[i]*u[k-i] - sum a[i]*y[k-i] with
// u[k] = u[0] and y[-1-j] = hist[j] before the start.
func differenceEquation(b, a, u, hist []float64) []float64 {
	n := len(a) - 1

	x := make([]float64, n+len(u))
	y := make([]float64, n+len(u))
	for j := range n {
		x[n-1-j] = u[0]
		y[n-1-j] = hist[j]
	}

	copy(x[n:], u)

	for k := n; k < len(y); k++ {
		v := 0.0
		for i := 0; i <= n; i++ {
			v += b[i] * x[k-i]
		}

		for i := 1; i <= n; i++ {
			v -= a[i] * y[k-i]
		}

		y[k] = v / a[0]
	}

	return y[n:]
}
