package lti

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lti/internal/testutil"
	"gonum.org/v1/gonum/floats"
)

func firstOrderTustin(t *testing.T) Coefficients {
	t.Helper()
	// B = [0.2 0.2], A = [1 -0.6]
	return mustDiscretize(t, mustTF(t, []float64{1}, []float64{1, 1}), Tustin, 0.5, 0)
}

func TestImpulseResponse(t *testing.T) {
	c := firstOrderTustin(t)

	// y[0] = 0.2
	// y[1] = 0.2 + 0.6*0.2 = 0.32
	// y[k] = 0.6*y[k-1]
	want := []float64{0.2, 0.32, 0.192, 0.1152}
	testutil.RequireSliceNearlyEqual(t, c.ImpulseResponse(4), want, 1e-14)

	if got := c.ImpulseResponse(0); got != nil {
		t.Fatalf("ImpulseResponse(0) = %v, want nil", got)
	}

	if got := (Coefficients{}).ImpulseResponse(4); got != nil {
		t.Fatalf("empty coefficients: %v, want nil", got)
	}
}

func TestImpulseResponseOrderZero(t *testing.T) {
	c := Coefficients{B: []float64{1.5}, A: []float64{1}}
	testutil.RequireSliceNearlyEqual(t, c.ImpulseResponse(3), []float64{1.5, 0, 0}, 0)
	testutil.RequireSliceNearlyEqual(t, c.StepResponse(3), []float64{1.5, 1.5, 1.5}, 0)
}

func TestStepResponseIsCumulativeImpulse(t *testing.T) {
	c := mustDiscretize(t, mustTF(t, []float64{0.5, 0, 2}, []float64{1, 3, 2}), BackwardEuler, 0.02, 0)

	ir := c.ImpulseResponse(2000)
	floats.CumSum(ir, ir)

	step := c.StepResponse(2000)
	testutil.RequireSliceNearlyEqual(t, step, ir, 1e-12)

	// DC gain of the continuous system is 1.
	if math.Abs(step[len(step)-1]-1) > 1e-6 {
		t.Fatalf("final step value %v, want 1", step[len(step)-1])
	}
}

func TestStepResponseMatchesSystem(t *testing.T) {
	s := mustSystem(t, []float64{0, 1, 0.5, 3}, []float64{1, 4, 6, 4}, 0.05, WithMethod(ForwardEuler))
	if err := s.Discretize(); err != nil {
		t.Fatal(err)
	}

	want := s.Coefficients().StepResponse(40)

	got := make([]float64, len(want))
	for k := range got {
		y, err := s.Update([]float64{1}, Time(k+1)*50*Millisecond)
		if err != nil {
			t.Fatal(err)
		}

		got[k] = y[0]
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestCoefficientsResponse(t *testing.T) {
	c := firstOrderTustin(t)

	if h := c.Response(0, 0.5); cmplx.Abs(h-1) > 1e-14 {
		t.Fatalf("H(1) = %v, want 1", h)
	}

	// Nyquist maps to s = inf, the Tustin zero at z = -1.
	if h := c.Response(math.Pi/0.5, 0.5); cmplx.Abs(h) > 1e-14 {
		t.Fatalf("H(-1) = %v, want 0", h)
	}

	if db := c.MagnitudeDB(0, 0.5); math.Abs(db) > 1e-12 {
		t.Fatalf("MagnitudeDB(0) = %v, want 0", db)
	}

	ph := c.Phase(1, 0.5)
	if ph >= 0 || ph <= -math.Pi/2 {
		t.Fatalf("lowpass phase at w=1 is %v, want in (-pi/2, 0)", ph)
	}
}

func TestTransferFunctionResponse(t *testing.T) {
	tf := mustTF(t, []float64{1}, []float64{1, 1})

	if h := tf.Response(1); cmplx.Abs(h-complex(0.5, -0.5)) > 1e-15 {
		t.Fatalf("H(j) = %v, want 0.5-0.5i", h)
	}
}

func TestSpectrum(t *testing.T) {
	c := firstOrderTustin(t)

	const n = 8

	got, err := c.Spectrum(n)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != n/2+1 {
		t.Fatalf("len = %d, want %d", len(got), n/2+1)
	}

	ir := c.ImpulseResponse(n)
	for k := range got {
		var want complex128
		for m, v := range ir {
			want += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*m)/n))
		}

		if cmplx.Abs(got[k]-want) > 1e-12 {
			t.Fatalf("bin %d = %v, want %v", k, got[k], want)
		}
	}
}

func TestSpectrumApproachesResponse(t *testing.T) {
	const (
		n  = 1024
		ts = 0.5
	)

	c := firstOrderTustin(t)

	spec, err := c.Spectrum(n)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{0, 1, 17, 200, n / 2} {
		w := BinFrequency(k, n, ts)
		if d := cmplx.Abs(spec[k] - c.Response(w, ts)); d > 1e-9 {
			t.Fatalf("bin %d (w=%v): spectrum %v, response %v", k, w, spec[k], c.Response(w, ts))
		}
	}
}

func TestSpectrumErrors(t *testing.T) {
	c := firstOrderTustin(t)

	for _, n := range []int{0, 1, 6, 100} {
		if _, err := c.Spectrum(n); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Spectrum(%d): err = %v, want ErrInvalidParameter", n, err)
		}
	}

	if _, err := (Coefficients{}).Spectrum(8); !errors.Is(err, ErrNotDiscretized) {
		t.Fatalf("empty coefficients: err = %v", err)
	}
}
