package testutil

import (
	"math"
	"testing"
)

func TestSineStep(t *testing.T) {
	u := SineStep(9)
	if len(u) != 9 {
		t.Fatalf("len = %d, want 9", len(u))
	}
	if u[0] != 0 {
		t.Fatalf("u[0] = %v, want 0", u[0])
	}
	// Step starts at k = 3.
	if math.Abs(u[2]-math.Sin(1.4)) > 1e-15 {
		t.Fatalf("u[2] = %v, want sin(1.4)", u[2])
	}
	if math.Abs(u[3]-(math.Sin(2.1)+1)) > 1e-15 {
		t.Fatalf("u[3] = %v, want sin(2.1)+1", u[3])
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestSecondOrderStep(t *testing.T) {
	p := SecondOrder{Wn: 10, Zeta: 0.5}
	if y := p.Step(0); math.Abs(y) > 1e-15 {
		t.Fatalf("Step(0) = %v, want 0", y)
	}
	if y := p.Step(10); math.Abs(y-1) > 1e-12 {
		t.Fatalf("Step(10) = %v, want 1", y)
	}

	tp, yp := p.Peak()
	if math.Abs(p.Step(tp)-yp) > 1e-12 {
		t.Fatalf("Step(peak) = %v, want %v", p.Step(tp), yp)
	}
	if math.Abs(p.StepSlope(tp)) > 1e-12 {
		t.Fatalf("slope at peak = %v, want 0", p.StepSlope(tp))
	}
}

func TestSecondOrderSlope(t *testing.T) {
	p := SecondOrder{Wn: 8, Zeta: 0.7}
	const h = 1e-6
	for _, tm := range []float64{0.05, 0.1, 0.3, 0.7} {
		fd := (p.Step(tm+h) - p.Step(tm-h)) / (2 * h)
		if math.Abs(fd-p.StepSlope(tm)) > 1e-6 {
			t.Fatalf("t=%v: slope %v, finite difference %v", tm, p.StepSlope(tm), fd)
		}
	}

	peak := p.MaxSlope()
	for tm := 0.0; tm < 2; tm += 1e-3 {
		if p.StepSlope(tm) > peak+1e-12 {
			t.Fatalf("slope %v at t=%v exceeds MaxSlope %v", p.StepSlope(tm), tm, peak)
		}
	}
}
