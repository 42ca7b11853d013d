package testutil

import (
	"math"
	"math/rand"
)

// SineStep returns the excitation used by the reference vectors:
// u[k] = sin(0.7k), plus a unit step from k = length/3 on.
func SineStep(length int) []float64 {
	out := make([]float64, length)
	for k := range out {
		out[k] = math.Sin(0.7 * float64(k))
		if k >= length/3 {
			out[k]++
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// SecondOrder is the underdamped system wn^2 / (s^2 + 2*zeta*wn*s + wn^2).
type SecondOrder struct {
	Wn   float64 // undamped natural frequency, rad/s
	Zeta float64 // damping ratio, 0 < Zeta < 1
}

// Num returns the transfer function numerator, highest degree first.
func (p SecondOrder) Num() []float64 { return []float64{0, 0, p.Wn * p.Wn} }

// Den returns the transfer function denominator, highest degree first.
func (p SecondOrder) Den() []float64 { return []float64{1, 2 * p.Zeta * p.Wn, p.Wn * p.Wn} }

func (p SecondOrder) damped() float64 { return p.Wn * math.Sqrt(1-p.Zeta*p.Zeta) }

// Step returns the unit step response at time t (seconds) from rest.
func (p SecondOrder) Step(t float64) float64 {
	wd := p.damped()
	k := p.Zeta / math.Sqrt(1-p.Zeta*p.Zeta)
	return 1 - math.Exp(-p.Zeta*p.Wn*t)*(math.Cos(wd*t)+k*math.Sin(wd*t))
}

// StepSlope returns the time derivative of the step response at t.
func (p SecondOrder) StepSlope(t float64) float64 {
	wd := p.damped()
	return p.Wn * p.Wn / wd * math.Exp(-p.Zeta*p.Wn*t) * math.Sin(wd*t)
}

// MaxSlope returns the largest step response slope, reached at the first
// zero crossing of the second derivative.
func (p SecondOrder) MaxSlope() float64 {
	wd := p.damped()
	return p.StepSlope(math.Atan2(wd, p.Zeta*p.Wn) / wd)
}

// Peak returns the time and value of the first step response maximum.
func (p SecondOrder) Peak() (t, y float64) {
	t = math.Pi / p.damped()
	return t, 1 + math.Exp(-p.Zeta*math.Pi/math.Sqrt(1-p.Zeta*p.Zeta))
}
