package lti_test

import (
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/filter/lti"
)

func ExampleDiscretize() {
	// 1/(s+1) sampled every 0.5 s.
	tf, err := lti.NewTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		panic(err)
	}

	for _, m := range lti.Methods {
		c, err := lti.Discretize(tf, m, 0.5, 0)
		if err != nil {
			panic(err)
		}

		fmt.Printf("%-14s B=%.4f A=%.4f\n", m, c.B, c.A)
	}
	// Output:
	// tustin         B=[0.2000 0.2000] A=[1.0000 -0.6000]
	// forward-euler  B=[0.0000 0.5000] A=[1.0000 -0.5000]
	// backward-euler B=[0.3333 0.0000] A=[1.0000 -0.6667]
}

func ExampleSystem_Update() {
	s, err := lti.NewFromTransferFunction([]float64{1}, []float64{1, 1}, 0.5)
	if err != nil {
		panic(err)
	}

	if err := s.Discretize(); err != nil {
		panic(err)
	}

	for k := 1; k <= 5; k++ {
		y, err := s.Update([]float64{1}, lti.Time(k)*500*lti.Millisecond)
		if err != nil {
			panic(err)
		}

		fmt.Printf("t=%v y=%.4f\n", lti.Time(k)*500*lti.Millisecond, y[0])
	}
	// Output:
	// t=500ms y=0.2000
	// t=1s y=0.5200
	// t=1.5s y=0.7120
	// t=2s y=0.8272
	// t=2.5s y=0.8963
}

func ExampleSystem_SetInitialOutputDerivatives() {
	// Two channels of 1/(s+1)^2, one starting at rest, one at 0.5.
	s, err := lti.NewFromTransferFunction([]float64{1}, []float64{1, 2, 1}, 0.1,
		lti.WithMethod(lti.BackwardEuler), lti.WithChannels(2))
	if err != nil {
		panic(err)
	}

	if err := s.SetInitialOutputDerivatives([][]float64{{0, 0}, {0.5, 0}}); err != nil {
		panic(err)
	}

	if err := s.Discretize(); err != nil {
		panic(err)
	}

	fmt.Printf("%.4f\n", s.Output())

	y, err := s.Update([]float64{1, 1.5}, 500*lti.Millisecond)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.4f\n", y)
	// Output:
	// [0.0000 0.5000]
	// [0.0968 0.5968]
}
