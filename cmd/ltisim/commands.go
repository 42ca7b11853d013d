package main

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strconv"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/filter/lti"
	"github.com/cwbudde/algo-lti/internal/refvec"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTable(cmd *cobra.Command) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleLight)
	return tw
}

func formatPoly(p []float64) string {
	ret := "["
	for i, v := range p {
		if i > 0 {
			ret += " "
		}
		ret += strconv.FormatFloat(v, 'g', 10, 64)
	}
	return ret + "]"
}

func doCoeffs(cmd *cobra.Command, args []string) error {
	m, err := loadModel(cmd)
	if err != nil {
		return err
	}
	tf, err := lti.NewTransferFunction(m.Num, m.Den)
	if err != nil {
		return err
	}

	tw := newTable(cmd)
	tw.AppendHeader(table.Row{"METHOD", "B", "A"})
	for _, method := range lti.Methods {
		c, err := lti.Discretize(tf, method, m.Ts, m.Prewarp)
		if err != nil {
			tw.AppendRow(table.Row{method, err.Error(), ""})
			continue
		}
		tw.AppendRow(table.Row{method, formatPoly(c.B), formatPoly(c.A)})
	}
	tw.Render()
	return nil
}

func inputSignal(kind string, freq float64) (func(t float64, k int) float64, error) {
	switch kind {
	case "step":
		return func(float64, int) float64 { return 1 }, nil
	case "impulse":
		return func(_ float64, k int) float64 {
			if k == 0 {
				return 1
			}
			return 0
		}, nil
	case "sine":
		return func(t float64, _ int) float64 { return math.Sin(freq * t) }, nil
	}
	return nil, fmt.Errorf("unknown input %q", kind)
}

func doSimulate(cmd *cobra.Command, args []string) error {
	m, err := loadModel(cmd)
	if err != nil {
		return err
	}
	s, err := m.build(cmd)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("input")
	freq, _ := cmd.Flags().GetFloat64("freq")
	samples, _ := cmd.Flags().GetInt("samples")
	interval, _ := cmd.Flags().GetDuration("interval")
	stallAt, _ := cmd.Flags().GetInt("stall-at")
	stall, _ := cmd.Flags().GetDuration("stall")

	signal, err := inputSignal(kind, freq)
	if err != nil {
		return err
	}

	step := s.SamplingTime()
	if interval > 0 {
		step = lti.TimeFromDuration(interval)
	}

	tw := newTable(cmd)
	header := table.Row{"K", "T", "U"}
	for ch := 0; ch < s.Channels(); ch++ {
		header = append(header, fmt.Sprintf("Y%d", ch))
	}
	tw.AppendHeader(append(header, "STALE"))

	u := make([]float64, s.Channels())
	now := s.LastUpdate()
	for k := 0; k < samples; k++ {
		now += step
		if k == stallAt {
			now += lti.TimeFromDuration(stall)
		}

		v := signal(now.Seconds(), k)
		for ch := range u {
			u[ch] = v
		}

		y, err := s.Update(u, now)
		if err != nil {
			return err
		}

		row := table.Row{k, now, fmt.Sprintf("%.4f", v)}
		for _, out := range y {
			row = append(row, fmt.Sprintf("%.6f", out))
		}
		stale := ""
		if s.Stale() {
			stale = "yes"
		}
		tw.AppendRow(append(row, stale))
	}
	tw.Render()

	if n := s.StaleCount(); n > 0 {
		cmd.Printf("%d stale update(s)\n", n)
	}
	return nil
}

func doResponse(cmd *cobra.Command, args []string) error {
	m, err := loadModel(cmd)
	if err != nil {
		return err
	}
	tf, err := lti.NewTransferFunction(m.Num, m.Den)
	if err != nil {
		return err
	}
	c, err := lti.Discretize(tf, m.Method, m.Ts, m.Prewarp)
	if err != nil {
		return err
	}

	points, _ := cmd.Flags().GetInt("points")
	wmin, _ := cmd.Flags().GetFloat64("wmin")
	fftSize, _ := cmd.Flags().GetInt("fft")

	var (
		freqs    []float64
		discrete []complex128
	)
	if fftSize > 0 {
		discrete, err = c.Spectrum(fftSize)
		if err != nil {
			return err
		}
		for k := range discrete {
			freqs = append(freqs, lti.BinFrequency(k, fftSize, m.Ts))
		}
	} else {
		if points < 2 || wmin <= 0 {
			return errors.New("need --points >= 2 and --wmin > 0")
		}
		nyquist := math.Pi / m.Ts
		for i := 0; i < points; i++ {
			w := wmin * math.Pow(nyquist/wmin, float64(i)/float64(points-1))
			freqs = append(freqs, w)
			discrete = append(discrete, c.Response(w, m.Ts))
		}
	}

	phases := make([]float64, len(discrete))
	for i, hd := range discrete {
		phases[i] = cmplx.Phase(hd)
	}
	core.WrapPiSlice(phases)

	tw := newTable(cmd)
	tw.AppendHeader(table.Row{"W (RAD/S)", "|H(S)| DB", "ARG H(S)", "|H(Z)| DB", "ARG H(Z)"})
	for i, w := range freqs {
		hc := tf.Response(w)
		tw.AppendRow(table.Row{
			fmt.Sprintf("%.4g", w),
			fmt.Sprintf("%.2f", core.LinearToDB(cmplx.Abs(hc))),
			fmt.Sprintf("%.4f", cmplx.Phase(hc)),
			fmt.Sprintf("%.2f", core.LinearToDB(cmplx.Abs(discrete[i]))),
			fmt.Sprintf("%.4f", phases[i]),
		})
	}
	tw.Render()
	return nil
}

var errVerifyFailed = errors.New("reference deviation above tolerance")

func doVerify(cmd *cobra.Command, args []string) error {
	tol, _ := cmd.Flags().GetFloat64("tol")

	recs, err := refvec.Load(args[0])
	if err != nil {
		return err
	}

	tw := newTable(cmd)
	tw.AppendHeader(table.Row{"RECORD", "ORDER", "TS", "METHOD", "MAX DEVIATION", "RESULT"})

	failed := 0
	for i, rec := range recs {
		expected := map[lti.Method][]float64{
			lti.Tustin:        rec.Tustin,
			lti.ForwardEuler:  rec.Forward,
			lti.BackwardEuler: rec.Back,
		}
		for _, method := range lti.Methods {
			dev, err := replay(&rec, method, expected[method])
			result := "ok"
			switch {
			case err != nil:
				result = err.Error()
				failed++
			case dev > tol:
				result = "FAIL"
				failed++
			}
			tw.AppendRow(table.Row{i, rec.Order, rec.Ts, method, fmt.Sprintf("%.3g", dev), result})
		}
	}
	tw.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d runs: %w", failed, len(recs)*len(lti.Methods), errVerifyFailed)
	}
	return nil
}

// replay runs rec through method with the input history filled with the
// first input and updates on the sampling grid.
func replay(rec *refvec.Record, method lti.Method, want []float64) (float64, error) {
	s, err := lti.NewFromTransferFunction(rec.Num, rec.Den, rec.Ts,
		lti.WithMethod(method), lti.WithPrewarp(rec.Omega), lti.WithChannels(rec.Channels()))
	if err != nil {
		return 0, err
	}
	if err := s.SetInitialOutputDerivatives(rec.InitialDerivatives()); err != nil {
		return 0, err
	}
	inputs := make([][]float64, rec.Channels())
	for ch := range inputs {
		inputs[ch] = make([]float64, rec.Order)
		core.Fill(inputs[ch], rec.U[0])
	}
	if err := s.SetInitialInputs(inputs); err != nil {
		return 0, err
	}
	if err := s.Discretize(); err != nil {
		return 0, err
	}

	u := make([]float64, rec.Channels())
	dev := 0.0
	for k := 0; k < rec.N; k++ {
		for ch := range u {
			u[ch] = rec.U[k]
		}
		y, err := s.Update(u, lti.Time(k+1)*s.SamplingTime())
		if err != nil {
			return 0, err
		}
		dev = math.Max(dev, math.Abs(y[0]-want[k]))
	}
	return dev, nil
}
