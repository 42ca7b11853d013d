package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/filter/lti"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// model is the YAML description of a system:
//
//	num: [1]
//	den: [1, 1.4, 1]
//	ts: 0.01
//	method: tustin
//	prewarp: 0
//	prewarp_cutoff: 12.5
//	damping: 0.7
//	channels: 2
//	max_gap: 500ms
//	initial:
//	  derivatives: [[0, 0], [0.5, 0]]
//	  inputs: [[0, 0], [1, 1]]
type model struct {
	Num      []float64     `yaml:"num"`
	Den      []float64     `yaml:"den"`
	Ts       float64       `yaml:"ts"`
	Method   lti.Method    `yaml:"method"`
	Prewarp  float64       `yaml:"prewarp"`
	Cutoff   float64       `yaml:"prewarp_cutoff"`
	Damping  float64       `yaml:"damping"`
	Channels int           `yaml:"channels"`
	MaxGap   time.Duration `yaml:"max_gap"`
	Initial  struct {
		Derivatives [][]float64 `yaml:"derivatives"`
		Inputs      [][]float64 `yaml:"inputs"`
	} `yaml:"initial"`
}

const defaultTs = 1.0

// parseModelFile decodes path on top of the defaults, so keys missing from
// the file keep the values the flags would give them.
func parseModelFile(path string) (*model, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ret := &model{Ts: defaultTs, Channels: 1}
	if err := yaml.Unmarshal(content, ret); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}

// loadModel reads --file, if given, and applies the explicitly set
// transfer function flags on top.
func loadModel(cmd *cobra.Command) (*model, error) {
	m := &model{Ts: defaultTs, Channels: 1}

	flags := cmd.Flags()
	if path, _ := flags.GetString("file"); path != "" {
		parsed, err := parseModelFile(path)
		if err != nil {
			return nil, err
		}
		m = parsed
	}

	if flags.Changed("num") {
		m.Num, _ = flags.GetFloat64Slice("num")
	}
	if flags.Changed("den") {
		m.Den, _ = flags.GetFloat64Slice("den")
	}
	if flags.Changed("ts") {
		m.Ts, _ = flags.GetFloat64("ts")
	}
	if flags.Changed("prewarp") {
		m.Prewarp, _ = flags.GetFloat64("prewarp")
	}
	if flags.Changed("prewarp-cutoff") {
		m.Cutoff, _ = flags.GetFloat64("prewarp-cutoff")
	}
	if flags.Changed("damping") {
		m.Damping, _ = flags.GetFloat64("damping")
	}
	if flags.Changed("method") {
		name, _ := flags.GetString("method")
		method, err := lti.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		m.Method = method
	}

	if len(m.Den) == 0 {
		return nil, fmt.Errorf("no transfer function: use --file or --num/--den")
	}
	if m.Channels == 0 {
		m.Channels = 1
	}
	if m.Cutoff > 0 {
		// The -3 dB point of the dominant second-order section is given;
		// prewarp at its natural frequency.
		m.Prewarp = core.CutoffToResonant(m.Cutoff, m.Damping)
		if math.IsNaN(m.Prewarp) {
			return nil, fmt.Errorf("invalid prewarp cutoff %v with damping %v", m.Cutoff, m.Damping)
		}
	}
	return m, nil
}

// build configures and discretizes a System for m. Stale updates are
// logged to the command's error stream.
func (m *model) build(cmd *cobra.Command) (*lti.System, error) {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	s := lti.New(lti.WithLogger(logger))
	if err := s.SetSampling(m.Ts); err != nil {
		return nil, err
	}
	if err := s.SetMethod(m.Method); err != nil {
		return nil, err
	}
	if err := s.SetPrewarpFrequency(m.Prewarp); err != nil {
		return nil, err
	}
	if err := s.SetChannels(m.Channels); err != nil {
		return nil, err
	}
	if err := s.SetMaxGap(lti.TimeFromDuration(m.MaxGap)); err != nil {
		return nil, err
	}
	if err := s.SetFilter(m.Num, m.Den); err != nil {
		return nil, err
	}
	if m.Initial.Derivatives != nil {
		if err := s.SetInitialOutputDerivatives(m.Initial.Derivatives); err != nil {
			return nil, err
		}
	}
	if m.Initial.Inputs != nil {
		if err := s.SetInitialInputs(m.Initial.Inputs); err != nil {
			return nil, err
		}
	}
	if err := s.Discretize(); err != nil {
		return nil, err
	}
	return s, nil
}
