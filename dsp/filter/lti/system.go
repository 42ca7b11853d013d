package lti

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-lti/dsp/core"
)

// Phase is the lifecycle stage of a System.
type Phase int

const (
	// Unconfigured means no transfer function has been set.
	Unconfigured Phase = iota
	// Configured means transfer function, method and sampling period are
	// known but discrete coefficients are missing or out of date.
	Configured
	// Discretized means coefficients are valid and no update has advanced
	// the bank since the last reset.
	Discretized
	// Running means at least one update has been accepted.
	Running
)

func (p Phase) String() string {
	switch p {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	case Discretized:
		return "discretized"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// System runs a discretized continuous-time transfer function on a bank of
// independent channels driven by a timestamped update loop.
//
// A System is not safe for concurrent use. Use Clone to obtain an
// independent copy; plain struct assignment shares the underlying state.
type System struct {
	tf      TransferFunction
	ts      float64
	period  Time
	method  Method
	prewarp float64
	maxGap  Time

	coeffs Coefficients
	phase  Phase

	channels int
	derivs   [][]float64 // channel x order
	inputs   [][]float64 // channel x order
	bank     bank

	lastUpdate  Time
	sampleClock Time
	stale       bool
	staleCount  int

	logger  *slog.Logger
	onStale func(StaleEvent)
}

// New returns an unconfigured System. Without options it uses a 1 s
// sampling period, the Tustin method without prewarping, one channel and
// the automatic maximum update gap.
func New(opts ...Option) *System {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &System{
		ts:       cfg.sampling,
		period:   TimeFromSeconds(cfg.sampling),
		method:   cfg.method,
		prewarp:  cfg.prewarp,
		maxGap:   cfg.maxGap,
		channels: cfg.channels,
		logger:   logger,
		onStale:  cfg.onStale,
	}
	s.resize(0)

	return s
}

// NewFromTransferFunction returns a configured System for num(s)/den(s)
// sampled every ts seconds.
func NewFromTransferFunction(num, den []float64, ts float64, opts ...Option) (*System, error) {
	s := New(opts...)
	if err := s.SetSampling(ts); err != nil {
		return nil, err
	}

	if err := s.SetFilter(num, den); err != nil {
		return nil, err
	}

	return s, nil
}

func validSampling(ts float64) bool {
	return ts > 0 && core.IsFinite(ts) && TimeFromSeconds(ts) >= Microsecond
}

// resize reallocates initial conditions and the bank with zeros.
func (s *System) resize(order int) {
	s.derivs = zeroMatrix(s.channels, order)
	s.inputs = zeroMatrix(s.channels, order)
	s.bank = newBank(s.channels, order)
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}

	return m
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}

	return out
}

// invalidate drops the discrete coefficients after a configuration change.
func (s *System) invalidate() {
	s.coeffs = Coefficients{}
	if len(s.tf.Den) > 0 {
		s.phase = Configured
	} else {
		s.phase = Unconfigured
	}
}

// SetFilter sets the continuous transfer function num(s)/den(s), both
// highest degree first. A change of order discards the initial conditions.
func (s *System) SetFilter(num, den []float64) error {
	tf, err := NewTransferFunction(num, den)
	if err != nil {
		return err
	}

	orderChanged := len(s.tf.Den) == 0 || tf.Order() != s.tf.Order()
	s.tf = tf
	if orderChanged {
		s.resize(tf.Order())
	}

	s.invalidate()

	return nil
}

// SetSampling sets the sampling period in seconds. It must be positive and
// at least one microsecond.
func (s *System) SetSampling(ts float64) error {
	if !validSampling(ts) {
		return fmt.Errorf("lti: sampling period %v s: %w", ts, ErrInvalidParameter)
	}

	s.ts = ts
	s.period = TimeFromSeconds(ts)
	s.invalidate()

	return nil
}

// SetMethod selects the discretization method.
func (s *System) SetMethod(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("lti: %v: %w", m, ErrInvalidParameter)
	}

	s.method = m
	s.invalidate()

	return nil
}

// SetPrewarpFrequency sets the frequency (rad/s) at which the Tustin
// transform matches the continuous response exactly. Zero disables
// prewarping. The value is stored but unused by the Euler methods.
func (s *System) SetPrewarpFrequency(w float64) error {
	if w < 0 || !core.IsFinite(w) {
		return fmt.Errorf("lti: prewarp frequency %v: %w", w, ErrInvalidParameter)
	}

	s.prewarp = w
	s.invalidate()

	return nil
}

// SetChannels sets the number of independent channels. The bank and all
// initial conditions are reallocated and zeroed.
func (s *System) SetChannels(n int) error {
	if n < 1 {
		return fmt.Errorf("lti: channel count %d: %w", n, ErrInvalidParameter)
	}

	s.channels = n
	s.resize(s.Order())
	s.rewind()

	return nil
}

// SetInitialOutputDerivatives sets, per channel, the output and its first
// order-1 time derivatives at the initial time. m must be channels x order.
func (s *System) SetInitialOutputDerivatives(m [][]float64) error {
	if err := s.checkInitialMatrix("output derivatives", m); err != nil {
		return err
	}

	history, err := historyFromDerivatives(m, s.ts)
	if err != nil {
		return err
	}

	s.derivs = cloneMatrix(m)
	s.bank.load(s.inputs, history)
	s.rewind()

	return nil
}

// SetInitialInputs sets, per channel, the last order inputs before the
// initial time, most recent first. m must be channels x order.
func (s *System) SetInitialInputs(m [][]float64) error {
	if err := s.checkInitialMatrix("input history", m); err != nil {
		return err
	}

	history, err := historyFromDerivatives(s.derivs, s.ts)
	if err != nil {
		return err
	}

	s.inputs = cloneMatrix(m)
	s.bank.load(s.inputs, history)
	s.rewind()

	return nil
}

func (s *System) checkInitialMatrix(what string, m [][]float64) error {
	if len(s.tf.Den) == 0 {
		return fmt.Errorf("lti: %s: %w", what, ErrNotConfigured)
	}

	order := s.Order()
	if len(m) != s.channels {
		return fmt.Errorf("lti: %s has %d rows, want %d channels: %w", what, len(m), s.channels, ErrDimension)
	}

	for ch, row := range m {
		if len(row) != order {
			return fmt.Errorf("lti: %s row %d has %d values, want order %d: %w",
				what, ch, len(row), order, ErrDimension)
		}

		for _, v := range row {
			if !core.IsFinite(v) {
				return fmt.Errorf("lti: %s row %d value %v: %w", what, ch, v, ErrInvalidParameter)
			}
		}
	}

	return nil
}

// SetInitialTime sets the timestamp the first update is measured from.
func (s *System) SetInitialTime(t Time) {
	s.lastUpdate = t
	s.sampleClock = t
}

// SetMaxGap sets the largest accepted time between two updates. Zero
// selects the automatic value, see [System.MaxGap].
func (s *System) SetMaxGap(d Time) error {
	if d < 0 {
		return fmt.Errorf("lti: maximum gap %v: %w", d, ErrInvalidParameter)
	}

	s.maxGap = d

	return nil
}

// SetLogger replaces the logger used for stale-update warnings. A nil
// logger silences them.
func (s *System) SetLogger(l *slog.Logger) {
	s.logger = l
}

// SetStaleHandler replaces the stale-update callback. nil removes it.
func (s *System) SetStaleHandler(fn func(StaleEvent)) {
	s.onStale = fn
}

// Discretize derives the discrete coefficients from the configured
// transfer function, method, sampling period and prewarp frequency, and
// resets the bank to the configured initial conditions. On error the
// System is left unchanged.
func (s *System) Discretize() error {
	if len(s.tf.Den) == 0 {
		return ErrNotConfigured
	}

	c, err := Discretize(s.tf, s.method, s.ts, s.prewarp)
	if err != nil {
		return err
	}

	history, err := historyFromDerivatives(s.derivs, s.ts)
	if err != nil {
		return err
	}

	s.coeffs = c
	s.phase = Discretized
	s.bank.load(s.inputs, history)

	return nil
}

// Reset restores the bank to the configured initial conditions. The clock
// is left untouched.
func (s *System) Reset() error {
	history, err := historyFromDerivatives(s.derivs, s.ts)
	if err != nil {
		return err
	}

	s.bank.load(s.inputs, history)
	s.rewind()

	return nil
}

// rewind moves a running System back to Discretized after its bank was
// reloaded.
func (s *System) rewind() {
	if s.phase == Running {
		s.phase = Discretized
	}
}

// Clone returns a deep copy of s. The copy shares only the logger and stale
// handler.
func (s *System) Clone() *System {
	c := *s
	c.tf = s.tf.Clone()
	c.coeffs = s.coeffs.Clone()
	c.derivs = cloneMatrix(s.derivs)
	c.inputs = cloneMatrix(s.inputs)
	c.bank = s.bank.clone()

	return &c
}

// Phase reports the lifecycle stage.
func (s *System) Phase() Phase { return s.phase }

// Sampling returns the sampling period in seconds.
func (s *System) Sampling() float64 { return s.ts }

// SamplingTime returns the sampling period on the integer clock.
func (s *System) SamplingTime() Time { return s.period }

// Method returns the configured discretization method.
func (s *System) Method() Method { return s.method }

// PrewarpFrequency returns the Tustin prewarp frequency in rad/s, 0 if
// disabled.
func (s *System) PrewarpFrequency() float64 { return s.prewarp }

// Channels returns the number of channels.
func (s *System) Channels() int { return s.channels }

// Order returns the filter order, 0 before a transfer function is set.
func (s *System) Order() int {
	if len(s.tf.Den) == 0 {
		return 0
	}

	return s.tf.Order()
}

// TransferFunction returns a copy of the continuous transfer function.
func (s *System) TransferFunction() TransferFunction { return s.tf.Clone() }

// Coefficients returns a copy of the discrete coefficients. The result is
// empty unless the System is Discretized or Running.
func (s *System) Coefficients() Coefficients { return s.coeffs.Clone() }

// MaxGap returns the effective maximum time between updates. Unless set
// explicitly it is ten sampling periods, but at least one second.
func (s *System) MaxGap() Time {
	if s.maxGap > 0 {
		return s.maxGap
	}

	if s.period > math.MaxInt64/10 {
		return math.MaxInt64
	}

	return max(10*s.period, Second)
}

// LastUpdate returns the timestamp of the most recent update, accepted or
// stale, or the initial time.
func (s *System) LastUpdate() Time { return s.lastUpdate }

// Stale reports whether the most recent update was rejected as stale.
func (s *System) Stale() bool { return s.stale }

// StaleCount returns the number of stale updates since construction.
func (s *System) StaleCount() int { return s.staleCount }

// InitialOutputDerivatives returns a copy of the configured initial output
// derivatives (channel x order).
func (s *System) InitialOutputDerivatives() [][]float64 { return cloneMatrix(s.derivs) }

// InitialInputs returns a copy of the configured input history
// (channel x order).
func (s *System) InitialInputs() [][]float64 { return cloneMatrix(s.inputs) }

// OutputDerivatives estimates the current output and its derivatives per
// channel from the output history with backward differences. Right after a
// reset it returns the configured initial output derivatives.
func (s *System) OutputDerivatives() [][]float64 {
	return derivativesFromHistory(s.bank.out, s.channels, s.ts)
}

// InputHistory returns the current input history (channel x order, most
// recent first).
func (s *System) InputHistory() [][]float64 {
	return channelMatrix(s.bank.in, s.channels)
}

// OutputHistory returns the current output history (channel x order, most
// recent first).
func (s *System) OutputHistory() [][]float64 {
	return channelMatrix(s.bank.out, s.channels)
}
