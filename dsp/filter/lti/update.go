package lti

import (
	"fmt"
	"log/slog"
)

// StaleEvent describes an update rejected because of its timing.
type StaleEvent struct {
	Timestamp Time // timestamp passed to Update
	Elapsed   Time // time since the previous update, negative if it went backwards
	MaxGap    Time // effective maximum gap at the time of the call
	Count     int  // stale updates so far, including this one
}

// Update feeds one input sample per channel at absolute time t and returns
// the current output of every channel.
//
// The model advances by the number of whole sampling periods elapsed since
// the last executed sample, holding u constant over them. Calls spaced
// exactly one period apart therefore run one recursion step each; calls
// arriving faster than the sampling period return the held output until a
// period has passed.
//
// If the time since the previous update exceeds [System.MaxGap] or is
// negative, the update is stale: the state is frozen, the previous output is
// returned, the clock jumps to t, a warning is logged and the stale handler
// is called. A stale update is not an error.
//
// The returned slice is owned by the System and is overwritten by the next
// call that changes the state.
func (s *System) Update(u []float64, t Time) ([]float64, error) {
	if s.phase != Discretized && s.phase != Running {
		return nil, ErrNotDiscretized
	}

	if len(u) != s.channels {
		return nil, fmt.Errorf("lti: %d inputs for %d channels: %w", len(u), s.channels, ErrDimension)
	}

	elapsed := t - s.lastUpdate
	maxGap := s.MaxGap()
	if elapsed < 0 || elapsed > maxGap {
		s.markStale(t, elapsed, maxGap)
		return s.bank.y, nil
	}

	s.stale = false
	s.lastUpdate = t

	steps := (t - s.sampleClock) / s.period
	for i := Time(0); i < steps; i++ {
		s.bank.step(u, s.coeffs)
	}

	s.sampleClock += steps * s.period
	s.phase = Running

	return s.bank.y, nil
}

func (s *System) markStale(t, elapsed, maxGap Time) {
	s.stale = true
	s.staleCount++
	s.lastUpdate = t
	s.sampleClock = t

	if s.logger != nil {
		s.logger.Warn("lti: stale update",
			slog.Duration("elapsed", elapsed.Duration()),
			slog.Duration("max_gap", maxGap.Duration()),
			slog.Int64("timestamp_us", int64(t)),
			slog.Int("count", s.staleCount))
	}

	if s.onStale != nil {
		s.onStale(StaleEvent{
			Timestamp: t,
			Elapsed:   elapsed,
			MaxGap:    maxGap,
			Count:     s.staleCount,
		})
	}
}

// Output returns the current output of every channel without advancing
// time. The slice is owned by the System.
func (s *System) Output() []float64 {
	return s.bank.y
}
