package lti

import "errors"

var (
	// ErrInvalidParameter reports an out-of-range scalar setting such as a
	// non-positive sampling period or channel count.
	ErrInvalidParameter = errors.New("lti: invalid parameter")

	// ErrDimension reports a vector or matrix whose shape does not match the
	// configured channel count or filter order.
	ErrDimension = errors.New("lti: dimension mismatch")

	// ErrImproper reports a transfer function whose numerator degree exceeds
	// the denominator degree.
	ErrImproper = errors.New("lti: improper transfer function")

	// ErrNotConfigured is returned when an operation needs a transfer
	// function and none has been set.
	ErrNotConfigured = errors.New("lti: transfer function not set")

	// ErrNotDiscretized is returned by Update when the discrete coefficients
	// are missing or were invalidated by a configuration change.
	ErrNotDiscretized = errors.New("lti: system not discretized")

	// ErrDegenerate reports a discretization that would produce a zero
	// leading denominator coefficient or non-finite coefficients.
	ErrDegenerate = errors.New("lti: degenerate discretization")
)
