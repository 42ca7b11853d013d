// Package lti discretizes continuous-time transfer functions and runs them
// as recursive filters on a timed update loop.
//
// [Discretize] maps a [TransferFunction] N(s)/D(s) onto z-domain
// [Coefficients] with one of three substitutions ([Tustin], optionally
// prewarped, [ForwardEuler], [BackwardEuler]).
//
// A [System] owns a transfer function, its discretization and a bank of
// independent channels sharing the same dynamics. Initial conditions are
// given as output derivatives at the start time and converted into a
// discrete output history. [System.Update] takes one input per channel and
// an absolute [Time]; late or out-of-order calls are reported as stale
// updates and leave the state untouched.
//
// A System is meant to be driven from a single goroutine.
package lti
