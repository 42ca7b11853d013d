package lti

import (
	"math"
	"time"
)

// Time is an absolute timestamp in microseconds since a caller-chosen epoch.
// All elapsed-time arithmetic is done on this integer representation.
type Time int64

// Common time spans.
const (
	Microsecond Time = 1
	Millisecond Time = 1000 * Microsecond
	Second      Time = 1000 * Millisecond
)

// TimeFromSeconds converts fractional seconds to the nearest microsecond.
func TimeFromSeconds(s float64) Time {
	return Time(math.Round(s * float64(Second)))
}

// TimeFromDuration converts a time.Duration, truncating below one microsecond.
func TimeFromDuration(d time.Duration) Time {
	return Time(d.Microseconds())
}

// Seconds returns t as fractional seconds.
func (t Time) Seconds() float64 {
	return float64(t) / float64(Second)
}

// Duration converts t to a time.Duration.
func (t Time) Duration() time.Duration {
	return time.Duration(t) * time.Microsecond
}

func (t Time) String() string {
	return t.Duration().String()
}
