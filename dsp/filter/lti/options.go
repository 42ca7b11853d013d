package lti

import (
	"log/slog"

	"github.com/cwbudde/algo-lti/dsp/core"
)

const (
	defaultSampling = 1.0
	defaultChannels = 1
)

type config struct {
	sampling float64
	method   Method
	prewarp  float64
	channels int
	maxGap   Time
	logger   *slog.Logger
	onStale  func(StaleEvent)
}

func defaultConfig() config {
	return config{
		sampling: defaultSampling,
		method:   Tustin,
		channels: defaultChannels,
	}
}

// Option configures a System at construction time. Invalid values are
// ignored and the default is kept; use the corresponding setter to get an
// error instead.
type Option func(*config)

// WithSampling sets the sampling period in seconds. Default is 1 s.
func WithSampling(ts float64) Option {
	return func(cfg *config) {
		if validSampling(ts) {
			cfg.sampling = ts
		}
	}
}

// WithMethod selects the discretization method. Default is Tustin.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		if m.Valid() {
			cfg.method = m
		}
	}
}

// WithPrewarp sets the Tustin prewarp frequency in rad/s.
func WithPrewarp(w float64) Option {
	return func(cfg *config) {
		if w >= 0 && core.IsFinite(w) {
			cfg.prewarp = w
		}
	}
}

// WithChannels sets the number of parallel filter channels. Default is 1.
func WithChannels(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.channels = n
		}
	}
}

// WithMaxGap sets the largest accepted time between two updates. Zero keeps
// the automatic value, see [System.MaxGap].
func WithMaxGap(d Time) Option {
	return func(cfg *config) {
		if d >= 0 {
			cfg.maxGap = d
		}
	}
}

// WithLogger sets the logger used for stale-update warnings. Default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithStaleHandler registers a callback invoked synchronously from Update
// whenever an update is rejected as stale.
func WithStaleHandler(fn func(StaleEvent)) Option {
	return func(cfg *config) { cfg.onStale = fn }
}
