package service

import "time"

type Option func(*options)

type options struct {
	now             func() time.Time
	intervalUnit    time.Duration
	cacheTTL        time.Duration
	refreshInterval time.Duration
}

func buildOptions(opts []Option) options {
	o := options{
		now:             time.Now,
		intervalUnit:    time.Minute,
		cacheTTL:        time.Hour,
		refreshInterval: time.Hour,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now as the source of wall-clock time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIntervalUnit sets what one reminder interval unit means. Minutes by default.
func WithIntervalUnit(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.intervalUnit = d
		}
	}
}

func WithCacheTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cacheTTL = d
		}
	}
}

func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.refreshInterval = d
		}
	}
}
