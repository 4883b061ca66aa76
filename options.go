package capyql

import (
	"log/slog"
)

type options struct {
	logger *slog.Logger
}

// Option configures a DB.
type Option func(*options)

// WithLogger sets the logger used by the DB and its collections.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
