package loader

import (
	"net/http"
	"time"

	"github.com/okian/attrition/pkg/logger"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c Doer) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithMaxBodyBytes caps accepted document size.
func WithMaxBodyBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBody = n
		}
	}
}

// WithParallelFetch issues the page resources concurrently when true.
func WithParallelFetch(enabled bool) Option {
	return func(l *Loader) {
		l.parallel = enabled
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithRequestIDGenerator overrides how load ids are minted.
func WithRequestIDGenerator(gen func() string) Option {
	return func(l *Loader) {
		if gen != nil {
			l.newID = gen
		}
	}
}
