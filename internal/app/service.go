// Package service provides the core service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/attrition/internal/adapters/loader"
	"github.com/okian/attrition/internal/domain/mode"
	"github.com/okian/attrition/internal/domain/model"
	"github.com/okian/attrition/pkg/logger"
)

// ErrNotStarted is returned by operations invoked before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the data loader and tracks page-load statistics.
type Service struct {
	mu sync.RWMutex

	loader *loader.Loader

	// Configuration used when no loader is injected.
	settings      loader.Settings
	timeout       time.Duration
	maxBodyBytes  int64
	parallelFetch bool

	started bool
	logger  logger.Logger

	pageLoads   atomic.Int64
	degraded    atomic.Int64
	unavailable atomic.Int64
	lastLoadMS  atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader injects a ready loader; settings options are then ignored.
func WithLoader(l *loader.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithMode sets the data-source mode.
func WithMode(m mode.Mode) Option {
	return func(s *Service) {
		s.settings.Mode = m
	}
}

// WithAPIURL sets the live service root used in development.
func WithAPIURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.settings.APIURL = u
		}
	}
}

// WithAssetsURL sets the origin of the static tree.
func WithAssetsURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.settings.AssetsURL = u
		}
	}
}

// WithBasePath sets the static tree prefix used in production.
func WithBasePath(p string) Option {
	return func(s *Service) {
		s.settings.BasePath = p
	}
}

// WithRequestTimeout bounds each fetch.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBodyBytes caps fetched document size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithParallelFetch toggles concurrent page fetches.
func WithParallelFetch(enabled bool) Option {
	return func(s *Service) {
		s.parallelFetch = enabled
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		settings: loader.Settings{
			Mode:      mode.Production,
			APIURL:    "http://localhost:8000",
			AssetsURL: "http://localhost:9080",
			BasePath:  "/Visual-Analytics",
		},
		timeout:       10 * time.Second,
		maxBodyBytes:  32 << 20,
		parallelFetch: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the loader if none was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.loader == nil {
		l, err := loader.New(s.settings,
			loader.WithLogger(s.logger.Named("loader")),
			loader.WithTimeout(s.timeout),
			loader.WithMaxBodyBytes(s.maxBodyBytes),
			loader.WithParallelFetch(s.parallelFetch),
		)
		if err != nil {
			return err
		}
		s.loader = l
	}

	s.started = true
	r := s.loader.Resolver()
	s.logger.Info(ctx, "attrition data service started",
		logger.String("mode", r.Mode().String()),
		logger.String("asset_base_path", r.AssetBasePath()),
		logger.Bool("parallel_fetch", s.parallelFetch),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "attrition data service stopped")
}

func (s *Service) current() (*loader.Loader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.loader, nil
}

// PageData loads the page collections. Before Start it returns the empty
// fallback with PageUnavailable.
func (s *Service) PageData(ctx context.Context) (model.PageData, model.PageStatus) {
	l, err := s.current()
	if err != nil {
		return model.EmptyPageData(), model.PageUnavailable
	}

	start := time.Now()
	pd, status := l.LoadPage(ctx)
	s.lastLoadMS.Store(time.Since(start).Milliseconds())
	s.pageLoads.Add(1)
	switch status {
	case model.PageDegraded:
		s.degraded.Add(1)
	case model.PageUnavailable:
		s.unavailable.Add(1)
		s.logger.Warn(ctx, "employee data unavailable; serving empty page")
	}
	return pd, status
}

// Resource fetches one named resource according to the mode.
func (s *Service) Resource(ctx context.Context, name string) (json.RawMessage, error) {
	l, err := s.current()
	if err != nil {
		return nil, err
	}
	return l.Fetch(ctx, name)
}

// AssetBasePath is where the static tree is expected to live.
func (s *Service) AssetBasePath() string {
	l, err := s.current()
	if err != nil {
		return ""
	}
	return l.Resolver().AssetBasePath()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.settings.Mode
	if s.loader != nil {
		m = s.loader.Resolver().Mode()
	}
	return map[string]interface{}{
		"started":          s.started,
		"mode":             m.String(),
		"pageLoads":        s.pageLoads.Load(),
		"degradedLoads":    s.degraded.Load(),
		"unavailableLoads": s.unavailable.Load(),
		"lastLoadMs":       s.lastLoadMS.Load(),
	}
}
