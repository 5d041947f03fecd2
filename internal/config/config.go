// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and ATTRITION_* env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"

	"github.com/okian/attrition/internal/domain/mode"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// Mode selects the data source: development (live service) or production (static tree).
	Mode string `koanf:"mode" validate:"required,oneof=development dev production prod"`

	// APIURL is the live scoring service used in development mode.
	APIURL string `koanf:"api_url" validate:"required,url"`

	// AssetsURL is the origin serving the exported JSON tree.
	AssetsURL string `koanf:"assets_url" validate:"required,url"`

	// BasePath prefixes static asset paths in production, e.g. "/Visual-Analytics".
	BasePath string `koanf:"base_path" validate:"omitempty,startswith=/"`

	// StaticDir, when set, is served under the asset base path by this process.
	StaticDir string `koanf:"static_dir"`

	// RequestTimeoutMS bounds every outbound fetch.
	RequestTimeoutMS int `koanf:"request_timeout_ms" validate:"min=1"`

	// MaxBodyBytes caps the size of a fetched document.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1"`

	// ParallelFetch issues the page resources concurrently.
	ParallelFetch bool `koanf:"parallel_fetch"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		Mode:             mode.Production.String(),
		APIURL:           "http://localhost:8000",
		AssetsURL:        "http://localhost:9080",
		BasePath:         "/Visual-Analytics",
		RequestTimeoutMS: 10_000,
		MaxBodyBytes:     32 << 20,
		ParallelFetch:    true,
	}
}

// RuntimeMode returns the parsed Mode. Load has already validated it.
func (c *Config) RuntimeMode() mode.Mode {
	m, err := mode.Parse(c.Mode)
	if err != nil {
		return mode.Production
	}
	return m
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
