package loader

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/okian/attrition/internal/domain/mode"
)

const jsonSuffix = ".json"

// Settings selects where resources come from. It is fixed at construction.
type Settings struct {
	// Mode picks live-service or static-tree resolution for resources.
	Mode mode.Mode
	// APIURL is the live service root used in development, e.g. http://localhost:8000.
	APIURL string
	// AssetsURL is the origin serving the exported JSON tree.
	AssetsURL string
	// BasePath prefixes asset paths in production, e.g. /Visual-Analytics.
	BasePath string
}

// Resolver turns resource names into URLs.
//
// Resources follow the mode: development hits <api>/<name>, production reads
// <assets><base>/<name>.json. Assets (the employee document) always come from
// the static tree; the base path only applies in production.
type Resolver struct {
	mode     mode.Mode
	api      string
	assets   string
	basePath string
}

// NewResolver validates settings and builds a Resolver.
func NewResolver(s Settings) (*Resolver, error) {
	api, err := normalizeOrigin(s.APIURL)
	if err != nil && s.Mode.IsDevelopment() {
		return nil, fmt.Errorf("%w: api url: %w", ErrInvalidSettings, err)
	}
	assets, err := normalizeOrigin(s.AssetsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: assets url: %w", ErrInvalidSettings, err)
	}
	base := strings.TrimRight(s.BasePath, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return &Resolver{mode: s.Mode, api: api, assets: assets, basePath: base}, nil
}

func normalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute url", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Mode returns the configured mode.
func (r *Resolver) Mode() mode.Mode { return r.mode }

// AssetBasePath is the path prefix of the static tree for the active mode.
func (r *Resolver) AssetBasePath() string {
	if r.mode.IsDevelopment() {
		return ""
	}
	return r.basePath
}

// ResourceURL resolves name according to the mode.
func (r *Resolver) ResourceURL(name string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if r.mode.IsDevelopment() {
		return r.api + "/" + url.PathEscape(name), nil
	}
	return r.assets + r.basePath + "/" + url.PathEscape(name) + jsonSuffix, nil
}

// AssetURL resolves name inside the static tree regardless of mode.
func (r *Resolver) AssetURL(name string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return r.assets + r.AssetBasePath() + "/" + url.PathEscape(name) + jsonSuffix, nil
}

func cleanName(name string) (string, error) {
	n := strings.TrimPrefix(strings.TrimSpace(name), "/")
	if n == "" || strings.ContainsAny(n, "/?#\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidResource, name)
	}
	return n, nil
}
