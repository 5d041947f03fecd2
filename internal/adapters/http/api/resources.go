package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/attrition/internal/adapters/loader"
)

const resourcesPrefix = "/api/resources/"

// ResourceDependencies defines the interface for single resource reads.
type ResourceDependencies interface {
	Resource(ctx context.Context, name string) (json.RawMessage, error)
}

// ResourceHandler proxies one named resource from the active data source.
type ResourceHandler struct {
	deps ResourceDependencies
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(deps ResourceDependencies) *ResourceHandler {
	return &ResourceHandler{deps: deps}
}

// HandleGetResource handles GET /api/resources/{name} requests.
func (h *ResourceHandler) HandleGetResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, resourcesPrefix)
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	raw, err := h.deps.Resource(r.Context(), name)
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError {
			err = upstreamErr(name, err)
		}
		writeError(w, status, code, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// classify maps loader failures to the response status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, loader.ErrInvalidResource):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, loader.ErrRequestFailed):
		if loader.StatusCode(err) == http.StatusNotFound {
			return http.StatusNotFound, "not_found"
		}
		return http.StatusBadGateway, "upstream_status"
	case errors.Is(err, loader.ErrTransport):
		return http.StatusBadGateway, "upstream_unreachable"
	case errors.Is(err, loader.ErrParse):
		return http.StatusBadGateway, "upstream_malformed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func upstreamErr(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, name, err)
}
