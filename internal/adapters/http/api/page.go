package api

import (
	"context"
	"net/http"

	"github.com/okian/attrition/internal/domain/model"
)

// PageStatusHeader carries the load outcome of GET /api/page.
const PageStatusHeader = "X-Page-Status"

// PageDependencies defines the interface for page loads.
type PageDependencies interface {
	PageData(ctx context.Context) (model.PageData, model.PageStatus)
}

// PageHandler serves the page data the dashboard renders from.
type PageHandler struct {
	deps PageDependencies
}

// NewPageHandler creates a new page handler.
func NewPageHandler(deps PageDependencies) *PageHandler {
	return &PageHandler{deps: deps}
}

// HandleGetPage handles GET /api/page requests.
// Failures upstream degrade to empty collections; the response is always 200.
func (h *PageHandler) HandleGetPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pd, status := h.deps.PageData(r.Context())
	w.Header().Set(PageStatusHeader, string(status))
	writeJSON(w, http.StatusOK, pd)
}
