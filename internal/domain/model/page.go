// Package model contains domain models passed between layers.
package model

import "encoding/json"

// Resource names published by the scoring service and the static export.
const (
	ResourceEmployee     = "employee"
	ResourceTopEmployees = "top_employees"
	ResourceHealth       = "health"
	ResourceModelInfo    = "model-info"
	ResourceIndex        = "index"
)

// KnownResources lists every resource name the export produces.
var KnownResources = []string{
	ResourceHealth,
	ResourceModelInfo,
	ResourceTopEmployees,
	ResourceIndex,
	ResourceEmployee,
}

// EmployeeRecord is one element of the employee document. Its schema is
// owned by the producer; it is carried through untouched.
type EmployeeRecord = json.RawMessage

// TopAtRiskEntry is one element of the top at-risk ranking, also opaque.
type TopAtRiskEntry = json.RawMessage

// PageData is everything the page needs to render.
// Both slices are always non-nil so they encode as [] rather than null.
type PageData struct {
	Employees    []EmployeeRecord `json:"employees"`
	TopEmployees []TopAtRiskEntry `json:"topEmployees"`
}

// EmptyPageData returns the total-fallback value.
func EmptyPageData() PageData {
	return PageData{
		Employees:    []EmployeeRecord{},
		TopEmployees: []TopAtRiskEntry{},
	}
}

// PageStatus describes how much of PageData came from its source.
type PageStatus string

const (
	// PageOK means both resources loaded.
	PageOK PageStatus = "ok"
	// PageDegraded means the ranking fell back to empty.
	PageDegraded PageStatus = "degraded"
	// PageUnavailable means the employee document failed and everything fell back.
	PageUnavailable PageStatus = "unavailable"
)
