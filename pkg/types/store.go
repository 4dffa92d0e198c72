package types

import "errors"

// ChartFilter selects charts for Fetch, FetchIDs, and Count. Zero-value
// fields are ignored; set fields are ANDed together.
type ChartFilter struct {
	// VizType matches charts whose viz_type equals this value.
	VizType string
	// ParamsContain matches charts whose params JSON contains this
	// substring. Used for the form-data backup marker.
	ParamsContain string
	// Limit caps the number of results when positive.
	Limit int
	// Offset skips results when positive. Applied after ordering.
	Offset int
}

// ChartStore provides persistent access to the chart population. Callers
// attach to a backend, operate on charts, and detach when done.
type ChartStore interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// Get retrieves the chart with the given ID.
	// Returns ErrNotFound if no chart exists with that ID.
	Get(id string) (*Chart, error)

	// Set creates or updates a chart. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, chart *Chart) (string, error)

	// Delete removes the chart with the given ID.
	// Returns ErrNotFound if no chart exists with that ID.
	Delete(id string) error

	// Fetch returns all charts matching the filter, ordered by creation
	// time. An empty filter returns every chart.
	Fetch(filter ChartFilter) ([]*Chart, error)

	// FetchIDs returns the IDs of all charts matching the filter, in the
	// same order Fetch would return them. Batch drivers snapshot the
	// selection up front so that mutations during the run cannot shift it.
	FetchIDs(filter ChartFilter) ([]string, error)

	// Count returns the number of charts matching the filter.
	Count(filter ChartFilter) (int, error)

	// GetBatch retrieves the charts with the given IDs, preserving the
	// input order. IDs that no longer exist are silently skipped.
	GetBatch(ids []string) ([]*Chart, error)

	// UpdateBatch persists mutations to the given charts in a single
	// transaction: either every chart is updated or none is.
	UpdateBatch(charts []*Chart) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Chart operation errors.
var (
	ErrNotFound    = errors.New("chart not found")
	ErrInvalidID   = errors.New("invalid chart ID")
	ErrInvalidName = errors.New("invalid chart name")
)
