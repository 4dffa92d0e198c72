package types

import "errors"

// Config holds backend selection and parameters for ChartStore.Attach.
type Config struct {
	Backend           string `json:"backend" yaml:"backend"`
	DataDir           string `json:"data_dir" yaml:"data_dir"`
	DefaultTimeFilter string `json:"default_time_filter" yaml:"default_time_filter"`
	PageSize          int    `json:"page_size" yaml:"page_size"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrPageSizeInvalid = errors.New("page size must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. A zero PageSize is valid; the batch driver
// substitutes its default.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.PageSize < 0 {
		return ErrPageSizeInvalid
	}
	return nil
}
