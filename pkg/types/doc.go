// Package types defines the ChartStore interface, the Chart entity, and
// standard error values for the chartshift storage layer.
package types
