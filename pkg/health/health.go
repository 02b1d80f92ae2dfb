// Package health defines health-check statuses and results for adapters and
// their features. Composite results fold the severity of their children with
// a max-severity rule so one failing probe surfaces at the top level.
package health

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the severity of a health result. Severities are ordered:
// Healthy < Degraded < Unhealthy.
type Status int

const (
	// StatusHealthy means the subsystem is fully operational.
	StatusHealthy Status = iota
	// StatusDegraded means the subsystem works but with reduced capability.
	StatusDegraded
	// StatusUnhealthy means the subsystem is not operational.
	StatusUnhealthy
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// ParseStatus parses a status name. Unknown names map to StatusUnhealthy so
// that a corrupt status can never read as healthy.
func ParseStatus(s string) Status {
	switch strings.ToLower(s) {
	case "healthy", "ok":
		return StatusHealthy
	case "degraded":
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}

// Worse returns the more severe of two statuses.
func Worse(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Result is a named health outcome. A Result with children is a composite
// whose Status is derived from the children; a Result without children is a
// leaf with a caller-supplied Status. Results are values: treat them as
// immutable once constructed.
type Result struct {
	// Name identifies the checked subsystem.
	Name string `json:"name"`
	// Status is the severity of this result.
	Status Status `json:"status"`
	// Description is optional free text explaining the status.
	Description string `json:"description,omitempty"`
	// Data holds optional key/value diagnostics attached to this result.
	Data map[string]string `json:"data,omitempty"`
	// Children holds ordered sub-results for composite checks.
	Children []Result `json:"children,omitempty"`
}

// NewResult builds a leaf result with an explicit status.
func NewResult(name string, status Status, description string, data map[string]string) Result {
	return Result{
		Name:        name,
		Status:      status,
		Description: description,
		Data:        copyData(data),
	}
}

// Healthy builds a healthy leaf result.
func Healthy(name, description string) Result {
	return NewResult(name, StatusHealthy, description, nil)
}

// Degraded builds a degraded leaf result.
func Degraded(name, description string) Result {
	return NewResult(name, StatusDegraded, description, nil)
}

// Unhealthy builds an unhealthy leaf result.
func Unhealthy(name, description string) Result {
	return NewResult(name, StatusUnhealthy, description, nil)
}

// FromError builds an unhealthy leaf describing a probe failure.
func FromError(name string, err error) Result {
	return NewResult(name, StatusUnhealthy, fmt.Sprintf("check failed: %v", err), nil)
}

// Composite builds a result whose status is the maximum severity among
// children. With no children the result is a healthy leaf; data is attached
// either way. Child order is preserved.
func Composite(name, description string, data map[string]string, children []Result) Result {
	r := Result{
		Name:        name,
		Status:      StatusHealthy,
		Description: description,
		Data:        copyData(data),
	}
	if len(children) == 0 {
		return r
	}
	r.Children = make([]Result, len(children))
	copy(r.Children, children)
	r.Status = Fold(children)
	return r
}

// Fold reduces a set of results to their maximum severity. An empty set
// folds to StatusHealthy.
func Fold(results []Result) Status {
	status := StatusHealthy
	for _, r := range results {
		status = Worse(status, r.Status)
	}
	return status
}

// WithData returns a copy of the result with the given data attached,
// replacing any existing data.
func (r Result) WithData(data map[string]string) Result {
	r.Data = copyData(data)
	return r
}

// IsHealthy reports whether the result's status is healthy.
func (r Result) IsHealthy() bool { return r.Status == StatusHealthy }

// DataKeys returns the result's data keys in sorted order, for stable
// rendering and logging.
func (r Result) DataKeys() []string {
	keys := make([]string, 0, len(r.Data))
	for k := range r.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyData(data map[string]string) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
