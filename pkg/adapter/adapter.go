package adapter

import (
	"context"

	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/health"
	"github.com/normanking/manifold/pkg/property"
)

// Info describes an adapter for discovery and UI purposes.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	// Properties holds vendor metadata, typically assembled with
	// property.Builder at adapter start-up.
	Properties []property.Property `json:"properties,omitempty"`
}

// Adapter is a pluggable data source exposing zero or more capabilities.
type Adapter interface {
	// Info returns the adapter descriptor.
	Info() Info

	// Features returns the adapter's capability collection. The collection
	// is populated during start-up and read-only once handed out.
	Features() *FeatureCollection
}

// Prober is implemented by adapters with non-feature diagnostics of their
// own (connection state, licensing, backing stores). The results join the
// per-feature results in the adapter-level composite. The error contract
// matches HealthProber: an error means the probes could not be attempted.
type Prober interface {
	HealthProbes(ctx context.Context, cc *callctx.Context) ([]health.Result, error)
}
