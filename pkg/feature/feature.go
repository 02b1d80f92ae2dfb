// Package feature defines the well-known capability contracts adapters may
// implement. The capability layer treats these as boundary interfaces; their
// implementations live with the adapters.
package feature

import (
	"context"
	"time"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/property"
)

// Core capability descriptors.
var (
	// CapTagBrowse identifies the tag-browsing contract.
	CapTagBrowse = adapter.NewCapability("tags.browse")
	// CapSnapshotRead identifies the snapshot value-read contract.
	CapSnapshotRead = adapter.NewCapability("values.snapshot")
)

// Tag describes a browsable data point exposed by an adapter.
type Tag struct {
	// Name is the adapter-unique tag name.
	Name string `json:"name"`
	// Description is optional free text.
	Description string `json:"description,omitempty"`
	// Properties holds vendor metadata for the tag.
	Properties []property.Property `json:"properties,omitempty"`
}

// Value is a single tag value sample.
type Value struct {
	Tag       string    `json:"tag"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// TagBrowser is the tags.browse contract: enumerate the tags an adapter
// exposes, optionally narrowed by a name filter.
type TagBrowser interface {
	adapter.Feature

	// BrowseTags returns the tags whose names contain filter; an empty
	// filter returns every tag.
	BrowseTags(ctx context.Context, cc *callctx.Context, filter string) ([]Tag, error)
}

// SnapshotReader is the values.snapshot contract: read the current value of
// named tags.
type SnapshotReader interface {
	adapter.Feature

	// ReadSnapshot returns the current value for each requested tag.
	// Unknown tags are skipped, not errors.
	ReadSnapshot(ctx context.Context, cc *callctx.Context, tags []string) ([]Value, error)
}
