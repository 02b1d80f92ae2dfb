// Package adapter implements the capability layer for pluggable data-source
// adapters: capability descriptors, per-adapter feature collections with
// typed lookup, a name-keyed adapter registry, caller-scoped feature
// resolution with authorization, and health aggregation across an adapter's
// features.
package adapter

// Capability identifies a feature contract an adapter may implement. It is a
// small comparable value: two capabilities are equal iff they carry the same
// ID and the same extension class, and an ID is expected to denote exactly
// one contract. Capabilities are used as the unique key in a
// FeatureCollection.
type Capability struct {
	id        string
	extension bool
}

// NewCapability creates a core capability descriptor.
func NewCapability(id string) Capability {
	return Capability{id: id}
}

// NewExtension creates an extension capability descriptor. Extension
// capabilities are not part of the core contract set and are discovered
// dynamically by enumerating a collection.
func NewExtension(id string) Capability {
	return Capability{id: id, extension: true}
}

// ID returns the stable contract identifier.
func (c Capability) ID() string { return c.id }

// IsExtension reports whether the capability is an extension contract.
func (c Capability) IsExtension() bool { return c.extension }

// IsZero reports whether the capability is the zero value, which identifies
// no contract.
func (c Capability) IsZero() bool { return c.id == "" }

// String returns the capability ID, suffixed for extensions.
func (c Capability) String() string {
	if c.extension {
		return c.id + " (extension)"
	}
	return c.id
}
