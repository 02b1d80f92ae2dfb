package adapter

import (
	"iter"
	"sort"
)

// FeatureCollection maps capability descriptors to the feature
// implementations of a single adapter. Collections are populated once at
// adapter start-up and are read-only afterwards, so concurrent lookups need
// no locking and capability sets never change underneath in-flight
// resolutions.
type FeatureCollection struct {
	entries map[Capability]Feature
	keys    []Capability // sorted by ID for stable enumeration
}

// NewFeatureCollection builds a read-only collection from the given
// features, keyed by each feature's capability. At most one implementation
// is kept per capability: a later feature with the same capability replaces
// the earlier one. Nil features and features with a zero capability are
// skipped.
func NewFeatureCollection(features ...Feature) *FeatureCollection {
	entries := make(map[Capability]Feature, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		cap := f.Capability()
		if cap.IsZero() {
			continue
		}
		entries[cap] = f
	}

	keys := make([]Capability, 0, len(entries))
	for c := range entries {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID() < keys[j].ID() })

	return &FeatureCollection{entries: entries, keys: keys}
}

// Get returns the feature registered for the capability. An unregistered
// capability is a normal outcome reported through the boolean, never an
// error.
func (fc *FeatureCollection) Get(cap Capability) (Feature, bool) {
	f, ok := fc.entries[cap]
	return f, ok
}

// Contains reports whether a feature is registered for the capability.
func (fc *FeatureCollection) Contains(cap Capability) bool {
	_, ok := fc.entries[cap]
	return ok
}

// Capabilities returns a restartable sequence of every registered
// capability, ordered by ID.
func (fc *FeatureCollection) Capabilities() iter.Seq[Capability] {
	return func(yield func(Capability) bool) {
		for _, c := range fc.keys {
			if !yield(c) {
				return
			}
		}
	}
}

// Len returns the number of registered features.
func (fc *FeatureCollection) Len() int {
	return len(fc.entries)
}

// Lookup returns the feature registered for the capability narrowed to its
// concrete contract T. The boolean is false when nothing is registered or
// when the registered implementation does not satisfy T.
func Lookup[T Feature](fc *FeatureCollection, cap Capability) (T, bool) {
	var zero T
	f, ok := fc.Get(cap)
	if !ok {
		return zero, false
	}
	typed, ok := f.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
