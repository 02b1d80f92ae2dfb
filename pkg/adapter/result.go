package adapter

// Result is the immutable outcome of resolving a capability for a caller.
// The three outcomes are observable independently because they drive
// different caller behavior: a missing adapter is a configuration error, a
// missing feature is capability negotiation, and a failed authorization is
// an entitlement decision.
type Result struct {
	adapter    Adapter
	feature    Feature
	authorized bool
}

// NewResult constructs a resolution result. An unresolved feature is
// implicitly unauthorized regardless of the flag passed in.
func NewResult(a Adapter, f Feature, authorized bool) Result {
	if f == nil {
		authorized = false
	}
	return Result{adapter: a, feature: f, authorized: authorized}
}

// Adapter returns the resolved adapter, or nil when the adapter was not
// found.
func (r Result) Adapter() Adapter { return r.adapter }

// Feature returns the resolved feature, or nil when the adapter does not
// implement the requested capability.
func (r Result) Feature() Feature { return r.feature }

// AdapterResolved reports whether the adapter was found.
func (r Result) AdapterResolved() bool { return r.adapter != nil }

// FeatureResolved reports whether the feature was found.
func (r Result) FeatureResolved() bool { return r.feature != nil }

// Authorized reports whether the caller may use the resolved feature. It is
// only meaningful when FeatureResolved is true; an unresolved feature is
// never authorized.
func (r Result) Authorized() bool { return r.authorized }

// ExtensionFeature reports whether the resolved feature implements an
// extension capability.
func (r Result) ExtensionFeature() bool {
	return r.feature != nil && r.feature.Capability().IsExtension()
}

// Equal reports structural equality: adapter references equal, feature
// references equal, and authorization flags equal. Two independently
// constructed results for the same resolution compare equal.
func (r Result) Equal(other Result) bool {
	return r.adapter == other.adapter &&
		r.feature == other.feature &&
		r.authorized == other.authorized
}
