package adapter

import (
	"context"

	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/health"
)

// Feature is the marker contract for adapter capabilities. Concrete feature
// interfaces embed Feature and add their operations; the Capability method
// ties an implementation back to the descriptor it is registered under.
type Feature interface {
	// Capability returns the descriptor of the contract this feature
	// implements.
	Capability() Capability
}

// The interfaces below are optional extension points a feature may implement
// to customize its health check. Features that implement none of them report
// a single healthy leaf named after their capability.

// HealthNamer overrides the name of a feature's health result. The default
// is the feature's capability ID.
type HealthNamer interface {
	HealthCheckName() string
}

// HealthProber supplies feature-specific diagnostic probes. Each returned
// result becomes a child of the feature's composite health result. Returning
// an error signals that the probes could not even be attempted; the
// aggregator converts it into an unhealthy leaf rather than aborting the
// sweep. Degraded or unhealthy subsystems are results, not errors.
type HealthProber interface {
	HealthProbes(ctx context.Context, cc *callctx.Context) ([]health.Result, error)
}

// HealthDataProvider supplies key/value diagnostics attached to the
// feature's health result.
type HealthDataProvider interface {
	HealthData(ctx context.Context, cc *callctx.Context) map[string]string
}
