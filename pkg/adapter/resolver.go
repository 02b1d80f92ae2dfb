package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/normanking/manifold/pkg/callctx"
)

// AuthorizationPolicy decides whether a caller may use a capability of an
// adapter. Denial is a value, not an error: the error return is reserved for
// genuine evaluation failures (backend unreachable, corrupt policy data) and
// must never be used to express "access denied".
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, cc *callctx.Context, a Adapter, cap Capability) (bool, error)
}

// Programming-misuse errors. These indicate caller bugs and are never
// retried.
var (
	ErrNilCallContext = errors.New("resolve: call context must not be nil")
	ErrZeroCapability = errors.New("resolve: capability must not be zero")
)

// Resolver locates an adapter, locates its implementation of a capability,
// and authorizes the caller's access to it. Not-found outcomes are value
// flags on the Result; only cancellation and policy evaluation failures
// cross the error channel.
type Resolver struct {
	registry Registry
	policy   AuthorizationPolicy
	log      zerolog.Logger
}

// NewResolver creates a resolver. Registry and policy are required; passing
// nil for either is a programming error and panics immediately.
func NewResolver(registry Registry, policy AuthorizationPolicy, log zerolog.Logger) *Resolver {
	if registry == nil {
		panic("adapter: NewResolver called with nil registry")
	}
	if policy == nil {
		panic("adapter: NewResolver called with nil policy")
	}
	return &Resolver{registry: registry, policy: policy, log: log}
}

// Resolve resolves the capability of the named adapter for the calling
// context. Each call is resolved independently: the collection lookup is
// idempotent and side-effect free, so only the authorization verdict can
// vary between calls with different contexts.
func (r *Resolver) Resolve(ctx context.Context, cc *callctx.Context, adapterName string, cap Capability) (Result, error) {
	if cc == nil {
		return Result{}, ErrNilCallContext
	}
	if cap.IsZero() {
		return Result{}, ErrZeroCapability
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	log := r.log.With().
		Str("adapter", adapterName).
		Str("capability", cap.ID()).
		Str("correlation_id", cc.CorrelationID()).
		Logger()

	a, ok := r.registry.Adapter(adapterName)
	if !ok {
		log.Debug().Msg("adapter not registered")
		return NewResult(nil, nil, false), nil
	}

	f, ok := a.Features().Get(cap)
	if !ok {
		log.Debug().Msg("capability not implemented by adapter")
		return NewResult(a, nil, false), nil
	}

	allowed, err := r.policy.Authorize(ctx, cc, a, cap)
	if err != nil {
		// Evaluation failure is not a denial; surface it so the caller can
		// tell an outage apart from an entitlement decision.
		return Result{}, fmt.Errorf("authorize %s on adapter %q: %w", cap.ID(), adapterName, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	log.Debug().Bool("authorized", allowed).Msg("capability resolved")
	return NewResult(a, f, allowed), nil
}
