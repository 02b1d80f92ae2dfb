package adapter

import (
	"context"
	"errors"

	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/health"
)

// FeatureHealth computes the health result for a single feature.
//
// The result name defaults to the feature's capability ID and can be
// overridden via HealthNamer. Probes come from HealthProber and data tags
// from HealthDataProvider; both default to empty. With child probes the
// result is a composite folded with the max-severity rule, otherwise it is a
// healthy leaf. A probe infrastructure fault becomes an unhealthy leaf so a
// sweep across many features never aborts on one failing feature.
//
// The returned error is non-nil only for cancellation or for programming
// misuse (nil arguments); degraded and unhealthy states are values.
func FeatureHealth(ctx context.Context, cc *callctx.Context, f Feature) (health.Result, error) {
	if cc == nil {
		return health.Result{}, ErrNilCallContext
	}
	if f == nil {
		return health.Result{}, errNilFeature
	}
	if err := ctx.Err(); err != nil {
		return health.Result{}, err
	}

	name := f.Capability().ID()
	if n, ok := f.(HealthNamer); ok {
		name = n.HealthCheckName()
	}

	var children []health.Result
	if p, ok := f.(HealthProber); ok {
		probes, err := p.HealthProbes(ctx, cc)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return health.Result{}, cerr
			}
			// Could not even attempt the probes: report it as a state, not
			// an error, so the sweep completes.
			return health.FromError(name, err), nil
		}
		children = probes
	}

	var data map[string]string
	if d, ok := f.(HealthDataProvider); ok {
		data = d.HealthData(ctx, cc)
	}

	if err := ctx.Err(); err != nil {
		return health.Result{}, err
	}
	return health.Composite(name, "", data, children), nil
}

// AdapterHealth computes the adapter-level health composite: one child per
// registered feature plus the adapter's own non-feature diagnostics when it
// implements Prober, folded with the same max-severity rule. The composite
// is named by the adapter ID.
func AdapterHealth(ctx context.Context, cc *callctx.Context, a Adapter) (health.Result, error) {
	if cc == nil {
		return health.Result{}, ErrNilCallContext
	}
	if a == nil {
		return health.Result{}, errNilAdapter
	}

	info := a.Info()
	var children []health.Result

	if p, ok := a.(Prober); ok {
		probes, err := p.HealthProbes(ctx, cc)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return health.Result{}, cerr
			}
			children = append(children, health.FromError(info.ID, err))
		} else {
			children = append(children, probes...)
		}
	}

	for cap := range a.Features().Capabilities() {
		f, _ := a.Features().Get(cap)
		r, err := FeatureHealth(ctx, cc, f)
		if err != nil {
			return health.Result{}, err
		}
		children = append(children, r)
	}

	return health.Composite(info.ID, "", map[string]string{
		"adapter_name":    info.Name,
		"adapter_version": info.Version,
	}, children), nil
}

var (
	errNilFeature = errors.New("health: feature must not be nil")
	errNilAdapter = errors.New("health: adapter must not be nil")
)
