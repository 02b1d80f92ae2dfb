package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/property"
)

type testAdapter struct {
	info     Info
	features *FeatureCollection
}

func (a *testAdapter) Info() Info { return a.info }

func (a *testAdapter) Features() *FeatureCollection { return a.features }

func newTestAdapter(features ...Feature) *testAdapter {
	return &testAdapter{
		info: Info{
			ID:      "plant-east",
			Name:    "Plant East Historian",
			Version: "1.0.0",
			Properties: property.NewBuilder().
				AddValue("vendor", "acme").
				Build(),
		},
		features: NewFeatureCollection(features...),
	}
}

// verdictPolicy returns a fixed verdict, or an evaluation error, and records
// which principal it saw.
type verdictPolicy struct {
	mu      sync.Mutex
	allow   bool
	err     error
	callers []string
}

func (p *verdictPolicy) Authorize(_ context.Context, cc *callctx.Context, _ Adapter, _ Capability) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	subject := ""
	if cc.Principal() != nil {
		subject = cc.Principal().Subject
	}
	p.callers = append(p.callers, subject)
	if p.err != nil {
		return false, p.err
	}
	return p.allow, nil
}

// principalPolicy allows exactly one subject.
type principalPolicy struct{ subject string }

func (p *principalPolicy) Authorize(_ context.Context, cc *callctx.Context, _ Adapter, _ Capability) (bool, error) {
	return cc.Principal() != nil && cc.Principal().Subject == p.subject, nil
}

func newResolver(t *testing.T, reg Registry, policy AuthorizationPolicy) *Resolver {
	t.Helper()
	return NewResolver(reg, policy, zerolog.Nop())
}

func TestResolveUnknownAdapter(t *testing.T) {
	reg := NewMemoryRegistry()
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	res, err := r.Resolve(context.Background(), callctx.New(), "missing", capBrowse)
	require.NoError(t, err)

	assert.False(t, res.AdapterResolved())
	assert.False(t, res.FeatureResolved())
	assert.False(t, res.Authorized())
}

func TestResolveUnknownCapability(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	res, err := r.Resolve(context.Background(), callctx.New(), "plant-east", capSnapshot)
	require.NoError(t, err)

	assert.True(t, res.AdapterResolved())
	assert.False(t, res.FeatureResolved())
	assert.False(t, res.Authorized())
}

func TestResolveDenied(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &verdictPolicy{allow: false})

	res, err := r.Resolve(context.Background(), callctx.New(), "plant-east", capBrowse)
	require.NoError(t, err)

	assert.True(t, res.AdapterResolved())
	assert.True(t, res.FeatureResolved())
	assert.False(t, res.Authorized())
}

func TestResolveAuthorized(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	res, err := r.Resolve(context.Background(), callctx.New(), "plant-east", capBrowse)
	require.NoError(t, err)

	assert.True(t, res.AdapterResolved())
	assert.True(t, res.FeatureResolved())
	assert.True(t, res.Authorized())
}

func TestResolveExtensionFeature(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&waveformFeature{})))
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	res, err := r.Resolve(context.Background(), callctx.New(), "plant-east", capWaveform)
	require.NoError(t, err)

	assert.True(t, res.ExtensionFeature())
}

func TestResolvePolicyFailureIsErrorNotDenial(t *testing.T) {
	backendDown := errors.New("grant store unreachable")
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &verdictPolicy{err: backendDown})

	_, err := r.Resolve(context.Background(), callctx.New(), "plant-east", capBrowse)
	require.Error(t, err)
	assert.ErrorIs(t, err, backendDown)
}

func TestResolveCancelledContext(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, callctx.New(), "plant-east", capBrowse)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveNilCallContext(t *testing.T) {
	reg := NewMemoryRegistry()
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	_, err := r.Resolve(context.Background(), nil, "plant-east", capBrowse)
	assert.ErrorIs(t, err, ErrNilCallContext)
}

func TestResolveZeroCapability(t *testing.T) {
	reg := NewMemoryRegistry()
	r := newResolver(t, reg, &verdictPolicy{allow: true})

	_, err := r.Resolve(context.Background(), callctx.New(), "plant-east", Capability{})
	assert.ErrorIs(t, err, ErrZeroCapability)
}

func TestNewResolverNilArgumentsPanic(t *testing.T) {
	assert.Panics(t, func() { NewResolver(nil, &verdictPolicy{}, zerolog.Nop()) })
	assert.Panics(t, func() { NewResolver(NewMemoryRegistry(), nil, zerolog.Nop()) })
}

func TestResolveIndependentPerCallContext(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &principalPolicy{subject: "alice"})

	alice := callctx.New(callctx.WithPrincipal(&callctx.Principal{Subject: "alice"}))
	bob := callctx.New(callctx.WithPrincipal(&callctx.Principal{Subject: "bob"}))

	resAlice, err := r.Resolve(context.Background(), alice, "plant-east", capBrowse)
	require.NoError(t, err)
	resBob, err := r.Resolve(context.Background(), bob, "plant-east", capBrowse)
	require.NoError(t, err)

	assert.True(t, resAlice.Authorized())
	assert.False(t, resBob.Authorized())
	// Both saw the same adapter and feature instances.
	assert.Same(t, resAlice.Adapter(), resBob.Adapter())
	assert.Same(t, resAlice.Feature(), resBob.Feature())
}

func TestResolveConcurrentCallsDoNotInterfere(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter(&browseFeature{})))
	r := newResolver(t, reg, &principalPolicy{subject: "alice"})

	const n = 64
	results := make([]Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			subject := "alice"
			if i%2 == 1 {
				subject = "bob"
			}
			cc := callctx.New(callctx.WithPrincipal(&callctx.Principal{Subject: subject}))
			results[i], errs[i] = r.Resolve(context.Background(), cc, "plant-east", capBrowse)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].FeatureResolved())
		// Verdict is fully determined by each call's own context.
		assert.Equal(t, i%2 == 0, results[i].Authorized(), "call %d", i)
	}
}
