package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
)

type stubFeature struct{ cap adapter.Capability }

func (f *stubFeature) Capability() adapter.Capability { return f.cap }

type stubAdapter struct {
	id       string
	features *adapter.FeatureCollection
}

func (a *stubAdapter) Info() adapter.Info { return adapter.Info{ID: a.id, Name: a.id} }

func (a *stubAdapter) Features() *adapter.FeatureCollection { return a.features }

func newStubAdapter(id string, caps ...adapter.Capability) *stubAdapter {
	features := make([]adapter.Feature, 0, len(caps))
	for _, c := range caps {
		features = append(features, &stubFeature{cap: c})
	}
	return &stubAdapter{id: id, features: adapter.NewFeatureCollection(features...)}
}

func ccFor(subject string) *callctx.Context {
	if subject == "" {
		return callctx.New()
	}
	return callctx.New(callctx.WithPrincipal(&callctx.Principal{Subject: subject}))
}

func TestAllowAllAndDenyAll(t *testing.T) {
	a := newStubAdapter("plant-east")
	cap := adapter.NewCapability("tags.browse")

	allowed, err := AllowAll{}.Authorize(context.Background(), callctx.New(), a, cap)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = DenyAll{}.Authorize(context.Background(), callctx.New(), a, cap)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRulesPolicyFirstMatchWins(t *testing.T) {
	p, err := NewRulesPolicy(RulesDocument{
		Default: "deny",
		Rules: []Rule{
			{Principal: "alice", Adapter: "plant-east", Capabilities: []string{"tags.browse"}, Effect: "deny"},
			{Principal: "alice", Adapter: "*", Capabilities: []string{"*"}, Effect: "allow"},
		},
	})
	require.NoError(t, err)

	a := newStubAdapter("plant-east")
	browse := adapter.NewCapability("tags.browse")
	snapshot := adapter.NewCapability("values.snapshot")

	// First rule denies browse even though the second would allow it.
	allowed, err := p.Authorize(context.Background(), ccFor("alice"), a, browse)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = p.Authorize(context.Background(), ccFor("alice"), a, snapshot)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRulesPolicyDefaultEffect(t *testing.T) {
	p, err := NewRulesPolicy(RulesDocument{Default: "allow"})
	require.NoError(t, err)

	allowed, err := p.Authorize(context.Background(), ccFor("anyone"), newStubAdapter("x"), adapter.NewCapability("c"))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRulesPolicyAnonymous(t *testing.T) {
	p, err := NewRulesPolicy(RulesDocument{
		Default: "deny",
		Rules: []Rule{
			{Principal: "anonymous", Adapter: "*", Capabilities: []string{"tags.browse"}, Effect: "allow"},
		},
	})
	require.NoError(t, err)

	a := newStubAdapter("plant-east")

	allowed, err := p.Authorize(context.Background(), callctx.New(), a, adapter.NewCapability("tags.browse"))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = p.Authorize(context.Background(), callctx.New(), a, adapter.NewCapability("values.snapshot"))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRulesPolicyInvalidEffect(t *testing.T) {
	_, err := NewRulesPolicy(RulesDocument{
		Default: "deny",
		Rules:   []Rule{{Principal: "*", Adapter: "*", Capabilities: []string{"*"}, Effect: "maybe"}},
	})
	assert.ErrorIs(t, err, ErrInvalidEffect)

	_, err = NewRulesPolicy(RulesDocument{Default: "sometimes"})
	assert.ErrorIs(t, err, ErrInvalidEffect)
}

func TestLoadRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `
default: deny
rules:
  - principal: alice
    adapter: plant-east
    capabilities: ["tags.browse", "values.snapshot"]
    effect: allow
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	p, err := LoadRulesFile(path)
	require.NoError(t, err)

	a := newStubAdapter("plant-east")
	allowed, err := p.Authorize(context.Background(), ccFor("alice"), a, adapter.NewCapability("values.snapshot"))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = p.Authorize(context.Background(), ccFor("bob"), a, adapter.NewCapability("values.snapshot"))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLoadRulesFileMissing(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
