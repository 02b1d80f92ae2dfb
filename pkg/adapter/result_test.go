package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultStructuralEquality(t *testing.T) {
	a := newTestAdapter(&browseFeature{})
	f, _ := a.Features().Get(capBrowse)

	r1 := NewResult(a, f, true)
	r2 := NewResult(a, f, true)

	// Independently constructed results compare equal structurally.
	assert.True(t, r1.Equal(r2))
	assert.True(t, r2.Equal(r1))
}

func TestResultInequality(t *testing.T) {
	a := newTestAdapter(&browseFeature{})
	b := newTestAdapter(&browseFeature{})
	fa, _ := a.Features().Get(capBrowse)
	fb, _ := b.Features().Get(capBrowse)

	base := NewResult(a, fa, true)

	assert.False(t, base.Equal(NewResult(b, fa, true)), "different adapter reference")
	assert.False(t, base.Equal(NewResult(a, fb, true)), "different feature reference")
	assert.False(t, base.Equal(NewResult(a, fa, false)), "different authorization flag")
}

func TestResultUnresolvedFeatureNeverAuthorized(t *testing.T) {
	a := newTestAdapter()

	r := NewResult(a, nil, true)

	assert.True(t, r.AdapterResolved())
	assert.False(t, r.FeatureResolved())
	assert.False(t, r.Authorized())
}

func TestResultDerivedFlags(t *testing.T) {
	a := newTestAdapter(&waveformFeature{})
	f, _ := a.Features().Get(capWaveform)

	r := NewResult(a, f, true)
	assert.True(t, r.AdapterResolved())
	assert.True(t, r.FeatureResolved())
	assert.True(t, r.ExtensionFeature())

	empty := Result{}
	assert.False(t, empty.AdapterResolved())
	assert.False(t, empty.FeatureResolved())
	assert.False(t, empty.Authorized())
	assert.False(t, empty.ExtensionFeature())
}
