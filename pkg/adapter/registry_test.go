package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistryRegisterAndLookup(t *testing.T) {
	reg := NewMemoryRegistry()
	a := newTestAdapter(&browseFeature{})

	require.NoError(t, reg.Register("plant-east", a))

	got, ok := reg.Adapter("plant-east")
	require.True(t, ok)
	assert.Same(t, a, got.(*testAdapter))

	_, ok = reg.Adapter("plant-west")
	assert.False(t, ok)
}

func TestMemoryRegistryDuplicateName(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("plant-east", newTestAdapter()))

	err := reg.Register("plant-east", newTestAdapter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestMemoryRegistryInvalidRegistration(t *testing.T) {
	reg := NewMemoryRegistry()

	assert.Error(t, reg.Register("", newTestAdapter()))
	assert.Error(t, reg.Register("plant-east", nil))
	assert.Equal(t, 0, reg.Count())
}

func TestMemoryRegistryNamesSorted(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Register("zulu", newTestAdapter()))
	require.NoError(t, reg.Register("alpha", newTestAdapter()))
	require.NoError(t, reg.Register("mike", newTestAdapter()))

	assert.Equal(t, []string{"alpha", "mike", "zulu"}, reg.Names())
	assert.Equal(t, 3, reg.Count())
}
