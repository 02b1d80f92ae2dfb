package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/feature"
	"github.com/normanking/manifold/pkg/health"
)

func newSim(t *testing.T) *Adapter {
	t.Helper()
	return New(Options{TagCount: 4, Period: time.Minute}, zerolog.Nop())
}

func TestSimExposesExpectedCapabilities(t *testing.T) {
	a := newSim(t)

	assert.True(t, a.Features().Contains(feature.CapTagBrowse))
	assert.True(t, a.Features().Contains(feature.CapSnapshotRead))
	assert.True(t, a.Features().Contains(CapWaveform))
	assert.Equal(t, 3, a.Features().Len())
	assert.True(t, CapWaveform.IsExtension())
}

func TestSimBrowseTags(t *testing.T) {
	a := newSim(t)
	browser, ok := adapter.Lookup[feature.TagBrowser](a.Features(), feature.CapTagBrowse)
	require.True(t, ok)

	tags, err := browser.BrowseTags(context.Background(), callctx.New(), "")
	require.NoError(t, err)
	require.Len(t, tags, 4)
	assert.Equal(t, "sim.channel-01", tags[0].Name)
	assert.NotEmpty(t, tags[0].Properties)

	filtered, err := browser.BrowseTags(context.Background(), callctx.New(), "channel-03")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "sim.channel-03", filtered[0].Name)
}

func TestSimReadSnapshotSkipsUnknownTags(t *testing.T) {
	a := newSim(t)
	reader, ok := adapter.Lookup[feature.SnapshotReader](a.Features(), feature.CapSnapshotRead)
	require.True(t, ok)

	values, err := reader.ReadSnapshot(context.Background(), callctx.New(), []string{
		"sim.channel-01",
		"sim.channel-99",
		"bogus",
		"sim.channel-02",
	})
	require.NoError(t, err)
	require.Len(t, values, 2)

	for _, v := range values {
		assert.GreaterOrEqual(t, v.Value, -1.0)
		assert.LessOrEqual(t, v.Value, 1.0)
		assert.False(t, v.Timestamp.IsZero())
	}
}

func TestSimWaveformExtension(t *testing.T) {
	a := newSim(t)
	wf, ok := adapter.Lookup[WaveformReader](a.Features(), CapWaveform)
	require.True(t, ok)

	samples, err := wf.ReadWaveform(context.Background(), callctx.New(), "sim.channel-01", 16)
	require.NoError(t, err)
	assert.Len(t, samples, 16)

	_, err = wf.ReadWaveform(context.Background(), callctx.New(), "nope", 16)
	assert.Error(t, err)
}

func TestSimAdapterHealth(t *testing.T) {
	a := newSim(t)

	r, err := adapter.AdapterHealth(context.Background(), callctx.New(), a)
	require.NoError(t, err)

	assert.Equal(t, "sim", r.Name)
	assert.Equal(t, health.StatusHealthy, r.Status)
	// Uptime probe plus one result per feature.
	assert.Len(t, r.Children, 4)

	names := make(map[string]bool)
	for _, c := range r.Children {
		names[c.Name] = true
	}
	assert.True(t, names["uptime"])
	assert.True(t, names["snapshot-reader"], "snapshot reader overrides its health name")
	assert.True(t, names["tags.browse"])
}

func TestSimOperationsHonorCancellation(t *testing.T) {
	a := newSim(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	browser, _ := adapter.Lookup[feature.TagBrowser](a.Features(), feature.CapTagBrowse)
	_, err := browser.BrowseTags(ctx, callctx.New(), "")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = adapter.AdapterHealth(ctx, callctx.New(), a)
	assert.ErrorIs(t, err, context.Canceled)
}
