// Package sim provides the built-in simulator adapter: an in-process data
// source with generated tags and waveform values. It exercises the full
// capability surface (core features, one extension feature, custom health
// probes) without any external system.
package sim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
	"github.com/normanking/manifold/pkg/feature"
	"github.com/normanking/manifold/pkg/health"
	"github.com/normanking/manifold/pkg/property"
)

// CapWaveform identifies the simulator's extension contract for reading a
// whole waveform period at once. It is not part of the core contract set;
// callers discover it by enumerating the collection.
var CapWaveform = adapter.NewExtension("sim.waveform")

// WaveformReader is the sim.waveform extension contract.
type WaveformReader interface {
	adapter.Feature

	// ReadWaveform samples one full period of a tag's waveform.
	ReadWaveform(ctx context.Context, cc *callctx.Context, tag string, points int) ([]float64, error)
}

// Options configures the simulator.
type Options struct {
	// TagCount is the number of generated tags (default 10).
	TagCount int
	// Period is the waveform period (default 60s).
	Period time.Duration
}

// Adapter is the simulator adapter.
type Adapter struct {
	info     adapter.Info
	features *adapter.FeatureCollection
	started  time.Time
	log      zerolog.Logger
}

// New creates a simulator adapter.
func New(opts Options, log zerolog.Logger) *Adapter {
	if opts.TagCount <= 0 {
		opts.TagCount = 10
	}
	if opts.Period <= 0 {
		opts.Period = time.Minute
	}

	gen := &generator{tagCount: opts.TagCount, period: opts.Period}

	a := &Adapter{
		info: adapter.Info{
			ID:          "sim",
			Name:        "Simulator",
			Version:     "1.0.0",
			Description: "In-process simulator data source with generated waveform tags",
			Properties: property.NewBuilder().
				AddValue("tag_count", opts.TagCount).
				AddValue("period", opts.Period.String()).
				Build(),
		},
		features: adapter.NewFeatureCollection(
			&tagBrowser{gen: gen},
			&snapshotReader{gen: gen},
			&waveformReader{gen: gen},
		),
		started: time.Now(),
		log:     log.With().Str("adapter", "sim").Logger(),
	}
	a.log.Debug().Int("tags", opts.TagCount).Msg("simulator adapter created")
	return a
}

// Info implements adapter.Adapter.
func (a *Adapter) Info() adapter.Info { return a.info }

// Features implements adapter.Adapter.
func (a *Adapter) Features() *adapter.FeatureCollection { return a.features }

// HealthProbes implements adapter.Prober with the adapter's non-feature
// diagnostics.
func (a *Adapter) HealthProbes(ctx context.Context, _ *callctx.Context) ([]health.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uptime := time.Since(a.started).Round(time.Second)
	return []health.Result{
		health.NewResult("uptime", health.StatusHealthy, "", map[string]string{
			"since": a.started.UTC().Format(time.RFC3339),
			"up":    uptime.String(),
		}),
	}, nil
}

// generator produces deterministic waveform values shared by all features.
type generator struct {
	tagCount int
	period   time.Duration
}

func (g *generator) tagName(i int) string {
	return fmt.Sprintf("sim.channel-%02d", i+1)
}

// channelOf parses the 1-based channel index out of a tag name, returning 0
// for names that are not simulator tags.
func (g *generator) channelOf(name string) int {
	suffix, ok := strings.CutPrefix(name, "sim.channel-")
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(suffix)
	if err != nil || i < 1 || i > g.tagCount {
		return 0
	}
	return i
}

func (g *generator) knownTag(name string) bool {
	return g.channelOf(name) != 0
}

// valueAt computes the tag's value at time t. Each channel is a sine wave
// phase-shifted by its index so channels are distinguishable.
func (g *generator) valueAt(name string, t time.Time) float64 {
	i := g.channelOf(name)
	phase := float64(i) / float64(g.tagCount) * 2 * math.Pi
	pos := float64(t.UnixNano()%int64(g.period)) / float64(g.period)
	return math.Sin(2*math.Pi*pos + phase)
}

// ───────────────────────────────────────────────────────────────────────────────
// FEATURES
// ───────────────────────────────────────────────────────────────────────────────

type tagBrowser struct {
	gen *generator
}

func (f *tagBrowser) Capability() adapter.Capability { return feature.CapTagBrowse }

func (f *tagBrowser) BrowseTags(ctx context.Context, _ *callctx.Context, filter string) ([]feature.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags := make([]feature.Tag, 0, f.gen.tagCount)
	for i := 0; i < f.gen.tagCount; i++ {
		name := f.gen.tagName(i)
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}
		tags = append(tags, feature.Tag{
			Name:        name,
			Description: fmt.Sprintf("Simulated sine channel %d", i+1),
			Properties: property.NewBuilder().
				AddValue("unit", "ratio").
				AddValue("range", "[-1, 1]").
				Build(),
		})
	}
	return tags, nil
}

func (f *tagBrowser) HealthData(_ context.Context, _ *callctx.Context) map[string]string {
	return map[string]string{"tag_count": fmt.Sprintf("%d", f.gen.tagCount)}
}

type snapshotReader struct {
	gen *generator
}

func (f *snapshotReader) Capability() adapter.Capability { return feature.CapSnapshotRead }

func (f *snapshotReader) ReadSnapshot(ctx context.Context, _ *callctx.Context, tags []string) ([]feature.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	values := make([]feature.Value, 0, len(tags))
	for _, name := range tags {
		if !f.gen.knownTag(name) {
			continue // unknown tags are skipped, not errors
		}
		values = append(values, feature.Value{
			Tag:       name,
			Value:     f.gen.valueAt(name, now),
			Timestamp: now,
		})
	}
	return values, nil
}

func (f *snapshotReader) HealthCheckName() string { return "snapshot-reader" }

func (f *snapshotReader) HealthProbes(ctx context.Context, _ *callctx.Context) ([]health.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The generator is pure; the only failure mode worth reporting is a
	// misconfigured (empty) tag set, which degrades the feature.
	if f.gen.tagCount == 0 {
		return []health.Result{health.Degraded("generator", "no tags configured")}, nil
	}
	return []health.Result{health.Healthy("generator", "")}, nil
}

type waveformReader struct {
	gen *generator
}

func (f *waveformReader) Capability() adapter.Capability { return CapWaveform }

func (f *waveformReader) ReadWaveform(ctx context.Context, _ *callctx.Context, tag string, points int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !f.gen.knownTag(tag) {
		return nil, fmt.Errorf("sim: unknown tag %q", tag)
	}
	if points <= 0 {
		points = 100
	}

	base := time.Now().Truncate(f.gen.period)
	out := make([]float64, points)
	for i := 0; i < points; i++ {
		offset := time.Duration(float64(f.gen.period) * float64(i) / float64(points))
		out[i] = f.gen.valueAt(tag, base.Add(offset))
	}
	return out, nil
}
