package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
	"github.com/google/uuid"
)

var (
	// ErrNotReady is returned when no dataset has been loaded yet.
	ErrNotReady = errors.New("dataset has not been loaded yet")

	// ErrUnknownLayout is returned for a layout name with no preset.
	ErrUnknownLayout = errors.New("unknown layout")
)

// Loader reads and parses the source document.
type Loader interface {
	Load(ctx context.Context) (domain.Document, error)
}

// Transformer turns a parsed document into an enriched dataset.
type Transformer interface {
	Transform(ctx context.Context, doc domain.Document) (domain.Dataset, error)
}

// Publisher ships a completed run to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, run domain.Run) error
}

// LayoutSource resolves layout presets by name.
type LayoutSource interface {
	Get(name string) (scale.Layout, bool)
}

// Snapshot is the immutable result of one successful run.
type Snapshot struct {
	RunID       string
	GeneratedAt time.Time
	Dataset     domain.Dataset
	Scales      scale.Set
	Artifacts   render.Artifacts
	Skipped     int
}

// Options wires the pipeline stages. Publisher is optional.
type Options struct {
	Loader        Loader
	Transformer   Transformer
	Publisher     Publisher
	Renderer      *render.Renderer
	Layouts       LayoutSource
	DefaultLayout string
	Cache         *render.Cache
}

// Pipeline runs load, build, scale, render and publish exactly once and then
// serves renders of the stored snapshot.
type Pipeline struct {
	loader        Loader
	transformer   Transformer
	publisher     Publisher
	renderer      *render.Renderer
	layouts       LayoutSource
	defaultLayout string
	cache         *render.Cache
	logger        *slog.Logger
	metrics       *observability.Metrics
	snapshot      atomic.Pointer[Snapshot]
}

// New creates a Pipeline with the given stages and observability.
func New(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	cache := opts.Cache
	if cache == nil {
		cache = render.NewCache(0)
	}
	return &Pipeline{
		loader:        opts.Loader,
		transformer:   opts.Transformer,
		publisher:     opts.Publisher,
		renderer:      opts.Renderer,
		layouts:       opts.Layouts,
		defaultLayout: opts.DefaultLayout,
		cache:         cache,
		logger:        logger,
		metrics:       metrics,
	}
}

// CheckReadiness returns nil once a snapshot exists, or an error describing
// why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.snapshot.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Ready reports whether a snapshot exists.
func (p *Pipeline) Ready() bool {
	return p.snapshot.Load() != nil
}

// Snapshot returns the stored run, or nil before the first success.
func (p *Pipeline) Snapshot() *Snapshot {
	return p.snapshot.Load()
}

// DefaultLayout returns the name of the layout rendered by Run.
func (p *Pipeline) DefaultLayout() string {
	return p.defaultLayout
}

// Run performs a single attempt. Failures are logged, counted and returned;
// the previous snapshot, if any, is left in place.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("pipeline started", "layout", p.defaultLayout)

	fetchStart := time.Now()
	doc, err := p.loader.Load(ctx)
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		return p.fail(logger, "load source", err)
	}
	if n := len(doc.Rejected); n > 0 {
		p.metrics.RecordsSkipped.Add(float64(n))
		logger.Warn("invalid records skipped", "count", n)
	}

	ds, err := p.transformer.Transform(ctx, doc)
	if err != nil {
		return p.fail(logger, "build dataset", err)
	}

	layout, ok := p.layouts.Get(p.defaultLayout)
	if !ok {
		return p.fail(logger, "resolve layout", fmt.Errorf("%w: %q", ErrUnknownLayout, p.defaultLayout))
	}
	scales, art, err := p.render(ds, layout)
	if err != nil {
		return p.fail(logger, "render", err)
	}

	run := domain.Run{ID: runID, GeneratedAt: domain.Now(), Dataset: ds}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, run); err != nil {
			return p.failWith(logger, observability.OutcomePublishError, "publish", err)
		}
		p.metrics.RecordsPublished.Add(float64(ds.Len()))
	}

	p.cache.Purge()
	p.cache.Put(cacheKey(runID, layout), art)
	p.snapshot.Store(&Snapshot{
		RunID:       runID,
		GeneratedAt: run.GeneratedAt,
		Dataset:     ds,
		Scales:      scales,
		Artifacts:   art,
		Skipped:     len(doc.Rejected),
	})

	p.metrics.RecordsLoaded.Set(float64(ds.Len()))
	p.metrics.PipelineReady.Set(1)
	p.metrics.LoadsTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
	logger.Info("pipeline completed",
		"records", ds.Len(),
		"skipped", len(doc.Rejected),
		"min_year", scales.MinYear,
		"max_year", scales.MaxYear,
	)
	return nil
}

// RenderLayout renders the stored dataset on the named layout, through the cache.
func (p *Pipeline) RenderLayout(name string) (render.Artifacts, error) {
	snap := p.snapshot.Load()
	if snap == nil {
		return render.Artifacts{}, ErrNotReady
	}
	layout, ok := p.layouts.Get(name)
	if !ok {
		return render.Artifacts{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}

	key := cacheKey(snap.RunID, layout)
	if art, ok := p.cache.Get(key); ok {
		p.metrics.RenderCache.WithLabelValues("hit").Inc()
		return art, nil
	}
	p.metrics.RenderCache.WithLabelValues("miss").Inc()

	_, art, err := p.render(snap.Dataset, layout)
	if err != nil {
		return render.Artifacts{}, err
	}
	p.cache.Put(key, art)
	return art, nil
}

// InvalidateRenders drops cached renders, e.g. after layout presets change.
func (p *Pipeline) InvalidateRenders() {
	p.cache.Purge()
}

func (p *Pipeline) render(ds domain.Dataset, layout scale.Layout) (scale.Set, render.Artifacts, error) {
	start := time.Now()
	defer func() { p.metrics.RenderDuration.Observe(time.Since(start).Seconds()) }()

	scales, err := scale.NewSet(ds, layout, p.renderer.Palette().Len())
	if err != nil {
		return scale.Set{}, render.Artifacts{}, fmt.Errorf("compute scales: %w", err)
	}
	art, err := p.renderer.Render(ds, scales)
	if err != nil {
		return scale.Set{}, render.Artifacts{}, err
	}
	return scales, art, nil
}

func (p *Pipeline) fail(logger *slog.Logger, stage string, err error) error {
	return p.failWith(logger, outcomeFor(err), stage, err)
}

func (p *Pipeline) failWith(logger *slog.Logger, outcome, stage string, err error) error {
	p.metrics.LoadsTotal.WithLabelValues(outcome).Inc()
	logger.Error("pipeline failed", "stage", stage, "outcome", outcome, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrFetch):
		return observability.OutcomeFetchError
	case errors.Is(err, domain.ErrParse):
		return observability.OutcomeParseError
	case errors.Is(err, domain.ErrInvalidRecord):
		return observability.OutcomeInvalid
	case errors.Is(err, domain.ErrEmptyDataset):
		return observability.OutcomeEmpty
	default:
		return observability.OutcomeRenderError
	}
}

// cacheKey ties a render to its run and the exact layout geometry, so a
// reloaded preset with the same name is not served stale.
func cacheKey(runID string, l scale.Layout) string {
	return fmt.Sprintf("%s|%s|%gx%g+%g", runID, l.Name, l.Width, l.Height, l.Padding)
}
