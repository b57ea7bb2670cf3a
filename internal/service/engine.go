package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/cache"
	"github.com/JonnyWalker81/patternlog/internal/events"
	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/metrics"
	"github.com/JonnyWalker81/patternlog/internal/models"
)

// Request slots. A new request in a slot cancels the one in flight.
const (
	slotShortReport  = "report.short"
	slotLongReport   = "report.long"
	slotCustomReport = "report.custom"
	slotPage         = "entries.page"
)

// EngineConfig tunes the insight engine
type EngineConfig struct {
	CacheTTL         time.Duration
	PageSize         int
	PrefetchDistance int
	Workers          int
	// TimeZone names the calendar used for day boundaries; empty means the
	// process-local zone
	TimeZone      string
	FlatTolerance float64
	Correlation   CorrelationConfig
	Scoring       ScoringWeights
	Valences      map[models.PatternType]Valence
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CacheTTL:         cache.DefaultTTL,
		PageSize:         DefaultPageSize,
		PrefetchDistance: DefaultPrefetchDistance,
		Workers:          DefaultWorkers,
		FlatTolerance:    DefaultFlatTolerance,
		Correlation:      DefaultCorrelationConfig(),
		Scoring:          DefaultScoringWeights(),
	}
}

// ReportResult is delivered by the async report calls
type ReportResult struct {
	Report *models.Report
	Err    error
}

// EngineOption customizes an InsightEngine
type EngineOption func(*InsightEngine)

// WithMetrics records engine metrics on m
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *InsightEngine) { e.metrics = m }
}

// WithLogger replaces the default logger
func WithLogger(l logger.Logger) EngineOption {
	return func(e *InsightEngine) { e.log = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) EngineOption {
	return func(e *InsightEngine) { e.now = now }
}

// WithBus publishes change notifications on b
func WithBus(b *events.Bus) EngineOption {
	return func(e *InsightEngine) { e.bus = b }
}

// flight is the in-progress request of a slot
type flight struct {
	id     uint64
	cancel context.CancelFunc
}

// InsightEngine serves reports, trends and the paged journal list on top of
// an injected EventSource, memoizing reports in a ResultCache.
type InsightEngine struct {
	source  EventSource
	cache   *cache.Cache
	builder *ReportBuilder
	trends  *TrendAnalyzer
	loader  *PagedEntryLoader
	bus     *events.Bus
	metrics *metrics.Metrics
	log     logger.Logger
	now     func() time.Time
	cfg     EngineConfig

	mu       sync.Mutex
	inflight map[string]flight
	seq      uint64
}

// NewInsightEngine wires the analyzers around source and c
func NewInsightEngine(source EventSource, c *cache.Cache, cfg EngineConfig, opts ...EngineOption) *InsightEngine {
	e := &InsightEngine{
		source:   source,
		cache:    c,
		cfg:      cfg,
		log:      logger.Default(),
		now:      time.Now,
		inflight: make(map[string]flight),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = events.NewBus(16)
	}

	scorer := NewDayScorer(cfg.Scoring, cfg.Valences)
	e.trends = NewTrendAnalyzer(scorer, cfg.FlatTolerance)
	e.builder = NewReportBuilder(
		source,
		NewAggregationEngine(scorer),
		e.trends,
		NewCorrelationAnalyzer(scorer, cfg.Correlation),
		cfg.Workers,
	)
	e.builder.now = e.now

	e.loader = NewPagedEntryLoader(source, cfg.PageSize, cfg.PrefetchDistance)
	e.loader.SetMetrics(e.metrics)
	e.cache.SetMetrics(e.metrics)
	return e
}

// ShortWindow is the trailing 7 local calendar days ending now
func (e *InsightEngine) ShortWindow() models.Window {
	return e.trailingWindow(models.GranularityShort)
}

// LongWindow is the trailing 30 local calendar days ending now
func (e *InsightEngine) LongWindow() models.Window {
	return e.trailingWindow(models.GranularityLong)
}

// trailingWindow starts at local midnight so the window spans exactly
// g.Days() calendar days, today included.
func (e *InsightEngine) trailingWindow(g models.Granularity) models.Window {
	w := models.Window{Granularity: g, TimeZone: e.cfg.TimeZone}
	end := e.now().In(w.Loc())
	first := end.AddDate(0, 0, -(g.Days() - 1))
	w.Start = time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, w.Loc()).UTC()
	w.End = end.UTC()
	return w
}

// CustomWindow builds a window between start and end in the engine's zone
func (e *InsightEngine) CustomWindow(start, end time.Time) models.Window {
	return models.Window{
		Start:       start.UTC(),
		End:         end.UTC(),
		Granularity: models.GranularityCustom,
		TimeZone:    e.cfg.TimeZone,
	}
}

// GetShortReport returns the short-period report
func (e *InsightEngine) GetShortReport(ctx context.Context) (*models.Report, error) {
	return e.GetReport(ctx, e.ShortWindow())
}

// GetLongReport returns the long-period report
func (e *InsightEngine) GetLongReport(ctx context.Context) (*models.Report, error) {
	return e.GetReport(ctx, e.LongWindow())
}

// GetReport returns the report for w, from cache when possible. A later
// request for the same granularity cancels this one, which then returns
// context.Canceled.
func (e *InsightEngine) GetReport(ctx context.Context, w models.Window) (*models.Report, error) {
	if w.End.Before(w.Start) {
		return nil, ErrInvalidWindow
	}
	ctx, done := e.begin(ctx, slotFor(w.Granularity))
	defer done()
	return e.report(ctx, w)
}

// ShortReportAsync starts a short report and delivers it on the channel
func (e *InsightEngine) ShortReportAsync(ctx context.Context) <-chan ReportResult {
	ch, _ := e.ReportAsync(ctx, e.ShortWindow())
	return ch
}

// LongReportAsync starts a long report and delivers it on the channel
func (e *InsightEngine) LongReportAsync(ctx context.Context) <-chan ReportResult {
	ch, _ := e.ReportAsync(ctx, e.LongWindow())
	return ch
}

// ReportAsync validates w synchronously, then builds the report off the
// caller's goroutine. The channel receives exactly one result.
func (e *InsightEngine) ReportAsync(ctx context.Context, w models.Window) (<-chan ReportResult, error) {
	if w.End.Before(w.Start) {
		return nil, ErrInvalidWindow
	}
	// Claim the slot before returning so request order decides supersession
	ctx, done := e.begin(ctx, slotFor(w.Granularity))

	ch := make(chan ReportResult, 1)
	go func() {
		defer done()
		r, err := e.report(ctx, w)
		ch <- ReportResult{Report: r, Err: err}
		close(ch)
	}()
	return ch, nil
}

// AnalyzeTrend fetches the observations of w and classifies metric over them
func (e *InsightEngine) AnalyzeTrend(ctx context.Context, metric models.TrendMetric, w models.Window) (models.TrendDescriptor, error) {
	if w.End.Before(w.Start) {
		return models.TrendDescriptor{}, ErrInvalidWindow
	}

	switch metric {
	case models.MetricMood, models.MetricEnergy, models.MetricEffectiveness:
		intakes, err := e.source.QueryMedicationIntakes(ctx, w.Start, w.End)
		if err != nil {
			return models.TrendDescriptor{}, repositoryError(ctx, err)
		}
		return e.trends.AnalyzeIntakeTrend(intakes, metric, w), nil
	default:
		observations, err := e.source.QueryObservations(ctx, w.Start, w.End)
		if err != nil {
			return models.TrendDescriptor{}, repositoryError(ctx, err)
		}
		return e.trends.AnalyzeTrend(observations, metric, w), nil
	}
}

// GetPage returns one page of journal entries. A later GetPage cancels this one.
func (e *InsightEngine) GetPage(ctx context.Context, offset, limit int) ([]models.Entry, bool, error) {
	ctx, done := e.begin(ctx, slotPage)
	defer done()

	entries, hasMore, err := LoadPage(ctx, e.source, offset, limit)
	if err != nil {
		return nil, false, err
	}
	e.metrics.RecordPageLoaded()
	return entries, hasMore, nil
}

// Loader returns the engine's stateful journal loader
func (e *InsightEngine) Loader() *PagedEntryLoader {
	return e.loader
}

// InvalidateAfterWrite drops every cached report that could contain a
// record stamped ts. The write path calls it after each create, edit or
// delete (for edits that move a record, once per timestamp).
func (e *InsightEngine) InvalidateAfterWrite(ts time.Time) {
	n := e.cache.InvalidateContaining(ts)
	e.loader.MarkStale()

	e.log.Debug("cache invalidated after write",
		logger.Time("record_timestamp", ts),
		logger.Int("invalidated", n),
	)
	e.bus.Publish(models.Notification{
		Kind:        models.NotificationCacheInvalidated,
		Timestamp:   ts.UTC(),
		Invalidated: n,
	})
}

// Subscribe returns a channel of change notifications and its cancel func
func (e *InsightEngine) Subscribe() (<-chan models.Notification, func()) {
	return e.bus.Subscribe()
}

// report serves w from cache or builds and caches it
func (e *InsightEngine) report(ctx context.Context, w models.Window) (*models.Report, error) {
	key := cache.KeyFor(w)
	if r, ok := e.cache.Get(key); ok {
		return r, nil
	}

	// Read before fetching: an invalidation during the build bumps it
	gen := e.cache.Generation()
	started := e.now()

	r, err := e.builder.Build(ctx, w)
	if err != nil {
		result := "error"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = "canceled"
		}
		e.metrics.RecordReportBuild(string(w.Granularity), result, e.now().Sub(started))
		if result == "error" {
			logger.Ctx(ctx).Error("failed to build report",
				logger.String("window", key.String()),
				logger.Err(err),
			)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// Superseded after the build finished; discard
		e.metrics.RecordReportBuild(string(w.Granularity), "canceled", e.now().Sub(started))
		return nil, err
	}
	e.metrics.RecordReportBuild(string(w.Granularity), "ok", e.now().Sub(started))
	e.metrics.AddFindings(len(r.Findings))

	stored, err := e.cache.PutIfCurrent(key, r, e.cfg.CacheTTL, gen)
	if err != nil {
		logger.Ctx(ctx).Warn("failed to cache report", logger.String("window", key.String()), logger.Err(err))
	} else if !stored {
		logger.Ctx(ctx).Debug("report not cached, invalidated during build", logger.String("window", key.String()))
	}

	e.bus.Publish(models.Notification{
		Kind:        models.NotificationReportReady,
		Granularity: w.Granularity,
		Timestamp:   r.GeneratedAt,
	})
	return r, nil
}

// begin claims slot for a new request, cancelling the previous holder. The
// returned func releases the slot and must be called when the request ends.
func (e *InsightEngine) begin(ctx context.Context, slot string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	if prev, ok := e.inflight[slot]; ok {
		prev.cancel()
	}
	e.seq++
	id := e.seq
	e.inflight[slot] = flight{id: id, cancel: cancel}
	e.mu.Unlock()

	return ctx, func() {
		e.mu.Lock()
		if cur, ok := e.inflight[slot]; ok && cur.id == id {
			delete(e.inflight, slot)
		}
		e.mu.Unlock()
		cancel()
	}
}

func slotFor(g models.Granularity) string {
	switch g {
	case models.GranularityShort:
		return slotShortReport
	case models.GranularityLong:
		return slotLongReport
	default:
		return slotCustomReport
	}
}

// repositoryError maps a datastore failure, passing caller cancellation through
func repositoryError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
}
