package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/models"
)

// DefaultWorkers bounds the compute pool of a single report build
const DefaultWorkers = 4

// intakeTrendMetrics are reported alongside the main trend
var intakeTrendMetrics = []models.TrendMetric{
	models.MetricMood,
	models.MetricEnergy,
	models.MetricEffectiveness,
}

// ReportBuilder fetches the records of a window and assembles a report from
// the aggregation, trend and correlation outputs.
type ReportBuilder struct {
	source      EventSource
	aggregation *AggregationEngine
	trends      *TrendAnalyzer
	correlation *CorrelationAnalyzer
	trendMetric models.TrendMetric
	workers     int
	now         func() time.Time
}

// NewReportBuilder creates a report builder
func NewReportBuilder(source EventSource, aggregation *AggregationEngine, trends *TrendAnalyzer, correlation *CorrelationAnalyzer, workers int) *ReportBuilder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &ReportBuilder{
		source:      source,
		aggregation: aggregation,
		trends:      trends,
		correlation: correlation,
		trendMetric: models.MetricEnergyLevel,
		workers:     workers,
		now:         time.Now,
	}
}

// Build produces the report for w. Only datastore failures are errors; a
// window without records yields a valid report flagged InsufficientData.
func (b *ReportBuilder) Build(ctx context.Context, w models.Window) (*models.Report, error) {
	if w.End.Before(w.Start) {
		return nil, ErrInvalidWindow
	}

	observations, intakes, err := b.fetch(ctx, w)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Window: models.Window{
			Start:       w.Start.UTC(),
			End:         w.End.UTC(),
			Granularity: w.Granularity,
			TimeZone:    w.TimeZone,
		},
		GeneratedAt:      b.now().UTC(),
		InsufficientData: len(observations) == 0 && len(intakes) == 0,
		MedicationTrends: make([]models.TrendDescriptor, len(intakeTrendMetrics)),
		Findings:         []models.CorrelationFinding{},
	}

	// Each task writes a distinct field of report
	p := pool.New().WithContext(ctx).WithMaxGoroutines(b.workers)
	p.Go(func(ctx context.Context) error {
		report.Statistics = b.aggregation.Aggregate(observations, intakes, w)
		return ctx.Err()
	})
	p.Go(func(ctx context.Context) error {
		report.Trend = b.trends.AnalyzeTrend(observations, b.trendMetric, w)
		return ctx.Err()
	})
	for i, metric := range intakeTrendMetrics {
		p.Go(func(ctx context.Context) error {
			report.MedicationTrends[i] = b.trends.AnalyzeIntakeTrend(intakes, metric, w)
			return ctx.Err()
		})
	}
	p.Go(func(ctx context.Context) error {
		if findings := b.correlation.FindCorrelations(observations, intakes, w); findings != nil {
			report.Findings = findings
		}
		return ctx.Err()
	})
	if err := p.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	logger.Ctx(ctx).Debug("report built",
		logger.String("granularity", string(w.Granularity)),
		logger.Int("observations", len(observations)),
		logger.Int("intakes", len(intakes)),
		logger.Int("findings", len(report.Findings)),
	)
	return report, nil
}

// fetch queries observations and intakes for w in parallel
func (b *ReportBuilder) fetch(ctx context.Context, w models.Window) ([]models.Observation, []models.MedicationIntake, error) {
	var observations []models.Observation
	var intakes []models.MedicationIntake

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := b.source.QueryObservations(gctx, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: failed to query observations: %w", ErrRepositoryUnavailable, err)
		}
		observations = o
		return nil
	})
	g.Go(func() error {
		m, err := b.source.QueryMedicationIntakes(gctx, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("%w: failed to query medication intakes: %w", ErrRepositoryUnavailable, err)
		}
		intakes = m
		return nil
	})

	if err := g.Wait(); err != nil {
		// Cancellation by the caller is not a datastore failure
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, err
	}
	return observations, intakes, nil
}
