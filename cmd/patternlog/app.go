package main

import (
	"fmt"

	"github.com/JonnyWalker81/patternlog/internal/cache"
	"github.com/JonnyWalker81/patternlog/internal/config"
	"github.com/JonnyWalker81/patternlog/internal/events"
	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/metrics"
	"github.com/JonnyWalker81/patternlog/internal/repository"
	"github.com/JonnyWalker81/patternlog/internal/repository/sqlite"
	"github.com/JonnyWalker81/patternlog/internal/service"
	"github.com/JonnyWalker81/patternlog/pkg/supabase"
)

// app is the wiring shared by every command
type app struct {
	cfg     *config.Config
	log     logger.Logger
	store   *repository.Store
	metrics *metrics.Metrics
	bus     *events.Bus
	engine  *service.InsightEngine
}

// newApp loads configuration, sets up logging and opens the configured store
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Format:  cfg.Log.Format,
		Backend: logger.Backend(cfg.Log.Backend),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetDefault(log)

	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		metrics: metrics.New(),
		bus:     events.NewBus(32),
	}
	a.engine = service.NewInsightEngine(
		repository.NewEventReader(store),
		cache.New(cfg.Analytics.CacheTTL, cfg.Analytics.CacheMaxEntries),
		engineConfig(cfg.Analytics),
		service.WithLogger(log),
		service.WithMetrics(a.metrics),
		service.WithBus(a.bus),
	)
	return a, nil
}

// Close releases the store and stops notification delivery
func (a *app) Close() {
	a.bus.Close()
	if a.store.Close != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("failed to close store", logger.Err(err))
		}
	}
}

func openStore(cfg config.StoreConfig) (*repository.Store, error) {
	switch cfg.Driver {
	case config.DriverSupabase:
		return repository.NewSupabaseStore(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)), nil
	default:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	}
}

func engineConfig(a config.AnalyticsConfig) service.EngineConfig {
	cfg := service.DefaultEngineConfig()
	cfg.CacheTTL = a.CacheTTL
	cfg.PageSize = a.PageSize
	cfg.PrefetchDistance = a.PrefetchDistance
	cfg.Workers = a.Workers
	cfg.TimeZone = a.TimeZone
	cfg.FlatTolerance = a.TrendFlatTolerance
	cfg.Correlation = service.CorrelationConfig{
		MinDays:               a.Correlation.MinDays,
		MinRelativeDifference: a.Correlation.MinRelativeDifference,
		HighEffectiveness:     a.Correlation.HighEffectiveness,
	}
	cfg.Scoring = service.ScoringWeights{
		Entry:       a.Scoring.EntryWeight,
		Positive:    a.Scoring.PositiveWeight,
		Challenging: a.Scoring.ChallengingWeight,
	}
	return cfg
}
