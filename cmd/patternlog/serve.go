package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/patternlog/internal/handlers"
	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/middleware"
	"github.com/JonnyWalker81/patternlog/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	a.log.Info("starting patternlog server",
		logger.String("env", cfg.Server.Env),
		logger.String("store", cfg.Store.Driver),
		logger.String("timezone", cfg.Analytics.TimeZone),
	)

	// Set Gin mode based on environment
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RequestsPerSecond > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RequestsPerSecond, cfg.Server.Burst, "api")
		defer limiter.Stop()
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Env:          cfg.Server.Env,
		Production:   cfg.Server.IsProduction(),
		CORSOrigins:  cfg.Server.CORSAllowedOrigins,
		RateLimiter:  limiter,
		Metrics:      a.metrics.Handler(),
		Logger:       a.log,
		Insights:     handlers.NewInsightsHandler(a.engine, cfg.Analytics.PageSize),
		Observations: handlers.NewObservationHandler(service.NewObservationService(a.store.Observations, a.engine)),
		Medications:  handlers.NewMedicationHandler(service.NewMedicationService(a.store.Medications, a.store.Intakes, a.engine)),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	// Open notification streams only end once the bus closes
	a.bus.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
