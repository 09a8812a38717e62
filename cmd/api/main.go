// Package main is the entry point for the SlopeScout API server.
//
// It loads configuration from the environment, wires the weather provider,
// historical aggregator, crowd estimator, resort catalog, and insight
// generator into the HTTP chassis, and serves until interrupted.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slopescout/internal/api/handlers"
	"slopescout/internal/config"
	"slopescout/internal/core"
	"slopescout/internal/crowd"
	"slopescout/internal/external"
	"slopescout/internal/resorts"
	"slopescout/internal/trips"
	"slopescout/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("slopescout API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	catalog, err := resorts.NewCatalog()
	if err != nil {
		return fmt.Errorf("loading resort catalog: %w", err)
	}

	calendar, err := crowd.NewCalendar(cfg.Crowd.HolidaySeason)
	if err != nil {
		return fmt.Errorf("loading holiday calendar: %w", err)
	}
	estimator := crowd.NewEstimator(calendar)

	meteoClient := external.NewOpenMeteoClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		external.OpenMeteoConfig{
			ForecastBaseURL: cfg.Weather.ForecastBaseURL,
			ArchiveBaseURL:  cfg.Weather.ArchiveBaseURL,
			Logger:          logger,
		},
	)
	aggregator := weather.NewAggregator(meteoClient, cfg.Weather.HistoricalYears, logger)
	tripService := trips.NewService(catalog, meteoClient, aggregator, logger)

	insights := buildInsightsGenerator(cfg, logger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	crowdHandler := handlers.NewCrowdHandler(estimator, srv.Validator, logger)
	weatherHandler := handlers.NewWeatherHandler(meteoClient, aggregator, logger)
	resortHandler := handlers.NewResortHandler(catalog, logger)
	tripHandler := handlers.NewTripHandler(tripService, tripService, logger)
	insightHandler := handlers.NewInsightHandler(tripService, insights, srv.Validator, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		crowdHandler.RegisterRoutes,
		weatherHandler.RegisterRoutes,
		resortHandler.RegisterRoutes,
		tripHandler.RegisterRoutes,
		insightHandler.RegisterRoutes,
	)
	srv.HealthProbes = append(srv.HealthProbes, &catalogProbe{catalog: catalog})

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// buildInsightsGenerator selects the HTTP insight client when an endpoint is
// configured, otherwise the deterministic stub.
func buildInsightsGenerator(cfg *config.Config, logger *slog.Logger) external.InsightsGenerator {
	if cfg.Insights.Endpoint == "" {
		logger.Info("no insights endpoint configured, using stub generator")
		return external.NewStubInsightsGenerator()
	}

	return external.NewInsightsClient(
		&http.Client{Timeout: cfg.Insights.Timeout},
		external.InsightsClientConfig{
			Endpoint: cfg.Insights.Endpoint,
			Model:    cfg.Insights.Model,
			APIKey:   cfg.Insights.APIKey,
			Logger:   logger,
		},
	)
}

// catalogProbe reports unhealthy if the embedded resort catalog is empty.
type catalogProbe struct {
	catalog *resorts.Catalog
}

func (p *catalogProbe) Name() string { return "resort_catalog" }

func (p *catalogProbe) Check(_ context.Context) error {
	if len(p.catalog.List()) == 0 {
		return fmt.Errorf("resort catalog is empty")
	}
	return nil
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
