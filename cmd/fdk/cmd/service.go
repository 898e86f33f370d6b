package cmd

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"fdk/internal/catalog/sbb"
	"fdk/internal/config"
	"fdk/internal/fetch"
	"fdk/internal/group"
	"fdk/internal/logger"
	"fdk/internal/search"
	"fdk/internal/service"
	"fdk/internal/storage"
	_ "fdk/internal/storage/postgres" // register the postgres backend
	_ "fdk/internal/storage/sqlite"   // register the sqlite backend

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// svc is the shared catalog service.
	svc     *service.Service
	store   storage.Store
	svcOnce sync.Once
	svcErr  error

	// metricsListen serves Prometheus metrics for the duration of a
	// batch run when set via --metrics-listen.
	metricsListen string
)

// GetService returns the shared catalog service, initializing it if needed.
// This provides lazy construction - the source client and the object cache
// are only created on first use.
func GetService(ctx context.Context) (*service.Service, error) {
	svcOnce.Do(func() {
		svc, svcErr = initService(ctx)
	})
	return svc, svcErr
}

// initService wires the source client, the object cache, and the fetcher
// from configuration.
func initService(ctx context.Context) (*service.Service, error) {
	source := sbb.New(sbb.Config{
		BaseURL:   cfg.Source.BaseURL,
		Timeout:   cfg.Source.Timeout,
		RateLimit: cfg.Source.RateLimit,
		RateBurst: cfg.Source.RateBurst,
	})

	if cfg.Cache.Enabled {
		dataDir, err := cfg.ResolveDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}

		store, err = storage.Open(ctx, storageConfig(cfg.Cache), dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open object cache: %w", err)
		}
	} else {
		log.Debug("object cache disabled, serving from the live catalog")
	}

	var fetchOpts []fetch.Option
	if metricsListen != "" {
		registry := prometheus.NewRegistry()
		fetchOpts = append(fetchOpts, fetch.WithMetrics(fetch.NewMetrics(registry)))
		serveMetrics(registry)
	}

	fetcher := fetch.New(source, store, fetchConfig(cfg.Fetch), fetchOpts...)

	return service.New(source, store, fetcher,
		service.WithSearchConcurrency(cfg.Fetch.SearchConcurrent),
		service.WithEstimateSecondsPerObject(cfg.Fetch.EstimateSecondsPerObject),
	), nil
}

// storageConfig maps the cache section onto the storage configuration.
func storageConfig(c config.CacheConfig) storage.Config {
	return storage.Config{
		Backend: storage.BackendType(c.Backend),
		SQLite: storage.SQLiteConfig{
			Path:             c.SQLite.Path,
			MaxOpenConns:     c.SQLite.MaxOpenConns,
			Compression:      c.SQLite.Compression,
			CompressionLevel: c.SQLite.CompressionLevel,
		},
		Postgres: storage.PostgresConfig{
			DSN:      c.Postgres.DSN,
			MaxConns: c.Postgres.MaxConns,
		},
	}
}

// fetchConfig maps the fetch section onto the fetcher configuration.
func fetchConfig(c config.FetchConfig) fetch.Config {
	return fetch.Config{
		MaxConcurrent: c.MaxConcurrent,
		MaxAttempts:   c.MaxAttempts,
		BaseDelay:     c.BaseDelay,
	}
}

// serveMetrics exposes the registry on metricsListen. The server lives
// until the process exits.
func serveMetrics(registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		log.Info("serving metrics", "addr", metricsListen)
		if err := http.ListenAndServe(metricsListen, mux); err != nil {
			log.Warn("metrics server stopped", "error", err)
		}
	}()
}

// CloseService closes the object cache if it was opened.
func CloseService() {
	if store != nil {
		if err := store.Close(); err != nil {
			log.Warn("failed to close object cache", "error", err)
		}
		store = nil
	}
}

// setComponentLoggers propagates the root logger to the internal packages.
func setComponentLoggers(l *logger.Logger) {
	storage.SetLogger(l)
	fetch.SetLogger(l)
	search.SetLogger(l)
	group.SetLogger(l)
	service.SetLogger(l)
}
