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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lysyi3m/samsun-news/app/api"
	"github.com/lysyi3m/samsun-news/app/cfg"
	"github.com/lysyi3m/samsun-news/app/database"
	"github.com/lysyi3m/samsun-news/app/feed"
	"github.com/lysyi3m/samsun-news/app/metrics"
	"github.com/lysyi3m/samsun-news/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logCloser := cfg.SetupLogger(appCfg)
	defer logCloser.Close()

	slog.Info("Starting samsun-news", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", db.Path(), "schema_version", version, "dirty", dirty)

	sources, err := feed.LoadSources(appCfg.LocalSourcesFile, appCfg.OPMLFile)
	if err != nil {
		slog.Error("Failed to load sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "local", len(sources.Local), "national", len(sources.National))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	articleStore := database.NewArticleStore(db)
	fetcher := feed.NewFetcher(&http.Client{}, feed.NewParser(), appCfg.UserAgent, appCfg.FetchTimeout)
	filterer := feed.NewFilterer(appCfg.Keyword)

	pass := tasks.NewPass(sources, fetcher, filterer, articleStore, appMetrics)
	scheduler := tasks.NewScheduler(pass, appCfg.FetchInterval)
	scheduler.Start()

	handler := api.NewHandler(articleStore, scheduler, sources, appCfg.Version)
	router := api.NewServer(handler, api.ServerOptions{
		RateLimit: appCfg.RateLimit,
		RateBurst: appCfg.RateBurst,
		Gatherer:  registry,
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Waits for an in-flight pass so its batch is either committed or rolled back.
	scheduler.Stop()

	slog.Info("Shutdown complete")
}
