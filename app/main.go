package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamvault/streamvault/app/api"
	"github.com/streamvault/streamvault/app/cfg"
	"github.com/streamvault/streamvault/app/config"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tasks"
	"github.com/streamvault/streamvault/app/tmdb"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting StreamVault", "version", appCfg.Version)

	fileStore := store.NewFileStore(appCfg.StorePath)
	catalog, err := store.NewCatalog(fileStore)
	if err != nil {
		slog.Error("Failed to load record store", "path", appCfg.StorePath, "error", err)
		os.Exit(1)
	}
	stats := catalog.Stats()
	slog.Info("Record store loaded", "path", appCfg.StorePath,
		"shows", stats.Shows, "episodes", stats.Episodes, "movies", stats.Movies)

	overrides := config.NewOverrideCache(appCfg.OverridesDir)
	if err := overrides.Run(); err != nil {
		slog.Error("Failed to load overrides", "dir", appCfg.OverridesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Overrides loaded", "dir", appCfg.OverridesDir, "count", overrides.GetOverrideCount())

	var source tmdb.Searcher
	if appCfg.TMDBAPIKey != "" {
		client, err := tmdb.New(appCfg.TMDBAPIKey, appCfg.TMDBBaseUrl, appCfg.TMDBImageBase,
			tmdb.WithUserAgent(appCfg.UserAgent))
		if err != nil {
			slog.Error("Failed to initialize metadata client", "error", err)
			os.Exit(1)
		}
		source = client
	} else {
		slog.Warn("TMDB_API_KEY not set, enrichment sweeps disabled")
	}

	scheduler := tasks.NewScheduler(source, catalog, overrides)

	if appCfg.Job != "" {
		os.Exit(runJob(scheduler, appCfg.Job))
	}

	runServer(appCfg, catalog, scheduler)
}

// runJob executes a single maintenance sweep synchronously and prints its
// summary table.
func runJob(scheduler tasks.TaskSchedulerInterface, name string) int {
	task, err := scheduler.BuildJob(name)
	if err != nil {
		slog.Error("Unknown job", "job", name, "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task.Start()
	if err := task.Execute(ctx); err != nil {
		slog.Error("Job failed", "job", name, "error", err)
		return 1
	}

	if reporter, ok := task.(tasks.Reporter); ok {
		fmt.Println(reporter.Report().RenderTable(task.GetType()))
	}
	return 0
}

func runServer(appCfg *cfg.Cfg, catalog *store.Catalog, scheduler tasks.TaskSchedulerInterface) {
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount,
		"interval", (time.Duration(appCfg.SchedulerInterval) * time.Second).String())
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(catalog, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
