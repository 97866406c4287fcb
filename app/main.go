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

	"github.com/akosarev/newsheat/app/api"
	"github.com/akosarev/newsheat/app/cfg"
	"github.com/akosarev/newsheat/app/database"
	"github.com/akosarev/newsheat/app/feed"
	"github.com/akosarev/newsheat/app/notify"
	"github.com/akosarev/newsheat/app/scrape"
	"github.com/akosarev/newsheat/app/tasks"
	"github.com/akosarev/newsheat/app/translate"
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

	slog.Info("Starting NewsHeat server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	sources, err := feed.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "file", appCfg.SourcesFile, "count", len(sources))

	newsRepo := database.NewSQLiteNewsRepository(db)

	// Live API requests share a cooperative task group; background harvests
	// run on a dedicated worker pool.
	fetcher := feed.NewFetcher(appCfg.UserAgent, 0, 0)
	requestAggregator := feed.NewGroupAggregator(fetcher, feed.DefaultWorkerCount)
	harvestAggregator := feed.NewPoolAggregator(fetcher, feed.DefaultWorkerCount)
	translator := translate.NewClient(translate.WithMaxBatch(appCfg.TranslateBatch))
	pipeline := feed.NewPipeline(requestAggregator, translator)
	extractor := scrape.NewExtractor(appCfg.UserAgent, 0)
	notifier := notify.NewTelegram(appCfg.TelegramToken, appCfg.TelegramChatID)

	if notifier.Enabled() {
		slog.Info("Telegram digest enabled", "chat_id", appCfg.TelegramChatID)
	} else {
		slog.Info("Telegram digest disabled (TELEGRAM_TOKEN/TELEGRAM_CHAT_ID not set)")
	}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "harvest_interval", appCfg.HarvestInterval)
	scheduler := tasks.NewScheduler(harvestAggregator, newsRepo, extractor, notifier, sources)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(pipeline, newsRepo, scheduler, sources, appCfg.MaxPerSource, appCfg.FeedLimit)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
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
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
