package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/autobrief/autobrief/internal/api"
	"github.com/autobrief/autobrief/internal/assistant"
	"github.com/autobrief/autobrief/internal/briefing"
	"github.com/autobrief/autobrief/internal/config"
	"github.com/autobrief/autobrief/internal/database"
	"github.com/autobrief/autobrief/internal/delivery"
	"github.com/autobrief/autobrief/internal/logging"
	"github.com/autobrief/autobrief/internal/metrics"
	"github.com/autobrief/autobrief/internal/scheduler"
	"github.com/autobrief/autobrief/internal/server"
	syncpkg "github.com/autobrief/autobrief/internal/sync"
	_ "github.com/lib/pq"
	"log/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting autobrief")

	ctx := context.Background()

	logger.Info("connecting to database")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	if err := database.RunMigrations(db, "./migrations", logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Repositories
	activityRepo := database.NewPostgresActivityRepository(db)
	integrationRepo := database.NewPostgresIntegrationRepository(db)
	summaryRepo := database.NewPostgresSummaryRepository(db)
	profileRepo := database.NewPostgresProfileRepository(db)
	userRepo := database.NewPostgresUserRepository(db)

	// Provider adapters fall back to their public API endpoints when no
	// base URL is configured.
	adapters := []syncpkg.Adapter{
		syncpkg.NewGitHubAdapter(syncpkg.AdapterConfig{}, logger),
		syncpkg.NewCalendarAdapter(syncpkg.AdapterConfig{}, logger),
		syncpkg.NewJiraAdapter(syncpkg.AdapterConfig{}, logger),
		syncpkg.NewSlackAdapter(syncpkg.AdapterConfig{}, logger),
		syncpkg.NewNotionAdapter(syncpkg.AdapterConfig{}, logger),
	}
	syncer := syncpkg.NewSyncer(adapters, activityRepo, integrationRepo, logger)

	generator := briefing.NewGenerator(activityRepo, logger)

	llmClient := assistant.NewGroqClient(assistant.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	assist := assistant.New(activityRepo, profileRepo, llmClient, logger)

	var sender delivery.Sender
	if cfg.Email.APIKey != "" {
		sender = delivery.NewResendClient(delivery.DefaultConfig(cfg.Email.APIKey, cfg.Email.From), logger)
		logger.Info("email delivery enabled", "from", cfg.Email.From)
	} else {
		sender = delivery.NewNoopSender(logger)
		logger.Warn("RESEND_API_KEY not set, summary emails disabled")
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	api.SetupRoutes(mux, api.Dependencies{
		Generator:    generator,
		Assistant:    assist,
		Syncer:       syncer,
		Activities:   activityRepo,
		Integrations: integrationRepo,
		Summaries:    summaryRepo,
		Users:        userRepo,
		Collector:    collector,
		AuthConfig:   cfg.Auth,
		HealthChecks: map[string]func() error{
			"database": func() error { return database.HealthCheck(ctx, db) },
		},
	}, logger)

	var dailyScheduler *scheduler.DailyScheduler
	if cfg.Scheduler.Enabled {
		logger.Info("starting daily scheduler", "time_of_day", cfg.Scheduler.TimeOfDay)
		dailyScheduler = scheduler.NewDailyScheduler(
			syncer,
			generator,
			integrationRepo,
			summaryRepo,
			profileRepo,
			sender,
			collector,
			cfg.Scheduler.TimeOfDay,
			logger,
		)
		go dailyScheduler.Start(ctx)
	} else {
		logger.Info("daily scheduler disabled")
	}

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("autobrief started", "port", cfg.Server.Port)

	waitForSignal(logger)

	logger.Info("shutting down")
	if dailyScheduler != nil {
		dailyScheduler.Stop()
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
