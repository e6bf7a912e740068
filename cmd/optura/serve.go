package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/HANSKMIEL/Optura/internal/config"
	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/orchestrate"
	"github.com/HANSKMIEL/Optura/internal/planner"
	"github.com/HANSKMIEL/Optura/internal/server"
	"github.com/HANSKMIEL/Optura/internal/store/postgres"
	optsync "github.com/HANSKMIEL/Optura/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Optura server",
	// Override PersistentPreRunE so we don't create an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (OPTURA_NATS_URL not set)")
		}

		// Pick the plan producer.
		var producer planner.Producer
		if cfg.OpenAIAPIKey != "" {
			producer = planner.NewOpenAIProducer(cfg.OpenAIAPIKey, cfg.LLMModel, logger)
			logger.Info("LLM planner enabled", "model", cfg.LLMModel)
		} else {
			producer = planner.NewFallbackProducer()
			logger.Info("LLM planner disabled (OPTURA_OPENAI_API_KEY not set), using deterministic fallback")
		}

		graphCfg := orchestrate.DefaultConfig()
		graphCfg.DefaultEstimateHours = cfg.DefaultEstimateHours

		opturaServer := server.NewServer(store, publisher, producer, graphCfg)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: opturaServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start sync scheduler if any destinations are configured.
		var scheduler *optsync.Scheduler
		if cfg.SyncInterval > 0 {
			var dests []optsync.Destination

			if cfg.SyncS3Bucket != "" {
				s3Dest, err := optsync.NewS3Destination(
					context.Background(),
					cfg.SyncS3Bucket,
					cfg.SyncS3Key,
					cfg.SyncS3Region,
					cfg.SyncS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 sync destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
				}
			}

			if cfg.SyncGitRepo != "" {
				gitDest := optsync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
				dests = append(dests, gitDest)
				logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
			}

			if len(dests) > 0 {
				scheduler = optsync.NewScheduler(store, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		logger.Info("optura server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
