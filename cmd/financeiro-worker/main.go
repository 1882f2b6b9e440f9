package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"financeiro/internal/amqp"
	"financeiro/internal/cli"
	applog "financeiro/internal/log"
	"financeiro/internal/sheets/backend"
	"financeiro/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting financeiro-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Mirror backend: Google Sheets when configured, in-memory otherwise.
	backendType := backend.Select(cfg)
	mirror, err := backend.New(context.Background(), backendType)
	if err != nil {
		logger.Error("Failed to initialize mirror backend", "backend", backendType, "error", err)
		return
	}
	logger.Info("Mirror backend initialized", "backend", backendType)

	syncWorker := worker.NewSyncWorker(repo, mirror, mirror, cfg.SyncBatchSize)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Drain any backlog left over from downtime before consuming.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			return
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeEntrySync(gctx, syncWorker.HandleSyncMessage)
		})
	} else {
		logger.Info("AMQP disabled - relying on the periodic pending scan only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPendingEntries(gctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker loop terminated", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("financeiro-worker stopped")
}
