package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/daybook-app/daybook/internal/cli"
	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/gateway/postgres"
	"github.com/daybook-app/daybook/internal/gateway/s3blob"
	"github.com/daybook-app/daybook/internal/journal"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/migrations"
)

func main() {

	_ = godotenv.Load()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrations.Run(ctx, cfg.DatabaseDSN); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	blobs, err := s3blob.New(ctx, s3blob.Config{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	rows := postgres.NewRows(pool)
	collection := journal.NewCollection(rows, logger, cfg.ReloadRetryDelay)
	pipeline := journal.NewAttachmentPipeline(rows, blobs, cfg.S3Bucket, logger)
	writer := journal.NewAggregateWriter(rows, pipeline, collection, logger)

	if err := collection.Load(ctx); err != nil {
		logger.Warn(ctx, "initial load failed, starting with empty collection", "error", err)
	}

	cli.NewApp(cfg, writer, collection, logger).Run(ctx)
}
