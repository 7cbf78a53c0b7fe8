// Command seeder populates the translation memory with the built-in
// en-de core lexicon. It is intended to be run once against a fresh
// database, not as part of the main process.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/contribution"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/langpair"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/record"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/unknown"
	"github.com/voicebridge/translation-engine/internal/app"
	"github.com/voicebridge/translation-engine/internal/config"
	"github.com/voicebridge/translation-engine/internal/memory"
	"github.com/voicebridge/translation-engine/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	memSvc := memory.NewService(
		logger,
		langpair.New(pool),
		record.New(pool),
		unknown.New(pool),
		contribution.New(pool),
		postgres.NewTxManager(pool),
	)

	res, err := seed.New(logger, memSvc).Run(ctx)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if res.Failed > 0 {
		logger.Warn("seeding completed with errors", slog.Int("failed", res.Failed))
		os.Exit(1)
	}

	logger.Info("seeding completed successfully", slog.Int("seeded", res.Seeded))
}
