package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/contribution"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/langpair"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/record"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/unknown"
	"github.com/voicebridge/translation-engine/internal/adapter/provider/libretranslate"
	"github.com/voicebridge/translation-engine/internal/adapter/provider/mymemory"
	"github.com/voicebridge/translation-engine/internal/adapter/provider/ollama"
	"github.com/voicebridge/translation-engine/internal/cache"
	"github.com/voicebridge/translation-engine/internal/config"
	"github.com/voicebridge/translation-engine/internal/engine"
	"github.com/voicebridge/translation-engine/internal/memory"
	"github.com/voicebridge/translation-engine/internal/metrics"
	"github.com/voicebridge/translation-engine/internal/provider"
	"github.com/voicebridge/translation-engine/internal/resolver"
)

// Run is the application entry point. It loads configuration, builds the
// engine with its full fallback chain, and blocks until the context is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting translation engine",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Any("languages", cfg.Languages.Supported),
	)

	eng, cleanup, err := BuildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("engine ready",
		slog.Any("providers", eng.MetricsSnapshot().ProviderAvailability),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// BuildEngine wires the full dependency graph: database pool, repositories,
// the memory service, provider adapters, cache, metrics, and the resolver.
// The returned cleanup closes the database pool.
func BuildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine.Engine, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	txManager := postgres.NewTxManager(pool)
	memSvc := memory.NewService(
		logger,
		langpair.New(pool),
		record.New(pool),
		unknown.New(pool),
		contribution.New(pool),
		txManager,
	)

	var fast []resolver.FastProvider
	if cfg.Providers.MyMemory.Enabled {
		client := mymemory.New(cfg.Providers.MyMemory.BaseURL, cfg.Providers.MyMemory.Timeout, logger)
		fast = append(fast, resolver.FastProvider{
			Adapter: client,
			Desc: provider.Descriptor{
				Name:     client.Name(),
				Priority: cfg.Providers.MyMemory.Priority,
				Timeout:  cfg.Providers.MyMemory.Timeout,
			},
		})
	}
	if cfg.Providers.LibreTranslate.Enabled {
		client := libretranslate.New(cfg.Providers.LibreTranslate.BaseURL, cfg.Providers.LibreTranslate.Timeout, logger)
		fast = append(fast, resolver.FastProvider{
			Adapter: client,
			Desc: provider.Descriptor{
				Name:     client.Name(),
				Priority: cfg.Providers.LibreTranslate.Priority,
				Timeout:  cfg.Providers.LibreTranslate.Timeout,
			},
		})
	}

	var model provider.Adapter
	if cfg.Model.Enabled {
		model = ollama.New(cfg.Model.BaseURL, cfg.Model.Name, cfg.Model.Timeout, cfg.Model.ProbeTimeout, logger)
	}

	translationCache := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL)
	recorder := metrics.New()

	res := resolver.New(logger, translationCache, fast, model, memSvc, memSvc, recorder, resolver.Config{
		Cooldown:            cfg.Providers.Cooldown,
		MemoryMinConfidence: cfg.Memory.MinConfidence,
		FastTierConfidence:  cfg.Learning.FastTierConfidence,
		ModelTierConfidence: cfg.Learning.ModelTierConfidence,
		ModelTimeout:        cfg.Model.Timeout,
		LearnTimeout:        cfg.Learning.Timeout,
	})

	eng := engine.New(logger, res, memSvc, translationCache, recorder, cfg.Languages.Supported)
	return eng, pool.Close, nil
}
