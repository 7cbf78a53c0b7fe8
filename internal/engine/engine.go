// Package engine is the public facade of the translation engine: request
// validation, the resolver's fallback chain, and the admin surface for
// metrics, unknown words, contributions, and stats.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/voicebridge/translation-engine/internal/cache"
	"github.com/voicebridge/translation-engine/internal/domain"
	"github.com/voicebridge/translation-engine/internal/memory"
	"github.com/voicebridge/translation-engine/internal/metrics"
	"github.com/voicebridge/translation-engine/internal/resolver"
	"github.com/voicebridge/translation-engine/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type translationResolver interface {
	Resolve(ctx context.Context, text, src, dst string) (resolver.Result, error)
	Availability() map[string]bool
}

type memoryService interface {
	PriorityUnknownWords(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error)
	RecordUserContribution(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error)
	Stats(ctx context.Context) (domain.MemoryStats, error)
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine coordinates validation, resolution, and the admin surface.
type Engine struct {
	log       *slog.Logger
	resolver  translationResolver
	memory    memoryService
	cache     *cache.Cache
	metrics   *metrics.Recorder
	supported []string
}

// New creates an Engine. supported lists the accepted language codes,
// already normalized.
func New(
	log *slog.Logger,
	res translationResolver,
	mem memoryService,
	c *cache.Cache,
	rec *metrics.Recorder,
	supported []string,
) *Engine {
	return &Engine{
		log:       log.With("service", "engine"),
		resolver:  res,
		memory:    mem,
		cache:     c,
		metrics:   rec,
		supported: supported,
	}
}

// Translation is the outward-facing resolution result.
type Translation struct {
	Text       string
	SourceLang string
	TargetLang string
	Tier       domain.Tier
}

// ResolveTranslation translates text from src to dst through the fallback
// chain. Malformed input fails fast with ErrInvalidInput; once input is
// accepted the call cannot fail, bottoming out at the emergency tier.
func (e *Engine) ResolveTranslation(ctx context.Context, text, src, dst string) (Translation, error) {
	src = domain.NormalizeLang(src)
	dst = domain.NormalizeLang(dst)

	if err := e.validateRequest(text, src, dst); err != nil {
		e.metrics.RecordError()
		return Translation{}, err
	}

	res, err := e.resolver.Resolve(ctx, text, src, dst)
	if err != nil {
		e.metrics.RecordError()
		return Translation{}, fmt.Errorf("resolve translation: %w", err)
	}

	return Translation{
		Text:       res.Text,
		SourceLang: src,
		TargetLang: dst,
		Tier:       res.Tier,
	}, nil
}

func (e *Engine) validateRequest(text, src, dst string) error {
	if domain.NormalizeText(text) == "" {
		return domain.NewInvalidInput("text", "must not be empty")
	}
	if src == "" {
		return domain.NewInvalidInput("source_lang", "must not be empty")
	}
	if dst == "" {
		return domain.NewInvalidInput("target_lang", "must not be empty")
	}
	if src == dst {
		return domain.NewInvalidInput("target_lang", "must differ from source_lang")
	}
	if !slices.Contains(e.supported, src) {
		return domain.NewInvalidInput("source_lang", fmt.Sprintf("unsupported language %q", src))
	}
	if !slices.Contains(e.supported, dst) {
		return domain.NewInvalidInput("target_lang", fmt.Sprintf("unsupported language %q", dst))
	}
	return nil
}

// MetricsSnapshot returns engine counters with per-provider availability
// merged in from the resolver's circuit breaker.
func (e *Engine) MetricsSnapshot() metrics.Snapshot {
	snap := e.metrics.SnapshotCounters()
	snap.ProviderAvailability = e.resolver.Availability()
	return snap
}

// ClearCache drops every cached translation. Durable memory is unaffected.
func (e *Engine) ClearCache() {
	e.cache.Purge()
	e.log.Info("translation cache cleared")
}

// CacheStats returns hit/miss accounting for the transient cache.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// UnknownWords returns the most wanted untranslated words for a pair.
func (e *Engine) UnknownWords(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error) {
	src = domain.NormalizeLang(src)
	dst = domain.NormalizeLang(dst)
	if src == "" || dst == "" {
		return nil, domain.NewInvalidInput("language", "both languages are required")
	}
	return e.memory.PriorityUnknownWords(ctx, src, dst, limit)
}

// SubmitWordTranslation records a human-submitted translation as verified
// truth. The user ID is taken from the context when not given explicitly;
// anonymous submissions are attributed to "anonymous". contextExample and
// domainTag are optional; when set they are attached to the stored record.
func (e *Engine) SubmitWordTranslation(ctx context.Context, userID, sourceTerm, targetTerm, src, dst, contextExample, domainTag string) (domain.TranslationRecord, error) {
	if userID == "" {
		if ctxID, ok := ctxutil.UserIDFromCtx(ctx); ok {
			userID = ctxID
		} else {
			userID = "anonymous"
		}
	}

	var tags []string
	if domainTag != "" {
		tags = []string{domainTag}
	}

	return e.memory.RecordUserContribution(ctx, userID, memory.UpsertInput{
		SourceLang:     src,
		TargetLang:     dst,
		SourceTerm:     sourceTerm,
		TargetTerm:     targetTerm,
		ContextExample: contextExample,
		DomainTags:     tags,
	})
}

// TranslationStats aggregates the durable memory for the admin surface.
func (e *Engine) TranslationStats(ctx context.Context) (domain.MemoryStats, error) {
	return e.memory.Stats(ctx)
}
