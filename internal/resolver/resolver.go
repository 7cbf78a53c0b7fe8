// Package resolver orchestrates the tiered fallback chain for one
// translation request: cache, translation memory, a race of fast remote
// providers, the local generative model, and a deterministic emergency
// output as the floor.
//
// Identical concurrent requests are deduplicated: all callers for the same
// normalized (text, src, dst) key share one underlying resolution and
// observe the same outcome. Failing providers are circuit-broken with an
// automatic cool-down re-enable.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/voicebridge/translation-engine/internal/cache"
	"github.com/voicebridge/translation-engine/internal/domain"
	"github.com/voicebridge/translation-engine/internal/metrics"
	"github.com/voicebridge/translation-engine/internal/provider"
)

// Result is a resolved translation and the tier that produced it.
type Result struct {
	Text string
	Tier domain.Tier
}

// MemoryLookup serves the resolver's memory tier. A (nil, nil) return is a
// miss; lookup errors are handled inside the store and never surface here.
type MemoryLookup interface {
	Lookup(ctx context.Context, term, src, dst string) (*domain.TranslationRecord, error)
}

// Learner consumes resolved pairs in the background.
type Learner interface {
	LearnFromPair(ctx context.Context, sourceText, translatedText, src, dst string, baseConfidence float64) error
}

// FastProvider bundles a fast-tier adapter with its race configuration.
type FastProvider struct {
	Adapter provider.Adapter
	Desc    provider.Descriptor
}

// Config carries the resolver's tuning knobs.
type Config struct {
	Cooldown            time.Duration
	MemoryMinConfidence float64
	FastTierConfidence  float64
	ModelTierConfidence float64
	ModelTimeout        time.Duration
	LearnTimeout        time.Duration
}

// Resolver executes the tier state machine. Safe for concurrent use.
type Resolver struct {
	log     *slog.Logger
	cache   *cache.Cache
	fast    []FastProvider
	model   provider.Adapter // nil when the model tier is disabled
	memory  MemoryLookup     // nil when the memory tier is disabled
	learner Learner          // nil when learning is disabled
	breaker *Breaker
	metrics *metrics.Recorder
	cfg     Config
	group   singleflight.Group
}

// New creates a Resolver. Fast providers are ordered by ascending priority
// number (lower launches the race first).
func New(
	log *slog.Logger,
	c *cache.Cache,
	fast []FastProvider,
	model provider.Adapter,
	mem MemoryLookup,
	learner Learner,
	rec *metrics.Recorder,
	cfg Config,
) *Resolver {
	sorted := append([]FastProvider(nil), fast...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Desc.Priority < sorted[j].Desc.Priority
	})

	return &Resolver{
		log:     log.With("service", "resolver"),
		cache:   c,
		fast:    sorted,
		model:   model,
		memory:  mem,
		learner: learner,
		breaker: NewBreaker(cfg.Cooldown),
		metrics: rec,
		cfg:     cfg,
	}
}

// Resolve translates one fragment, never failing for well-formed input:
// provider and model failures are absorbed by falling through tiers, with
// the emergency tier as the guaranteed floor.
func (r *Resolver) Resolve(ctx context.Context, text, src, dst string) (Result, error) {
	r.metrics.RecordRequest()

	key := cache.Key(text, src, dst)
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolve(ctx, text, src, dst)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Availability reports the breaker state of every configured provider.
func (r *Resolver) Availability() map[string]bool {
	names := make([]string, 0, len(r.fast)+1)
	for _, fp := range r.fast {
		names = append(names, fp.Desc.Name)
	}
	if r.model != nil {
		names = append(names, r.model.Name())
	}
	return r.breaker.Snapshot(names)
}

func (r *Resolver) resolve(ctx context.Context, text, src, dst string) (Result, error) {
	start := time.Now()

	if v, ok := r.cache.Get(text, src, dst); ok {
		r.metrics.RecordOutcome(domain.TierCache, time.Since(start))
		return Result{Text: v, Tier: domain.TierCache}, nil
	}

	if out, ok := r.lookupMemory(ctx, text, src, dst); ok {
		r.cache.Set(text, src, dst, out)
		r.metrics.RecordOutcome(domain.TierMemory, time.Since(start))
		return Result{Text: out, Tier: domain.TierMemory}, nil
	}

	if out, ok := r.raceFast(ctx, text, src, dst); ok {
		r.cache.Set(text, src, dst, out)
		r.learnAsync(text, out, src, dst, r.cfg.FastTierConfidence)
		r.metrics.RecordOutcome(domain.TierFast, time.Since(start))
		return Result{Text: out, Tier: domain.TierFast}, nil
	}

	if out, ok := r.tryModel(ctx, text, src, dst); ok {
		r.cache.Set(text, src, dst, out)
		r.learnAsync(text, out, src, dst, r.cfg.ModelTierConfidence)
		r.metrics.RecordOutcome(domain.TierModel, time.Since(start))
		return Result{Text: out, Tier: domain.TierModel}, nil
	}

	// Emergency: tag the original text with the target language so the
	// conversation can continue even under total external outage.
	out := fmt.Sprintf("[%s] %s", domain.NormalizeLang(dst), text)
	r.log.WarnContext(ctx, "all tiers exhausted, emergency output",
		slog.String("src", src), slog.String("dst", dst))
	r.metrics.RecordOutcome(domain.TierEmergency, time.Since(start))
	return Result{Text: out, Tier: domain.TierEmergency}, nil
}

// lookupMemory consults the durable translation memory and serves records
// at or above the configured confidence threshold.
func (r *Resolver) lookupMemory(ctx context.Context, text, src, dst string) (string, bool) {
	if r.memory == nil {
		return "", false
	}

	rec, err := r.memory.Lookup(ctx, text, src, dst)
	if err != nil || rec == nil {
		return "", false
	}
	if rec.Confidence < r.cfg.MemoryMinConfidence || strings.TrimSpace(rec.TargetTerm) == "" {
		return "", false
	}
	return rec.TargetTerm, true
}

// raceFast launches every breaker-available fast provider concurrently and
// takes the first non-empty success. Losing calls are not awaited: their
// results are discarded whenever they arrive.
func (r *Resolver) raceFast(ctx context.Context, text, src, dst string) (string, bool) {
	candidates := make([]FastProvider, 0, len(r.fast))
	for _, fp := range r.fast {
		if r.breaker.Available(fp.Desc.Name) {
			candidates = append(candidates, fp)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type attempt struct {
		name string
		text string
		err  error
	}
	results := make(chan attempt, len(candidates))

	for _, fp := range candidates {
		go func(fp FastProvider) {
			attemptCtx, done := context.WithTimeout(raceCtx, fp.Desc.Timeout)
			defer done()
			out, err := fp.Adapter.Translate(attemptCtx, text, src, dst)
			results <- attempt{name: fp.Desc.Name, text: out, err: err}
		}(fp)
	}

	for range candidates {
		select {
		case a := <-results:
			if a.err != nil {
				r.breaker.Trip(a.name)
				r.log.WarnContext(ctx, "fast provider failed",
					slog.String("provider", a.name),
					slog.String("error", a.err.Error()),
				)
				continue
			}
			if strings.TrimSpace(a.text) == "" {
				continue
			}
			r.breaker.Reset(a.name)
			return a.text, true
		case <-ctx.Done():
			return "", false
		}
	}
	return "", false
}

// tryModel invokes the local generative model, gated on its liveness probe.
func (r *Resolver) tryModel(ctx context.Context, text, src, dst string) (string, bool) {
	if r.model == nil {
		return "", false
	}
	name := r.model.Name()
	if !r.breaker.Available(name) {
		return "", false
	}
	if p, ok := r.model.(provider.Prober); ok && !p.IsAvailable(ctx) {
		r.log.DebugContext(ctx, "model probe negative, skipping tier")
		return "", false
	}

	modelCtx, cancel := context.WithTimeout(ctx, r.cfg.ModelTimeout)
	defer cancel()

	out, err := r.model.Translate(modelCtx, text, src, dst)
	if err != nil {
		r.breaker.Trip(name)
		r.log.WarnContext(ctx, "model tier failed", slog.String("error", err.Error()))
		return "", false
	}
	r.breaker.Reset(name)

	out = strings.TrimSpace(out)
	return out, out != ""
}

// learnAsync hands a resolved pair to the learning pipeline, detached from
// the request path. Learning failures are logged and panics contained; they
// never affect the caller.
func (r *Resolver) learnAsync(text, translated, src, dst string, confidence float64) {
	if r.learner == nil {
		return
	}

	go func() {
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("learning pipeline panic", slog.Any("panic", p))
			}
		}()

		learnCtx, cancel := context.WithTimeout(context.Background(), r.cfg.LearnTimeout)
		defer cancel()

		if err := r.learner.LearnFromPair(learnCtx, text, translated, src, dst, confidence); err != nil {
			r.log.Warn("learning from pair failed",
				slog.String("src", src),
				slog.String("dst", dst),
				slog.String("error", err.Error()),
			)
		}
	}()
}
