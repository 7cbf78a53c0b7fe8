package seed

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voicebridge/translation-engine/internal/domain"
	"github.com/voicebridge/translation-engine/internal/memory"
)

// SeedConfidence is assigned to every built-in entry. High enough for the
// memory tier to serve it, below the 1.0 reserved for verified records.
const SeedConfidence = 0.9

const defaultWorkers = 8

type memoryStore interface {
	Upsert(ctx context.Context, in memory.UpsertInput) (domain.TranslationRecord, error)
}

// Result summarizes one seeding run.
type Result struct {
	Seeded   int
	Failed   int
	Duration time.Duration
}

// Seeder writes the built-in lexicon into the translation memory.
type Seeder struct {
	log     *slog.Logger
	store   memoryStore
	workers int
}

// New creates a Seeder over the given memory store.
func New(log *slog.Logger, store memoryStore) *Seeder {
	return &Seeder{
		log:     log.With("service", "seeder"),
		store:   store,
		workers: defaultWorkers,
	}
}

// Run upserts every lexicon phrase in both directions. Individual write
// failures are logged and counted, not fatal; the run only aborts when the
// context is cancelled.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	phrases := Lexicon()

	var seeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, p := range phrases {
		inputs := []memory.UpsertInput{
			{
				SourceLang: "en",
				TargetLang: "de",
				SourceTerm: p.English,
				TargetTerm: p.German,
				Confidence: SeedConfidence,
				DomainTags: []string{p.Domain},
			},
			{
				SourceLang: "de",
				TargetLang: "en",
				SourceTerm: p.German,
				TargetTerm: p.English,
				Confidence: SeedConfidence,
				DomainTags: []string{p.Domain},
			},
		}

		for _, in := range inputs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if _, err := s.store.Upsert(gctx, in); err != nil {
					failed.Add(1)
					s.log.WarnContext(gctx, "seed entry failed",
						slog.String("source_term", in.SourceTerm),
						slog.String("pair", in.SourceLang+"-"+in.TargetLang),
						slog.String("error", err.Error()),
					)
					return nil
				}
				seeded.Add(1)
				return nil
			})
		}
	}

	err := g.Wait()

	res := Result{
		Seeded:   int(seeded.Load()),
		Failed:   int(failed.Load()),
		Duration: time.Since(start),
	}

	s.log.InfoContext(ctx, "seeding finished",
		slog.Int("seeded", res.Seeded),
		slog.Int("failed", res.Failed),
		slog.Duration("duration", res.Duration),
	)

	return res, err
}
