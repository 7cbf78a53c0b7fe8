package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voicebridge/translation-engine/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedLanguagePair creates a language pair row. Language codes must be
// unique within the test run; callers that need isolation should use
// SeedUniquePair instead.
func SeedLanguagePair(t *testing.T, pool *pgxpool.Pool, src, dst string) domain.LanguagePair {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	pair := domain.LanguagePair{
		ID:         uuid.New(),
		SourceLang: src,
		TargetLang: dst,
		CreatedAt:  now,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO language_pairs (id, source_lang, target_lang, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT ON CONSTRAINT uq_language_pairs_src_dst
		 DO UPDATE SET source_lang = EXCLUDED.source_lang
		 RETURNING id, created_at`,
		pair.ID, pair.SourceLang, pair.TargetLang, pair.CreatedAt,
	).Scan(&pair.ID, &pair.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedLanguagePair insert: %v", err)
	}

	return pair
}

// SeedUniquePair creates a language pair with synthetic two-letter codes
// that no other test will collide with. The shared container serves the
// whole package, so isolation comes from unique data, not from truncation.
func SeedUniquePair(t *testing.T, pool *pgxpool.Pool) domain.LanguagePair {
	t.Helper()

	s := uniqueSuffix()
	// Two hex chars are a valid length-2 "language code" for the schema.
	src, dst := s[:2], s[2:4]
	if src == dst {
		dst = s[4:6]
	}
	if src == dst {
		dst = src[:1] + "q" // uuid hex never contains 'q'
	}
	return SeedLanguagePair(t, pool, src, dst)
}

// SeedTranslationRecord creates a translation record with the given
// confidence and sensible defaults for everything else.
func SeedTranslationRecord(t *testing.T, pool *pgxpool.Pool, pairID uuid.UUID, source, target string, confidence float64) domain.TranslationRecord {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := domain.TranslationRecord{
		ID:              uuid.New(),
		LanguagePairID:  pairID,
		SourceTerm:      source,
		TargetTerm:      target,
		Confidence:      confidence,
		UsageCount:      1,
		ContextExamples: []string{},
		DomainTags:      []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO translation_records
		   (id, pair_id, source_term, target_term, confidence, usage_count,
		    verified, domain_tags, context_examples, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.LanguagePairID, rec.SourceTerm, rec.TargetTerm, rec.Confidence,
		rec.UsageCount, rec.UserVerified, rec.DomainTags, rec.ContextExamples,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTranslationRecord insert: %v", err)
	}

	return rec
}

// SeedUnknownWord creates an unknown word row with one occurrence.
func SeedUnknownWord(t *testing.T, pool *pgxpool.Pool, pairID uuid.UUID, word string) domain.UnknownWord {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	w := domain.UnknownWord{
		ID:              uuid.New(),
		LanguagePairID:  pairID,
		Word:            word,
		OccurrenceCount: 1,
		Contexts:        []string{},
		FirstSeen:       now,
		LastSeen:        now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO unknown_words (id, pair_id, word, occurrence_count, contexts, first_seen, last_seen)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.LanguagePairID, w.Word, w.OccurrenceCount, w.Contexts, w.FirstSeen, w.LastSeen,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUnknownWord insert: %v", err)
	}

	return w
}
