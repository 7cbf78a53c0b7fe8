// Package unknown implements the unknown word repository using PostgreSQL.
// Rows accumulate miss counts and disappear once the word gains a stored
// translation.
package unknown

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/domain"
)

// Repo provides unknown word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new unknown word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const unknownColumns = `id, pair_id, word, occurrence_count, contexts, first_seen, last_seen`

// RecordOrIncrement registers one miss for (pairID, word). A repeat miss
// bumps occurrence_count and last_seen; the optional context sentence is
// appended while the context list is below the cap.
func (r *Repo) RecordOrIncrement(ctx context.Context, pairID uuid.UUID, word, contextSentence string) (domain.UnknownWord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	contexts := []string{}
	if contextSentence != "" {
		contexts = append(contexts, contextSentence)
	}
	now := time.Now().UTC()

	var w domain.UnknownWord
	err := q.QueryRow(ctx,
		`INSERT INTO unknown_words (id, pair_id, word, occurrence_count, contexts, first_seen, last_seen)
		 VALUES ($1, $2, $3, 1, $4, $5, $5)
		 ON CONFLICT ON CONSTRAINT uq_unknown_words_pair_word DO UPDATE SET
		   occurrence_count = unknown_words.occurrence_count + 1,
		   contexts = CASE
		       WHEN cardinality(EXCLUDED.contexts) > 0
		            AND cardinality(unknown_words.contexts) < 5
		            AND NOT unknown_words.contexts @> EXCLUDED.contexts
		       THEN unknown_words.contexts || EXCLUDED.contexts
		       ELSE unknown_words.contexts
		   END,
		   last_seen = EXCLUDED.last_seen
		 RETURNING `+unknownColumns,
		uuid.New(), pairID, word, contexts, now,
	).Scan(&w.ID, &w.LanguagePairID, &w.Word, &w.OccurrenceCount, &w.Contexts, &w.FirstSeen, &w.LastSeen)
	if err != nil {
		return domain.UnknownWord{}, postgres.MapError(err, "unknown_word", word)
	}

	return w, nil
}

// ListByPriority returns up to limit unknown words for the pair, most
// frequent first, ties broken by recency.
func (r *Repo) ListByPriority(ctx context.Context, pairID uuid.UUID, limit int) ([]domain.UnknownWord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+unknownColumns+`
		 FROM unknown_words
		 WHERE pair_id = $1
		 ORDER BY occurrence_count DESC, last_seen DESC
		 LIMIT $2`,
		pairID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list unknown_words: %w", err)
	}
	defer rows.Close()

	var words []domain.UnknownWord
	for rows.Next() {
		var w domain.UnknownWord
		if err := rows.Scan(&w.ID, &w.LanguagePairID, &w.Word, &w.OccurrenceCount, &w.Contexts, &w.FirstSeen, &w.LastSeen); err != nil {
			return nil, fmt.Errorf("scan unknown_word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unknown_words: %w", err)
	}

	return words, nil
}

// Delete removes the unknown word row for (pairID, word). Deleting an
// absent row is not an error: the caller runs this after every new
// translation lands.
func (r *Repo) Delete(ctx context.Context, pairID uuid.UUID, word string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`DELETE FROM unknown_words WHERE pair_id = $1 AND word = $2`,
		pairID, word,
	)
	if err != nil {
		return postgres.MapError(err, "unknown_word", word)
	}
	return nil
}

// CountPending returns the total number of unresolved unknown words.
func (r *Repo) CountPending(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM unknown_words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unknown_words: %w", err)
	}
	return n, nil
}
