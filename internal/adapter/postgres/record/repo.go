// Package record implements the translation record repository using
// PostgreSQL. The write path is a single-statement upsert so that the
// confidence blend stays atomic under concurrent learners.
package record

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/domain"
)

// Repo provides translation record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new translation record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const recordColumns = `id, pair_id, source_term, target_term, confidence, usage_count,
	verified, domain_tags, context_examples, created_at, updated_at`

// Upsert folds one piece of evidence into the store and returns the
// resulting row. The whole merge runs as one INSERT ... ON CONFLICT so
// concurrent writers serialize on the row instead of racing a read-blend-
// write cycle:
//
//   - new term: inserted as given with usage_count 1;
//   - verified evidence: confidence forced to 1.0, target term replaced;
//   - unverified evidence on an unverified row: confidence becomes the
//     usage-weighted blend (old*n + incoming) / (n+1), stored target kept;
//   - unverified evidence on a verified row: only usage_count moves;
//   - domain tags merge set-wise, context examples append up to the cap.
func (r *Repo) Upsert(ctx context.Context, ev domain.TranslationEvidence) (domain.TranslationRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tags := ev.DomainTags
	if tags == nil {
		tags = []string{}
	}
	contexts := []string{}
	if ev.ContextExample != "" {
		contexts = append(contexts, ev.ContextExample)
	}
	now := time.Now().UTC()

	var rec domain.TranslationRecord
	err := q.QueryRow(ctx,
		`INSERT INTO translation_records
		   (id, pair_id, source_term, target_term, confidence, usage_count,
		    verified, domain_tags, context_examples, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, 1, $6, $7, $8, $9, $9)
		 ON CONFLICT ON CONSTRAINT uq_translation_records_pair_term DO UPDATE SET
		   target_term = CASE
		       WHEN EXCLUDED.verified THEN EXCLUDED.target_term
		       ELSE translation_records.target_term
		   END,
		   confidence = CASE
		       WHEN EXCLUDED.verified THEN 1.0
		       WHEN translation_records.verified THEN translation_records.confidence
		       ELSE LEAST(1.0,
		           (translation_records.confidence * translation_records.usage_count + EXCLUDED.confidence)
		           / (translation_records.usage_count + 1))
		   END,
		   verified = translation_records.verified OR EXCLUDED.verified,
		   usage_count = translation_records.usage_count + 1,
		   domain_tags = ARRAY(
		       SELECT DISTINCT t
		       FROM unnest(translation_records.domain_tags || EXCLUDED.domain_tags) AS t
		       ORDER BY t
		   ),
		   context_examples = CASE
		       WHEN cardinality(EXCLUDED.context_examples) > 0
		            AND cardinality(translation_records.context_examples) < 5
		            AND NOT translation_records.context_examples @> EXCLUDED.context_examples
		       THEN translation_records.context_examples || EXCLUDED.context_examples
		       ELSE translation_records.context_examples
		   END,
		   updated_at = EXCLUDED.updated_at
		 RETURNING `+recordColumns,
		uuid.New(), ev.LanguagePairID, ev.SourceTerm, ev.TargetTerm, ev.Confidence,
		ev.Verified, tags, contexts, now,
	).Scan(
		&rec.ID, &rec.LanguagePairID, &rec.SourceTerm, &rec.TargetTerm,
		&rec.Confidence, &rec.UsageCount, &rec.UserVerified,
		&rec.DomainTags, &rec.ContextExamples, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.TranslationRecord{}, postgres.MapError(err, "translation_record", ev.SourceTerm)
	}

	return rec, nil
}

// Lookup returns the record for (pairID, term) and bumps its usage count in
// the same statement. Returns domain.ErrNotFound on a miss.
func (r *Repo) Lookup(ctx context.Context, pairID uuid.UUID, term string) (domain.TranslationRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rec domain.TranslationRecord
	err := q.QueryRow(ctx,
		`UPDATE translation_records
		 SET usage_count = usage_count + 1
		 WHERE pair_id = $1 AND source_term = $2
		 RETURNING `+recordColumns,
		pairID, term,
	).Scan(
		&rec.ID, &rec.LanguagePairID, &rec.SourceTerm, &rec.TargetTerm,
		&rec.Confidence, &rec.UsageCount, &rec.UserVerified,
		&rec.DomainTags, &rec.ContextExamples, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.TranslationRecord{}, postgres.MapError(err, "translation_record", term)
	}

	return rec, nil
}

// Get returns the record for (pairID, term) without touching usage_count.
func (r *Repo) Get(ctx context.Context, pairID uuid.UUID, term string) (domain.TranslationRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rec domain.TranslationRecord
	err := q.QueryRow(ctx,
		`SELECT `+recordColumns+`
		 FROM translation_records
		 WHERE pair_id = $1 AND source_term = $2`,
		pairID, term,
	).Scan(
		&rec.ID, &rec.LanguagePairID, &rec.SourceTerm, &rec.TargetTerm,
		&rec.Confidence, &rec.UsageCount, &rec.UserVerified,
		&rec.DomainTags, &rec.ContextExamples, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.TranslationRecord{}, postgres.MapError(err, "translation_record", term)
	}

	return rec, nil
}

// ---------------------------------------------------------------------------
// Stats queries (dynamic SQL via squirrel)
// ---------------------------------------------------------------------------

// CountAll returns the total number of stored records.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	return r.countWhere(ctx, nil)
}

// CountCreatedSince returns the number of records created at or after t.
func (r *Repo) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	return r.countWhere(ctx, sq.GtOrEq{"created_at": t})
}

func (r *Repo) countWhere(ctx context.Context, pred any) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := builder.Select("COUNT(*)").From("translation_records")
	if pred != nil {
		query = query.Where(pred)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count translation_records: %w", err)
	}
	return n, nil
}

// CountByPair returns record counts keyed by the "src-dst" pair label.
func (r *Repo) CountByPair(ctx context.Context) (map[string]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := builder.
		Select("lp.source_lang || '-' || lp.target_lang AS pair", "COUNT(*)").
		From("translation_records tr").
		Join("language_pairs lp ON lp.id = tr.pair_id").
		GroupBy("pair").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build per-pair query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count translation_records by pair: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var pair string
		var n int
		if err := rows.Scan(&pair, &n); err != nil {
			return nil, fmt.Errorf("scan per-pair count: %w", err)
		}
		out[pair] = n
	}
	return out, rows.Err()
}

// CountByDomainTag returns record counts keyed by domain tag. Untagged
// records do not contribute.
func (r *Repo) CountByDomainTag(ctx context.Context) (map[string]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := builder.
		Select("tag", "COUNT(*)").
		From("translation_records").
		CrossJoin("unnest(domain_tags) AS tag").
		GroupBy("tag").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build per-tag query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count translation_records by tag: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan per-tag count: %w", err)
		}
		out[tag] = n
	}
	return out, rows.Err()
}
