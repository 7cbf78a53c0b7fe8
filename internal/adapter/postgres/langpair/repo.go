// Package langpair implements the language pair repository using PostgreSQL.
// Pairs are created lazily on first reference and never deleted.
package langpair

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/domain"
)

// Repo provides language pair persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new language pair repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetOrCreate returns the pair for (src, dst), inserting it if absent.
// The no-op DO UPDATE arm makes the insert race-free: concurrent callers
// for a new pair all land on the same row.
func (r *Repo) GetOrCreate(ctx context.Context, src, dst string) (domain.LanguagePair, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	src = domain.NormalizeLang(src)
	dst = domain.NormalizeLang(dst)

	var p domain.LanguagePair
	err := q.QueryRow(ctx,
		`INSERT INTO language_pairs (id, source_lang, target_lang, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT ON CONSTRAINT uq_language_pairs_src_dst
		 DO UPDATE SET source_lang = EXCLUDED.source_lang
		 RETURNING id, source_lang, target_lang, created_at`,
		uuid.New(), src, dst, time.Now().UTC(),
	).Scan(&p.ID, &p.SourceLang, &p.TargetLang, &p.CreatedAt)
	if err != nil {
		return domain.LanguagePair{}, postgres.MapError(err, "language_pair", src+"-"+dst)
	}

	return p, nil
}

// Get returns the pair for (src, dst) or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, src, dst string) (domain.LanguagePair, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	src = domain.NormalizeLang(src)
	dst = domain.NormalizeLang(dst)

	var p domain.LanguagePair
	err := q.QueryRow(ctx,
		`SELECT id, source_lang, target_lang, created_at
		 FROM language_pairs
		 WHERE source_lang = $1 AND target_lang = $2`,
		src, dst,
	).Scan(&p.ID, &p.SourceLang, &p.TargetLang, &p.CreatedAt)
	if err != nil {
		return domain.LanguagePair{}, postgres.MapError(err, "language_pair", src+"-"+dst)
	}

	return p, nil
}

// List returns every known pair ordered by source then target language.
func (r *Repo) List(ctx context.Context) ([]domain.LanguagePair, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT id, source_lang, target_lang, created_at
		 FROM language_pairs
		 ORDER BY source_lang, target_lang`,
	)
	if err != nil {
		return nil, fmt.Errorf("list language_pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.LanguagePair
	for rows.Next() {
		var p domain.LanguagePair
		if err := rows.Scan(&p.ID, &p.SourceLang, &p.TargetLang, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan language_pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language_pairs: %w", err)
	}

	return pairs, nil
}
