// Package contribution implements the user contribution audit log using
// PostgreSQL. It is append-only: rows record who submitted what and when,
// while confidence state lives on the translation record itself.
package contribution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/domain"
)

// Repo provides user contribution persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contribution repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends one contribution row and returns it.
func (r *Repo) Create(ctx context.Context, c domain.UserContribution) (domain.UserContribution, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	err := q.QueryRow(ctx,
		`INSERT INTO user_contributions (id, pair_id, record_id, user_id, source_term, target_term, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, pair_id, record_id, user_id, source_term, target_term, created_at`,
		c.ID, c.LanguagePairID, c.TranslationRecordID, c.UserID, c.SourceTerm, c.TargetTerm, c.CreatedAt,
	).Scan(&c.ID, &c.LanguagePairID, &c.TranslationRecordID, &c.UserID, &c.SourceTerm, &c.TargetTerm, &c.CreatedAt)
	if err != nil {
		return domain.UserContribution{}, postgres.MapError(err, "user_contribution", c.SourceTerm)
	}

	return c, nil
}

// ListByUser returns a user's contributions, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.UserContribution, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT id, pair_id, record_id, user_id, source_term, target_term, created_at
		 FROM user_contributions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list user_contributions: %w", err)
	}
	defer rows.Close()

	var out []domain.UserContribution
	for rows.Next() {
		var c domain.UserContribution
		if err := rows.Scan(&c.ID, &c.LanguagePairID, &c.TranslationRecordID, &c.UserID, &c.SourceTerm, &c.TargetTerm, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user_contribution: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user_contributions: %w", err)
	}

	return out, nil
}

// CountAll returns the total number of contribution rows.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM user_contributions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user_contributions: %w", err)
	}
	return n, nil
}
