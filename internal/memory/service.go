// Package memory implements the durable translation memory: confidence-
// scored records, unknown-word tracking, user contributions, and the
// learning pipeline that feeds the store from resolved translations.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voicebridge/translation-engine/internal/domain"
)

// DefaultUnknownLimit bounds PriorityUnknownWords when the caller passes a
// non-positive limit.
const DefaultUnknownLimit = 50

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type pairRepo interface {
	GetOrCreate(ctx context.Context, src, dst string) (domain.LanguagePair, error)
}

type recordRepo interface {
	Upsert(ctx context.Context, ev domain.TranslationEvidence) (domain.TranslationRecord, error)
	Lookup(ctx context.Context, pairID uuid.UUID, term string) (domain.TranslationRecord, error)
	CountAll(ctx context.Context) (int, error)
	CountByPair(ctx context.Context) (map[string]int, error)
	CountByDomainTag(ctx context.Context) (map[string]int, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int, error)
}

type unknownRepo interface {
	RecordOrIncrement(ctx context.Context, pairID uuid.UUID, word, contextSentence string) (domain.UnknownWord, error)
	ListByPriority(ctx context.Context, pairID uuid.UUID, limit int) ([]domain.UnknownWord, error)
	Delete(ctx context.Context, pairID uuid.UUID, word string) error
	CountPending(ctx context.Context) (int, error)
}

type contributionRepo interface {
	Create(ctx context.Context, c domain.UserContribution) (domain.UserContribution, error)
	CountAll(ctx context.Context) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the translation memory business logic.
type Service struct {
	pairs         pairRepo
	records       recordRepo
	unknown       unknownRepo
	contributions contributionRepo
	tx            txManager
	log           *slog.Logger
}

// NewService creates a new memory service.
func NewService(
	log *slog.Logger,
	pairs pairRepo,
	records recordRepo,
	unknown unknownRepo,
	contributions contributionRepo,
	tx txManager,
) *Service {
	return &Service{
		pairs:         pairs,
		records:       records,
		unknown:       unknown,
		contributions: contributions,
		tx:            tx,
		log:           log.With("service", "memory"),
	}
}

// UpsertInput carries one translation into the store via Upsert.
type UpsertInput struct {
	SourceLang     string
	TargetLang     string
	SourceTerm     string
	TargetTerm     string
	Confidence     float64
	Verified       bool
	DomainTags     []string
	ContextExample string
}

func (in UpsertInput) validate() error {
	var fields []domain.FieldError
	if domain.NormalizeText(in.SourceTerm) == "" {
		fields = append(fields, domain.FieldError{Field: "source_term", Message: "must not be empty"})
	}
	if domain.NormalizeText(in.TargetTerm) == "" {
		fields = append(fields, domain.FieldError{Field: "target_term", Message: "must not be empty"})
	}
	if domain.NormalizeLang(in.SourceLang) == "" || domain.NormalizeLang(in.TargetLang) == "" {
		fields = append(fields, domain.FieldError{Field: "language", Message: "both languages are required"})
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		fields = append(fields, domain.FieldError{Field: "confidence", Message: "must be within [0, 1]"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Errors: fields}
	}
	return nil
}

// Lookup returns the stored record for the normalized term, bumping its
// usage count, or (nil, nil) on a miss. Storage failures are logged and
// reported as a miss: the caller's fallback chain must keep moving. A miss
// also registers the term as an unknown word, best effort.
func (s *Service) Lookup(ctx context.Context, term, src, dst string) (*domain.TranslationRecord, error) {
	normalized := domain.NormalizeText(term)
	if normalized == "" {
		return nil, nil
	}

	pair, err := s.pairs.GetOrCreate(ctx, src, dst)
	if err != nil {
		s.log.WarnContext(ctx, "memory lookup: pair resolution failed",
			slog.String("pair", src+"-"+dst), slog.String("error", err.Error()))
		return nil, nil
	}

	rec, err := s.records.Lookup(ctx, pair.ID, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if _, uerr := s.unknown.RecordOrIncrement(ctx, pair.ID, normalized, ""); uerr != nil {
				s.log.WarnContext(ctx, "record unknown word failed",
					slog.String("word", normalized), slog.String("error", uerr.Error()))
			}
			return nil, nil
		}
		s.log.WarnContext(ctx, "memory lookup failed",
			slog.String("term", normalized), slog.String("error", err.Error()))
		return nil, nil
	}

	return &rec, nil
}

// Upsert folds one translation into the store and clears any matching
// unknown-word row. Unlike Lookup, write failures propagate.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (domain.TranslationRecord, error) {
	if err := in.validate(); err != nil {
		return domain.TranslationRecord{}, err
	}

	pair, err := s.pairs.GetOrCreate(ctx, in.SourceLang, in.TargetLang)
	if err != nil {
		return domain.TranslationRecord{}, fmt.Errorf("resolve language pair: %w", err)
	}

	rec, err := s.records.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID,
		SourceTerm:     domain.NormalizeText(in.SourceTerm),
		TargetTerm:     in.TargetTerm,
		Confidence:     in.Confidence,
		Verified:       in.Verified,
		DomainTags:     in.DomainTags,
		ContextExample: in.ContextExample,
	})
	if err != nil {
		return domain.TranslationRecord{}, err
	}

	// The term has a translation now; it is no longer unknown.
	if err := s.unknown.Delete(ctx, pair.ID, rec.SourceTerm); err != nil {
		s.log.WarnContext(ctx, "clear unknown word failed",
			slog.String("word", rec.SourceTerm), slog.String("error", err.Error()))
	}

	return rec, nil
}

// RecordUnknownWord registers one miss for the term. Failures are logged
// and swallowed: unknown tracking never breaks a caller.
func (s *Service) RecordUnknownWord(ctx context.Context, word, src, dst, contextSentence string) {
	normalized := domain.NormalizeText(word)
	if normalized == "" {
		return
	}

	pair, err := s.pairs.GetOrCreate(ctx, src, dst)
	if err != nil {
		s.log.WarnContext(ctx, "record unknown word: pair resolution failed",
			slog.String("pair", src+"-"+dst), slog.String("error", err.Error()))
		return
	}

	if _, err := s.unknown.RecordOrIncrement(ctx, pair.ID, normalized, contextSentence); err != nil {
		s.log.WarnContext(ctx, "record unknown word failed",
			slog.String("word", normalized), slog.String("error", err.Error()))
	}
}

// PriorityUnknownWords returns the pair's unresolved words, most frequent
// first. A non-positive limit falls back to DefaultUnknownLimit.
func (s *Service) PriorityUnknownWords(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error) {
	if limit <= 0 {
		limit = DefaultUnknownLimit
	}

	pair, err := s.pairs.GetOrCreate(ctx, src, dst)
	if err != nil {
		return nil, fmt.Errorf("resolve language pair: %w", err)
	}

	return s.unknown.ListByPriority(ctx, pair.ID, limit)
}

// RecordUserContribution stores a human-submitted translation as verified
// truth: the record upsert (confidence 1.0) and the append-only audit row
// commit in one transaction.
func (s *Service) RecordUserContribution(ctx context.Context, userID string, in UpsertInput) (domain.TranslationRecord, error) {
	if userID == "" {
		return domain.TranslationRecord{}, domain.NewInvalidInput("user_id", "must not be empty")
	}
	in.Confidence = 1.0
	in.Verified = true
	if err := in.validate(); err != nil {
		return domain.TranslationRecord{}, err
	}

	var rec domain.TranslationRecord
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		pair, err := s.pairs.GetOrCreate(ctx, in.SourceLang, in.TargetLang)
		if err != nil {
			return fmt.Errorf("resolve language pair: %w", err)
		}

		rec, err = s.records.Upsert(ctx, domain.TranslationEvidence{
			LanguagePairID: pair.ID,
			SourceTerm:     domain.NormalizeText(in.SourceTerm),
			TargetTerm:     in.TargetTerm,
			Confidence:     1.0,
			Verified:       true,
			DomainTags:     in.DomainTags,
			ContextExample: in.ContextExample,
		})
		if err != nil {
			return err
		}

		if _, err := s.contributions.Create(ctx, domain.UserContribution{
			UserID:              userID,
			TranslationRecordID: rec.ID,
			LanguagePairID:      pair.ID,
			SourceTerm:          rec.SourceTerm,
			TargetTerm:          rec.TargetTerm,
		}); err != nil {
			return err
		}

		if err := s.unknown.Delete(ctx, pair.ID, rec.SourceTerm); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return domain.TranslationRecord{}, err
	}

	s.log.InfoContext(ctx, "user contribution recorded",
		slog.String("user_id", userID),
		slog.String("source_term", rec.SourceTerm),
	)
	return rec, nil
}

// Stats aggregates the store for the admin surface.
func (s *Service) Stats(ctx context.Context) (domain.MemoryStats, error) {
	var stats domain.MemoryStats
	var err error

	if stats.TotalRecords, err = s.records.CountAll(ctx); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count records: %w", err)
	}
	if stats.PerLanguagePair, err = s.records.CountByPair(ctx); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count per pair: %w", err)
	}
	if stats.PerDomainTag, err = s.records.CountByDomainTag(ctx); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count per tag: %w", err)
	}
	if stats.PendingUnknown, err = s.unknown.CountPending(ctx); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count unknown: %w", err)
	}
	if stats.UserContributions, err = s.contributions.CountAll(ctx); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count contributions: %w", err)
	}

	now := time.Now().UTC()
	if stats.NewToday, err = s.records.CountCreatedSince(ctx, now.Truncate(24*time.Hour)); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count new today: %w", err)
	}
	if stats.NewThisWeek, err = s.records.CountCreatedSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count new this week: %w", err)
	}
	if stats.NewThisMonth, err = s.records.CountCreatedSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return domain.MemoryStats{}, fmt.Errorf("count new this month: %w", err)
	}

	return stats, nil
}
