package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxContextExamples bounds the context lists stored on translation records
// and unknown words. The cap is enforced at the storage boundary.
const MaxContextExamples = 5

// Tier identifies the stage of the fallback chain that produced a result.
type Tier string

const (
	TierCache     Tier = "cache"
	TierMemory    Tier = "memory"
	TierFast      Tier = "fast"
	TierModel     Tier = "model"
	TierEmergency Tier = "emergency"
)

// LanguagePair is an ordered source→target language combination.
// Pairs are created lazily on first reference and never deleted.
type LanguagePair struct {
	ID         uuid.UUID
	SourceLang string
	TargetLang string
	CreatedAt  time.Time
}

// Key returns the "src-dst" label used in stats and logs.
func (p LanguagePair) Key() string {
	return p.SourceLang + "-" + p.TargetLang
}

// TranslationRecord is a confidence-scored source→target mapping within a
// language pair. SourceTerm is unique per pair and stored normalized.
//
// Confidence discipline:
//   - unverified evidence blends into the running weighted average
//     (old·usageCount + incoming) / (usageCount+1);
//   - user-verified submissions set confidence to 1.0 outright;
//   - a verified record is never downgraded by unverified updates — those
//     only increment UsageCount.
type TranslationRecord struct {
	ID              uuid.UUID
	LanguagePairID  uuid.UUID
	SourceTerm      string
	TargetTerm      string
	Confidence      float64
	UsageCount      int
	UserVerified    bool
	ContextExamples []string
	DomainTags      []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TranslationEvidence is one unit of evidence about a (pair, source term)
// mapping, folded into the store by the single-statement upsert.
// ContextExample carries at most one new example sentence per call.
type TranslationEvidence struct {
	LanguagePairID uuid.UUID
	SourceTerm     string
	TargetTerm     string
	Confidence     float64
	Verified       bool
	DomainTags     []string
	ContextExample string
}

// UnknownWord tracks a term that was looked up but has no stored
// translation. Repeat misses increment OccurrenceCount; the row is removed
// once a TranslationRecord for the same term is created.
type UnknownWord struct {
	ID              uuid.UUID
	LanguagePairID  uuid.UUID
	Word            string
	OccurrenceCount int
	FirstSeen       time.Time
	LastSeen        time.Time
	Contexts        []string
}

// UserContribution is one append-only audit row for a human-submitted
// translation. Confidence state lives on the TranslationRecord, not here.
type UserContribution struct {
	ID                  uuid.UUID
	UserID              string
	TranslationRecordID uuid.UUID
	LanguagePairID      uuid.UUID
	SourceTerm          string
	TargetTerm          string
	CreatedAt           time.Time
}

// MemoryStats aggregates the durable store for the admin surface.
type MemoryStats struct {
	TotalRecords      int
	PerLanguagePair   map[string]int
	PendingUnknown    int
	UserContributions int
	PerDomainTag      map[string]int
	NewToday          int
	NewThisWeek       int
	NewThisMonth      int
}
