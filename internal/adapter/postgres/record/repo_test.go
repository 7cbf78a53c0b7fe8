package record_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/voicebridge/translation-engine/internal/adapter/postgres/record"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/testhelper"
	"github.com/voicebridge/translation-engine/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUpsert_InsertsNewRecord(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	rec, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID,
		SourceTerm:     "hello",
		TargetTerm:     "hallo",
		Confidence:     0.85,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if rec.TargetTerm != "hallo" || !almostEqual(rec.Confidence, 0.85) {
		t.Errorf("rec = %+v, want hallo @ 0.85", rec)
	}
	if rec.UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1", rec.UsageCount)
	}
	if rec.UserVerified {
		t.Error("fresh unverified record should not be verified")
	}
}

func TestUpsert_BlendsUnverifiedConfidence(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "water", TargetTerm: "wasser", Confidence: 0.85,
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	rec, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "water", TargetTerm: "wasser", Confidence: 0.7,
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	// (0.85*1 + 0.7) / 2 = 0.775
	if !almostEqual(rec.Confidence, 0.775) {
		t.Errorf("blended confidence = %v, want 0.775", rec.Confidence)
	}
	if rec.UsageCount != 2 {
		t.Errorf("UsageCount = %d, want 2", rec.UsageCount)
	}
}

func TestUpsert_KeepsStoredTargetForUnverifiedEvidence(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "bread", TargetTerm: "brot", Confidence: 0.85,
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	rec, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "bread", TargetTerm: "das brot", Confidence: 0.7,
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if rec.TargetTerm != "brot" {
		t.Errorf("TargetTerm = %q, want first-written %q", rec.TargetTerm, "brot")
	}
}

func TestUpsert_VerifiedSetsFullConfidenceAndReplacesTarget(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "train", TargetTerm: "zugg", Confidence: 0.5,
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	rec, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "train", TargetTerm: "zug", Confidence: 1.0, Verified: true,
	})
	if err != nil {
		t.Fatalf("verified Upsert: %v", err)
	}

	if !rec.UserVerified {
		t.Error("record should be verified")
	}
	if !almostEqual(rec.Confidence, 1.0) {
		t.Errorf("Confidence = %v, want 1.0", rec.Confidence)
	}
	if rec.TargetTerm != "zug" {
		t.Errorf("TargetTerm = %q, want corrected %q", rec.TargetTerm, "zug")
	}
}

func TestUpsert_VerifiedNeverDowngraded(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "house", TargetTerm: "haus", Confidence: 1.0, Verified: true,
	}); err != nil {
		t.Fatalf("verified Upsert: %v", err)
	}

	rec, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "house", TargetTerm: "hausss", Confidence: 0.4,
	})
	if err != nil {
		t.Fatalf("unverified Upsert: %v", err)
	}

	if !almostEqual(rec.Confidence, 1.0) {
		t.Errorf("Confidence = %v, verified record must keep 1.0", rec.Confidence)
	}
	if rec.TargetTerm != "haus" {
		t.Errorf("TargetTerm = %q, verified target must survive", rec.TargetTerm)
	}
	if !rec.UserVerified {
		t.Error("verified flag must survive unverified evidence")
	}
	if rec.UsageCount != 2 {
		t.Errorf("UsageCount = %d, want 2 (usage still counts)", rec.UsageCount)
	}
}

func TestUpsert_MergesDomainTags(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "thanks", TargetTerm: "danke", Confidence: 0.9,
		DomainTags: []string{"politeness"},
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	rec, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "thanks", TargetTerm: "danke", Confidence: 0.9,
		DomainTags: []string{"politeness", "greetings"},
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	want := []string{"greetings", "politeness"}
	if len(rec.DomainTags) != len(want) {
		t.Fatalf("DomainTags = %v, want %v", rec.DomainTags, want)
	}
	for i := range want {
		if rec.DomainTags[i] != want[i] {
			t.Fatalf("DomainTags = %v, want %v", rec.DomainTags, want)
		}
	}
}

func TestUpsert_ContextExamplesCappedAtFive(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	examples := []string{"one", "two", "three", "four", "five", "six", "seven"}
	var rec domain.TranslationRecord
	var err error
	for _, ex := range examples {
		rec, err = repo.Upsert(ctx, domain.TranslationEvidence{
			LanguagePairID: pair.ID, SourceTerm: "good", TargetTerm: "gut", Confidence: 0.8,
			ContextExample: ex,
		})
		if err != nil {
			t.Fatalf("Upsert(%q): %v", ex, err)
		}
	}

	if len(rec.ContextExamples) != domain.MaxContextExamples {
		t.Errorf("len(ContextExamples) = %d, want %d", len(rec.ContextExamples), domain.MaxContextExamples)
	}
}

func TestLookup_IncrementsUsageCount(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	testhelper.SeedTranslationRecord(t, pool, pair.ID, "cat", "katze", 0.9)
	ctx := context.Background()

	first, err := repo.Lookup(ctx, pair.ID, "cat")
	if err != nil {
		t.Fatalf("first Lookup: %v", err)
	}
	second, err := repo.Lookup(ctx, pair.ID, "cat")
	if err != nil {
		t.Fatalf("second Lookup: %v", err)
	}

	if first.UsageCount != 2 || second.UsageCount != 3 {
		t.Errorf("usage counts = %d, %d; want 2, 3", first.UsageCount, second.UsageCount)
	}
	if second.TargetTerm != "katze" {
		t.Errorf("TargetTerm = %q, want katze", second.TargetTerm)
	}
}

func TestLookup_MissReturnsNotFound(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)

	_, err := repo.Lookup(context.Background(), pair.ID, "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Lookup(miss) = %v, want ErrNotFound", err)
	}
}

func TestStats_Counts(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := record.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "stats-one", TargetTerm: "eins", Confidence: 0.9,
		DomainTags: []string{"numbers"},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, domain.TranslationEvidence{
		LanguagePairID: pair.ID, SourceTerm: "stats-two", TargetTerm: "zwei", Confidence: 0.9,
		DomainTags: []string{"numbers"},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	total, err := repo.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total < 2 {
		t.Errorf("CountAll = %d, want >= 2", total)
	}

	perPair, err := repo.CountByPair(ctx)
	if err != nil {
		t.Fatalf("CountByPair: %v", err)
	}
	if perPair[pair.Key()] != 2 {
		t.Errorf("CountByPair[%s] = %d, want 2", pair.Key(), perPair[pair.Key()])
	}

	perTag, err := repo.CountByDomainTag(ctx)
	if err != nil {
		t.Fatalf("CountByDomainTag: %v", err)
	}
	if perTag["numbers"] < 2 {
		t.Errorf("CountByDomainTag[numbers] = %d, want >= 2", perTag["numbers"])
	}

	recent, err := repo.CountCreatedSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountCreatedSince: %v", err)
	}
	if recent < 2 {
		t.Errorf("CountCreatedSince = %d, want >= 2", recent)
	}
}
