package contribution_test

import (
	"context"
	"testing"

	"github.com/voicebridge/translation-engine/internal/adapter/postgres/contribution"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/testhelper"
	"github.com/voicebridge/translation-engine/internal/domain"
)

func TestCreate_AppendsRow(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := contribution.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	rec := testhelper.SeedTranslationRecord(t, pool, pair.ID, "hello", "hallo", 1.0)
	ctx := context.Background()

	c, err := repo.Create(ctx, domain.UserContribution{
		UserID:              "user-42",
		TranslationRecordID: rec.ID,
		LanguagePairID:      pair.ID,
		SourceTerm:          "hello",
		TargetTerm:          "hallo",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if c.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("contribution ID not assigned")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
}

func TestCreate_RecordMustExist(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := contribution.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)

	_, err := repo.Create(context.Background(), domain.UserContribution{
		UserID:         "user-42",
		LanguagePairID: pair.ID,
		SourceTerm:     "orphan",
		TargetTerm:     "waise",
	})
	if err == nil {
		t.Fatal("Create without a backing record should fail the FK")
	}
}

func TestListByUser_NewestFirst(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := contribution.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	ctx := context.Background()

	for _, term := range []string{"first", "second"} {
		rec := testhelper.SeedTranslationRecord(t, pool, pair.ID, term, term+"-de", 1.0)
		if _, err := repo.Create(ctx, domain.UserContribution{
			UserID:              "lister",
			TranslationRecordID: rec.ID,
			LanguagePairID:      pair.ID,
			SourceTerm:          term,
			TargetTerm:          term + "-de",
		}); err != nil {
			t.Fatalf("Create(%q): %v", term, err)
		}
	}

	got, err := repo.ListByUser(ctx, "lister", 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d contributions, want 2", len(got))
	}
	if got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Error("contributions should be ordered newest first")
	}
}

func TestCountAll(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := contribution.New(pool)
	pair := testhelper.SeedUniquePair(t, pool)
	rec := testhelper.SeedTranslationRecord(t, pool, pair.ID, "counted", "gezählt", 1.0)
	ctx := context.Background()

	before, err := repo.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}

	if _, err := repo.Create(ctx, domain.UserContribution{
		UserID:              "counter",
		TranslationRecordID: rec.ID,
		LanguagePairID:      pair.ID,
		SourceTerm:          "counted",
		TargetTerm:          "gezählt",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	after, err := repo.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if after != before+1 {
		t.Errorf("CountAll = %d, want %d", after, before+1)
	}
}
