package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/voicebridge/translation-engine/internal/cache"
	"github.com/voicebridge/translation-engine/internal/domain"
	"github.com/voicebridge/translation-engine/internal/memory"
	"github.com/voicebridge/translation-engine/internal/metrics"
	"github.com/voicebridge/translation-engine/internal/resolver"
	"github.com/voicebridge/translation-engine/pkg/ctxutil"
)

type mockResolver struct {
	resolve      func(ctx context.Context, text, src, dst string) (resolver.Result, error)
	availability func() map[string]bool
}

func (m *mockResolver) Resolve(ctx context.Context, text, src, dst string) (resolver.Result, error) {
	return m.resolve(ctx, text, src, dst)
}

func (m *mockResolver) Availability() map[string]bool {
	if m.availability == nil {
		return map[string]bool{}
	}
	return m.availability()
}

type mockMemory struct {
	priorityUnknownWords   func(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error)
	recordUserContribution func(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error)
	stats                  func(ctx context.Context) (domain.MemoryStats, error)
}

func (m *mockMemory) PriorityUnknownWords(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error) {
	return m.priorityUnknownWords(ctx, src, dst, limit)
}

func (m *mockMemory) RecordUserContribution(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error) {
	return m.recordUserContribution(ctx, userID, in)
}

func (m *mockMemory) Stats(ctx context.Context) (domain.MemoryStats, error) {
	return m.stats(ctx)
}

type engineFixture struct {
	resolver *mockResolver
	memory   *mockMemory
	cache    *cache.Cache
	metrics  *metrics.Recorder
	engine   *Engine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		resolver: &mockResolver{
			resolve: func(ctx context.Context, text, src, dst string) (resolver.Result, error) {
				return resolver.Result{Text: "Hallo", Tier: domain.TierFast}, nil
			},
		},
		memory: &mockMemory{
			priorityUnknownWords: func(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error) {
				return nil, nil
			},
			recordUserContribution: func(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error) {
				return domain.TranslationRecord{SourceTerm: in.SourceTerm, TargetTerm: in.TargetTerm}, nil
			},
			stats: func(ctx context.Context) (domain.MemoryStats, error) {
				return domain.MemoryStats{}, nil
			},
		},
		cache:   cache.New(16, time.Minute),
		metrics: metrics.New(),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.engine = New(log, f.resolver, f.memory, f.cache, f.metrics, []string{"en", "de", "fr"})
	return f
}

func TestResolveTranslation_NormalizesAndResolves(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var gotSrc, gotDst string
	f.resolver.resolve = func(ctx context.Context, text, src, dst string) (resolver.Result, error) {
		gotSrc, gotDst = src, dst
		return resolver.Result{Text: "Hallo", Tier: domain.TierMemory}, nil
	}

	tr, err := f.engine.ResolveTranslation(context.Background(), "Hello", "EN", " de ")
	if err != nil {
		t.Fatalf("ResolveTranslation: %v", err)
	}

	if gotSrc != "en" || gotDst != "de" {
		t.Errorf("resolver saw %s->%s, want normalized en->de", gotSrc, gotDst)
	}
	if tr.Text != "Hallo" || tr.Tier != domain.TierMemory {
		t.Errorf("translation = %+v", tr)
	}
	if tr.SourceLang != "en" || tr.TargetLang != "de" {
		t.Errorf("translation langs = %s->%s, want normalized", tr.SourceLang, tr.TargetLang)
	}
}

func TestResolveTranslation_ValidatesInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		src  string
		dst  string
	}{
		{"empty text", "   ", "en", "de"},
		{"empty source", "hello", "", "de"},
		{"empty target", "hello", "en", ""},
		{"same languages", "hello", "en", "EN"},
		{"unsupported source", "hello", "xx", "de"},
		{"unsupported target", "hello", "en", "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newEngineFixture()
			f.resolver.resolve = func(ctx context.Context, text, src, dst string) (resolver.Result, error) {
				t.Error("resolver must not run on invalid input")
				return resolver.Result{}, nil
			}

			_, err := f.engine.ResolveTranslation(context.Background(), tt.text, tt.src, tt.dst)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}

			if snap := f.engine.MetricsSnapshot(); snap.Errors != 1 {
				t.Errorf("error counter = %d, want 1", snap.Errors)
			}
		})
	}
}

func TestResolveTranslation_ResolverErrorIsCounted(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	f.resolver.resolve = func(ctx context.Context, text, src, dst string) (resolver.Result, error) {
		return resolver.Result{}, context.Canceled
	}

	_, err := f.engine.ResolveTranslation(context.Background(), "hello", "en", "de")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want wrapped context.Canceled", err)
	}
	if snap := f.engine.MetricsSnapshot(); snap.Errors != 1 {
		t.Errorf("error counter = %d, want 1", snap.Errors)
	}
}

func TestMetricsSnapshot_MergesAvailability(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	f.resolver.availability = func() map[string]bool {
		return map[string]bool{"mymemory": true, "local-model": false}
	}

	snap := f.engine.MetricsSnapshot()
	if !snap.ProviderAvailability["mymemory"] {
		t.Error("expected mymemory available")
	}
	if snap.ProviderAvailability["local-model"] {
		t.Error("expected local-model unavailable")
	}
}

func TestClearCache_PurgesEntries(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	f.cache.Set("hello", "en", "de", "hallo")

	f.engine.ClearCache()

	if _, ok := f.cache.Get("hello", "en", "de"); ok {
		t.Error("cache entry survived ClearCache")
	}
	if stats := f.engine.CacheStats(); stats.Entries != 0 {
		t.Errorf("entries = %d, want 0", stats.Entries)
	}
}

func TestUnknownWords_NormalizesLanguages(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var gotSrc, gotDst string
	var gotLimit int
	f.memory.priorityUnknownWords = func(ctx context.Context, src, dst string, limit int) ([]domain.UnknownWord, error) {
		gotSrc, gotDst, gotLimit = src, dst, limit
		return []domain.UnknownWord{{Word: "serendipity"}}, nil
	}

	words, err := f.engine.UnknownWords(context.Background(), "EN", " De", 10)
	if err != nil {
		t.Fatalf("UnknownWords: %v", err)
	}

	if gotSrc != "en" || gotDst != "de" || gotLimit != 10 {
		t.Errorf("memory saw (%s, %s, %d)", gotSrc, gotDst, gotLimit)
	}
	if len(words) != 1 || words[0].Word != "serendipity" {
		t.Errorf("words = %+v", words)
	}
}

func TestUnknownWords_RequiresBothLanguages(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	if _, err := f.engine.UnknownWords(context.Background(), "en", "", 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitWordTranslation_ExplicitUserID(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var gotUser string
	var gotIn memory.UpsertInput
	f.memory.recordUserContribution = func(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error) {
		gotUser, gotIn = userID, in
		return domain.TranslationRecord{}, nil
	}

	_, err := f.engine.SubmitWordTranslation(context.Background(), "user-7", "hello", "hallo", "en", "de", "", "")
	if err != nil {
		t.Fatalf("SubmitWordTranslation: %v", err)
	}

	if gotUser != "user-7" {
		t.Errorf("userID = %s, want user-7", gotUser)
	}
	if gotIn.SourceTerm != "hello" || gotIn.TargetTerm != "hallo" {
		t.Errorf("input = %+v", gotIn)
	}
}

func TestSubmitWordTranslation_CarriesContextAndTag(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var gotIn memory.UpsertInput
	f.memory.recordUserContribution = func(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error) {
		gotIn = in
		return domain.TranslationRecord{}, nil
	}

	_, err := f.engine.SubmitWordTranslation(context.Background(), "user-7", "notebook", "Notizbuch", "en", "de", "das Notizbuch liegt auf dem Tisch", "stationery")
	if err != nil {
		t.Fatalf("SubmitWordTranslation: %v", err)
	}

	if gotIn.ContextExample != "das Notizbuch liegt auf dem Tisch" {
		t.Errorf("context example = %q", gotIn.ContextExample)
	}
	if len(gotIn.DomainTags) != 1 || gotIn.DomainTags[0] != "stationery" {
		t.Errorf("domain tags = %v, want [stationery]", gotIn.DomainTags)
	}
}

func TestSubmitWordTranslation_UserIDFromContext(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var gotUser string
	f.memory.recordUserContribution = func(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error) {
		gotUser = userID
		return domain.TranslationRecord{}, nil
	}

	ctx := ctxutil.WithUserID(context.Background(), "ctx-user")
	if _, err := f.engine.SubmitWordTranslation(ctx, "", "hello", "hallo", "en", "de", "", ""); err != nil {
		t.Fatalf("SubmitWordTranslation: %v", err)
	}

	if gotUser != "ctx-user" {
		t.Errorf("userID = %s, want ctx-user", gotUser)
	}
}

func TestSubmitWordTranslation_AnonymousFallback(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	var gotUser string
	f.memory.recordUserContribution = func(ctx context.Context, userID string, in memory.UpsertInput) (domain.TranslationRecord, error) {
		gotUser = userID
		return domain.TranslationRecord{}, nil
	}

	if _, err := f.engine.SubmitWordTranslation(context.Background(), "", "hello", "hallo", "en", "de", "", ""); err != nil {
		t.Fatalf("SubmitWordTranslation: %v", err)
	}

	if gotUser != "anonymous" {
		t.Errorf("userID = %s, want anonymous", gotUser)
	}
}

func TestTranslationStats_Delegates(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	f.memory.stats = func(ctx context.Context) (domain.MemoryStats, error) {
		return domain.MemoryStats{TotalRecords: 42}, nil
	}

	stats, err := f.engine.TranslationStats(context.Background())
	if err != nil {
		t.Fatalf("TranslationStats: %v", err)
	}
	if stats.TotalRecords != 42 {
		t.Errorf("TotalRecords = %d, want 42", stats.TotalRecords)
	}
}
