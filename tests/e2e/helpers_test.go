//go:build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voicebridge/translation-engine/internal/adapter/postgres"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/contribution"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/langpair"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/record"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/testhelper"
	"github.com/voicebridge/translation-engine/internal/adapter/postgres/unknown"
	"github.com/voicebridge/translation-engine/internal/adapter/provider/mymemory"
	"github.com/voicebridge/translation-engine/internal/cache"
	"github.com/voicebridge/translation-engine/internal/engine"
	"github.com/voicebridge/translation-engine/internal/memory"
	"github.com/voicebridge/translation-engine/internal/metrics"
	"github.com/voicebridge/translation-engine/internal/provider"
	"github.com/voicebridge/translation-engine/internal/resolver"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTranslateServer serves the MyMemory wire format with answers from a
// lookup function. A nil answer simulates an outage via HTTP 503.
func fakeTranslateServer(t *testing.T, answer func(q, langpair string) (string, bool)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		lp := r.URL.Query().Get("langpair")

		text, ok := answer(q, lp)
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"responseStatus": 200,
			"responseData":   map[string]any{"translatedText": text},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// harness is a fully wired engine over the shared test database and one
// fake fast provider.
type harness struct {
	engine  *engine.Engine
	memory  *memory.Service
	cache   *cache.Cache
	metrics *metrics.Recorder
	pool    *pgxpool.Pool
}

func newHarness(t *testing.T, pool *pgxpool.Pool, fastURL string) *harness {
	t.Helper()

	logger := newTestLogger()

	memSvc := memory.NewService(
		logger,
		langpair.New(pool),
		record.New(pool),
		unknown.New(pool),
		contribution.New(pool),
		postgres.NewTxManager(pool),
	)

	fastClient := mymemory.New(fastURL, 2*time.Second, logger)
	fast := []resolver.FastProvider{{
		Adapter: fastClient,
		Desc: provider.Descriptor{
			Name:     fastClient.Name(),
			Priority: 1,
			Timeout:  2 * time.Second,
		},
	}}

	translationCache := cache.New(128, time.Minute)
	recorder := metrics.New()

	res := resolver.New(logger, translationCache, fast, nil, memSvc, memSvc, recorder, resolver.Config{
		Cooldown:            50 * time.Millisecond,
		MemoryMinConfidence: 0.6,
		FastTierConfidence:  0.85,
		ModelTierConfidence: 0.7,
		ModelTimeout:        time.Second,
		LearnTimeout:        5 * time.Second,
	})

	return &harness{
		engine:  engine.New(logger, res, memSvc, translationCache, recorder, []string{"en", "de", "fr"}),
		memory:  memSvc,
		cache:   translationCache,
		metrics: recorder,
		pool:    pool,
	}
}

// setupPool returns the shared migrated database.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	return testhelper.SetupTestDB(t)
}
