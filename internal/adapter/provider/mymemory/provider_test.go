package mymemory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/voicebridge/translation-engine/internal/provider"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, slog.Default())
}

func TestTranslate_OK(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "en|de" {
			t.Errorf("langpair = %q, want en|de", got)
		}
		if got := r.URL.Query().Get("q"); got != "hello" {
			t.Errorf("q = %q, want hello", got)
		}
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":" hallo ","match":0.98}}`))
	})

	got, err := a.Translate(context.Background(), "hello", "en", "de")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "hallo" {
		t.Errorf("Translate = %q, want %q", got, "hallo")
	}
}

func TestTranslate_APIErrorStatus(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":403,"responseData":{"translatedText":""}}`))
	})

	_, err := a.Translate(context.Background(), "hello", "en", "de")
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("Translate error = %v, want ErrUnavailable", err)
	}
}

func TestTranslate_QuotaArtifactDropped(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY"}}`))
	})

	_, err := a.Translate(context.Background(), "hello", "en", "de")
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("Translate error = %v, want ErrUnavailable for quota artifact", err)
	}
}

func TestTranslate_HTTPError(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := a.Translate(context.Background(), "hello", "en", "de")
	if err == nil {
		t.Fatal("Translate: expected error on 502")
	}
	var perr *provider.Error
	if !errors.As(err, &perr) || perr.Provider != "mymemory" {
		t.Errorf("error not wrapped as provider.Error: %v", err)
	}
}

func TestTranslate_ContextDeadline(t *testing.T) {
	t.Parallel()

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"hallo"}}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Translate(ctx, "hello", "en", "de")
	if err == nil {
		t.Fatal("Translate: expected error on context deadline")
	}
}
