// Package mymemory implements the fast-tier adapter for the MyMemory
// translation API (GET /get?q=...&langpair=src|dst).
package mymemory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voicebridge/translation-engine/internal/provider"
)

const adapterName = "mymemory"

// Adapter fetches translations from the MyMemory API.
type Adapter struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a MyMemory adapter. timeout bounds each HTTP call in addition
// to whatever deadline the caller's context carries.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", adapterName),
	}
}

// Name implements provider.Adapter.
func (a *Adapter) Name() string { return adapterName }

type apiResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string  `json:"translatedText"`
		Match          float64 `json:"match"`
	} `json:"responseData"`
}

// Translate implements provider.Adapter.
func (a *Adapter) Translate(ctx context.Context, text, src, dst string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", src+"|"+dst)
	reqURL := a.baseURL + "/get?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("create request: %w", err))
	}

	a.log.DebugContext(ctx, "mymemory request", slog.String("langpair", src+"|"+dst))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", provider.WrapErr(adapterName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", provider.WrapErr(adapterName,
			fmt.Errorf("unexpected status %d: %w", resp.StatusCode, provider.ErrUnavailable))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("read body: %w", err))
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("decode json: %w", err))
	}

	if decoded.ResponseStatus != http.StatusOK {
		return "", provider.WrapErr(adapterName,
			fmt.Errorf("api status %d: %w", decoded.ResponseStatus, provider.ErrUnavailable))
	}

	translated := strings.TrimSpace(decoded.ResponseData.TranslatedText)
	if isQuotaArtifact(translated) {
		// The free tier substitutes quota warnings for translations.
		a.log.WarnContext(ctx, "mymemory quota artifact dropped")
		return "", provider.WrapErr(adapterName,
			fmt.Errorf("quota artifact in response: %w", provider.ErrUnavailable))
	}

	return translated, nil
}

// isQuotaArtifact reports whether the response text is a known free-tier
// rate-limit message rather than a translation.
func isQuotaArtifact(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "mymemory warning") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "usage limit")
}
