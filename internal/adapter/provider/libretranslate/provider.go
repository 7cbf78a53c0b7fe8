// Package libretranslate implements the fast-tier adapter for a
// LibreTranslate instance (POST /translate).
package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/voicebridge/translation-engine/internal/provider"
)

const adapterName = "libretranslate"

// Adapter fetches translations from a LibreTranslate server.
type Adapter struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a LibreTranslate adapter for the given instance URL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", adapterName),
	}
}

// Name implements provider.Adapter.
func (a *Adapter) Name() string { return adapterName }

type apiRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type apiResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate implements provider.Adapter.
func (a *Adapter) Translate(ctx context.Context, text, src, dst string) (string, error) {
	payload, err := json.Marshal(apiRequest{Q: text, Source: src, Target: dst, Format: "text"})
	if err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	a.log.DebugContext(ctx, "libretranslate request", slog.String("langpair", src+"|"+dst))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", provider.WrapErr(adapterName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", provider.WrapErr(adapterName,
			fmt.Errorf("unexpected status %d: %w", resp.StatusCode, provider.ErrUnavailable))
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("decode json: %w", err))
	}

	return strings.TrimSpace(decoded.TranslatedText), nil
}
