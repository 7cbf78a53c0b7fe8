// Package ollama implements the local generative-model fallback adapter
// over the Ollama HTTP API. It is the resolver's last tier before the
// deterministic emergency output, so it also exposes a liveness probe to
// avoid paying the model's latency when the service is down.
package ollama

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

const adapterName = "ollama"

// Adapter calls a locally running generative model for translation.
type Adapter struct {
	baseURL      string
	model        string
	httpClient   *http.Client
	probeTimeout time.Duration
	log          *slog.Logger
}

// New creates an Ollama adapter for the given instance and model name.
func New(baseURL, model string, timeout, probeTimeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		httpClient:   &http.Client{Timeout: timeout},
		probeTimeout: probeTimeout,
		log:          logger.With("adapter", adapterName),
	}
}

// Name implements provider.Adapter.
func (a *Adapter) Name() string { return adapterName }

// IsAvailable implements provider.Prober with a GET /api/tags probe.
// It is a liveness hint only: a model call may still fail afterwards.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.log.DebugContext(ctx, "ollama probe failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Translate implements provider.Adapter with a translation-only instruction.
func (a *Adapter) Translate(ctx context.Context, text, src, dst string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  a.model,
		Prompt: buildPrompt(text, src, dst),
		Stream: false,
	})
	if err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	a.log.DebugContext(ctx, "ollama request",
		slog.String("model", a.model),
		slog.String("langpair", src+"|"+dst),
	)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", provider.WrapErr(adapterName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", provider.WrapErr(adapterName,
			fmt.Errorf("unexpected status %d: %w", resp.StatusCode, provider.ErrUnavailable))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", provider.WrapErr(adapterName, fmt.Errorf("decode json: %w", err))
	}

	return CleanResponse(decoded.Response), nil
}

// buildPrompt creates the translation-only instruction for the model.
func buildPrompt(text, src, dst string) string {
	return fmt.Sprintf(`Translate the following text from %s to %s.
Output ONLY the translation. No explanations, no quotes, no notes.

Text: %s`, src, dst, text)
}

// CleanResponse strips the decoration generative models tend to add around
// short answers: surrounding whitespace and quoting.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') ||
			(first == '`' && last == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}
