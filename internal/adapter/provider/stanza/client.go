// Package stanza is the HTTP client for the linguistic analyzer sidecar,
// which exposes tokenize/pos/lemma/feats pipelines per language.
package stanza

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/itzulbide/alignd/internal/config"
	"github.com/itzulbide/alignd/internal/domain"
)

// Client calls the analyzer sidecar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from configuration.
func New(cfg config.StanzaConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "stanza"),
	}
}

type analyzeRequest struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

type analyzeResponse struct {
	Tokens []domain.AnalysisRow `json:"tokens"`
}

// Analyze runs the language's pipeline over the text and returns one row
// per token. The sidecar loads the pipeline on first use, so a call for a
// not-yet-warm language blocks rather than failing.
func (c *Client) Analyze(ctx context.Context, lang, text string) ([]domain.AnalysisRow, error) {
	resp, err := c.post(ctx, "/analyze", analyzeRequest{Lang: lang, Text: text})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stanza: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stanza: read body: %w", err)
	}

	var ar analyzeResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("stanza: decode json: %w", err)
	}

	c.log.DebugContext(ctx, "stanza response",
		slog.String("lang", lang),
		slog.Int("tokens", len(ar.Tokens)),
	)

	return ar.Tokens, nil
}

type preloadRequest struct {
	Languages []string `json:"languages"`
}

// Preload asks the sidecar to load the pipelines for the given languages.
// Used by the startup warm-up task; requests arriving before it finishes
// are still serviced, they just pay the load cost inline.
func (c *Client) Preload(ctx context.Context, langs []string) error {
	resp, err := c.post(ctx, "/preload", preloadRequest{Languages: langs})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stanza: preload status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("stanza: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stanza: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "stanza request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("stanza: request failed: %w", err)
	}
	return resp, nil
}
