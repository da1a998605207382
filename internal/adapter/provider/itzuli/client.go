// Package itzuli is the HTTP client for the Itzuli machine-translation API.
package itzuli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/itzulbide/alignd/internal/config"
)

// Client calls the Itzuli translation API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from configuration.
func New(cfg config.ItzuliConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "itzuli"),
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// Translate translates text from sourceLang to targetLang.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("itzuli: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("itzuli: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.doWithRetry(ctx, req, body)
	if err != nil {
		c.log.ErrorContext(ctx, "itzuli request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("itzuli: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("itzuli: unexpected status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("itzuli: read body: %w", err)
	}

	var tr translateResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("itzuli: decode json: %w", err)
	}

	c.log.DebugContext(ctx, "itzuli response",
		slog.String("source_lang", sourceLang),
		slog.String("target_lang", targetLang),
		slog.Int("chars", len(tr.TranslatedText)),
	)

	return tr.TranslatedText, nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The body is replayed on retry.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	c.log.WarnContext(ctx, "itzuli retrying", slog.String("reason", reason))

	time.Sleep(500 * time.Millisecond)

	retryReq := req.Clone(ctx)
	retryReq.Body = io.NopCloser(bytes.NewReader(body))
	return c.httpClient.Do(retryReq)
}
