package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/itzulbide/alignd/internal/domain"
	"github.com/itzulbide/alignd/internal/service/pipeline"
)

// pipelineRunner defines the minimal interface the handler needs from the
// pipeline orchestrator.
type pipelineRunner interface {
	Run(ctx context.Context, req pipeline.Request, emit pipeline.EmitFunc) pipeline.Result
}

// AlignHandler serves the streaming alignment endpoint.
type AlignHandler struct {
	log      *slog.Logger
	pipeline pipelineRunner

	// Credential presence is checked per request, not at startup, so the
	// process can boot in partial environments and report the gap honestly.
	translationKeySet bool
	llmKeySet         bool
}

// NewAlignHandler creates an AlignHandler.
func NewAlignHandler(logger *slog.Logger, p pipelineRunner, translationKeySet, llmKeySet bool) *AlignHandler {
	return &AlignHandler{
		log:               logger.With("handler", "align"),
		pipeline:          p,
		translationKeySet: translationKeySet,
		llmKeySet:         llmKeySet,
	}
}

// alignRequest is the JSON body of POST /analyze-and-scaffold.
type alignRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	SentenceID string `json:"sentence_id"`
}

func (r *alignRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Text) == "":
		return fmt.Errorf("%w: text is required", domain.ErrValidation)
	case strings.TrimSpace(r.SourceLang) == "":
		return fmt.Errorf("%w: source_lang is required", domain.ErrValidation)
	case strings.TrimSpace(r.TargetLang) == "":
		return fmt.Errorf("%w: target_lang is required", domain.ErrValidation)
	}
	return nil
}

// missingCredential reports the first absent upstream credential. Checked
// per request rather than at startup, so a partially configured process
// still serves /health and /analyze.
func (h *AlignHandler) missingCredential() error {
	if !h.translationKeySet {
		return fmt.Errorf("%w: translation API key is not set", domain.ErrConfiguration)
	}
	if !h.llmKeySet {
		return fmt.Errorf("%w: LLM API key is not set", domain.ErrConfiguration)
	}
	return nil
}

// Align handles POST /analyze-and-scaffold. The response is an SSE stream;
// rejections that happen before the first pipeline stage (validation,
// missing credentials, quota denial) are plain JSON instead.
func (h *AlignHandler) Align(w http.ResponseWriter, r *http.Request) {
	var body alignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if body.SentenceID == "" {
		body.SentenceID = "default"
	}

	if err := h.missingCredential(); err != nil {
		h.log.ErrorContext(r.Context(), "request rejected", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "configuration", err.Error())
		return
	}

	stream := newSSEWriter(w)
	res := h.pipeline.Run(r.Context(), pipeline.Request{
		Text:       body.Text,
		SourceLang: body.SourceLang,
		TargetLang: body.TargetLang,
		SentenceID: body.SentenceID,
		ClientID:   clientIP(r),
	}, stream.send)

	switch res.Status {
	case pipeline.StatusDenied:
		writeError(w, http.StatusTooManyRequests, "rate_limited", "Daily limit reached. Try again tomorrow.")
	case pipeline.StatusFailed:
		// Stage failures after the stream started were already reported as
		// an "error" event; only pre-stream failures surface here.
		if !stream.started {
			writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		}
	}
}

// sseWriter writes server-sent events lazily: headers go out with the first
// event, so the handler can still answer with a plain HTTP status when the
// pipeline rejects the request before doing any work.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	f, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: f}
}

func (s *sseWriter) send(ev pipeline.Event) {
	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	payload := ev.Payload
	if payload == nil {
		payload = struct{}{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{}`)
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Name, data)
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// clientIP extracts the client identifier used for quota accounting: the
// first entry of X-Forwarded-For when present, the remote address host
// otherwise.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
