package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/itzulbide/alignd/internal/domain"
)

type translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

type analyzer interface {
	Analyze(ctx context.Context, lang, text string) ([]domain.AnalysisRow, error)
}

// AnalyzeHandler serves the non-streaming inspection endpoint: translation
// plus both analyses, no quota, no cache, no alignment generation.
type AnalyzeHandler struct {
	log        *slog.Logger
	translator translator
	analyzer   analyzer
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(logger *slog.Logger, tr translator, an analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		log:        logger.With("handler", "analyze"),
		translator: tr,
		analyzer:   an,
	}
}

type analyzeRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// AnalyzeResponse is the JSON response for POST /analyze.
type AnalyzeResponse struct {
	Source domain.TokenizedSentence `json:"source"`
	Target domain.TokenizedSentence `json:"target"`
}

// Analyze handles POST /analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}
	if body.Text == "" || body.SourceLang == "" || body.TargetLang == "" {
		writeError(w, http.StatusBadRequest, "validation", "text, source_lang and target_lang are required")
		return
	}

	ctx := r.Context()
	translated, err := h.translator.Translate(ctx, body.Text, body.SourceLang, body.TargetLang)
	if err != nil {
		h.log.ErrorContext(ctx, "translation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "upstream", "translation failed")
		return
	}

	var sourceRows, targetRows []domain.AnalysisRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sourceRows, err = h.analyzer.Analyze(gctx, body.SourceLang, body.Text)
		return err
	})
	g.Go(func() error {
		var err error
		targetRows, err = h.analyzer.Analyze(gctx, body.TargetLang, translated)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.ErrorContext(ctx, "analysis failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "upstream", "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Source: domain.TokenizedSentence{
			Lang:   body.SourceLang,
			Text:   body.Text,
			Tokens: domain.TokensFromAnalysis("s", body.SourceLang, sourceRows),
		},
		Target: domain.TokenizedSentence{
			Lang:   body.TargetLang,
			Text:   translated,
			Tokens: domain.TokensFromAnalysis("t", body.TargetLang, targetRows),
		},
	})
}
