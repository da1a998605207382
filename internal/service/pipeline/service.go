// Package pipeline orchestrates the alignment pipeline: cache check,
// quota gate, translation, dual analysis, alignment generation, cache
// write. Progress is reported through staged events so the transport can
// stream incremental status.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/itzulbide/alignd/internal/domain"
)

// Event names, in pipeline order.
const (
	EventTranslationDone = "itzuli_done"
	EventAnalysisDone    = "stanza_done"
	EventDone            = "done"
	EventError           = "error"
)

// Event is one staged progress notification.
type Event struct {
	Name    string
	Payload any
}

// EmitFunc receives events as stages complete.
type EmitFunc func(Event)

// ErrorPayload is the payload of an "error" event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Request is one alignment request.
type Request struct {
	Text       string
	SourceLang string
	TargetLang string
	SentenceID string
	ClientID   string
}

// Status is the terminal state of a pipeline run.
type Status int

const (
	// StatusDone: full pipeline ran and the result was cached.
	StatusDone Status = iota
	// StatusCached: served from cache; no quota consumed, no external calls.
	StatusCached
	// StatusDenied: quota gate denied the request; no events were emitted.
	StatusDenied
	// StatusFailed: a stage failed. If an external call had already started,
	// an "error" event was emitted; otherwise (quota storage failure) no
	// events were emitted and Err carries the cause.
	StatusFailed
)

// Result is the terminal outcome of Run.
type Result struct {
	Status    Status
	Pair      *domain.SentencePair
	Remaining int
	Err       error
}

// translator is the machine-translation dependency.
type translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// analyzer is the linguistic analysis dependency.
type analyzer interface {
	Analyze(ctx context.Context, lang, text string) ([]domain.AnalysisRow, error)
}

// alignmentGenerator produces alignment layers; it degrades internally
// and never fails.
type alignmentGenerator interface {
	Generate(ctx context.Context, source, target domain.TokenizedSentence) domain.AlignmentLayers
}

// quotaGate admits or denies chargeable requests.
type quotaGate interface {
	CheckAndConsume(ctx context.Context, clientID string) (allowed bool, remaining int, err error)
}

// resultCache stores computed alignment documents by content key.
type resultCache interface {
	Get(ctx context.Context, text, sourceLang, targetLang string) (*domain.AlignmentDocument, error)
	Set(ctx context.Context, text, sourceLang, targetLang string, doc *domain.AlignmentDocument) error
}

// Service is the pipeline orchestrator.
type Service struct {
	log        *slog.Logger
	cache      resultCache
	quota      quotaGate
	translator translator
	analyzer   analyzer
	aligner    alignmentGenerator
}

// NewService creates a pipeline orchestrator.
func NewService(
	logger *slog.Logger,
	cache resultCache,
	quota quotaGate,
	tr translator,
	an analyzer,
	al alignmentGenerator,
) *Service {
	return &Service{
		log:        logger.With("service", "pipeline"),
		cache:      cache,
		quota:      quota,
		translator: tr,
		analyzer:   an,
		aligner:    al,
	}
}

// Run executes the pipeline for one request, emitting staged events. Within
// a run: cache check strictly precedes quota consumption, which strictly
// precedes any external call, which strictly precedes the cache write.
// The cache write happens before the terminal "done" event, so a client
// retrying immediately after success observes a hit. Failed runs are never
// cached. Cancelling ctx aborts in-flight upstream calls.
func (s *Service) Run(ctx context.Context, req Request, emit EmitFunc) Result {
	// Cache hits are free: no quota, no external work, a single "done".
	doc, err := s.cache.Get(ctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		// A broken cache must not take the pipeline down; treat as a miss.
		s.log.WarnContext(ctx, "cache read failed, treating as miss", slog.String("error", err.Error()))
	}
	if doc != nil && len(doc.Sentences) > 0 {
		s.log.InfoContext(ctx, "cache hit", slog.String("source_lang", req.SourceLang), slog.String("target_lang", req.TargetLang))
		emit(Event{Name: EventDone, Payload: doc.Sentences[0]})
		return Result{Status: StatusCached, Pair: &doc.Sentences[0]}
	}

	allowed, remaining, err := s.quota.CheckAndConsume(ctx, req.ClientID)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("quota check: %w", err)}
	}
	if !allowed {
		return Result{Status: StatusDenied, Err: domain.ErrQuotaExceeded}
	}
	s.log.InfoContext(ctx, "quota check passed",
		slog.String("client_id", req.ClientID),
		slog.Int("remaining", remaining),
	)

	translated, err := s.translator.Translate(ctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		return s.fail(ctx, emit, fmt.Errorf("translation: %w", err))
	}
	s.log.InfoContext(ctx, "translation complete", slog.Int("chars", len(translated)))
	emit(Event{Name: EventTranslationDone})

	// The two analyses are independent; run them concurrently but require
	// both before alignment starts.
	var sourceRows, targetRows []domain.AnalysisRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sourceRows, err = s.analyzer.Analyze(gctx, req.SourceLang, req.Text)
		return err
	})
	g.Go(func() error {
		var err error
		targetRows, err = s.analyzer.Analyze(gctx, req.TargetLang, translated)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.fail(ctx, emit, fmt.Errorf("analysis: %w", err))
	}
	s.log.InfoContext(ctx, "analysis complete",
		slog.Int("source_tokens", len(sourceRows)),
		slog.Int("target_tokens", len(targetRows)),
	)
	emit(Event{Name: EventAnalysisDone})

	source := domain.TokenizedSentence{
		Lang:   req.SourceLang,
		Text:   req.Text,
		Tokens: domain.TokensFromAnalysis("s", req.SourceLang, sourceRows),
	}
	target := domain.TokenizedSentence{
		Lang:   req.TargetLang,
		Text:   translated,
		Tokens: domain.TokensFromAnalysis("t", req.TargetLang, targetRows),
	}

	layers := s.aligner.Generate(ctx, source, target)

	pair := domain.SentencePair{
		ID:     req.SentenceID,
		Source: source,
		Target: target,
		Layers: layers.FilterDegenerate(),
	}

	if err := s.cache.Set(ctx, req.Text, req.SourceLang, req.TargetLang, &domain.AlignmentDocument{Sentences: []domain.SentencePair{pair}}); err != nil {
		return s.fail(ctx, emit, fmt.Errorf("cache write: %w", err))
	}

	emit(Event{Name: EventDone, Payload: pair})
	return Result{Status: StatusDone, Pair: &pair, Remaining: remaining}
}

func (s *Service) fail(ctx context.Context, emit EmitFunc, err error) Result {
	s.log.ErrorContext(ctx, "pipeline failed", slog.String("error", err.Error()))
	emit(Event{Name: EventError, Payload: ErrorPayload{Message: err.Error()}})
	return Result{Status: StatusFailed, Err: err}
}
