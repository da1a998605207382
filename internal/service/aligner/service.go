// Package aligner generates the three alignment layers for a sentence
// pair by prompting Claude and validating its completion. Failures at
// this boundary, whether transport errors or unparsable output, never
// abort the pipeline; they degrade to empty layers and a warning log.
package aligner

import (
	"context"
	"log/slog"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/itzulbide/alignd/internal/config"
	"github.com/itzulbide/alignd/internal/domain"
)

// completeFunc produces the LLM's raw text completion for a prompt.
// Swapped out in tests.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// Service is the alignment generator.
type Service struct {
	cfg      config.LLMConfig
	log      *slog.Logger
	complete completeFunc
}

// NewService creates a Service backed by the Anthropic API.
func NewService(cfg config.LLMConfig, logger *slog.Logger) *Service {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	s := &Service{
		cfg: cfg,
		log: logger.With("service", "aligner"),
	}
	s.complete = func(ctx context.Context, prompt string) (string, error) {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(cfg.Model),
			MaxTokens:   int64(cfg.MaxTokens),
			Temperature: anthropic.Float(cfg.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return "", err
		}
		if len(msg.Content) == 0 {
			return "", nil
		}
		return msg.Content[0].Text, nil
	}
	return s
}

// Generate produces alignment layers for the sentence pair. It never
// returns an error: any failure degrades to all-empty layers so the
// pipeline still completes, with the discrepancy observable server-side
// through the warning log.
func (s *Service) Generate(ctx context.Context, source, target domain.TokenizedSentence) domain.AlignmentLayers {
	prompt, err := buildPrompt(source, target)
	if err != nil {
		s.log.WarnContext(ctx, "alignment prompt build failed", slog.String("error", err.Error()))
		return domain.EmptyLayers()
	}

	s.log.InfoContext(ctx, "calling llm for alignment generation",
		slog.String("model", s.cfg.Model),
		slog.Int("source_tokens", len(source.Tokens)),
		slog.Int("target_tokens", len(target.Tokens)),
	)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "llm call failed, degrading to empty layers", slog.String("error", err.Error()))
		return domain.EmptyLayers()
	}

	layers, err := parseAlignmentResponse(content)
	if err != nil {
		s.log.WarnContext(ctx, "llm response unparsable, degrading to empty layers",
			slog.String("error", err.Error()),
			slog.Int("response_len", len(content)),
		)
		return domain.EmptyLayers()
	}

	s.log.InfoContext(ctx, "alignments parsed",
		slog.Int("lexical", len(layers.Lexical)),
		slog.Int("grammatical", len(layers.GrammaticalRelations)),
		slog.Int("features", len(layers.Features)),
	)

	return layers
}
