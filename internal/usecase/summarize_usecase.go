package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"trend-orchestrator/internal/domain"
)

// summaryKnownKeys are the schema fields of a summary object; everything else
// in a generation item is routed into TrendSummary.Extra.
var summaryKnownKeys = map[string]struct{}{
	"topic":               {},
	"description":         {},
	"engagement_level":    {},
	"target_audience":     {},
	"content_suggestions": {},
	"source_platforms":    {},
	"timeliness":          {},
}

// SummarizeUsecase turns the gathered source corpus into structured trend
// summaries. It never fails: any backend or parse problem yields the
// synthetic fallback set instead, never a partial mix.
type SummarizeUsecase interface {
	Execute(ctx context.Context, sources []domain.SourceResult, req domain.AnalysisRequest) []domain.TrendSummary
}

type summarizeUsecase struct {
	llm      domain.LLMClient
	profiles ModelProfiles
	prompts  TrendPromptBuilder
	fallback *SyntheticGenerator
	logger   *slog.Logger
}

// NewSummarizeUsecase wires the summarization stage.
func NewSummarizeUsecase(
	llm domain.LLMClient,
	profiles ModelProfiles,
	prompts TrendPromptBuilder,
	fallback *SyntheticGenerator,
	logger *slog.Logger,
) SummarizeUsecase {
	return &summarizeUsecase{
		llm:      llm,
		profiles: profiles,
		prompts:  prompts,
		fallback: fallback,
		logger:   logger,
	}
}

func (u *summarizeUsecase) Execute(ctx context.Context, sources []domain.SourceResult, req domain.AnalysisRequest) []domain.TrendSummary {
	prompt := u.prompts.BuildSummaryPrompt(SummaryPromptInput{
		TargetPlatform: req.TargetPlatform,
		Industry:       req.Industry,
		Keywords:       req.Keywords,
		Sources:        sources,
	})
	profile := u.profiles.ForTier(req.Tier)

	resp, err := u.llm.Complete(ctx, prompt, profile)
	if err != nil {
		u.logger.Warn("summary generation failed, using synthetic summaries",
			slog.String("model", profile.Model),
			slog.String("error", err.Error()))
		return u.fallback.Summaries(req)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		u.logger.Warn("summary generation returned empty output, using synthetic summaries",
			slog.String("model", profile.Model))
		return u.fallback.Summaries(req)
	}

	summaries, err := u.parseSummaries(resp.Text)
	if err != nil {
		u.logger.Warn("summary output unparsable, using synthetic summaries",
			slog.String("error", err.Error()),
			slog.String("raw_head", truncate(resp.Text, 200)))
		return u.fallback.Summaries(req)
	}
	if len(summaries) == 0 {
		u.logger.Warn("summary output contained no usable items, using synthetic summaries")
		return u.fallback.Summaries(req)
	}

	u.logger.Info("summaries_generated",
		slog.Int("count", len(summaries)),
		slog.String("model", profile.Model))
	return summaries
}

// parseSummaries extracts the JSON array and converts each object, applying
// field-level defaults. A malformed individual entry is skipped rather than
// aborting the batch.
func (u *summarizeUsecase) parseSummaries(raw string) ([]domain.TrendSummary, error) {
	jsonPart, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}

	var items []any
	if err := json.Unmarshal([]byte(jsonPart), &items); err != nil {
		return nil, err
	}

	summaries := make([]domain.TrendSummary, 0, len(items))
	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		s := domain.TrendSummary{
			Engagement: domain.EngagementMedium,
			Timeliness: domain.TimelinessOngoing,
		}
		s.Topic, _ = stringField(item, "topic")
		s.Description, _ = stringField(item, "description")
		s.TargetAudience, _ = stringField(item, "target_audience")
		if v, ok := stringField(item, "engagement_level"); ok {
			s.Engagement = domain.ParseEngagementLevel(v)
		}
		if v, ok := stringField(item, "timeliness"); ok {
			s.Timeliness = domain.ParseTimeliness(v)
		}
		if v, ok := stringListField(item, "content_suggestions"); ok {
			s.ContentSuggestions = v
		} else {
			s.ContentSuggestions = []string{}
		}
		if v, ok := stringListField(item, "source_platforms"); ok {
			s.SourcePlatforms = v
		} else {
			s.SourcePlatforms = []string{}
		}

		for k, v := range item {
			if _, known := summaryKnownKeys[k]; known {
				continue
			}
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[k] = v
		}

		if s.Topic == "" {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
