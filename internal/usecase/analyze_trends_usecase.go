package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trend-orchestrator/internal/domain"
)

// PipelineMetrics records pipeline outcomes. Implemented by the Prometheus
// collector; a no-op implementation is used when metrics are disabled.
type PipelineMetrics interface {
	RecordRun(tier string, outcome string, duration time.Duration)
	RecordCacheHit()
	RecordSource(platform string, synthetic bool)
}

type noopMetrics struct{}

func (noopMetrics) RecordRun(string, string, time.Duration) {}
func (noopMetrics) RecordCacheHit()                         {}
func (noopMetrics) RecordSource(string, bool)               {}

// AnalyzeTrendsUsecase runs the whole pipeline: cache check, source fan-out,
// summarization, schedule generation and best-effort cache store.
type AnalyzeTrendsUsecase interface {
	Execute(ctx context.Context, req domain.AnalysisRequest) (*domain.PipelineResult, error)
}

type analyzeTrendsUsecase struct {
	cache     domain.ResultCache
	fetch     FetchSourcesUsecase
	summarize SummarizeUsecase
	schedule  ScheduleUsecase
	metrics   PipelineMetrics
	logger    *slog.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

// AnalyzeOption customizes the pipeline coordinator.
type AnalyzeOption func(*analyzeTrendsUsecase)

// WithCacheTTL overrides the default one-hour result TTL.
func WithCacheTTL(ttl time.Duration) AnalyzeOption {
	return func(u *analyzeTrendsUsecase) { u.cacheTTL = ttl }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m PipelineMetrics) AnalyzeOption {
	return func(u *analyzeTrendsUsecase) { u.metrics = m }
}

// WithClock overrides the clock stamped on results.
func WithClock(now func() time.Time) AnalyzeOption {
	return func(u *analyzeTrendsUsecase) { u.now = now }
}

// NewAnalyzeTrendsUsecase wires the pipeline coordinator.
func NewAnalyzeTrendsUsecase(
	cache domain.ResultCache,
	fetch FetchSourcesUsecase,
	summarize SummarizeUsecase,
	schedule ScheduleUsecase,
	logger *slog.Logger,
	opts ...AnalyzeOption,
) AnalyzeTrendsUsecase {
	u := &analyzeTrendsUsecase{
		cache:     cache,
		fetch:     fetch,
		summarize: summarize,
		schedule:  schedule,
		metrics:   noopMetrics{},
		logger:    logger,
		cacheTTL:  domain.DefaultCacheTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Execute runs one pipeline. Only domain.ErrNoSourceData and
// *domain.PipelineError cross this boundary; every other internal failure is
// absorbed by a fallback at the layer where it occurred.
func (u *analyzeTrendsUsecase) Execute(ctx context.Context, req domain.AnalysisRequest) (result *domain.PipelineResult, err error) {
	started := u.now()

	// Catch-all: an unexpected panic anywhere in the chain becomes the one
	// typed failure callers must handle.
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("pipeline panicked", slog.Any("panic", r))
			result = nil
			err = domain.NewPipelineError("pipeline", fmt.Errorf("unexpected failure: %v", r))
		}
		outcome := "completed"
		if err != nil {
			outcome = "failed"
		}
		u.metrics.RecordRun(string(req.Tier), outcome, time.Since(started))
	}()

	if verr := req.Validate(); verr != nil {
		return nil, domain.NewPipelineError("validate", verr)
	}

	key := req.CacheKey()
	if !req.BypassCache {
		if cached, ok := u.cache.Get(ctx, key); ok {
			u.logger.Info("pipeline_cache_hit", slog.String("key", key))
			u.metrics.RecordCacheHit()
			return cached, nil
		}
	}

	sources, ferr := u.fetch.Execute(ctx, req)
	if ferr != nil {
		if errors.Is(ferr, domain.ErrNoSourceData) {
			return nil, ferr
		}
		return nil, domain.NewPipelineError("fetch", ferr)
	}
	for _, src := range sources {
		u.metrics.RecordSource(src.Platform, src.Metadata.Synthetic)
	}

	summaries := u.summarize.Execute(ctx, sources, req)
	schedule := u.schedule.Execute(ctx, summaries, req)

	result = &domain.PipelineResult{
		AnalyzedAt:     u.now().UTC(),
		TargetPlatform: req.TargetPlatform,
		Industry:       req.Industry,
		Recency:        req.Recency,
		Duration:       req.Duration,
		Summaries:      summaries,
		Schedule:       schedule,
	}

	// Best effort: a failed store must not fail the request.
	if ok := u.cache.Put(ctx, key, result, u.cacheTTL); !ok {
		u.logger.Warn("failed to cache pipeline result", slog.String("key", key))
	}

	u.logger.Info("pipeline_completed",
		slog.String("platform", req.TargetPlatform),
		slog.String("industry", req.Industry),
		slog.Int("summaries", len(summaries)),
		slog.Int("schedule_items", len(schedule)),
		slog.Duration("elapsed", time.Since(started)))

	return result, nil
}

// SupportedOptions describes the closed request enumerations for UI
// population. Static; no pipeline involvement.
type SupportedOptions struct {
	Platforms      []string `json:"platforms"`
	RecencyWindows []string `json:"recency_windows"`
	Durations      []int    `json:"durations"`
	QualityTiers   []string `json:"quality_tiers"`
}

// ListSupportedOptions returns the static option sets.
func ListSupportedOptions() SupportedOptions {
	return SupportedOptions{
		Platforms:      []string{"Instagram", "TikTok", "LinkedIn", "Twitter", "Facebook", "YouTube"},
		RecencyWindows: []string{string(domain.RecencyDay), string(domain.RecencyWeek), string(domain.RecencyMonth)},
		Durations:      []int{domain.DurationWeek.Days(), domain.DurationTwoWeeks.Days(), domain.DurationMonth.Days()},
		QualityTiers:   []string{string(domain.TierLowCost), string(domain.TierBalanced), string(domain.TierHighQuality)},
	}
}
