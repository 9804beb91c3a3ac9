package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"trend-orchestrator/internal/domain"
)

// TierPolicy maps a quality tier to the adapter names that run for it.
// Which adapters count as cheap versus heavy is deployment policy, not a
// fixed law, so the mapping is injectable.
type TierPolicy map[domain.QualityTier][]string

// DefaultTierPolicy selects two light sources for low cost, adds the
// API-backed sources for balanced, and everything including the web crawl
// for high quality.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		domain.TierLowCost:     {"forum", "microblog"},
		domain.TierBalanced:    {"forum", "microblog", "video", "search_trends"},
		domain.TierHighQuality: {"forum", "microblog", "video", "search_trends", "web_crawl"},
	}
}

// FetchSourcesUsecase fans out to the selected source adapters and gathers
// their results.
type FetchSourcesUsecase interface {
	Execute(ctx context.Context, req domain.AnalysisRequest) ([]domain.SourceResult, error)
}

type fetchSourcesUsecase struct {
	adapters map[string]domain.SourceAdapter
	policy   TierPolicy
	logger   *slog.Logger
}

// NewFetchSourcesUsecase wires the registered adapters and the tier policy.
func NewFetchSourcesUsecase(adapters []domain.SourceAdapter, policy TierPolicy, logger *slog.Logger) FetchSourcesUsecase {
	byName := make(map[string]domain.SourceAdapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &fetchSourcesUsecase{
		adapters: byName,
		policy:   policy,
		logger:   logger,
	}
}

// Execute invokes the tier's adapter subset concurrently. Adapter errors and
// panics are contract violations: they are logged as warnings and that
// adapter's slot is omitted without cancelling siblings. The call fails with
// domain.ErrNoSourceData only when zero adapters produced a result.
func (u *fetchSourcesUsecase) Execute(ctx context.Context, req domain.AnalysisRequest) ([]domain.SourceResult, error) {
	selected := u.selectAdapters(req.Tier)
	if len(selected) == 0 {
		u.logger.Warn("no adapters configured for tier", slog.String("tier", string(req.Tier)))
		return nil, domain.ErrNoSourceData
	}

	results := make([]*domain.SourceResult, len(selected))
	var g errgroup.Group
	for i, adapter := range selected {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					u.logger.Warn("source adapter panicked",
						slog.String("adapter", adapter.Name()),
						slog.Any("panic", r))
				}
			}()

			fetchCtx, cancel := context.WithTimeout(ctx, adapter.Cost().Timeout())
			defer cancel()

			res, err := adapter.Fetch(fetchCtx, req.Industry, req.Recency, req.Keywords)
			if err != nil {
				u.logger.Warn("source adapter failed",
					slog.String("adapter", adapter.Name()),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Errors never propagate through the group; each slot absorbs its own.
	_ = g.Wait()

	gathered := make([]domain.SourceResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			gathered = append(gathered, *r)
		}
	}

	if len(gathered) == 0 {
		return nil, fmt.Errorf("all %d selected adapters failed: %w", len(selected), domain.ErrNoSourceData)
	}

	u.logger.Info("source_fetch_completed",
		slog.String("tier", string(req.Tier)),
		slog.Int("selected", len(selected)),
		slog.Int("gathered", len(gathered)))

	return gathered, nil
}

func (u *fetchSourcesUsecase) selectAdapters(tier domain.QualityTier) []domain.SourceAdapter {
	names, ok := u.policy[tier]
	if !ok {
		names = u.policy[domain.TierBalanced]
	}
	selected := make([]domain.SourceAdapter, 0, len(names))
	for _, name := range names {
		if a, ok := u.adapters[name]; ok {
			selected = append(selected, a)
		}
	}
	return selected
}
