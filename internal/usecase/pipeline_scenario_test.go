package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/usecase"
)

// The fully degraded path: live sources unavailable (adapters synthesize),
// generation backend down, cache bypassed. The pipeline must still return a
// complete result flavored by the request.
func TestPipeline_FullyDegradedStillProducesResult(t *testing.T) {
	log := testLogger()

	adapters := []domain.SourceAdapter{
		okAdapter("forum"),
		okAdapter("microblog"),
		okAdapter("video"),
		okAdapter("search_trends"),
	}
	fetch := usecase.NewFetchSourcesUsecase(adapters, usecase.DefaultTierPolicy(), log)

	mockLLM := new(mockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("generation backend down"))

	profiles := usecase.DefaultModelProfiles("small", "large")
	prompts := usecase.NewTrendPromptBuilder()
	fallback := usecase.NewSyntheticGenerator(1)
	summarize := usecase.NewSummarizeUsecase(mockLLM, profiles, prompts, fallback, log)
	schedule := usecase.NewScheduleUsecase(mockLLM, profiles, prompts, fallback, log)

	cache := new(mockResultCache)
	cache.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, summarize, schedule, log)

	req := domain.AnalysisRequest{
		TargetPlatform: "Instagram",
		Industry:       "Technology",
		Recency:        domain.RecencyWeek,
		Duration:       domain.DurationWeek,
		Tier:           domain.TierBalanced,
		Keywords:       []string{"AI"},
		BypassCache:    true,
	}

	result, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.AnalyzedAt.IsZero())
	require.NotEmpty(t, result.Summaries)
	require.Len(t, result.Schedule, 7)

	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)

	keywordCovered := false
	for _, s := range result.Summaries {
		if strings.Contains(s.Topic, "AI") {
			keywordCovered = true
		}
	}
	assert.True(t, keywordCovered, "requested keyword should surface in the degraded summaries")

	for i, item := range result.Schedule {
		assert.Equal(t, i+1, item.DayNumber)
		assert.NotEmpty(t, item.Title)
	}
}
