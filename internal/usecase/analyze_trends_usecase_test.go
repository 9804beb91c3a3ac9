package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/usecase"
)

// mockResultCache mocks the ResultCache interface
type mockResultCache struct {
	mock.Mock
}

func (m *mockResultCache) Get(ctx context.Context, key string) (*domain.PipelineResult, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.PipelineResult), args.Bool(1)
}

func (m *mockResultCache) Put(ctx context.Context, key string, value *domain.PipelineResult, ttl time.Duration) bool {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0)
}

// mockFetchUsecase mocks the FetchSourcesUsecase interface
type mockFetchUsecase struct {
	mock.Mock
}

func (m *mockFetchUsecase) Execute(ctx context.Context, req domain.AnalysisRequest) ([]domain.SourceResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceResult), args.Error(1)
}

// mockSummarizeUsecase mocks the SummarizeUsecase interface
type mockSummarizeUsecase struct {
	mock.Mock
}

func (m *mockSummarizeUsecase) Execute(ctx context.Context, sources []domain.SourceResult, req domain.AnalysisRequest) []domain.TrendSummary {
	args := m.Called(ctx, sources, req)
	return args.Get(0).([]domain.TrendSummary)
}

// mockScheduleUsecase mocks the ScheduleUsecase interface
type mockScheduleUsecase struct {
	mock.Mock
}

func (m *mockScheduleUsecase) Execute(ctx context.Context, summaries []domain.TrendSummary, req domain.AnalysisRequest) []domain.ScheduleItem {
	args := m.Called(ctx, summaries, req)
	return args.Get(0).([]domain.ScheduleItem)
}

func pipelineRequest() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		TargetPlatform: "Instagram",
		Industry:       "fitness",
		Recency:        domain.RecencyWeek,
		Duration:       domain.DurationWeek,
		Tier:           domain.TierBalanced,
	}
}

func TestAnalyzeTrends_HappyPath(t *testing.T) {
	cache := new(mockResultCache)
	fetch := new(mockFetchUsecase)
	summarize := new(mockSummarizeUsecase)
	schedule := new(mockScheduleUsecase)
	req := pipelineRequest()

	sources := []domain.SourceResult{{Platform: "Forum", RawData: "threads"}}
	summaries := []domain.TrendSummary{{Topic: "Hybrid Training"}}
	items := []domain.ScheduleItem{{DayNumber: 1, MainTopic: "Hybrid Training"}}

	cache.On("Get", mock.Anything, req.CacheKey()).Return(nil, false)
	fetch.On("Execute", mock.Anything, req).Return(sources, nil)
	summarize.On("Execute", mock.Anything, sources, req).Return(summaries)
	schedule.On("Execute", mock.Anything, summaries, req).Return(items)
	cache.On("Put", mock.Anything, req.CacheKey(), mock.Anything, domain.DefaultCacheTTL).Return(true)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, summarize, schedule, testLogger())
	result, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Instagram", result.TargetPlatform)
	assert.Equal(t, summaries, result.Summaries)
	assert.Equal(t, items, result.Schedule)
	assert.False(t, result.AnalyzedAt.IsZero())
	cache.AssertExpectations(t)
	fetch.AssertExpectations(t)
}

func TestAnalyzeTrends_CacheHitSkipsPipeline(t *testing.T) {
	cache := new(mockResultCache)
	fetch := new(mockFetchUsecase)
	summarize := new(mockSummarizeUsecase)
	schedule := new(mockScheduleUsecase)
	req := pipelineRequest()

	cached := &domain.PipelineResult{Industry: "fitness"}
	cache.On("Get", mock.Anything, req.CacheKey()).Return(cached, true)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, summarize, schedule, testLogger())
	result, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Same(t, cached, result)
	fetch.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAnalyzeTrends_BypassCacheSkipsLookupButStores(t *testing.T) {
	cache := new(mockResultCache)
	fetch := new(mockFetchUsecase)
	summarize := new(mockSummarizeUsecase)
	schedule := new(mockScheduleUsecase)
	req := pipelineRequest()
	req.BypassCache = true

	fetch.On("Execute", mock.Anything, req).Return([]domain.SourceResult{{Platform: "Forum"}}, nil)
	summarize.On("Execute", mock.Anything, mock.Anything, req).Return([]domain.TrendSummary{{Topic: "T"}})
	schedule.On("Execute", mock.Anything, mock.Anything, req).Return([]domain.ScheduleItem{})
	cache.On("Put", mock.Anything, req.CacheKey(), mock.Anything, mock.Anything).Return(true)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, summarize, schedule, testLogger())
	_, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertCalled(t, "Put", mock.Anything, req.CacheKey(), mock.Anything, mock.Anything)
}

func TestAnalyzeTrends_InvalidRequestFailsValidation(t *testing.T) {
	uc := usecase.NewAnalyzeTrendsUsecase(
		new(mockResultCache), new(mockFetchUsecase), new(mockSummarizeUsecase), new(mockScheduleUsecase),
		testLogger(),
	)

	req := pipelineRequest()
	req.Industry = ""
	_, err := uc.Execute(context.Background(), req)

	require.Error(t, err)
	var perr *domain.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "validate", perr.Stage)
}

func TestAnalyzeTrends_NoSourceDataPassesThrough(t *testing.T) {
	cache := new(mockResultCache)
	fetch := new(mockFetchUsecase)
	req := pipelineRequest()

	cache.On("Get", mock.Anything, req.CacheKey()).Return(nil, false)
	fetch.On("Execute", mock.Anything, req).Return(nil, domain.ErrNoSourceData)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, new(mockSummarizeUsecase), new(mockScheduleUsecase), testLogger())
	_, err := uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoSourceData)
}

func TestAnalyzeTrends_FailedCacheStoreDoesNotFailRequest(t *testing.T) {
	cache := new(mockResultCache)
	fetch := new(mockFetchUsecase)
	summarize := new(mockSummarizeUsecase)
	schedule := new(mockScheduleUsecase)
	req := pipelineRequest()

	cache.On("Get", mock.Anything, req.CacheKey()).Return(nil, false)
	fetch.On("Execute", mock.Anything, req).Return([]domain.SourceResult{{Platform: "Forum"}}, nil)
	summarize.On("Execute", mock.Anything, mock.Anything, req).Return([]domain.TrendSummary{{Topic: "T"}})
	schedule.On("Execute", mock.Anything, mock.Anything, req).Return([]domain.ScheduleItem{})
	cache.On("Put", mock.Anything, req.CacheKey(), mock.Anything, mock.Anything).Return(false)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, summarize, schedule, testLogger())
	result, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestAnalyzeTrends_PanicBecomesPipelineError(t *testing.T) {
	cache := new(mockResultCache)
	fetch := new(mockFetchUsecase)
	req := pipelineRequest()

	cache.On("Get", mock.Anything, req.CacheKey()).Return(nil, false)
	fetch.On("Execute", mock.Anything, req).Run(func(args mock.Arguments) {
		panic("stage bug")
	}).Return(nil, nil)

	uc := usecase.NewAnalyzeTrendsUsecase(cache, fetch, new(mockSummarizeUsecase), new(mockScheduleUsecase), testLogger())
	result, err := uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, result)
	var perr *domain.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "pipeline", perr.Stage)
}

func TestListSupportedOptions(t *testing.T) {
	opts := usecase.ListSupportedOptions()
	assert.Contains(t, opts.Platforms, "Instagram")
	assert.Equal(t, []int{7, 14, 30}, opts.Durations)
	assert.Len(t, opts.RecencyWindows, 3)
	assert.Len(t, opts.QualityTiers, 3)
}
