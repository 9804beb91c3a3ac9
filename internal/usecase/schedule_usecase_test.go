package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/usecase"
)

var scheduleAnchor = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func scheduleRequest(days domain.ScheduleDuration) domain.AnalysisRequest {
	return domain.AnalysisRequest{
		TargetPlatform: "TikTok",
		Industry:       "food",
		Recency:        domain.RecencyWeek,
		Duration:       days,
		Tier:           domain.TierBalanced,
	}
}

func sampleSummaries() []domain.TrendSummary {
	return []domain.TrendSummary{
		{Topic: "Fermentation", ContentSuggestions: []string{"Start a sourdough series"}},
		{Topic: "One-Pan Meals"},
	}
}

func newScheduleUsecase(mockLLM *mockLLMClient) usecase.ScheduleUsecase {
	profiles := usecase.DefaultModelProfiles("small", "large")
	return usecase.NewScheduleUsecase(
		mockLLM, profiles, usecase.NewTrendPromptBuilder(), usecase.NewSyntheticGenerator(1),
		testLogger(),
		usecase.WithScheduleClock(func() time.Time { return scheduleAnchor }),
	)
}

func TestSchedule_DatesComputedLocally(t *testing.T) {
	mockLLM := new(mockLLMClient)
	// Backend-supplied dates are wrong on purpose; they must be ignored.
	raw := `[
	  {"day": 1, "date": "1999-01-01", "main_topic": "Fermentation", "content_title": "Kimchi 101", "content_format": "video", "posting_time": "6:00 PM", "hashtags": ["food"], "content_brief": "intro"},
	  {"day": 2, "date": "1999-01-02", "main_topic": "One-Pan Meals", "content_title": "Weeknight Wins", "content_format": "video", "posting_time": "7:00 PM", "hashtags": [], "content_brief": "quick"}
	]`
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.LLMResponse{Text: raw, Done: true}, nil)

	items := newScheduleUsecase(mockLLM).Execute(context.Background(), sampleSummaries(), scheduleRequest(domain.DurationWeek))

	require.Len(t, items, 2)
	assert.Equal(t, scheduleAnchor, items[0].Date)
	assert.Equal(t, scheduleAnchor.AddDate(0, 0, 1), items[1].Date)
	assert.Equal(t, "Kimchi 101", items[0].Title)
}

func TestSchedule_DropsOutOfRangeAndDuplicateDays(t *testing.T) {
	mockLLM := new(mockLLMClient)
	raw := `[
	  {"day": 0, "main_topic": "too early"},
	  {"day": 3, "main_topic": "keep"},
	  {"day": 3, "main_topic": "duplicate"},
	  {"day": 8, "main_topic": "past the end"},
	  {"day": 1, "main_topic": "also keep"}
	]`
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.LLMResponse{Text: raw, Done: true}, nil)

	items := newScheduleUsecase(mockLLM).Execute(context.Background(), sampleSummaries(), scheduleRequest(domain.DurationWeek))

	require.Len(t, items, 2)
	// Sorted by day number regardless of generation order.
	assert.Equal(t, 1, items[0].DayNumber)
	assert.Equal(t, 3, items[1].DayNumber)
	assert.Equal(t, "keep", items[1].MainTopic)
}

func TestSchedule_MissingDayNumberedSequentially(t *testing.T) {
	mockLLM := new(mockLLMClient)
	raw := `[{"main_topic": "first"}, {"main_topic": "second"}]`
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.LLMResponse{Text: raw, Done: true}, nil)

	items := newScheduleUsecase(mockLLM).Execute(context.Background(), sampleSummaries(), scheduleRequest(domain.DurationWeek))

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].DayNumber)
	assert.Equal(t, 2, items[1].DayNumber)
}

func TestSchedule_BackendErrorYieldsSyntheticFullLength(t *testing.T) {
	mockLLM := new(mockLLMClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	req := scheduleRequest(domain.DurationTwoWeeks)
	items := newScheduleUsecase(mockLLM).Execute(context.Background(), sampleSummaries(), req)

	require.Len(t, items, 14)
	for i, item := range items {
		assert.Equal(t, i+1, item.DayNumber)
		assert.Equal(t, scheduleAnchor.AddDate(0, 0, i), item.Date)
	}
}
