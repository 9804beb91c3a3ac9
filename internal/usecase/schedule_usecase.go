package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"trend-orchestrator/internal/domain"
)

// ScheduleUsecase derives the day-by-day content schedule from the trend
// summaries. Same never-fails contract as the summarization stage: any
// backend or parse problem yields the synthetic schedule.
type ScheduleUsecase interface {
	Execute(ctx context.Context, summaries []domain.TrendSummary, req domain.AnalysisRequest) []domain.ScheduleItem
}

type scheduleUsecase struct {
	llm      domain.LLMClient
	profiles ModelProfiles
	prompts  TrendPromptBuilder
	fallback *SyntheticGenerator
	logger   *slog.Logger
	now      func() time.Time
}

// ScheduleOption customizes the schedule stage.
type ScheduleOption func(*scheduleUsecase)

// WithScheduleClock overrides the clock used to anchor schedule dates.
func WithScheduleClock(now func() time.Time) ScheduleOption {
	return func(u *scheduleUsecase) { u.now = now }
}

// NewScheduleUsecase wires the schedule-generation stage.
func NewScheduleUsecase(
	llm domain.LLMClient,
	profiles ModelProfiles,
	prompts TrendPromptBuilder,
	fallback *SyntheticGenerator,
	logger *slog.Logger,
	opts ...ScheduleOption,
) ScheduleUsecase {
	u := &scheduleUsecase{
		llm:      llm,
		profiles: profiles,
		prompts:  prompts,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *scheduleUsecase) Execute(ctx context.Context, summaries []domain.TrendSummary, req domain.AnalysisRequest) []domain.ScheduleItem {
	now := u.now()
	days := req.Duration.Days()

	prompt, err := u.prompts.BuildSchedulePrompt(SchedulePromptInput{
		TargetPlatform: req.TargetPlatform,
		Industry:       req.Industry,
		Days:           days,
		Summaries:      summaries,
	})
	if err != nil {
		u.logger.Warn("schedule prompt build failed, using synthetic schedule",
			slog.String("error", err.Error()))
		return u.fallback.Schedule(summaries, req, now)
	}
	profile := u.profiles.ForTier(req.Tier)

	resp, err := u.llm.Complete(ctx, prompt, profile)
	if err != nil {
		u.logger.Warn("schedule generation failed, using synthetic schedule",
			slog.String("model", profile.Model),
			slog.String("error", err.Error()))
		return u.fallback.Schedule(summaries, req, now)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		u.logger.Warn("schedule generation returned empty output, using synthetic schedule",
			slog.String("model", profile.Model))
		return u.fallback.Schedule(summaries, req, now)
	}

	items, err := u.parseSchedule(resp.Text, days, now)
	if err != nil {
		u.logger.Warn("schedule output unparsable, using synthetic schedule",
			slog.String("error", err.Error()),
			slog.String("raw_head", truncate(resp.Text, 200)))
		return u.fallback.Schedule(summaries, req, now)
	}
	if len(items) == 0 {
		u.logger.Warn("schedule output contained no usable items, using synthetic schedule")
		return u.fallback.Schedule(summaries, req, now)
	}

	u.logger.Info("schedule_generated",
		slog.Int("items", len(items)),
		slog.Int("requested_days", days))
	return items
}

// parseSchedule extracts the JSON array and validates each item. Day numbers
// outside [1, days] and duplicates are dropped; dates are always recomputed
// locally from the request time, never trusted from the backend.
func (u *scheduleUsecase) parseSchedule(raw string, days int, now time.Time) ([]domain.ScheduleItem, error) {
	jsonPart, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}

	var entries []any
	if err := json.Unmarshal([]byte(jsonPart), &entries); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, days)
	items := make([]domain.ScheduleItem, 0, days)
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		day, ok := intField(item, "day")
		if !ok {
			day = len(items) + 1
		}
		if day < 1 || day > days {
			u.logger.Debug("dropping schedule item with out-of-range day", slog.Int("day", day))
			continue
		}
		if _, dup := seen[day]; dup {
			u.logger.Debug("dropping schedule item with duplicate day", slog.Int("day", day))
			continue
		}
		seen[day] = struct{}{}

		sched := domain.ScheduleItem{
			DayNumber: day,
			Date:      now.AddDate(0, 0, day-1),
		}
		sched.MainTopic, _ = stringField(item, "main_topic")
		sched.Title, _ = stringField(item, "content_title")
		sched.Format, _ = stringField(item, "content_format")
		sched.PostingTime, _ = stringField(item, "posting_time")
		sched.Brief, _ = stringField(item, "content_brief")
		if v, ok := stringListField(item, "hashtags"); ok {
			sched.Hashtags = v
		} else {
			sched.Hashtags = []string{}
		}

		items = append(items, sched)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].DayNumber < items[j].DayNumber })
	return items, nil
}
