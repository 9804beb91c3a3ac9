package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"trend-orchestrator/internal/domain"
)

// SummaryPromptInput feeds the summarization prompt.
type SummaryPromptInput struct {
	TargetPlatform string
	Industry       string
	Keywords       []string
	Sources        []domain.SourceResult
}

// SchedulePromptInput feeds the schedule-generation prompt.
type SchedulePromptInput struct {
	TargetPlatform string
	Industry       string
	Days           int
	Summaries      []domain.TrendSummary
}

// TrendPromptBuilder renders the prompts for both generation stages. The
// exact wording is an implementation detail of this builder; the stages only
// rely on the strict-JSON-array output contract it states.
type TrendPromptBuilder interface {
	BuildSummaryPrompt(input SummaryPromptInput) string
	BuildSchedulePrompt(input SchedulePromptInput) (string, error)
}

type trendPromptBuilder struct{}

// NewTrendPromptBuilder creates the default prompt builder.
func NewTrendPromptBuilder() TrendPromptBuilder {
	return trendPromptBuilder{}
}

func (trendPromptBuilder) BuildSummaryPrompt(input SummaryPromptInput) string {
	var sb strings.Builder
	sb.WriteString("You are a trend analysis expert tasked with identifying valuable content opportunities.\n\n")
	fmt.Fprintf(&sb, "Target platform: %s\n", input.TargetPlatform)
	fmt.Fprintf(&sb, "Industry/Niche: %s\n", input.Industry)

	if len(input.Keywords) > 0 {
		quoted := make([]string, len(input.Keywords))
		for i, kw := range input.Keywords {
			quoted[i] = fmt.Sprintf("%q", kw)
		}
		sb.WriteString("\nKEYWORD FOCUS: Specifically look for trends related to these keywords: ")
		sb.WriteString(strings.Join(quoted, ", "))
		sb.WriteString(".\nPrioritize content involving these keywords and highlight them prominently if they are trending.\n")
	}

	sb.WriteString("\nAnalyze the following trends data from multiple sources:\n")
	for _, src := range input.Sources {
		fmt.Fprintf(&sb, "\n--- %s TRENDS ---\n%s\n", strings.ToUpper(src.Platform), src.RawData)
	}

	fmt.Fprintf(&sb, `
Identify the top 5-10 most promising trending topics relevant to %s.

RESPOND ONLY WITH a valid JSON array of trend objects with these fields:
- topic: the main trend topic
- description: a brief description of the trend
- engagement_level: LOW, MEDIUM, HIGH or VERY_HIGH
- target_audience: key audience demographics for this trend
- content_suggestions: list of 2-3 specific content ideas for %s
- source_platforms: list of platforms where this trend is popular
- timeliness: VERY_RECENT, RECENT or ONGOING

IMPORTANT: Your response MUST ONLY BE a valid JSON array. Do not include any text before or after it.
`, input.Industry, input.TargetPlatform)

	return sb.String()
}

func (trendPromptBuilder) BuildSchedulePrompt(input SchedulePromptInput) (string, error) {
	trendsJSON, err := json.Marshal(input.Summaries)
	if err != nil {
		return "", fmt.Errorf("failed to encode summaries for prompt: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a detailed content schedule for %d days on %s for a %s account.\n\n",
		input.Days, input.TargetPlatform, input.Industry)
	sb.WriteString("Base the schedule on these trending topics:\n")
	sb.Write(trendsJSON)
	sb.WriteString("\n\nDistribute the trends across the schedule, ensuring variety and engagement potential.\n")
	fmt.Fprintf(&sb, `
RESPOND ONLY WITH a valid JSON array with one object per day, containing these fields:
- day: the day number (1 to %d)
- date: a sample date starting from today (YYYY-MM-DD)
- main_topic: the main trend topic for this content
- content_title: a catchy title or headline
- content_format: the format appropriate for %s (post, story, reel, video, ...)
- posting_time: recommended posting time
- hashtags: list of 3-5 relevant hashtags
- content_brief: 1-2 sentences describing the content

IMPORTANT: Your response MUST ONLY BE a valid JSON array. Do not include any text before or after it.
`, input.Days, input.TargetPlatform)

	return sb.String(), nil
}
