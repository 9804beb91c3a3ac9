package domain

import (
	"strings"
	"time"
)

// EngagementLevel grades how actively a trend is being discussed.
type EngagementLevel string

const (
	EngagementLow      EngagementLevel = "LOW"
	EngagementMedium   EngagementLevel = "MEDIUM"
	EngagementHigh     EngagementLevel = "HIGH"
	EngagementVeryHigh EngagementLevel = "VERY_HIGH"
)

// ParseEngagementLevel normalizes untrusted generation output. Unknown values
// fall back to MEDIUM.
func ParseEngagementLevel(s string) EngagementLevel {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "LOW":
		return EngagementLow
	case "MEDIUM":
		return EngagementMedium
	case "HIGH":
		return EngagementHigh
	case "VERY_HIGH":
		return EngagementVeryHigh
	}
	return EngagementMedium
}

// Timeliness grades how recent a trend is.
type Timeliness string

const (
	TimelinessVeryRecent Timeliness = "VERY_RECENT"
	TimelinessRecent     Timeliness = "RECENT"
	TimelinessOngoing    Timeliness = "ONGOING"
)

// ParseTimeliness normalizes untrusted generation output. Unknown values fall
// back to ONGOING.
func ParseTimeliness(s string) Timeliness {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "VERY_RECENT":
		return TimelinessVeryRecent
	case "RECENT":
		return TimelinessRecent
	case "ONGOING":
		return TimelinessOngoing
	}
	return TimelinessOngoing
}

// TrendSummary is one structured trend produced by the summarization stage.
// Unrecognized keys from the generation output land in Extra instead of an
// open record type.
type TrendSummary struct {
	Topic              string          `json:"topic"`
	Description        string          `json:"description"`
	Engagement         EngagementLevel `json:"engagement_level"`
	TargetAudience     string          `json:"target_audience"`
	ContentSuggestions []string        `json:"content_suggestions"`
	SourcePlatforms    []string        `json:"source_platforms"`
	Timeliness         Timeliness      `json:"timeliness"`
	Extra              map[string]any  `json:"extra,omitempty"`
}

// ScheduleItem is one day of the derived content schedule. Date is always
// computed locally from the request time, never trusted from generation
// output.
type ScheduleItem struct {
	DayNumber   int       `json:"day_number"`
	Date        time.Time `json:"calendar_date"`
	MainTopic   string    `json:"main_topic"`
	Title       string    `json:"content_title"`
	Format      string    `json:"content_format"`
	PostingTime string    `json:"posting_time"`
	Hashtags    []string  `json:"hashtags"`
	Brief       string    `json:"content_brief"`
}

// PipelineResult is the unit returned to the caller and stored in the cache.
type PipelineResult struct {
	AnalyzedAt     time.Time        `json:"analyzed_at"`
	TargetPlatform string           `json:"target_platform"`
	Industry       string           `json:"industry"`
	Recency        RecencyWindow    `json:"recency"`
	Duration       ScheduleDuration `json:"duration_days"`
	Summaries      []TrendSummary   `json:"trend_summaries"`
	Schedule       []ScheduleItem   `json:"content_schedule"`
}
