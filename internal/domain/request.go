package domain

import (
	"fmt"
	"sort"
	"strings"
)

// RecencyWindow is the lookback period used when collecting trend signals.
type RecencyWindow string

const (
	RecencyDay   RecencyWindow = "recent_day"
	RecencyWeek  RecencyWindow = "recent_week"
	RecencyMonth RecencyWindow = "recent_month"
)

// Valid reports whether the window is one of the closed enumeration values.
func (r RecencyWindow) Valid() bool {
	switch r {
	case RecencyDay, RecencyWeek, RecencyMonth:
		return true
	}
	return false
}

// Label returns a human-readable form suitable for prompts and synthetic bodies.
func (r RecencyWindow) Label() string {
	switch r {
	case RecencyDay:
		return "the last 24 hours"
	case RecencyWeek:
		return "the past week"
	case RecencyMonth:
		return "the past month"
	}
	return string(r)
}

// Hours returns the window length in hours.
func (r RecencyWindow) Hours() int {
	switch r {
	case RecencyDay:
		return 24
	case RecencyWeek:
		return 24 * 7
	case RecencyMonth:
		return 24 * 30
	}
	return 24
}

// ScheduleDuration is the requested schedule length in days.
type ScheduleDuration int

const (
	DurationWeek     ScheduleDuration = 7
	DurationTwoWeeks ScheduleDuration = 14
	DurationMonth    ScheduleDuration = 30
)

func (d ScheduleDuration) Valid() bool {
	switch d {
	case DurationWeek, DurationTwoWeeks, DurationMonth:
		return true
	}
	return false
}

// Days returns the duration as a plain day count.
func (d ScheduleDuration) Days() int { return int(d) }

// QualityTier is the cost/quality dial that selects the source subset and
// the generation model profile.
type QualityTier string

const (
	TierLowCost     QualityTier = "low_cost"
	TierBalanced    QualityTier = "balanced"
	TierHighQuality QualityTier = "high_quality"
)

func (t QualityTier) Valid() bool {
	switch t {
	case TierLowCost, TierBalanced, TierHighQuality:
		return true
	}
	return false
}

// AnalysisRequest carries the caller-supplied parameters for one pipeline run.
// It is passed by value and never mutated.
type AnalysisRequest struct {
	TargetPlatform string
	Industry       string
	Recency        RecencyWindow
	Duration       ScheduleDuration
	Tier           QualityTier
	Keywords       []string
	BypassCache    bool
}

// Validate checks the closed enumerations and required fields.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.TargetPlatform) == "" {
		return fmt.Errorf("target_platform is required")
	}
	if strings.TrimSpace(r.Industry) == "" {
		return fmt.Errorf("industry is required")
	}
	if !r.Recency.Valid() {
		return fmt.Errorf("invalid recency window: %q", r.Recency)
	}
	if !r.Duration.Valid() {
		return fmt.Errorf("invalid schedule duration: %d", r.Duration)
	}
	if !r.Tier.Valid() {
		return fmt.Errorf("invalid quality tier: %q", r.Tier)
	}
	for _, kw := range r.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("keywords must be non-empty strings")
		}
	}
	return nil
}

// CacheKey derives the deterministic cache key for this request. Every
// discriminating field participates: platform, industry, recency, duration,
// tier and the sorted keyword list. BypassCache controls lookup behaviour
// and is not part of the key.
func (r AnalysisRequest) CacheKey() string {
	parts := []string{
		"trend_analysis",
		strings.ToLower(strings.TrimSpace(r.TargetPlatform)),
		strings.ToLower(strings.TrimSpace(r.Industry)),
		string(r.Recency),
		fmt.Sprintf("%dd", r.Duration.Days()),
		string(r.Tier),
	}
	if len(r.Keywords) > 0 {
		kws := make([]string, len(r.Keywords))
		for i, kw := range r.Keywords {
			kws[i] = strings.ToLower(strings.TrimSpace(kw))
		}
		sort.Strings(kws)
		parts = append(parts, strings.Join(kws, ","))
	}
	return strings.Join(parts, ":")
}
