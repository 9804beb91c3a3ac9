package usecase

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trend-orchestrator/internal/domain"
)

const maxKeywordTrends = 3

// currentTrendingTopics is the rotating pool of "happening right now" themes
// the synthetic generator draws from.
var currentTrendingTopics = []string{
	"Artificial Intelligence Ethics",
	"Sustainable Business Practices",
	"Remote Work Revolution",
	"Blockchain Applications",
	"Digital Privacy Concerns",
	"Creator Economy",
	"Social Commerce",
	"Quantum Computing Breakthroughs",
}

var syntheticPostingTimes = []string{
	"9:00 AM", "12:00 PM", "3:00 PM", "6:00 PM", "8:00 PM",
}

// SyntheticGenerator produces deterministic placeholder summaries and
// schedules for the degraded path. The seed only influences cosmetic
// rotation (posting times, format cycling); two generators built with the
// same seed produce identical output.
type SyntheticGenerator struct {
	seed int64
}

// NewSyntheticGenerator creates a generator. Seed 0 is a valid, fixed seed.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{seed: seed}
}

// Summaries builds a fixed-shape set of trend summaries templated from the
// request: two currently-trending entries, one keyword-flavored entry per
// supplied keyword (capped), then the generic industry set.
func (g *SyntheticGenerator) Summaries(req domain.AnalysisRequest) []domain.TrendSummary {
	industry := req.Industry
	summaries := make([]domain.TrendSummary, 0, 10)

	for _, topic := range currentTrendingTopics[:2] {
		summaries = append(summaries, domain.TrendSummary{
			Topic:          fmt.Sprintf("%s in %s", topic, industry),
			Description:    fmt.Sprintf("The latest developments in %s and their impact on %s.", topic, industry),
			Engagement:     domain.EngagementVeryHigh,
			TargetAudience: "Trend-focused professionals, innovators, industry leaders",
			ContentSuggestions: []string{
				fmt.Sprintf("Breaking: How %s is Disrupting %s", topic, industry),
				fmt.Sprintf("What You Need to Know About %s Today", topic),
			},
			SourcePlatforms: []string{"Microblog", "Video", "Industry News"},
			Timeliness:      domain.TimelinessVeryRecent,
		})
	}

	keywords := req.Keywords
	if len(keywords) > maxKeywordTrends {
		keywords = keywords[:maxKeywordTrends]
	}
	for _, kw := range keywords {
		summaries = append(summaries, domain.TrendSummary{
			Topic:          fmt.Sprintf("%s Trends in %s", kw, industry),
			Description:    fmt.Sprintf("Latest developments and innovations around %s in the %s sector.", kw, industry),
			Engagement:     domain.EngagementHigh,
			TargetAudience: fmt.Sprintf("%s professionals, %s enthusiasts, early adopters", industry, kw),
			ContentSuggestions: []string{
				fmt.Sprintf("How %s is Changing %s", kw, industry),
				fmt.Sprintf("Top 5 %s Innovations to Watch", kw),
				fmt.Sprintf("%s Leaders Using %s: Case Studies", industry, kw),
			},
			SourcePlatforms: []string{"Microblog", "Forum", "Industry Publications"},
			Timeliness:      domain.TimelinessRecent,
			Extra:           map[string]any{"keyword": kw},
		})
	}

	summaries = append(summaries, g.genericSummaries(industry)...)
	return summaries
}

func (g *SyntheticGenerator) genericSummaries(industry string) []domain.TrendSummary {
	return []domain.TrendSummary{
		{
			Topic:          fmt.Sprintf("%s Digital Transformation", industry),
			Description:    fmt.Sprintf("How businesses in the %s sector are adopting digital solutions.", industry),
			Engagement:     domain.EngagementHigh,
			TargetAudience: "Business professionals, tech enthusiasts",
			ContentSuggestions: []string{
				fmt.Sprintf("Top 10 Digital Tools for %s", industry),
				fmt.Sprintf("Case Study: Digital Transformation in %s", industry),
			},
			SourcePlatforms: []string{"Forum", "Microblog", "Industry Blogs"},
			Timeliness:      domain.TimelinessOngoing,
		},
		{
			Topic:          fmt.Sprintf("Sustainable %s", industry),
			Description:    fmt.Sprintf("The growing importance of sustainability in %s.", industry),
			Engagement:     domain.EngagementMedium,
			TargetAudience: "Environmentally conscious consumers, industry leaders",
			ContentSuggestions: []string{
				fmt.Sprintf("How to Make Your %s Business More Sustainable", industry),
				fmt.Sprintf("The ROI of Sustainability in %s", industry),
			},
			SourcePlatforms: []string{"Video", "Search Trends"},
			Timeliness:      domain.TimelinessOngoing,
		},
		{
			Topic:          fmt.Sprintf("AI in %s", industry),
			Description:    fmt.Sprintf("The impact of artificial intelligence on %s.", industry),
			Engagement:     domain.EngagementHigh,
			TargetAudience: "Tech adopters, business innovators",
			ContentSuggestions: []string{
				fmt.Sprintf("AI Tools Revolutionizing %s", industry),
				fmt.Sprintf("How to Implement AI in Your %s Strategy", industry),
			},
			SourcePlatforms: []string{"Forum", "Microblog", "Tech Blogs"},
			Timeliness:      domain.TimelinessRecent,
		},
		{
			Topic:          fmt.Sprintf("%s for Gen Z", industry),
			Description:    fmt.Sprintf("How Generation Z is reshaping the %s landscape.", industry),
			Engagement:     domain.EngagementHigh,
			TargetAudience: "Young adults, marketers targeting Gen Z",
			ContentSuggestions: []string{
				fmt.Sprintf("What Gen Z Wants from %s Brands", industry),
				fmt.Sprintf("Short-form Video Trends in %s", industry),
			},
			SourcePlatforms: []string{"Video", "Microblog"},
			Timeliness:      domain.TimelinessOngoing,
		},
		{
			Topic:          fmt.Sprintf("Remote Work in %s", industry),
			Description:    fmt.Sprintf("The continuing evolution of remote work in %s.", industry),
			Engagement:     domain.EngagementMedium,
			TargetAudience: "Remote workers, HR professionals",
			ContentSuggestions: []string{
				fmt.Sprintf("Building a Remote %s Team", industry),
				fmt.Sprintf("Tools for Remote %s Collaboration", industry),
			},
			SourcePlatforms: []string{"Forum", "Industry Forums"},
			Timeliness:      domain.TimelinessOngoing,
		},
	}
}

// Schedule builds one item per requested day, cycling through the summaries'
// topics. now is the request time; dates advance from it one day per item.
func (g *SyntheticGenerator) Schedule(summaries []domain.TrendSummary, req domain.AnalysisRequest, now time.Time) []domain.ScheduleItem {
	days := req.Duration.Days()
	formats := formatsForPlatform(req.TargetPlatform)
	rng := rand.New(rand.NewSource(g.seed))
	formatOffset := rng.Intn(len(formats))
	timeOffset := rng.Intn(len(syntheticPostingTimes))

	items := make([]domain.ScheduleItem, 0, days)
	for day := 1; day <= days; day++ {
		var topic domain.TrendSummary
		if len(summaries) > 0 {
			topic = summaries[(day-1)%len(summaries)]
		} else {
			topic = domain.TrendSummary{Topic: fmt.Sprintf("%s Highlights", req.Industry)}
		}

		title := topic.Topic
		if len(topic.ContentSuggestions) > 0 {
			title = topic.ContentSuggestions[(day-1)%len(topic.ContentSuggestions)]
		}

		items = append(items, domain.ScheduleItem{
			DayNumber:   day,
			Date:        now.AddDate(0, 0, day-1),
			MainTopic:   topic.Topic,
			Title:       title,
			Format:      formats[(formatOffset+day-1)%len(formats)],
			PostingTime: syntheticPostingTimes[(timeOffset+day-1)%len(syntheticPostingTimes)],
			Hashtags:    syntheticHashtags(topic.Topic, req.Industry),
			Brief:       fmt.Sprintf("Day %d: cover %q with an angle tailored to the %s audience on %s.", day, topic.Topic, req.Industry, req.TargetPlatform),
		})
	}
	return items
}

func formatsForPlatform(platform string) []string {
	switch strings.ToLower(platform) {
	case "instagram":
		return []string{"post", "story", "reel", "carousel"}
	case "tiktok":
		return []string{"video", "duet", "livestream"}
	case "youtube":
		return []string{"video", "short", "community post"}
	case "linkedin":
		return []string{"post", "article", "poll"}
	default:
		return []string{"post", "article", "video"}
	}
}

func syntheticHashtags(topic, industry string) []string {
	tags := []string{hashtagify(industry), "trending"}
	for _, word := range strings.Fields(topic) {
		if len(word) > 3 && len(tags) < 5 {
			tags = append(tags, hashtagify(word))
		}
	}
	return tags
}

func hashtagify(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, s)
	return cleaned
}
