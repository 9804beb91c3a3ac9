package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"trend-orchestrator/internal/domain"
)

const (
	forumPlatform  = "Forum"
	maxForumBoards = 3
	minForumItems  = 3
)

// industryBoards maps an industry to the community boards most likely to
// carry its trend signal. Keyword boards claim the last slot at fetch time.
var industryBoards = map[string][]string{
	"tech":       {"technology", "programming", "gadgets"},
	"technology": {"technology", "programming", "gadgets"},
	"fitness":    {"fitness", "bodyweightfitness", "nutrition"},
	"business":   {"business", "entrepreneur", "smallbusiness"},
	"finance":    {"personalfinance", "investing", "stocks"},
	"gaming":     {"gaming", "games", "pcgaming"},
	"fashion":    {"fashion", "streetwear", "malefashionadvice"},
	"food":       {"food", "cooking", "recipes"},
	"travel":     {"travel", "solotravel", "backpacking"},
	"health":     {"health", "medicine", "wellness"},
}

// ForumAdapter fetches discussion trends from a Reddit-style forum via its
// public RSS feeds. An empty base URL disables the live path entirely.
type ForumAdapter struct {
	baseURL string
	parser  *gofeed.Parser
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewForumAdapter builds the adapter. client is shared with the feed parser;
// the limiter keeps the live path inside public rate limits.
func NewForumAdapter(baseURL string, client *http.Client, logger *slog.Logger) *ForumAdapter {
	parser := gofeed.NewParser()
	parser.Client = client
	return &ForumAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		parser:  parser,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:  logger,
	}
}

func (a *ForumAdapter) Name() string            { return "forum" }
func (a *ForumAdapter) Cost() domain.SourceCost { return domain.CostLight }

// Fetch tries the live RSS path and degrades to a synthetic body on any
// failure, including insufficient results.
func (a *ForumAdapter) Fetch(ctx context.Context, industry string, recency domain.RecencyWindow, keywords []string) (*domain.SourceResult, error) {
	boards := relevantBoards(industry, keywords)

	if a.baseURL == "" {
		a.logger.Info("forum live path disabled, using synthetic data",
			slog.String("industry", industry))
		return a.synthetic(industry, recency, keywords, boards), nil
	}

	body, err := a.fetchLive(ctx, boards, recency)
	if err != nil {
		a.logger.Warn("forum live fetch failed, using synthetic data",
			slog.String("industry", industry),
			slog.String("error", err.Error()))
		return a.synthetic(industry, recency, keywords, boards), nil
	}

	return &domain.SourceResult{
		Platform:  forumPlatform,
		RawData:   body,
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    false,
			KeywordsUsed: keywords,
			Extra: map[string]any{
				"boards":     boards,
				"time_range": recency.Label(),
			},
		},
	}, nil
}

func (a *ForumAdapter) fetchLive(ctx context.Context, boards []string, recency domain.RecencyWindow) (string, error) {
	var sb strings.Builder
	total := 0
	for _, board := range boards {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
		feedURL := fmt.Sprintf("%s/r/%s/top/.rss?t=%s", a.baseURL, board, recencyToFeedWindow(recency))
		feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			a.logger.Warn("forum board fetch failed",
				slog.String("board", board),
				slog.String("error", err.Error()))
			continue
		}

		fmt.Fprintf(&sb, "Top discussions in %s/%s:\n", forumPlatform, board)
		for i, item := range feed.Items {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item.Title)
			total++
		}
		sb.WriteString("\n")
	}

	if total < minForumItems {
		return "", fmt.Errorf("insufficient forum results: got %d items", total)
	}
	return sb.String(), nil
}

func (a *ForumAdapter) synthetic(industry string, recency domain.RecencyWindow, keywords, boards []string) *domain.SourceResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top forum discussions about %s over %s:\n", industry, recency.Label())
	topics := []string{
		"What's everyone's take on the latest %s developments?",
		"The %s tool nobody is talking about",
		"How I grew my %s knowledge in 30 days",
		"Unpopular opinion about the %s industry",
		"Weekly %s trends megathread",
	}
	for i, tpl := range topics {
		fmt.Fprintf(&sb, "%d. %s (%d upvotes, %d comments)\n",
			i+1, fmt.Sprintf(tpl, industry), 900-i*120, 240-i*35)
	}
	fmt.Fprintf(&sb, "\nActive communities: %s\n", strings.Join(boards, ", "))
	for _, kw := range keywords {
		fmt.Fprintf(&sb, "Hot keyword thread: %q is trending across %s communities\n", kw, industry)
	}

	return &domain.SourceResult{
		Platform:  forumPlatform,
		RawData:   sb.String(),
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    true,
			KeywordsUsed: keywords,
			Extra: map[string]any{
				"boards":     boards,
				"time_range": recency.Label(),
			},
		},
	}
}

func relevantBoards(industry string, keywords []string) []string {
	normalized := strings.ToLower(strings.TrimSpace(industry))
	base, ok := industryBoards[normalized]
	if !ok {
		base = []string{sanitizeBoard(normalized), "popular"}
	}

	var kwBoards []string
	for _, kw := range keywords {
		if b := sanitizeBoard(kw); b != "" {
			kwBoards = append(kwBoards, b)
		}
	}

	// The last slot is reserved for a keyword board; otherwise a full
	// industry list would always crowd keywords out.
	if len(kwBoards) > 0 && len(base) > maxForumBoards-1 {
		base = base[:maxForumBoards-1]
	}

	boards := make([]string, 0, maxForumBoards)
	boards = append(boards, base...)
	for _, b := range kwBoards {
		if len(boards) == maxForumBoards {
			break
		}
		boards = append(boards, b)
	}
	if len(boards) > maxForumBoards {
		boards = boards[:maxForumBoards]
	}
	return boards
}

func sanitizeBoard(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}

func recencyToFeedWindow(r domain.RecencyWindow) string {
	switch r {
	case domain.RecencyDay:
		return "day"
	case domain.RecencyWeek:
		return "week"
	case domain.RecencyMonth:
		return "month"
	}
	return "day"
}

var _ domain.SourceAdapter = (*ForumAdapter)(nil)
