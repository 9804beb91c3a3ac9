package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trend-orchestrator/internal/domain"
)

const (
	videoPlatform = "Video"
	minVideoItems = 3
)

// VideoAdapter fetches trending videos from a YouTube-style data API. The
// live path requires an API key.
type VideoAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewVideoAdapter(baseURL, apiKey string, client *http.Client, logger *slog.Logger) *VideoAdapter {
	return &VideoAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger,
	}
}

func (a *VideoAdapter) Name() string            { return "video" }
func (a *VideoAdapter) Cost() domain.SourceCost { return domain.CostMedium }

type videoSearchResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

func (a *VideoAdapter) Fetch(ctx context.Context, industry string, recency domain.RecencyWindow, keywords []string) (*domain.SourceResult, error) {
	if a.baseURL == "" || a.apiKey == "" {
		a.logger.Info("video API key not configured, using synthetic data",
			slog.String("industry", industry))
		return a.synthetic(industry, recency, keywords), nil
	}

	body, err := a.fetchLive(ctx, industry, recency, keywords)
	if err != nil {
		a.logger.Warn("video live fetch failed, using synthetic data",
			slog.String("industry", industry),
			slog.String("error", err.Error()))
		return a.synthetic(industry, recency, keywords), nil
	}

	return &domain.SourceResult{
		Platform:  videoPlatform,
		RawData:   body,
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    false,
			KeywordsUsed: keywords,
			Extra:        map[string]any{"time_range": recency.Label()},
		},
	}, nil
}

func (a *VideoAdapter) fetchLive(ctx context.Context, industry string, recency domain.RecencyWindow, keywords []string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	query := industry
	if len(keywords) > 0 {
		query += " " + strings.Join(keywords, " ")
	}
	publishedAfter := time.Now().Add(-time.Duration(recency.Hours()) * time.Hour).UTC().Format(time.RFC3339)

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("order", "viewCount")
	params.Set("maxResults", "15")
	params.Set("publishedAfter", publishedAfter)
	params.Set("key", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("search endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}

	var search videoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(search.Items) < minVideoItems {
		return "", fmt.Errorf("insufficient video results: got %d items", len(search.Items))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Most viewed videos about %s from %s:\n", industry, recency.Label())
	for i, item := range search.Items {
		fmt.Fprintf(&sb, "%d. %q by %s (published %s)\n",
			i+1, item.Snippet.Title, item.Snippet.ChannelTitle, item.Snippet.PublishedAt)
	}
	return sb.String(), nil
}

func (a *VideoAdapter) synthetic(industry string, recency domain.RecencyWindow, keywords []string) *domain.SourceResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Most viewed videos about %s from %s:\n", industry, recency.Label())
	titles := []string{
		"%s Explained in 10 Minutes",
		"I Tried Every %s Trend So You Don't Have To",
		"The Future of %s: What Experts Predict",
		"%s Mistakes Beginners Always Make",
		"Day in the Life of a %s Professional",
	}
	for i, tpl := range titles {
		fmt.Fprintf(&sb, "%d. %q - %d.%dM views\n", i+1, fmt.Sprintf(tpl, industry), 5-i, 9-i)
	}
	for _, kw := range keywords {
		fmt.Fprintf(&sb, "Rising: %q videos gaining views fast in the %s space\n", kw, industry)
	}
	sb.WriteString("\nPopular formats: tutorials, reaction videos, shorts under 60 seconds\n")

	return &domain.SourceResult{
		Platform:  videoPlatform,
		RawData:   sb.String(),
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    true,
			KeywordsUsed: keywords,
			Extra:        map[string]any{"time_range": recency.Label()},
		},
	}
}

var _ domain.SourceAdapter = (*VideoAdapter)(nil)
