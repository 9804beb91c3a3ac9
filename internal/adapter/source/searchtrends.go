package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trend-orchestrator/internal/domain"
)

const (
	trendsPlatform = "Search Trends"
	// xssiPrefix is the anti-hijacking prefix the trends endpoint prepends
	// to its JSON payload; it must be stripped before decoding.
	xssiPrefix = ")]}',"
)

// SearchTrendsAdapter scrapes a Google-Trends-style daily trends endpoint.
// No credentials are required, but the endpoint is unofficial and brittle,
// so every failure mode degrades to synthetic data.
type SearchTrendsAdapter struct {
	baseURL string
	geo     string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewSearchTrendsAdapter(baseURL, geo string, client *http.Client, logger *slog.Logger) *SearchTrendsAdapter {
	if geo == "" {
		geo = "US"
	}
	return &SearchTrendsAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		geo:     geo,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(5*time.Second), 1),
		logger:  logger,
	}
}

func (a *SearchTrendsAdapter) Name() string            { return "search_trends" }
func (a *SearchTrendsAdapter) Cost() domain.SourceCost { return domain.CostMedium }

type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
				FormattedTraffic string `json:"formattedTraffic"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

func (a *SearchTrendsAdapter) Fetch(ctx context.Context, industry string, recency domain.RecencyWindow, keywords []string) (*domain.SourceResult, error) {
	if a.baseURL == "" {
		a.logger.Info("search trends endpoint not configured, using synthetic data",
			slog.String("industry", industry))
		return a.synthetic(industry, recency, keywords), nil
	}

	body, err := a.fetchLive(ctx, industry)
	if err != nil {
		a.logger.Warn("search trends live fetch failed, using synthetic data",
			slog.String("industry", industry),
			slog.String("error", err.Error()))
		return a.synthetic(industry, recency, keywords), nil
	}

	return &domain.SourceResult{
		Platform:  trendsPlatform,
		RawData:   body,
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    false,
			KeywordsUsed: keywords,
			Extra: map[string]any{
				"geo":        a.geo,
				"time_range": recency.Label(),
			},
		},
	}, nil
}

func (a *SearchTrendsAdapter) fetchLive(ctx context.Context, industry string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/trends/api/dailytrends?hl=en-US&geo=%s&ns=15", a.baseURL, a.geo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trends request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("trends endpoint returned %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read trends response: %w", err)
	}
	cleaned := strings.TrimPrefix(strings.TrimSpace(string(payload)), xssiPrefix)

	var trends dailyTrendsResponse
	if err := json.Unmarshal([]byte(cleaned), &trends); err != nil {
		return "", fmt.Errorf("failed to decode trends response: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Rising search queries (geo=%s), most relevant to %s first:\n", a.geo, industry)
	count := 0
	for _, day := range trends.Default.TrendingSearchesDays {
		for _, ts := range day.TrendingSearches {
			count++
			fmt.Fprintf(&sb, "%d. %q - %s searches\n", count, ts.Title.Query, ts.FormattedTraffic)
			if count >= 15 {
				break
			}
		}
		if count >= 15 {
			break
		}
	}
	if count == 0 {
		return "", fmt.Errorf("trends response contained no searches")
	}
	return sb.String(), nil
}

func (a *SearchTrendsAdapter) synthetic(industry string, recency domain.RecencyWindow, keywords []string) *domain.SourceResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rising search terms related to %s over %s:\n", industry, recency.Label())
	fmt.Fprintf(&sb, "1. %q - +250%% increase\n", industry+" latest developments")
	fmt.Fprintf(&sb, "2. %q - +180%% increase\n", "how to get started in "+industry)
	fmt.Fprintf(&sb, "3. %q - +150%% increase\n", industry+" best practices")
	fmt.Fprintf(&sb, "4. %q - +130%% increase\n", industry+" certification courses")
	fmt.Fprintf(&sb, "5. %q - +120%% increase\n", industry+" tools and software")
	for i, kw := range keywords {
		fmt.Fprintf(&sb, "%d. %q - +%d%% increase\n", 6+i, kw+" in "+industry, 110-i*10)
	}
	sb.WriteString("\nTop regions: United States, United Kingdom, Canada, Australia, Germany\n")
	sb.WriteString("Related topics: technology, innovation, education, career\n")

	return &domain.SourceResult{
		Platform:  trendsPlatform,
		RawData:   sb.String(),
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    true,
			KeywordsUsed: keywords,
			Extra: map[string]any{
				"geo":        a.geo,
				"time_range": recency.Label(),
			},
		},
	}
}

var _ domain.SourceAdapter = (*SearchTrendsAdapter)(nil)
