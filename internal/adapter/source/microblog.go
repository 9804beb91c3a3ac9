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
	microblogPlatform = "Microblog"
	minMicroblogItems = 5
)

// MicroblogAdapter fetches hashtag and post trends from a Twitter-style API.
// The live path requires a bearer token; without one the adapter synthesizes
// immediately (capability check, not an error).
type MicroblogAdapter struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewMicroblogAdapter(baseURL, token string, client *http.Client, logger *slog.Logger) *MicroblogAdapter {
	return &MicroblogAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:  logger,
	}
}

func (a *MicroblogAdapter) Name() string            { return "microblog" }
func (a *MicroblogAdapter) Cost() domain.SourceCost { return domain.CostLight }

type microblogTrendsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Volume int    `json:"tweet_volume"`
	} `json:"data"`
}

func (a *MicroblogAdapter) Fetch(ctx context.Context, industry string, recency domain.RecencyWindow, keywords []string) (*domain.SourceResult, error) {
	if a.baseURL == "" || a.token == "" {
		a.logger.Info("microblog credentials not configured, using synthetic data",
			slog.String("industry", industry))
		return a.synthetic(industry, recency, keywords), nil
	}

	body, err := a.fetchLive(ctx, industry, keywords)
	if err != nil {
		a.logger.Warn("microblog live fetch failed, using synthetic data",
			slog.String("industry", industry),
			slog.String("error", err.Error()))
		return a.synthetic(industry, recency, keywords), nil
	}

	return &domain.SourceResult{
		Platform:  microblogPlatform,
		RawData:   body,
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    false,
			KeywordsUsed: keywords,
			Extra:        map[string]any{"time_range": recency.Label()},
		},
	}, nil
}

func (a *MicroblogAdapter) fetchLive(ctx context.Context, industry string, keywords []string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	query := industry
	if len(keywords) > 0 {
		query = industry + " " + strings.Join(keywords, " ")
	}
	reqURL := fmt.Sprintf("%s/2/trends/search?query=%s", a.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trends request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("trends endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}

	var trends microblogTrendsResponse
	if err := json.NewDecoder(resp.Body).Decode(&trends); err != nil {
		return "", fmt.Errorf("failed to decode trends response: %w", err)
	}
	if len(trends.Data) < minMicroblogItems {
		return "", fmt.Errorf("insufficient microblog results: got %d trends", len(trends.Data))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top microblog trends related to %s:\n", industry)
	for i, t := range trends.Data {
		if i >= 15 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s - %d posts\n", i+1, t.Name, t.Volume)
	}
	return sb.String(), nil
}

func (a *MicroblogAdapter) synthetic(industry string, recency domain.RecencyWindow, keywords []string) *domain.SourceResult {
	tag := hashtagToken(industry)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top microblog hashtags related to %s over %s:\n", industry, recency.Label())
	fmt.Fprintf(&sb, "1. #%sInnovation - 25.3k posts\n", tag)
	fmt.Fprintf(&sb, "2. #%sTrends - 18.7k posts\n", tag)
	fmt.Fprintf(&sb, "3. #%sGrowth - 12.4k posts\n", tag)
	fmt.Fprintf(&sb, "4. #%sNews - 10.1k posts\n", tag)
	for i, kw := range keywords {
		fmt.Fprintf(&sb, "%d. #%s - %d.%dk posts\n", 5+i, hashtagToken(kw), 9-i, 8-i)
	}
	fmt.Fprintf(&sb, "\nTop voices discussing %s:\n", industry)
	fmt.Fprintf(&sb, "@%sExpert - 105k followers\n@%sInsider - 78k followers\n@%sDaily - 45k followers\n", tag, tag, tag)
	sb.WriteString("\nSentiment: 65% positive, 25% neutral, 10% negative\n")

	return &domain.SourceResult{
		Platform:  microblogPlatform,
		RawData:   sb.String(),
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    true,
			KeywordsUsed: keywords,
			Extra:        map[string]any{"time_range": recency.Label()},
		},
	}
}

// hashtagToken collapses a phrase into a CamelCase hashtag body.
func hashtagToken(s string) string {
	var sb strings.Builder
	for _, word := range strings.Fields(strings.TrimSpace(s)) {
		r := []rune(strings.ToLower(word))
		if len(r) == 0 {
			continue
		}
		if r[0] >= 'a' && r[0] <= 'z' {
			r[0] -= 'a' - 'A'
		}
		sb.WriteString(string(r))
	}
	return sb.String()
}

var _ domain.SourceAdapter = (*MicroblogAdapter)(nil)
