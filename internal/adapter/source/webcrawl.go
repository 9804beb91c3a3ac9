package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/doyensec/safeurl"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"trend-orchestrator/internal/domain"
)

const (
	webCrawlPlatform = "Web Crawl"
	minCrawlPages    = 2
	maxCrawlWorkers  = 3
	maxPageBytes     = 2 << 20
)

// industrySeeds maps an industry to the publication front pages that carry
// its editorial trend signal. Unknown industries fall back to the generic
// seed list.
var industrySeeds = map[string][]string{
	"tech":       {"https://techcrunch.com", "https://www.theverge.com", "https://arstechnica.com"},
	"technology": {"https://techcrunch.com", "https://www.theverge.com", "https://arstechnica.com"},
	"fitness":    {"https://www.menshealth.com/fitness", "https://www.self.com/fitness"},
	"business":   {"https://www.forbes.com/business", "https://www.inc.com"},
	"finance":    {"https://www.cnbc.com/finance", "https://www.investopedia.com"},
	"fashion":    {"https://www.vogue.com", "https://www.highsnobiety.com"},
	"food":       {"https://www.bonappetit.com", "https://www.seriouseats.com"},
	"travel":     {"https://www.lonelyplanet.com/articles", "https://www.afar.com"},
	"health":     {"https://www.healthline.com/health-news", "https://www.medicalnewstoday.com"},
	"gaming":     {"https://www.polygon.com", "https://kotaku.com"},
}

var genericSeeds = []string{"https://medium.com/tag/%s", "https://news.google.com/search?q=%s"}

// WebCrawlAdapter fetches and extracts article headlines from curated
// publication seeds. All outbound requests go through an SSRF-hardened
// client; crawling can be disabled entirely via config, which makes every
// fetch synthetic.
type WebCrawlAdapter struct {
	enabled   bool
	client    *http.Client
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// NewWebCrawlAdapter builds the adapter. The safeurl dialer blocks private,
// loopback and link-local targets after DNS resolution, which covers DNS
// rebinding as well.
func NewWebCrawlAdapter(enabled bool, timeout time.Duration, logger *slog.Logger) *WebCrawlAdapter {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return &WebCrawlAdapter{
		enabled:   enabled,
		client:    safeurl.Client(config).Client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

func (a *WebCrawlAdapter) Name() string            { return "web_crawl" }
func (a *WebCrawlAdapter) Cost() domain.SourceCost { return domain.CostHeavy }

func (a *WebCrawlAdapter) Fetch(ctx context.Context, industry string, recency domain.RecencyWindow, keywords []string) (*domain.SourceResult, error) {
	seeds := seedsFor(industry)

	if !a.enabled {
		a.logger.Info("web crawl disabled, using synthetic data",
			slog.String("industry", industry))
		return a.synthetic(industry, recency, keywords), nil
	}

	body, pages, err := a.crawl(ctx, seeds)
	if err != nil {
		a.logger.Warn("web crawl failed, using synthetic data",
			slog.String("industry", industry),
			slog.String("error", err.Error()))
		return a.synthetic(industry, recency, keywords), nil
	}

	return &domain.SourceResult{
		Platform:  webCrawlPlatform,
		RawData:   body,
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    false,
			KeywordsUsed: keywords,
			Extra: map[string]any{
				"pages_crawled": pages,
				"time_range":    recency.Label(),
			},
		},
	}, nil
}

// crawl fetches every seed concurrently and concatenates per-page extracts.
// A single failing seed is logged and skipped; fewer than minCrawlPages
// successful pages is treated as a whole-crawl failure.
func (a *WebCrawlAdapter) crawl(ctx context.Context, seeds []string) (string, int, error) {
	extracts := make([]string, len(seeds))
	var mu sync.Mutex
	pages := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCrawlWorkers)
	for i, seed := range seeds {
		g.Go(func() error {
			extract, err := a.fetchPage(gctx, seed)
			if err != nil {
				a.logger.Warn("page crawl failed",
					slog.String("url", seed),
					slog.String("error", err.Error()))
				return nil
			}
			extracts[i] = extract
			mu.Lock()
			pages++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if pages < minCrawlPages {
		return "", 0, fmt.Errorf("insufficient pages crawled: got %d, need %d", pages, minCrawlPages)
	}

	var sb strings.Builder
	for _, extract := range extracts {
		if extract == "" {
			continue
		}
		sb.WriteString(extract)
		sb.WriteString("\n")
	}
	return sb.String(), pages, nil
}

// fetchPage downloads one seed and extracts its title and headline text.
func (a *WebCrawlAdapter) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "trend-orchestrator/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	var sb strings.Builder
	title := a.clean(doc.Find("title").First().Text())
	fmt.Fprintf(&sb, "Source: %s (%s)\n", title, pageURL)

	seen := map[string]struct{}{}
	count := 0
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		headline := a.clean(sel.Text())
		if headline == "" || len(headline) < 12 {
			return true
		}
		if _, dup := seen[headline]; dup {
			return true
		}
		seen[headline] = struct{}{}
		count++
		fmt.Fprintf(&sb, "- %s\n", headline)
		return count < 12
	})
	if count == 0 {
		return "", fmt.Errorf("no headlines extracted")
	}
	return sb.String(), nil
}

func (a *WebCrawlAdapter) clean(s string) string {
	return strings.Join(strings.Fields(a.sanitizer.Sanitize(s)), " ")
}

func (a *WebCrawlAdapter) synthetic(industry string, recency domain.RecencyWindow, keywords []string) *domain.SourceResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Editorial coverage of %s from %s:\n", industry, recency.Label())
	headlines := []string{
		"Why %s leaders are rethinking their strategy this quarter",
		"The %s shift nobody saw coming",
		"Five %s startups to watch right now",
		"Inside the quiet transformation of the %s industry",
		"%s experts weigh in on what comes next",
	}
	for i, tpl := range headlines {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, fmt.Sprintf(tpl, industry))
	}
	for _, kw := range keywords {
		fmt.Fprintf(&sb, "Feature: %q is dominating %s coverage this week\n", kw, industry)
	}
	sb.WriteString("\nRecurring themes: sustainability, AI adoption, shifting consumer behavior\n")

	return &domain.SourceResult{
		Platform:  webCrawlPlatform,
		RawData:   sb.String(),
		FetchedAt: time.Now().UTC(),
		Metadata: domain.SourceMetadata{
			Synthetic:    true,
			KeywordsUsed: keywords,
			Extra:        map[string]any{"time_range": recency.Label()},
		},
	}
}

func seedsFor(industry string) []string {
	normalized := strings.ToLower(strings.TrimSpace(industry))
	if seeds, ok := industrySeeds[normalized]; ok {
		return seeds
	}
	slug := strings.ReplaceAll(normalized, " ", "-")
	seeds := make([]string, 0, len(genericSeeds))
	for _, tpl := range genericSeeds {
		seeds = append(seeds, fmt.Sprintf(tpl, slug))
	}
	return seeds
}

var _ domain.SourceAdapter = (*WebCrawlAdapter)(nil)
