package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trend-orchestrator/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func assertSynthetic(t *testing.T, res *domain.SourceResult, platform, industry string) {
	t.Helper()
	if res.Platform != platform {
		t.Fatalf("platform = %q, want %q", res.Platform, platform)
	}
	if !res.Metadata.Synthetic {
		t.Fatal("expected synthetic result")
	}
	if !strings.Contains(res.RawData, industry) {
		t.Fatalf("synthetic body not templated with industry %q:\n%s", industry, res.RawData)
	}
	if res.FetchedAt.IsZero() {
		t.Fatal("fetched_at not stamped")
	}
}

func TestForumAdapter_SyntheticWhenDisabled(t *testing.T) {
	a := NewForumAdapter("", http.DefaultClient, testLogger())
	res, err := a.Fetch(context.Background(), "fitness", domain.RecencyWeek, []string{"yoga"})
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	assertSynthetic(t, res, "Forum", "fitness")
	if !strings.Contains(res.RawData, "yoga") {
		t.Fatal("keyword missing from synthetic body")
	}
}

func TestForumAdapter_SyntheticOnLiveFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	a := NewForumAdapter(server.URL, server.Client(), testLogger())
	res, err := a.Fetch(context.Background(), "tech", domain.RecencyDay, nil)
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	if !res.Metadata.Synthetic {
		t.Fatal("failed live fetch should degrade to synthetic")
	}
}

func TestRelevantBoards(t *testing.T) {
	boards := relevantBoards("Tech", nil)
	if len(boards) != 3 || boards[0] != "technology" {
		t.Fatalf("known industry not mapped: %v", boards)
	}

	boards = relevantBoards("underwater basket weaving", nil)
	if len(boards) != 2 || boards[1] != "popular" {
		t.Fatalf("unknown industry should fall back: %v", boards)
	}

	boards = relevantBoards("tech", []string{"AI", "Robotics"})
	if len(boards) != maxForumBoards {
		t.Fatalf("keyword boards must be capped at %d: %v", maxForumBoards, boards)
	}
	if boards[maxForumBoards-1] != "ai" {
		t.Fatalf("first keyword board must claim the last slot: %v", boards)
	}
	if got := industryBoards["tech"]; got[len(got)-1] != "gadgets" {
		t.Fatalf("board table must not be mutated: %v", got)
	}

	boards = relevantBoards("underwater basket weaving", []string{"yoga"})
	if len(boards) != 3 || boards[2] != "yoga" {
		t.Fatalf("keyword board should extend a short fallback list: %v", boards)
	}
}

func TestMicroblogAdapter_SyntheticWithoutCredentials(t *testing.T) {
	a := NewMicroblogAdapter("", "", http.DefaultClient, testLogger())
	res, err := a.Fetch(context.Background(), "fashion", domain.RecencyMonth, []string{"street wear"})
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	assertSynthetic(t, res, "Microblog", "fashion")
	if !strings.Contains(res.RawData, "#StreetWear") {
		t.Fatalf("keyword hashtag missing:\n%s", res.RawData)
	}
}

func TestMicroblogAdapter_LivePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token123" {
			t.Errorf("missing bearer token, got %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"name":"#FitTok","tweet_volume":9000},
			{"name":"#GymLife","tweet_volume":7000},
			{"name":"#Protein","tweet_volume":5000},
			{"name":"#HomeWorkout","tweet_volume":4000},
			{"name":"#Wellness","tweet_volume":3000}
		]}`))
	}))
	defer server.Close()

	a := NewMicroblogAdapter(server.URL, "token123", server.Client(), testLogger())
	res, err := a.Fetch(context.Background(), "fitness", domain.RecencyWeek, nil)
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	if res.Metadata.Synthetic {
		t.Fatal("expected live result")
	}
	if !strings.Contains(res.RawData, "#FitTok") {
		t.Fatalf("live trends missing from body:\n%s", res.RawData)
	}
}

func TestMicroblogAdapter_InsufficientResultsDegrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"name":"#One","tweet_volume":10}]}`))
	}))
	defer server.Close()

	a := NewMicroblogAdapter(server.URL, "token123", server.Client(), testLogger())
	res, err := a.Fetch(context.Background(), "fitness", domain.RecencyWeek, nil)
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	if !res.Metadata.Synthetic {
		t.Fatal("below-threshold results should degrade to synthetic")
	}
}

func TestVideoAdapter_SyntheticWithoutKey(t *testing.T) {
	a := NewVideoAdapter("", "", http.DefaultClient, testLogger())
	res, err := a.Fetch(context.Background(), "gaming", domain.RecencyWeek, nil)
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	assertSynthetic(t, res, "Video", "gaming")
}

func TestVideoAdapter_LivePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "key123" {
			t.Errorf("api key missing: %s", r.URL.RawQuery)
		}
		if q.Get("order") != "viewCount" {
			t.Errorf("order missing: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"items":[
			{"snippet":{"title":"A","channelTitle":"C1","publishedAt":"2026-08-20T00:00:00Z"}},
			{"snippet":{"title":"B","channelTitle":"C2","publishedAt":"2026-08-21T00:00:00Z"}},
			{"snippet":{"title":"C","channelTitle":"C3","publishedAt":"2026-08-22T00:00:00Z"}}
		]}`))
	}))
	defer server.Close()

	a := NewVideoAdapter(server.URL, "key123", server.Client(), testLogger())
	res, err := a.Fetch(context.Background(), "gaming", domain.RecencyWeek, []string{"speedrun"})
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	if res.Metadata.Synthetic {
		t.Fatal("expected live result")
	}
	if !strings.Contains(res.RawData, `"A" by C1`) {
		t.Fatalf("video titles missing:\n%s", res.RawData)
	}
}

func TestSearchTrendsAdapter_StripsXSSIPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := `)]}',{"default":{"trendingSearchesDays":[{"trendingSearches":[
			{"title":{"query":"marathon training"},"formattedTraffic":"200K+"},
			{"title":{"query":"protein recipes"},"formattedTraffic":"100K+"}
		]}]}}`
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	a := NewSearchTrendsAdapter(server.URL, "US", server.Client(), testLogger())
	res, err := a.Fetch(context.Background(), "fitness", domain.RecencyWeek, nil)
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	if res.Metadata.Synthetic {
		t.Fatal("expected live result")
	}
	if !strings.Contains(res.RawData, "marathon training") {
		t.Fatalf("queries missing:\n%s", res.RawData)
	}
}

func TestSearchTrendsAdapter_SyntheticWhenUnconfigured(t *testing.T) {
	a := NewSearchTrendsAdapter("", "", http.DefaultClient, testLogger())
	res, err := a.Fetch(context.Background(), "finance", domain.RecencyDay, []string{"ETF"})
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	assertSynthetic(t, res, "Search Trends", "finance")
	if !strings.Contains(res.RawData, "ETF") {
		t.Fatal("keyword missing from synthetic body")
	}
}

func TestWebCrawlAdapter_SyntheticWhenDisabled(t *testing.T) {
	a := NewWebCrawlAdapter(false, 5*time.Second, testLogger())
	res, err := a.Fetch(context.Background(), "travel", domain.RecencyMonth, nil)
	if err != nil {
		t.Fatalf("adapter must not fail: %v", err)
	}
	assertSynthetic(t, res, "Web Crawl", "travel")
}

func TestSeedsFor(t *testing.T) {
	seeds := seedsFor("Tech")
	if len(seeds) != 3 {
		t.Fatalf("known industry seeds: %v", seeds)
	}
	seeds = seedsFor("vintage clocks")
	if len(seeds) != 2 || !strings.Contains(seeds[0], "vintage-clocks") {
		t.Fatalf("generic seeds not slugged: %v", seeds)
	}
}

func TestAdapterCosts(t *testing.T) {
	log := testLogger()
	cases := []struct {
		adapter domain.SourceAdapter
		name    string
		cost    domain.SourceCost
	}{
		{NewForumAdapter("", http.DefaultClient, log), "forum", domain.CostLight},
		{NewMicroblogAdapter("", "", http.DefaultClient, log), "microblog", domain.CostLight},
		{NewVideoAdapter("", "", http.DefaultClient, log), "video", domain.CostMedium},
		{NewSearchTrendsAdapter("", "", http.DefaultClient, log), "search_trends", domain.CostMedium},
		{NewWebCrawlAdapter(false, time.Second, log), "web_crawl", domain.CostHeavy},
	}
	for _, tc := range cases {
		if tc.adapter.Name() != tc.name {
			t.Errorf("name = %q, want %q", tc.adapter.Name(), tc.name)
		}
		if tc.adapter.Cost() != tc.cost {
			t.Errorf("%s cost = %v, want %v", tc.name, tc.adapter.Cost(), tc.cost)
		}
	}
}
