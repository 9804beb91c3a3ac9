package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"trend-orchestrator/internal/adapter/cache"
	"trend-orchestrator/internal/adapter/llm"
	"trend-orchestrator/internal/adapter/source"
	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/infra/config"
	"trend-orchestrator/internal/infra/httpclient"
	"trend-orchestrator/internal/infra/metrics"
	"trend-orchestrator/internal/usecase"
	"trend-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Usecases
	FetchUsecase     usecase.FetchSourcesUsecase
	SummarizeUsecase usecase.SummarizeUsecase
	ScheduleUsecase  usecase.ScheduleUsecase
	AnalyzeUsecase   usecase.AnalyzeTrendsUsecase

	// Async processing
	JobStore *worker.JobStore
	Worker   *worker.AnalysisWorker

	// Observability
	Registry *prometheus.Registry

	// Cache, exposed for shutdown
	ResultCache domain.ResultCache
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	// Shared HTTP clients with connection pooling
	sourceHTTP := httpclient.NewPooledClient(cfg.SourceTimeout)

	// Source adapters, ordered cheap to expensive
	adapters := []domain.SourceAdapter{
		source.NewForumAdapter(cfg.ForumBaseURL, sourceHTTP, log),
		source.NewMicroblogAdapter(cfg.MicroblogURL, cfg.MicroblogToken, sourceHTTP, log),
		source.NewVideoAdapter(cfg.VideoAPIURL, cfg.VideoAPIKey, sourceHTTP, log),
		source.NewSearchTrendsAdapter(cfg.TrendsURL, cfg.TrendsGeo, sourceHTTP, log),
		source.NewWebCrawlAdapter(cfg.WebCrawlEnabled, cfg.SourceTimeout, log),
	}

	// Result cache
	var resultCache domain.ResultCache
	if cfg.CacheBackend == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		resultCache = redisCache
		log.Info("redis_cache_enabled", slog.String("url", cfg.RedisURL))
	} else {
		resultCache = cache.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL, log)
	}

	// Generation backend
	llmClient := llm.NewOllamaClient(cfg.OllamaURL)
	profiles := usecase.DefaultModelProfiles(cfg.LowCostModel, cfg.HighQualityModel)
	prompts := usecase.NewTrendPromptBuilder()
	fallback := usecase.NewSyntheticGenerator(time.Now().UnixNano())

	// Pipeline stages
	fetchUsecase := usecase.NewFetchSourcesUsecase(adapters, usecase.DefaultTierPolicy(), log)
	summarizeUsecase := usecase.NewSummarizeUsecase(llmClient, profiles, prompts, fallback, log)
	scheduleUsecase := usecase.NewScheduleUsecase(llmClient, profiles, prompts, fallback, log)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	analyzeUsecase := usecase.NewAnalyzeTrendsUsecase(
		resultCache, fetchUsecase, summarizeUsecase, scheduleUsecase, log,
		usecase.WithCacheTTL(cfg.CacheTTL),
		usecase.WithMetrics(collector),
	)

	// Async worker
	jobStore := worker.NewJobStore()
	analysisWorker := worker.NewAnalysisWorker(jobStore, analyzeUsecase, log)

	return &ApplicationComponents{
		FetchUsecase:     fetchUsecase,
		SummarizeUsecase: summarizeUsecase,
		ScheduleUsecase:  scheduleUsecase,
		AnalyzeUsecase:   analyzeUsecase,
		JobStore:         jobStore,
		Worker:           analysisWorker,
		Registry:         registry,
		ResultCache:      resultCache,
	}, nil
}
