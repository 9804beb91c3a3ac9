package trend_http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/usecase"
	"trend-orchestrator/internal/worker"
)

// Handler exposes the trend analysis pipeline over HTTP.
type Handler struct {
	analyzeUsecase usecase.AnalyzeTrendsUsecase
	jobStore       *worker.JobStore
}

func NewHandler(analyzeUsecase usecase.AnalyzeTrendsUsecase, jobStore *worker.JobStore) *Handler {
	return &Handler{
		analyzeUsecase: analyzeUsecase,
		jobStore:       jobStore,
	}
}

// RegisterRoutes mounts the v1 API on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1/trends")
	v1.POST("/analyze", h.Analyze)
	v1.POST("/analyze-async", h.AnalyzeAsync)
	v1.GET("/jobs/:id", h.GetJob)
	v1.GET("/options", h.Options)
}

type analyzeRequest struct {
	TargetPlatform string   `json:"target_platform"`
	Industry       string   `json:"industry"`
	Recency        string   `json:"analysis_depth"`
	DurationDays   int      `json:"duration_days"`
	QualityTier    string   `json:"quality_tier"`
	Keywords       []string `json:"keywords"`
	BypassCache    bool     `json:"bypass_cache"`
}

func (r analyzeRequest) toDomain() domain.AnalysisRequest {
	req := domain.AnalysisRequest{
		TargetPlatform: r.TargetPlatform,
		Industry:       r.Industry,
		Recency:        domain.RecencyWindow(r.Recency),
		Duration:       domain.ScheduleDuration(r.DurationDays),
		Tier:           domain.QualityTier(r.QualityTier),
		Keywords:       r.Keywords,
		BypassCache:    r.BypassCache,
	}
	// Unspecified optional dials take the cheapest defaults.
	if r.Recency == "" {
		req.Recency = domain.RecencyWeek
	}
	if r.DurationDays == 0 {
		req.Duration = domain.DurationWeek
	}
	if r.QualityTier == "" {
		req.Tier = domain.TierBalanced
	}
	return req
}

// Analyze runs the pipeline synchronously
// (POST /v1/trends/analyze)
func (h *Handler) Analyze(ctx echo.Context) error {
	var req analyzeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	result, err := h.analyzeUsecase.Execute(ctx.Request().Context(), req.toDomain())
	if err != nil {
		return h.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// AnalyzeAsync enqueues a pipeline run and returns the job handle
// (POST /v1/trends/analyze-async)
func (h *Handler) AnalyzeAsync(ctx echo.Context) error {
	var req analyzeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	domainReq := req.toDomain()
	if err := domainReq.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	job, err := h.jobStore.Enqueue(domainReq)
	if err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{"job_id": job.ID, "status": job.Status})
}

// GetJob reports the status and, once finished, the result of an async job
// (GET /v1/trends/jobs/:id)
func (h *Handler) GetJob(ctx echo.Context) error {
	job, ok := h.jobStore.Get(ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	return ctx.JSON(http.StatusOK, job)
}

// Options lists the closed request enumerations
// (GET /v1/trends/options)
func (h *Handler) Options(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, usecase.ListSupportedOptions())
}

func (h *Handler) writeError(ctx echo.Context, err error) error {
	if errors.Is(err, domain.ErrNoSourceData) {
		return ctx.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	var perr *domain.PipelineError
	if errors.As(err, &perr) && perr.Stage == "validate" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": perr.Err.Error()})
	}
	return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
