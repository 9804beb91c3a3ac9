package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/infra/logger"
	"trend-orchestrator/internal/usecase"
)

const (
	jobTimeout   = 5 * time.Minute
	queueDepth   = 64
	maxJobsKept  = 512
	jobRetention = 2 * time.Hour
)

// Job status values.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ErrQueueFull is returned when the async queue cannot accept another job.
var ErrQueueFull = errors.New("analysis queue is full")

// AnalysisJob tracks one async pipeline run.
type AnalysisJob struct {
	ID         string                 `json:"job_id"`
	Status     string                 `json:"status"`
	Request    domain.AnalysisRequest `json:"request"`
	Result     *domain.PipelineResult `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	EnqueuedAt time.Time              `json:"enqueued_at"`
	FinishedAt *time.Time             `json:"finished_at,omitempty"`
}

// JobStore holds job records in memory. Finished jobs are pruned after a
// retention window so the map cannot grow without bound.
type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*AnalysisJob
	queue chan string
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs:  make(map[string]*AnalysisJob),
		queue: make(chan string, queueDepth),
	}
}

// Enqueue registers a new job and puts it on the queue.
func (s *JobStore) Enqueue(req domain.AnalysisRequest) (*AnalysisJob, error) {
	job := &AnalysisJob{
		ID:         uuid.NewString(),
		Status:     StatusQueued,
		Request:    req,
		EnqueuedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.prune()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	select {
	case s.queue <- job.ID:
		return job, nil
	default:
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return nil, ErrQueueFull
	}
}

// Get returns a copy of the job record.
func (s *JobStore) Get(id string) (*AnalysisJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

func (s *JobStore) markRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = StatusRunning
	}
}

func (s *JobStore) markFinished(id string, result *domain.PipelineResult, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.FinishedAt = &now
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		return
	}
	job.Status = StatusCompleted
	job.Result = result
}

// prune drops old finished jobs. Caller holds the lock.
func (s *JobStore) prune() {
	if len(s.jobs) < maxJobsKept {
		return
	}
	cutoff := time.Now().UTC().Add(-jobRetention)
	for id, job := range s.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}

// AnalysisWorker drains the job queue and runs the pipeline for each job.
type AnalysisWorker struct {
	store     *JobStore
	analyze   usecase.AnalyzeTrendsUsecase
	logger    *slog.Logger
	ctxLogger *logger.ContextLogger
	stopChan  chan struct{}
	done      chan struct{}
}

func NewAnalysisWorker(store *JobStore, analyze usecase.AnalyzeTrendsUsecase, log *slog.Logger) *AnalysisWorker {
	return &AnalysisWorker{
		store:     store,
		analyze:   analyze,
		logger:    log,
		ctxLogger: logger.NewContextLogger(log, "analysis-worker"),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (w *AnalysisWorker) Start() {
	w.logger.Info("Starting AnalysisWorker")
	go w.run()
}

// Stop signals the worker and waits for the in-flight job to finish.
func (w *AnalysisWorker) Stop() {
	w.logger.Info("Stopping AnalysisWorker")
	close(w.stopChan)
	<-w.done
}

func (w *AnalysisWorker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return
		case id := <-w.store.queue:
			w.processJob(id)
		}
	}
}

func (w *AnalysisWorker) processJob(id string) {
	job, ok := w.store.Get(id)
	if !ok {
		w.logger.Warn("queued job disappeared", "job_id", id)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	ctx = logger.WithJobID(ctx, id)
	ctx = logger.WithIndustry(ctx, job.Request.Industry)
	jobLog := w.ctxLogger.WithContext(ctx)

	jobLog.Info("Processing job")
	w.store.markRunning(id)

	result, err := w.analyze.Execute(ctx, job.Request)
	w.store.markFinished(id, result, err)

	if err != nil {
		jobLog.Warn("Job failed", "error", err)
		return
	}
	jobLog.Info("Job completed")
}
