package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
)

// truncationPenalty is applied to the confidence of results produced from a
// truncated prompt.
const truncationPenalty = 0.8

// Generator produces raw model text for a prompt. Satisfied by
// *ai.GeminiClient; tests substitute their own.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Mailer dispatches critical-task alerts. Failures are logged, never fatal.
type Mailer interface {
	SendCriticalTaskAlert(ctx context.Context, projectName string, tasks []entities.TaskAssignment) error
}

// Service defines analysis orchestration methods
type Service interface {
	Analyze(ctx context.Context, req entities.AnalysisRequest) (*entities.AnalysisResult, error)
	AnalyzeAndStore(ctx context.Context, req entities.AnalysisRequest) (*entities.Meeting, []entities.TaskAssignment, error)
	EnqueueAnalysis(ctx context.Context, req entities.AnalysisRequest) (*entities.AnalysisJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error)
	Ask(ctx context.Context, question, contextText string) (string, error)
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type analysisService struct {
	generator   Generator
	extractor   *Extractor
	projectRepo domainrepo.ProjectRepository
	meetingRepo domainrepo.MeetingRepository
	taskRepo    domainrepo.TaskRepository
	jobRepo     domainrepo.AnalysisJobRepository
	store       cache.Store
	mailer      Mailer
	logger      *zap.Logger

	maxPromptChars int
	cacheTTL       time.Duration
	pollInterval   time.Duration

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the analysis service. A nil generator is the one
// unrecoverable condition: without a model client nothing can run, so
// construction fails instead of deferring the problem to request time.
// Repositories, cache, and mailer are optional; missing ones disable the
// operations that need them.
func NewService(
	generator Generator,
	projectRepo domainrepo.ProjectRepository,
	meetingRepo domainrepo.MeetingRepository,
	taskRepo domainrepo.TaskRepository,
	jobRepo domainrepo.AnalysisJobRepository,
	store cache.Store,
	mailer Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) (Service, error) {
	if generator == nil {
		return nil, apperrors.ErrConfiguration("analysis generator is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	maxChars := DefaultMaxPromptChars
	cacheTTL := time.Hour
	pollInterval := 15 * time.Second
	if cfg != nil {
		if cfg.Analyzer.MaxPromptChars > 0 {
			maxChars = cfg.Analyzer.MaxPromptChars
		}
		if cfg.Analyzer.CacheTTL > 0 {
			cacheTTL = cfg.Analyzer.CacheTTL
		}
		if cfg.Analyzer.PollInterval > 0 {
			pollInterval = cfg.Analyzer.PollInterval
		}
	}

	return &analysisService{
		generator:      generator,
		extractor:      NewExtractor(DefaultKeywords()),
		projectRepo:    projectRepo,
		meetingRepo:    meetingRepo,
		taskRepo:       taskRepo,
		jobRepo:        jobRepo,
		store:          store,
		mailer:         mailer,
		logger:         logger,
		maxPromptChars: maxChars,
		cacheTTL:       cacheTTL,
		pollInterval:   pollInterval,
		workerStopChan: make(chan struct{}),
	}, nil
}

// Analyze runs the full pipeline for one request. It never returns an error
// for business reasons: every model failure is absorbed into a fallback
// result, so the caller always gets a fully populated analysis.
func (s *analysisService) Analyze(ctx context.Context, req entities.AnalysisRequest) (*entities.AnalysisResult, error) {
	key := requestDigest(req)
	if cached := s.cacheLookup(ctx, key); cached != nil {
		return cached, nil
	}

	prompt, truncated := BuildPrompt(req, s.maxPromptChars)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("model call failed, using fallback extractor",
			zap.Error(err),
		)
		return s.extractor.Extract(req), nil
	}

	result, err := ParseAnalysis(raw)
	if err != nil {
		s.logger.Warn("model response rejected, using fallback extractor",
			zap.Error(err),
		)
		return s.extractor.Extract(req), nil
	}

	result.Truncated = truncated
	if truncated {
		result.Confidence = entities.ClampConfidence(result.Confidence * truncationPenalty)
	}

	s.cacheStore(ctx, key, result)
	return result, nil
}

// AnalyzeAndStore analyzes a transcript and persists the project, meeting and
// extracted tasks. Critical tasks trigger a mail alert.
func (s *analysisService) AnalyzeAndStore(ctx context.Context, req entities.AnalysisRequest) (*entities.Meeting, []entities.TaskAssignment, error) {
	if s.projectRepo == nil || s.meetingRepo == nil || s.taskRepo == nil {
		return nil, nil, apperrors.ErrConfiguration("persistence is not configured")
	}

	result, err := s.Analyze(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	meeting, tasks, err := s.persist(ctx, req, result)
	if err != nil {
		return nil, nil, err
	}

	s.notifyCritical(ctx, req, tasks)
	return meeting, tasks, nil
}

func (s *analysisService) persist(ctx context.Context, req entities.AnalysisRequest, result *entities.AnalysisResult) (*entities.Meeting, []entities.TaskAssignment, error) {
	projectName := req.ProjectName
	if projectName == "" {
		projectName = "Unfiled"
	}

	project, err := s.projectRepo.FindOrCreate(ctx, projectName, req.ClientName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	meeting := entities.NewMeeting(project.ID, req, *result)
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, nil, fmt.Errorf("failed to store meeting: %w", err)
	}

	tasks := make([]*entities.TaskAssignment, 0, len(result.ActionItems))
	for _, item := range result.ActionItems {
		tasks = append(tasks, entities.NewTaskAssignment(meeting.ID, project.ID, item))
	}
	if len(tasks) > 0 {
		if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
			return nil, nil, fmt.Errorf("failed to store tasks: %w", err)
		}
	}

	out := make([]entities.TaskAssignment, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, *t)
	}

	s.logger.Info("meeting analysis stored",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("project", projectName),
		zap.String("source", string(result.Source)),
		zap.Int("task_count", len(out)),
	)
	return meeting, out, nil
}

func (s *analysisService) notifyCritical(ctx context.Context, req entities.AnalysisRequest, tasks []entities.TaskAssignment) {
	if s.mailer == nil {
		return
	}

	var critical []entities.TaskAssignment
	for _, t := range tasks {
		if t.Priority == string(entities.PriorityCritical) {
			critical = append(critical, t)
		}
	}
	if len(critical) == 0 {
		return
	}

	projectName := req.ProjectName
	if projectName == "" {
		projectName = "Unfiled"
	}
	if err := s.mailer.SendCriticalTaskAlert(ctx, projectName, critical); err != nil {
		s.logger.Warn("critical task alert failed",
			zap.String("project", projectName),
			zap.Int("task_count", len(critical)),
			zap.Error(err),
		)
	}
}

// EnqueueAnalysis queues a request for background processing.
func (s *analysisService) EnqueueAnalysis(ctx context.Context, req entities.AnalysisRequest) (*entities.AnalysisJob, error) {
	if s.jobRepo == nil {
		return nil, apperrors.ErrConfiguration("job queue is not configured")
	}

	job := entities.NewAnalysisJob(req)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue analysis: %w", err)
	}

	s.logger.Info("analysis job queued",
		zap.String("job_id", job.ID.String()),
		zap.Int("transcript_chars", len(req.Transcript)),
	)
	return job, nil
}

// GetJob returns a queued job by ID.
func (s *analysisService) GetJob(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error) {
	if s.jobRepo == nil {
		return nil, apperrors.ErrConfiguration("job queue is not configured")
	}
	return s.jobRepo.FindByID(ctx, id)
}

// Ask answers a free-form question, optionally grounded in a transcript or
// meeting summary. When the model is unreachable the caller gets a degraded
// canned answer instead of an error.
func (s *analysisService) Ask(ctx context.Context, question, contextText string) (string, error) {
	prompt := "You are a helpful meeting assistant. Answer concisely.\n\n"
	if contextText != "" {
		prompt += "Context:\n" + contextText + "\n\n"
	}
	prompt += "Question: " + question

	answer, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("assistant call failed, returning degraded answer", zap.Error(err))
		return "The assistant is temporarily unavailable. Please try again in a few minutes.", nil
	}
	return answer, nil
}

// requestDigest derives the cache key for a request. Two requests with the
// same transcript and context share one key, which is what makes repeated
// submissions idempotent and cheap.
func requestDigest(req entities.AnalysisRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Transcript))
	h.Write([]byte{0})
	h.Write([]byte(req.ClientName))
	h.Write([]byte{0})
	h.Write([]byte(req.ProjectName))
	h.Write([]byte{0})
	h.Write([]byte(req.Type()))
	return "analysis:" + hex.EncodeToString(h.Sum(nil))
}

func (s *analysisService) cacheLookup(ctx context.Context, key string) *entities.AnalysisResult {
	if s.store == nil {
		return nil
	}
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("cache entry corrupt, ignoring", zap.Error(err))
		s.store.Delete(ctx, key)
		return nil
	}
	result.EnsurePopulated()
	return &result
}

// cacheStore caches model-backed results only. Fallback results are cheap to
// recompute and should not shadow a later healthy model answer.
func (s *analysisService) cacheStore(ctx context.Context, key string, result *entities.AnalysisResult) {
	if s.store == nil || result.Source != entities.SourceAI {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("cache store failed", zap.Error(err))
	}
}

// StartWorkerPool starts background workers to process queued analysis jobs
func (s *analysisService) StartWorkerPool(ctx context.Context, workerCount int) error {
	if s.jobRepo == nil {
		return apperrors.ErrConfiguration("job queue is not configured")
	}

	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	s.logger.Info("starting analysis worker pool", zap.Int("worker_count", workerCount))

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.analysisWorker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.staleJobWorker(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *analysisService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	s.logger.Info("stopping analysis worker pool")
	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false
	s.logger.Info("analysis worker pool stopped")

	return nil
}

// analysisWorker polls for pending jobs, claims one atomically and runs it.
func (s *analysisService) analysisWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Info("worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("worker stopping", zap.Int("worker_id", workerID))
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.FindByStatus(parentCtx, entities.AnalysisJobStatusPending, 1)
			if err != nil {
				s.logger.Error("failed to poll jobs",
					zap.Int("worker_id", workerID),
					zap.Error(err),
				)
				continue
			}
			if len(jobs) == 0 {
				continue
			}

			job := jobs[0]

			// Only one worker wins the conditional update.
			claimed, err := s.jobRepo.Claim(parentCtx, job.ID)
			if err != nil {
				s.logger.Error("failed to claim job",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if !claimed {
				continue
			}

			s.logger.Info("worker claimed job",
				zap.Int("worker_id", workerID),
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
			)

			jobCtx, cancel := jobcontext.Begin(parentCtx, job.ID, workerID, job.RetryCount)
			err = jobcontext.Run(jobCtx, func(ctx context.Context) error {
				return s.processJob(ctx, &job)
			})
			cancel()

			if err == nil {
				continue
			}

			if job.IsRetryable() && jobcontext.IsRetryableError(err) {
				s.logger.Warn("job failed, returning to queue",
					zap.String("job_id", job.ID.String()),
					zap.Int("retry_count", job.RetryCount),
					zap.Error(err),
				)
				if rerr := s.jobRepo.IncrementRetry(parentCtx, job.ID, err.Error()); rerr != nil {
					s.logger.Error("failed to requeue job", zap.String("job_id", job.ID.String()), zap.Error(rerr))
				}
			} else {
				s.logger.Error("job failed permanently",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
				if ferr := s.jobRepo.MarkFailed(parentCtx, job.ID, err.Error()); ferr != nil {
					s.logger.Error("failed to mark job failed", zap.String("job_id", job.ID.String()), zap.Error(ferr))
				}
			}
		}
	}
}

// processJob runs one claimed job end to end: analyze (with bounded retry
// against the model), persist, notify, mark completed.
func (s *analysisService) processJob(ctx context.Context, job *entities.AnalysisJob) error {
	req := job.Request.Data()
	result := s.analyzeWithRetry(ctx, req)

	meeting, tasks, err := s.persist(ctx, req, result)
	if err != nil {
		return err
	}
	s.notifyCritical(ctx, req, tasks)

	if err := s.jobRepo.MarkCompleted(ctx, job.ID, meeting.ID); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

// analyzeWithRetry is the background variant of Analyze: unlike the
// synchronous path it is allowed to retry transient model failures with
// exponential backoff before settling for the fallback extractor. It never
// fails.
func (s *analysisService) analyzeWithRetry(ctx context.Context, req entities.AnalysisRequest) *entities.AnalysisResult {
	key := requestDigest(req)
	if cached := s.cacheLookup(ctx, key); cached != nil {
		return cached
	}

	prompt, truncated := BuildPrompt(req, s.maxPromptChars)

	var result *entities.AnalysisResult
	op := func() error {
		raw, err := s.generator.GenerateContent(ctx, prompt)
		if err != nil {
			if jobcontext.IsRetryableError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		parsed, err := ParseAnalysis(raw)
		if err != nil {
			// A second call will likely produce garbage again.
			return backoff.Permanent(err)
		}
		result = parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		s.logger.Warn("model unavailable after retries, using fallback extractor", zap.Error(err))
		return s.extractor.Extract(req)
	}

	result.Truncated = truncated
	if truncated {
		result.Confidence = entities.ClampConfidence(result.Confidence * truncationPenalty)
	}
	s.cacheStore(ctx, key, result)
	return result
}

// staleJobWorker returns jobs stuck in processing to the pending queue so a
// crashed worker cannot strand them forever.
func (s *analysisService) staleJobWorker(ctx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return
		case <-ticker.C:
			n, err := s.jobRepo.ResetStale(ctx, 10)
			if err != nil {
				s.logger.Error("stale job cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Warn("reset stale jobs to pending", zap.Int64("count", n))
			}
		}
	}
}
