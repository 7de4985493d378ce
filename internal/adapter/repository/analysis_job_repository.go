package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// AnalysisJobRepository handles analysis job data operations
type AnalysisJobRepository struct {
	db *gorm.DB
}

// NewAnalysisJobRepository creates a new analysis job repository
func NewAnalysisJobRepository(db *gorm.DB) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: db}
}

// Create creates a new analysis job
func (r *AnalysisJobRepository) Create(ctx context.Context, job *entities.AnalysisJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves an analysis job by ID
func (r *AnalysisJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error) {
	var job entities.AnalysisJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindByStatus retrieves jobs with a specific status, oldest first
func (r *AnalysisJobRepository) FindByStatus(ctx context.Context, status entities.AnalysisJobStatus, limit int) ([]entities.AnalysisJob, error) {
	var jobs []entities.AnalysisJob
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically transitions a job from pending to processing. Only one
// worker succeeds when several see the same pending job: the conditional
// update affects zero rows for the losers.
func (r *AnalysisJobRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ? AND status = ?", id, entities.AnalysisJobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.AnalysisJobStatusProcessing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ResetStale returns processing jobs older than the cutoff to pending so
// they can be claimed again after a worker crash.
func (r *AnalysisJobRepository) ResetStale(ctx context.Context, olderThanMinutes int) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	result := r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("status = ? AND started_at < ?", entities.AnalysisJobStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":     entities.AnalysisJobStatusPending,
			"last_error": fmt.Sprintf("reset after worker stall (started before %s)", cutoff.Format(time.RFC3339)),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// MarkCompleted marks a job as completed with the stored meeting ID
func (r *AnalysisJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, meetingID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.AnalysisJobStatusCompleted,
			"meeting_id":   meetingID,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed marks a job as failed with error message
func (r *AnalysisJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.AnalysisJobStatusFailed,
			"last_error": errMsg,
			"updated_at": time.Now(),
		}).Error
}

// IncrementRetry returns a failed attempt to the pending queue and bumps the
// retry counter.
func (r *AnalysisJobRepository) IncrementRetry(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      entities.AnalysisJobStatusPending,
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  errMsg,
			"updated_at":  time.Now(),
		}).Error
}
