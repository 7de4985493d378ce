package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// AnalysisJobRepository persists queued analysis jobs.
type AnalysisJobRepository interface {
	Create(ctx context.Context, job *entities.AnalysisJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error)
	FindByStatus(ctx context.Context, status entities.AnalysisJobStatus, limit int) ([]entities.AnalysisJob, error)
	// Claim atomically transitions a job from pending to processing.
	// Returns false when another worker already claimed it.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	// ResetStale returns processing jobs older than the cutoff to pending.
	ResetStale(ctx context.Context, olderThanMinutes int) (int64, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, meetingID uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	IncrementRetry(ctx context.Context, id uuid.UUID, errMsg string) error
}
