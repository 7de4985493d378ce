package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// TaskRepository persists task assignments extracted from meetings.
type TaskRepository interface {
	CreateBatch(ctx context.Context, tasks []*entities.TaskAssignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.TaskAssignment, error)
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.TaskAssignment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
