package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// MeetingFilters narrows meeting listings.
type MeetingFilters struct {
	ProjectID   *uuid.UUID
	MeetingType string
	Source      string
	Limit       int
	Offset      int
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	FindOrCreate(ctx context.Context, name, client string) (*entities.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	List(ctx context.Context) ([]entities.Project, error)
}

// MeetingRepository persists analyzed meetings.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	List(ctx context.Context, filters MeetingFilters) ([]entities.Meeting, int64, error)
}
