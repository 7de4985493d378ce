package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	domainrepo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// ProjectRepository handles project data operations
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindOrCreate returns the project with the given name/client pair, creating
// it on first sight. Relies on the unique index to stay race-free: a losing
// insert falls back to a second lookup.
func (r *ProjectRepository) FindOrCreate(ctx context.Context, name, client string) (*entities.Project, error) {
	var project entities.Project
	err := r.db.WithContext(ctx).
		Where("name = ? AND client = ?", name, client).
		First(&project).Error
	if err == nil {
		return &project, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := entities.NewProject(name, client)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// Concurrent insert won the unique index; re-read.
		var existing entities.Project
		if ferr := r.db.WithContext(ctx).
			Where("name = ? AND client = ?", name, client).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return created, nil
}

// FindByID retrieves a project by ID
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	var project entities.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List retrieves all projects
func (r *ProjectRepository) List(ctx context.Context) ([]entities.Project, error) {
	var projects []entities.Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create stores a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// List retrieves meetings matching the filters, newest first, with the total
// count before pagination.
func (r *MeetingRepository) List(ctx context.Context, filters domainrepo.MeetingFilters) ([]entities.Meeting, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Meeting{})

	if filters.ProjectID != nil {
		query = query.Where("project_id = ?", *filters.ProjectID)
	}
	if filters.MeetingType != "" {
		query = query.Where("meeting_type = ?", filters.MeetingType)
	}
	if filters.Source != "" {
		query = query.Where("source = ?", filters.Source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var meetings []entities.Meeting
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&meetings).Error; err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}
