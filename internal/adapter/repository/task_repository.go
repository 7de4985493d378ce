package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// TaskRepository handles task assignment data operations
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateBatch stores a batch of task assignments in one insert
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []*entities.TaskAssignment) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(tasks).Error
}

// FindByID retrieves a task assignment by ID
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.TaskAssignment, error) {
	var task entities.TaskAssignment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByMeetingID retrieves all task assignments for a meeting
func (r *TaskRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.TaskAssignment, error) {
	var tasks []entities.TaskAssignment
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus updates the status of a task assignment
func (r *TaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.TaskAssignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrTaskNotFound
	}
	return nil
}
