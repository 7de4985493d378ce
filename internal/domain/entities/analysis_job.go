package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnalysisJobStatus represents the status of a queued analysis job
type AnalysisJobStatus string

const (
	AnalysisJobStatusPending    AnalysisJobStatus = "pending"    // Waiting to be picked up by a worker
	AnalysisJobStatusProcessing AnalysisJobStatus = "processing" // A worker claimed the job and is running the pipeline
	AnalysisJobStatusCompleted  AnalysisJobStatus = "completed"  // Result stored
	AnalysisJobStatusFailed     AnalysisJobStatus = "failed"     // Gave up after max retries
)

// AnalysisJob represents a queued transcript analysis. The request payload is
// stored inline so a worker can run the pipeline without extra lookups.
type AnalysisJob struct {
	ID        uuid.UUID                           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Status    AnalysisJobStatus                   `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	Request   datatypes.JSONType[AnalysisRequest] `json:"request" gorm:"type:jsonb;not null"`
	MeetingID *uuid.UUID                          `json:"meeting_id,omitempty" gorm:"type:uuid;index"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}

// NewAnalysisJob creates a pending analysis job for a request.
func NewAnalysisJob(req AnalysisRequest) *AnalysisJob {
	return &AnalysisJob{
		ID:         uuid.New(),
		Status:     AnalysisJobStatusPending,
		Request:    datatypes.NewJSONType(req),
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// IsRetryable checks if job can be retried
func (j *AnalysisJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// MarkAsProcessing marks job as claimed by a worker
func (j *AnalysisJob) MarkAsProcessing() {
	j.Status = AnalysisJobStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks job as completed with the stored meeting
func (j *AnalysisJob) MarkAsCompleted(meetingID uuid.UUID) {
	j.Status = AnalysisJobStatusCompleted
	j.MeetingID = &meetingID
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks job as failed with error message
func (j *AnalysisJob) MarkAsFailed(errMsg string) {
	j.Status = AnalysisJobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}
