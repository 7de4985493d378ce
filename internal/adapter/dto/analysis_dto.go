package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// AnalyzeRequest is the payload for synchronous transcript analysis.
type AnalyzeRequest struct {
	Transcript  string `json:"transcript" validate:"required,min=1"`
	ClientName  string `json:"client_name,omitempty" validate:"omitempty,max=255"`
	ProjectName string `json:"project_name,omitempty" validate:"omitempty,max=255"`
	MeetingType string `json:"meeting_type,omitempty" validate:"omitempty,max=100"`
	// Store persists the analysis as a meeting with task assignments.
	Store bool `json:"store,omitempty"`
}

// ToEntity converts the request DTO to the domain request.
func (r AnalyzeRequest) ToEntity() entities.AnalysisRequest {
	return entities.AnalysisRequest{
		Transcript:  r.Transcript,
		ClientName:  r.ClientName,
		ProjectName: r.ProjectName,
		MeetingType: r.MeetingType,
	}
}

// AnalyzeResponse wraps an analysis result with optional persistence info.
type AnalyzeResponse struct {
	Result    *entities.AnalysisResult `json:"result"`
	MeetingID *uuid.UUID               `json:"meeting_id,omitempty"`
	TaskIDs   []uuid.UUID              `json:"task_ids,omitempty"`
}

// EnqueueAnalysisRequest is the payload for queuing a background analysis.
type EnqueueAnalysisRequest struct {
	Transcript  string `json:"transcript" validate:"required,min=1"`
	ClientName  string `json:"client_name,omitempty" validate:"omitempty,max=255"`
	ProjectName string `json:"project_name,omitempty" validate:"omitempty,max=255"`
	MeetingType string `json:"meeting_type,omitempty" validate:"omitempty,max=100"`
}

// ToEntity converts the request DTO to the domain request.
func (r EnqueueAnalysisRequest) ToEntity() entities.AnalysisRequest {
	return entities.AnalysisRequest{
		Transcript:  r.Transcript,
		ClientName:  r.ClientName,
		ProjectName: r.ProjectName,
		MeetingType: r.MeetingType,
	}
}

// AnalysisJobResponse is the wire shape of a queued job.
type AnalysisJobResponse struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	MeetingID   *uuid.UUID `json:"meeting_id,omitempty"`
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewAnalysisJobResponse maps a job entity onto the wire shape.
func NewAnalysisJobResponse(job *entities.AnalysisJob) AnalysisJobResponse {
	resp := AnalysisJobResponse{
		ID:          job.ID,
		Status:      string(job.Status),
		MeetingID:   job.MeetingID,
		RetryCount:  job.RetryCount,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.LastError != nil {
		resp.LastError = *job.LastError
	}
	return resp
}

// AssistantRequest is the payload for the Q&A endpoint.
type AssistantRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
	Context  string `json:"context,omitempty" validate:"omitempty,max=50000"`
}

// AssistantResponse carries the assistant's answer.
type AssistantResponse struct {
	Answer string `json:"answer"`
}

// UpdateTaskStatusRequest is the payload for task status transitions.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// UploadResponse is returned after a transcript file upload.
type UploadResponse struct {
	Filename   string `json:"filename"`
	Transcript string `json:"transcript"`
	Chars      int    `json:"chars"`
}

// ListMeetingsResponse wraps a meeting page with its total.
type ListMeetingsResponse struct {
	Meetings []entities.Meeting `json:"meetings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
