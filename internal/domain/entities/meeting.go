package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project groups meetings for one client engagement.
type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_name_client"`
	Client    string    `json:"client" gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_name_client"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new Project entity
func NewProject(name, client string) *Project {
	return &Project{
		ID:     uuid.New(),
		Name:   name,
		Client: client,
	}
}

// Meeting stores one analyzed transcript together with its analysis result.
type Meeting struct {
	ID          uuid.UUID                              `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID   uuid.UUID                              `json:"project_id" gorm:"type:uuid;not null;index"`
	MeetingType string                                 `json:"meeting_type" gorm:"type:varchar(100);default:'General'"`
	Transcript  string                                 `json:"transcript" gorm:"type:text;not null"`
	Summary     string                                 `json:"summary" gorm:"type:text"`
	Mood        string                                 `json:"mood" gorm:"type:varchar(20)"`
	Analysis    datatypes.JSONType[AnalysisResult]     `json:"analysis" gorm:"type:jsonb"`
	Source      string                                 `json:"source" gorm:"type:varchar(20)"`
	Confidence  float64                                `json:"confidence"`
	Metadata    datatypes.JSONType[map[string]string]  `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time                              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time                              `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new Meeting entity from an analyzed request.
func NewMeeting(projectID uuid.UUID, req AnalysisRequest, result AnalysisResult) *Meeting {
	return &Meeting{
		ID:          uuid.New(),
		ProjectID:   projectID,
		MeetingType: req.Type(),
		Transcript:  req.Transcript,
		Summary:     result.Summary,
		Mood:        string(result.Mood),
		Analysis:    datatypes.NewJSONType(result),
		Source:      string(result.Source),
		Confidence:  result.Confidence,
	}
}

// TaskStatus constants
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// TaskAssignment is one persisted action item from a meeting analysis.
type TaskAssignment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	ProjectID   uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Assignee    string    `json:"assignee" gorm:"type:varchar(255);default:'Unassigned'"`
	Priority    string    `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	DueHint     string    `json:"due_hint,omitempty" gorm:"type:varchar(255)"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for TaskAssignment
func (TaskAssignment) TableName() string {
	return "task_assignments"
}

// NewTaskAssignment creates a TaskAssignment from an extracted action item.
func NewTaskAssignment(meetingID, projectID uuid.UUID, item ActionItem) *TaskAssignment {
	return &TaskAssignment{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		ProjectID:   projectID,
		Description: item.Description,
		Assignee:    item.Assignee,
		Priority:    string(item.Priority),
		Status:      TaskStatusPending,
		DueHint:     item.DueHint,
		Confidence:  item.Confidence,
	}
}
