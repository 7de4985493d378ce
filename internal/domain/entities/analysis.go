package entities

import "strings"

// Mood is the overall sentiment of a meeting.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// NormalizeMood maps a free-form mood label onto the closed set.
// Unrecognized values map to neutral instead of failing the result.
func NormalizeMood(s string) Mood {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return MoodPositive
	case "negative":
		return MoodNegative
	default:
		return MoodNeutral
	}
}

// Priority is the urgency level of an action item.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// NormalizePriority maps a free-form priority label onto the closed set.
// "urgent" is treated as critical since the model sometimes uses it.
// Unrecognized or absent values default to medium.
func NormalizePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "urgent":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// AnalysisSource tags how an AnalysisResult was produced.
type AnalysisSource string

const (
	SourceAI       AnalysisSource = "ai"
	SourceFallback AnalysisSource = "fallback"
)

// UnassignedOwner is the assignee placeholder when no owner could be determined.
const UnassignedOwner = "Unassigned"

// DefaultMeetingType is used when the caller leaves the meeting type blank.
const DefaultMeetingType = "General"

// AnalysisRequest is the input to one analysis call. It is immutable once
// constructed and owned by the caller for the duration of the call.
type AnalysisRequest struct {
	Transcript  string `json:"transcript"`
	ClientName  string `json:"client_name,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	MeetingType string `json:"meeting_type,omitempty"`
}

// Type returns the meeting type, defaulting when unset.
func (r AnalysisRequest) Type() string {
	if strings.TrimSpace(r.MeetingType) == "" {
		return DefaultMeetingType
	}
	return r.MeetingType
}

// ActionItem is a task extracted from the transcript.
type ActionItem struct {
	Description string   `json:"description"`
	Assignee    string   `json:"assignee"`
	Priority    Priority `json:"priority"`
	DueHint     string   `json:"due_hint,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// AnalysisResult is the structured output of one analysis call. Every field
// is always populated: missing data from the model is replaced with safe
// defaults rather than propagated as nil.
type AnalysisResult struct {
	Summary           string         `json:"summary"`
	Mood              Mood           `json:"mood"`
	MoodJustification string         `json:"mood_justification,omitempty"`
	ActionItems       []ActionItem   `json:"action_items"`
	Decisions         []string       `json:"decisions"`
	NextSteps         []string       `json:"next_steps"`
	Confidence        float64        `json:"confidence"`
	Source            AnalysisSource `json:"source"`
	Truncated         bool           `json:"truncated,omitempty"`
}

// EnsurePopulated replaces nil collections and zero-value enums so callers
// never observe an absent field.
func (r *AnalysisResult) EnsurePopulated() {
	if r.ActionItems == nil {
		r.ActionItems = make([]ActionItem, 0)
	}
	if r.Decisions == nil {
		r.Decisions = make([]string, 0)
	}
	if r.NextSteps == nil {
		r.NextSteps = make([]string, 0)
	}
	if r.Mood == "" {
		r.Mood = MoodNeutral
	}
	for i := range r.ActionItems {
		if r.ActionItems[i].Priority == "" {
			r.ActionItems[i].Priority = PriorityMedium
		}
		if strings.TrimSpace(r.ActionItems[i].Assignee) == "" {
			r.ActionItems[i].Assignee = UnassignedOwner
		}
	}
}

// ClampConfidence forces a confidence score into [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
