package entities

import "errors"

// Domain errors
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrJobNotFound      = errors.New("analysis job not found")
	ErrEmptyTranscript  = errors.New("transcript is empty")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrInvalidRequest   = errors.New("invalid request")
)
