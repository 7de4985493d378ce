package handler

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto"
	domainrepo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// MeetingController handles meeting and task retrieval endpoints
type MeetingController struct {
	meetingRepo domainrepo.MeetingRepository
	taskRepo    domainrepo.TaskRepository
	logger      *zap.Logger
}

// NewMeetingController creates a new meeting controller
func NewMeetingController(meetingRepo domainrepo.MeetingRepository, taskRepo domainrepo.TaskRepository, logger *zap.Logger) *MeetingController {
	return &MeetingController{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

// ListMeetings returns analyzed meetings, newest first, with optional
// project/type/source filters and page/page_size pagination.
func (mc *MeetingController) ListMeetings(c echo.Context) error {
	filters := domainrepo.MeetingFilters{
		MeetingType: c.QueryParam("meeting_type"),
		Source:      c.QueryParam("source"),
	}

	if raw := c.QueryParam("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(mc.logger, c, errors.ErrInvalidArgument("invalid project_id"))
		}
		filters.ProjectID = &projectID
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	filters.Limit = pageSize
	filters.Offset = (page - 1) * pageSize

	meetings, total, err := mc.meetingRepo.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(mc.logger, c, err)
	}

	return HandleSuccess(mc.logger, c, dto.ListMeetingsResponse{
		Meetings: meetings,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetMeeting returns one meeting with its full analysis.
func (mc *MeetingController) GetMeeting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(mc.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	meeting, err := mc.meetingRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(mc.logger, c, err)
	}
	return HandleSuccess(mc.logger, c, meeting)
}

// GetMeetingTasks returns the task assignments extracted from a meeting.
func (mc *MeetingController) GetMeetingTasks(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(mc.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	ctx := c.Request().Context()
	if _, err := mc.meetingRepo.FindByID(ctx, id); err != nil {
		return HandleError(mc.logger, c, err)
	}

	tasks, err := mc.taskRepo.FindByMeetingID(ctx, id)
	if err != nil {
		return HandleError(mc.logger, c, err)
	}
	return HandleSuccess(mc.logger, c, tasks)
}

// UpdateTaskStatus transitions a task assignment through its lifecycle.
func (mc *MeetingController) UpdateTaskStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(mc.logger, c, errors.ErrInvalidArgument("invalid task ID"))
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(mc.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(mc.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ctx := c.Request().Context()
	if err := mc.taskRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return HandleError(mc.logger, c, err)
	}

	task, err := mc.taskRepo.FindByID(ctx, id)
	if err != nil {
		return HandleError(mc.logger, c, err)
	}
	return HandleSuccess(mc.logger, c, task)
}
