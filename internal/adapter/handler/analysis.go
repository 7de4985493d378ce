package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
)

// AnalysisController handles transcript analysis endpoints
type AnalysisController struct {
	svc    analysis.Service
	logger *zap.Logger
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(svc analysis.Service, logger *zap.Logger) *AnalysisController {
	return &AnalysisController{svc: svc, logger: logger}
}

// Analyze runs the analysis pipeline synchronously and returns the result.
// With store=true the meeting and its tasks are persisted as well.
func (ac *AnalysisController) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ctx := c.Request().Context()

	if req.Store {
		meeting, tasks, err := ac.svc.AnalyzeAndStore(ctx, req.ToEntity())
		if err != nil {
			return HandleError(ac.logger, c, err)
		}
		result := meeting.Analysis.Data()
		resp := dto.AnalyzeResponse{
			Result:    &result,
			MeetingID: &meeting.ID,
		}
		for _, t := range tasks {
			resp.TaskIDs = append(resp.TaskIDs, t.ID)
		}
		return HandleSuccessWithStatus(ac.logger, c, http.StatusCreated, resp)
	}

	result, err := ac.svc.Analyze(ctx, req.ToEntity())
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, dto.AnalyzeResponse{Result: result})
}

// EnqueueJob queues a transcript for background analysis and returns 202.
func (ac *AnalysisController) EnqueueJob(c echo.Context) error {
	var req dto.EnqueueAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	job, err := ac.svc.EnqueueAnalysis(c.Request().Context(), req.ToEntity())
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccessWithStatus(ac.logger, c, http.StatusAccepted, dto.NewAnalysisJobResponse(job))
}

// GetJob returns the state of a queued analysis job.
func (ac *AnalysisController) GetJob(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidArgument("invalid job ID"))
	}

	job, err := ac.svc.GetJob(c.Request().Context(), id)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, dto.NewAnalysisJobResponse(job))
}

// Ask answers a free-form question about meetings.
func (ac *AnalysisController) Ask(c echo.Context) error {
	var req dto.AssistantRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	answer, err := ac.svc.Ask(c.Request().Context(), req.Question, req.Context)
	if err != nil {
		return HandleError(ac.logger, c, err)
	}
	return HandleSuccess(ac.logger, c, dto.AssistantResponse{Answer: answer})
}
