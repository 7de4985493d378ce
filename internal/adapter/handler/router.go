package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	analysisHandler *AnalysisController
	meetingHandler  *MeetingController
	uploadHandler   *UploadController
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, analysisHandler *AnalysisController, meetingHandler *MeetingController, uploadHandler *UploadController) *Router {
	return &Router{
		cfg:             cfg,
		analysisHandler: analysisHandler,
		meetingHandler:  meetingHandler,
		uploadHandler:   uploadHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAnalysisRoutes(v1)
	rt.setupMeetingRoutes(v1)
}

// setupAnalysisRoutes configures analysis and assistant routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	if rt.analysisHandler != nil {
		g.POST("/analyze", rt.analysisHandler.Analyze)
		g.POST("/analyses/jobs", rt.analysisHandler.EnqueueJob)
		g.GET("/analyses/jobs/:id", rt.analysisHandler.GetJob)
		g.POST("/assistant", rt.analysisHandler.Ask)
	} else {
		g.POST("/analyze", rt.notImplemented)
		g.POST("/analyses/jobs", rt.notImplemented)
		g.GET("/analyses/jobs/:id", rt.notImplemented)
		g.POST("/assistant", rt.notImplemented)
	}

	if rt.uploadHandler != nil {
		g.POST("/upload", rt.uploadHandler.Upload)
	} else {
		g.POST("/upload", rt.notImplemented)
	}
}

// setupMeetingRoutes configures meeting and task routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	if rt.meetingHandler != nil {
		g.GET("/meetings", rt.meetingHandler.ListMeetings)
		g.GET("/meetings/:id", rt.meetingHandler.GetMeeting)
		g.GET("/meetings/:id/tasks", rt.meetingHandler.GetMeetingTasks)
		g.PATCH("/tasks/:id", rt.meetingHandler.UpdateTaskStatus)
	} else {
		g.GET("/meetings", rt.notImplemented)
		g.GET("/meetings/:id", rt.notImplemented)
		g.GET("/meetings/:id/tasks", rt.notImplemented)
		g.PATCH("/tasks/:id", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
		"time":        time.Now().Format(time.RFC3339),
	})
}
