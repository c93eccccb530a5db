package http

import (
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cronjobs"
	"github.com/labstack/echo/v4"
)

func MapCronRoutes(cronGroup *echo.Group, h cronjobs.Handlers) {
	cronGroup.POST("/verify-jobs", h.VerifyJobs())
	cronGroup.POST("/cleanup-device", h.CleanupDevice())
}
