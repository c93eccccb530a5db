package http

import (
	"net/http"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cleanup"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cronjobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/reconcile"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/labstack/echo/v4"
)

type cronHandlers struct {
	reconcileUC reconcile.UseCase
	cleanupUC   cleanup.UseCase
	logger      logger.Logger
}

func NewCronHandlers(reconcileUC reconcile.UseCase, cleanupUC cleanup.UseCase, logger logger.Logger) cronjobs.Handlers {
	return &cronHandlers{reconcileUC: reconcileUC, cleanupUC: cleanupUC, logger: logger}
}

func (h *cronHandlers) VerifyJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		h.logger.Infof("verify-jobs triggered RequestID: %s", utils.GetRequestID(c))
		result, err := h.reconcileUC.VerifyAndRepublish(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (h *cronHandlers) CleanupDevice() echo.HandlerFunc {
	return func(c echo.Context) error {
		h.logger.Infof("cleanup-device triggered RequestID: %s", utils.GetRequestID(c))
		if _, err := h.cleanupUC.CleanupDevice(c.Request().Context()); err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Cleanup completed"})
	}
}
