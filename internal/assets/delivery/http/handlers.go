package http

import (
	"net/http"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type assetsHandlers struct {
	cfg      *config.Config
	assetsUC assets.UseCase
	logger   logger.Logger
}

func NewAssetsHandlers(cfg *config.Config, assetsUC assets.UseCase, logger logger.Logger) assets.Handlers {
	return &assetsHandlers{cfg: cfg, assetsUC: assetsUC, logger: logger}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, httpErrors.NewBadRequestError(msg))
}

func (h *assetsHandlers) errorResponse(c echo.Context, op string, err error) error {
	status, body := httpErrors.ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorf("%s RequestID: %s error: %v", op, utils.GetRequestID(c), err)
	}
	return c.JSON(status, body)
}

func assetIDParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("asset_id"))
}

func (h *assetsHandlers) Create() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.CreateAssetInput{}
		if err := c.Bind(input); err != nil {
			return badRequest(c, "Invalid request payload")
		}
		asset, err := h.assetsUC.Create(c.Request().Context(), input)
		if err != nil {
			return h.errorResponse(c, "assets.Create", err)
		}
		return c.JSON(http.StatusCreated, asset)
	}
}

func (h *assetsHandlers) CreateFromUpload() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.CreateAssetFromUploadInput{}
		if err := c.Bind(input); err != nil {
			return badRequest(c, "Invalid request payload")
		}
		ticket, err := h.assetsUC.CreateFromUpload(c.Request().Context(), input)
		if err != nil {
			return h.errorResponse(c, "assets.CreateFromUpload", err)
		}
		return c.JSON(http.StatusCreated, ticket)
	}
}

func (h *assetsHandlers) CompleteUpload() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID, err := assetIDParam(c)
		if err != nil {
			return badRequest(c, "Invalid asset id")
		}
		input := &models.UploadCompleteInput{}
		if err := utils.ReadRequest(c, input); err != nil {
			return badRequest(c, err.Error())
		}
		asset, err := h.assetsUC.CompleteUpload(c.Request().Context(), assetID, input.SourcePath)
		if err != nil {
			return h.errorResponse(c, "assets.CompleteUpload", err)
		}
		return c.JSON(http.StatusOK, asset)
	}
}

func (h *assetsHandlers) GetByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID, err := assetIDParam(c)
		if err != nil {
			return badRequest(c, "Invalid asset id")
		}
		asset, err := h.assetsUC.GetByID(c.Request().Context(), assetID)
		if err != nil {
			return h.errorResponse(c, "assets.GetByID", err)
		}
		return c.JSON(http.StatusOK, asset)
	}
}

func (h *assetsHandlers) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := uuid.Parse(c.QueryParam("user_id"))
		if err != nil {
			return badRequest(c, "user_id query param is required")
		}
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		list, err := h.assetsUC.List(c.Request().Context(), userID, pagination)
		if err != nil {
			return h.errorResponse(c, "assets.List", err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *assetsHandlers) Files() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID, err := assetIDParam(c)
		if err != nil {
			return badRequest(c, "Invalid asset id")
		}
		files, err := h.assetsUC.Files(c.Request().Context(), assetID)
		if err != nil {
			return h.errorResponse(c, "assets.Files", err)
		}
		return c.JSON(http.StatusOK, files)
	}
}

func (h *assetsHandlers) Delete() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID, err := assetIDParam(c)
		if err != nil {
			return badRequest(c, "Invalid asset id")
		}
		if err = h.assetsUC.SoftDelete(c.Request().Context(), assetID); err != nil {
			return h.errorResponse(c, "assets.Delete", err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Asset deleted successfully"})
	}
}

func (h *assetsHandlers) GetPlaybackURL() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID, err := assetIDParam(c)
		if err != nil {
			return badRequest(c, "Invalid asset id")
		}
		playback, err := h.assetsUC.GetPlaybackURL(c.Request().Context(), assetID)
		if err != nil {
			return h.errorResponse(c, "assets.GetPlaybackURL", err)
		}
		return c.JSON(http.StatusOK, playback)
	}
}
