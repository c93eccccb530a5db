package http

import (
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/labstack/echo/v4"
)

func MapAssetsRoutes(assetsGroup *echo.Group, h assets.Handlers) {
	assetsGroup.POST("", h.Create())
	assetsGroup.POST("/upload", h.CreateFromUpload())
	assetsGroup.GET("", h.List())
	assetsGroup.GET("/:asset_id", h.GetByID())
	assetsGroup.DELETE("/:asset_id", h.Delete())
	assetsGroup.POST("/:asset_id/upload-complete", h.CompleteUpload())
	assetsGroup.GET("/:asset_id/files", h.Files())
	assetsGroup.GET("/:asset_id/playback-url", h.GetPlaybackURL())
}
