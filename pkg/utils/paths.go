package utils

import (
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

func AssetDir(root string, assetID uuid.UUID) string {
	return filepath.Join(root, assetID.String())
}

func RenditionDir(root string, assetID uuid.UUID, height int) string {
	return filepath.Join(root, assetID.String(), strconv.Itoa(height))
}

func SourceVideoPath(root string, assetID uuid.UUID) string {
	return filepath.Join(root, assetID.String(), assetID.String()+".mp4")
}

func ThumbnailPath(root string, assetID uuid.UUID) string {
	return filepath.Join(root, assetID.String(), "thumbnail.png")
}

const (
	MainManifestFileName = "main.m3u8"
	ThumbnailFileName    = "thumbnail.png"
	SourceFileName       = "download.mp4"
)

func PlaylistFileName(height int) string {
	return strconv.Itoa(height) + ".m3u8"
}
