package jobs

import (
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/google/uuid"
)

func DownloadJob(asset *models.Asset) models.DownloadJob {
	job := models.DownloadJob{AssetID: asset.AssetID}
	if asset.SourceURL != nil {
		job.SourceURL = *asset.SourceURL
	}
	return job
}

func ValidateJob(assetID uuid.UUID) models.ValidateJob {
	return models.ValidateJob{AssetID: assetID}
}

func ProcessingJob(file *models.File) models.ProcessingJob {
	return models.ProcessingJob{
		AssetID: file.AssetID,
		FileID:  file.FileID,
		Height:  file.Height,
		Width:   file.Width,
	}
}

func ThumbnailJob(file *models.File) models.ThumbnailJob {
	return models.ThumbnailJob{AssetID: file.AssetID, FileID: file.FileID}
}

func UploadJob(file *models.File) models.UploadJob {
	return models.UploadJob{
		AssetID: file.AssetID,
		FileID:  file.FileID,
		Height:  file.Height,
		Width:   file.Width,
		Type:    file.Type,
		Name:    file.Name,
	}
}
