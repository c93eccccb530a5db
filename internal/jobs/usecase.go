package jobs

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/google/uuid"
)

type Router interface {
	QueueFor(height int) string
	QueueForFile(file *models.File) (string, error)
	PublishDownload(ctx context.Context, asset *models.Asset) (string, error)
	PublishValidate(ctx context.Context, assetID uuid.UUID) (string, error)
	PublishForFile(ctx context.Context, file *models.File) (string, error)
	JobExists(ctx context.Context, file *models.File) (bool, error)
	PromoteDelayed(ctx context.Context) (int, error)
}
