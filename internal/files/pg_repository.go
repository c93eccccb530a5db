package files

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, file *models.File, details string) (*models.File, error)
	GetByID(ctx context.Context, fileID uuid.UUID) (*models.File, error)
	StatusLogs(ctx context.Context, fileID uuid.UUID) ([]models.StatusLog, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*models.File, error)
	ListInFlight(ctx context.Context) ([]*models.File, error)
	SetJobID(ctx context.Context, fileID uuid.UUID, jobID string) error
	UpdateStatus(ctx context.Context, fileID uuid.UUID, to models.FileStatus, from []models.FileStatus, details string, size *int64) (*models.File, error)
	UpdateSize(ctx context.Context, fileID uuid.UUID, size int64) (bool, error)
	ResetForRepublish(ctx context.Context, fileID uuid.UUID, oldJobID, newJobID, details string) (bool, error)
	CountByStatus(ctx context.Context, assetID uuid.UUID) ([]models.FileStatusCount, error)
}
