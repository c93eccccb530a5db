package files

import (
	"context"
	"errors"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/google/uuid"
)

// ErrFileExists is returned by Create when the asset already owns a file of
// the same type and height.
var ErrFileExists = errors.New("file already exists")

// AssetHooks is the slice of the asset lifecycle a file completion drives.
type AssetHooks interface {
	CheckReady(ctx context.Context, assetID uuid.UUID) error
	CheckFailed(ctx context.Context, assetID uuid.UUID) error
	UpdateMasterManifestVersion(ctx context.Context, assetID uuid.UUID) error
}

type UseCase interface {
	RegisterAssetHooks(hooks AssetHooks)
	Create(ctx context.Context, file *models.File) (*models.File, error)
	UpdateFileStatus(ctx context.Context, fileID uuid.UUID, status models.FileStatus, details string, size *int64) (bool, error)
	GetByID(ctx context.Context, fileID uuid.UUID) (*models.File, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*models.File, error)
	ListInFlight(ctx context.Context) ([]*models.File, error)
	ResetForRepublish(ctx context.Context, file *models.File, oldJobID, newJobID string) (bool, error)
	Counts(ctx context.Context, assetID uuid.UUID) (models.FileCounts, error)
}
