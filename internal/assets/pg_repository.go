package assets

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, asset *models.Asset, details string) (*models.Asset, error)
	GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error)
	GetState(ctx context.Context, assetID uuid.UUID) (*models.Asset, error)
	StatusLogs(ctx context.Context, assetID uuid.UUID) ([]models.StatusLog, error)
	List(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.AssetList, error)
	UpdateStatus(ctx context.Context, assetID uuid.UUID, to models.AssetStatus, from []models.AssetStatus, details string) (*models.Asset, error)
	SetJobID(ctx context.Context, assetID uuid.UUID, jobID string) error
	SetSourceURL(ctx context.Context, assetID uuid.UUID, sourceURL string) (bool, error)
	UpdateMetadata(ctx context.Context, assetID uuid.UUID, meta *models.AssetMetadata) (*models.Asset, error)
	UpdateMasterManifestVersion(ctx context.Context, assetID uuid.UUID, version int) (bool, error)
	SoftDelete(ctx context.Context, assetID uuid.UUID) error
}
