package assets

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
)

type UseCase interface {
	Create(ctx context.Context, input *models.CreateAssetInput) (*models.Asset, error)
	CreateFromUpload(ctx context.Context, input *models.CreateAssetFromUploadInput) (*models.UploadTicket, error)
	CompleteUpload(ctx context.Context, assetID uuid.UUID, sourcePath string) (*models.Asset, error)

	UpdateStatus(ctx context.Context, assetID uuid.UUID, status models.AssetStatus, details string) (bool, error)
	UpdateMetadata(ctx context.Context, assetID uuid.UUID, meta *models.AssetMetadata) (bool, error)
	CheckReady(ctx context.Context, assetID uuid.UUID) error
	CheckFailed(ctx context.Context, assetID uuid.UUID) error
	UpdateMasterManifestVersion(ctx context.Context, assetID uuid.UUID) error

	GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.AssetList, error)
	Files(ctx context.Context, assetID uuid.UUID) ([]*models.File, error)
	SoftDelete(ctx context.Context, assetID uuid.UUID) error
	GetPlaybackURL(ctx context.Context, assetID uuid.UUID) (*models.PlaybackURL, error)
}
