package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jmoiron/sqlx"
)

type assetsRepo struct {
	db *sqlx.DB
}

func NewAssetsRepo(db *sqlx.DB) assets.Repository {
	return &assetsRepo{db: db}
}

func (r *assetsRepo) Create(ctx context.Context, asset *models.Asset, details string) (*models.Asset, error) {
	tags := asset.Tags
	if tags == nil {
		tags = models.Tags{}
	}
	created := &models.Asset{}
	if err := r.db.QueryRowxContext(
		ctx,
		createAssetQuery,
		asset.UserID,
		asset.Title,
		asset.Description,
		tags,
		asset.SourceURL,
		asset.Status,
		details,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return created, nil
}

func (r *assetsRepo) GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	asset := &models.Asset{}
	if err := r.db.QueryRowxContext(ctx, getAssetByIDQuery, assetID).StructScan(asset); err != nil {
		return nil, fmt.Errorf("failed to get asset by id: %w", err)
	}
	return asset, nil
}

// GetState reads the asset whether or not it has been soft deleted.
func (r *assetsRepo) GetState(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	asset := &models.Asset{}
	if err := r.db.QueryRowxContext(ctx, getAssetStateQuery, assetID).StructScan(asset); err != nil {
		return nil, fmt.Errorf("failed to get asset state: %w", err)
	}
	return asset, nil
}

func (r *assetsRepo) StatusLogs(ctx context.Context, assetID uuid.UUID) ([]models.StatusLog, error) {
	logs := make([]models.StatusLog, 0)
	if err := r.db.SelectContext(ctx, &logs, getAssetStatusLogsQuery, assetID); err != nil {
		return nil, fmt.Errorf("failed to get asset status logs: %w", err)
	}
	return logs, nil
}

func (r *assetsRepo) List(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.AssetList, error) {
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, getTotalAssetsByUserIDQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to get total assets count: %w", err)
	}
	list := &models.AssetList{
		Assets:     make([]*models.Asset, 0),
		TotalCount: totalCount,
		TotalPages: utils.GetTotalPages(totalCount, pq.GetLimit()),
		Page:       pq.Page,
		PageSize:   pq.Size,
		HasMore:    utils.GetHasMore(pq.Page, totalCount, pq.Size),
	}
	if totalCount == 0 {
		return list, nil
	}

	rows, err := r.db.QueryxContext(ctx, getAssetsByUserIDQuery, userID, pq.GetOffset(), pq.GetLimit())
	if err != nil {
		return nil, fmt.Errorf("failed to get assets by user id: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var asset models.Asset
		if err = rows.StructScan(&asset); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		list.Assets = append(list.Assets, &asset)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan assets: %w", err)
	}
	return list, nil
}

// UpdateStatus moves the asset to `to` only from one of the listed statuses and
// appends the log entry in the same statement. No matching row yields sql.ErrNoRows.
func (r *assetsRepo) UpdateStatus(
	ctx context.Context,
	assetID uuid.UUID,
	to models.AssetStatus,
	from []models.AssetStatus,
	details string,
) (*models.Asset, error) {
	values := make([]string, 0, len(from))
	for _, s := range from {
		values = append(values, string(s))
	}
	fromSet := &pgtype.TextArray{}
	if err := fromSet.Set(values); err != nil {
		return nil, fmt.Errorf("failed to encode statuses: %w", err)
	}

	updated := &models.Asset{}
	if err := r.db.QueryRowxContext(ctx, updateAssetStatusQuery, assetID, to, fromSet, details).StructScan(updated); err != nil {
		return nil, fmt.Errorf("failed to update asset status: %w", err)
	}
	return updated, nil
}

func (r *assetsRepo) SetJobID(ctx context.Context, assetID uuid.UUID, jobID string) error {
	res, err := r.db.ExecContext(ctx, setAssetJobIDQuery, assetID, jobID)
	if err != nil {
		return fmt.Errorf("failed to set asset job id: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to set asset job id: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *assetsRepo) SetSourceURL(ctx context.Context, assetID uuid.UUID, sourceURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx, setAssetSourceURLQuery, assetID, sourceURL)
	if err != nil {
		return false, fmt.Errorf("failed to set asset source url: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to set asset source url: %w", err)
	}
	return n > 0, nil
}

func (r *assetsRepo) UpdateMetadata(ctx context.Context, assetID uuid.UUID, meta *models.AssetMetadata) (*models.Asset, error) {
	updated := &models.Asset{}
	if err := r.db.QueryRowxContext(
		ctx,
		updateAssetMetadataQuery,
		assetID,
		meta.Size,
		meta.Height,
		meta.Width,
		meta.Duration,
	).StructScan(updated); err != nil {
		return nil, fmt.Errorf("failed to update asset metadata: %w", err)
	}
	return updated, nil
}

// UpdateMasterManifestVersion only ever raises the stored version.
func (r *assetsRepo) UpdateMasterManifestVersion(ctx context.Context, assetID uuid.UUID, version int) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateMasterManifestVersionQuery, assetID, version)
	if err != nil {
		return false, fmt.Errorf("failed to update master manifest version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update master manifest version: %w", err)
	}
	return n > 0, nil
}

func (r *assetsRepo) SoftDelete(ctx context.Context, assetID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, softDeleteAssetQuery, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to delete asset: %w", sql.ErrNoRows)
	}
	return nil
}
