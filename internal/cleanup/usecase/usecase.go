package usecase

import (
	"context"
	"database/sql"
	"os"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cleanup"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/metrics"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/disk"
)

type cleanupUC struct {
	root         string
	minFreeBytes uint64
	assetsRepo   assets.Repository
	filesRepo    files.Repository
	logger       logger.Logger
}

func NewCleanupUseCase(cfg *config.Config, assetsRepo assets.Repository, filesRepo files.Repository, logger logger.Logger) cleanup.UseCase {
	return &cleanupUC{
		root:         cfg.Storage.LocalRoot,
		minFreeBytes: cfg.Storage.MinFreeBytes,
		assetsRepo:   assetsRepo,
		filesRepo:    filesRepo,
		logger:       logger,
	}
}

// CleanupDevice removes every asset directory under the local root whose asset
// no longer needs it.
func (u *cleanupUC) CleanupDevice(ctx context.Context) (int, error) {
	u.logDiskUsage("before cleanup")

	entries, err := os.ReadDir(u.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		u.logger.Errorf("CleanupDevice - read %s error: %v", u.root, err)
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if !entry.IsDir() {
			continue
		}
		assetID, err := uuid.Parse(entry.Name())
		if err != nil {
			u.logger.Debugf("CleanupDevice - skipping %s: not an asset directory", entry.Name())
			continue
		}
		done, err := u.isDone(ctx, assetID)
		if err != nil {
			u.logger.Errorf("CleanupDevice - inspect asset %s error: %v", assetID, err)
			continue
		}
		if done && u.removeDir(utils.AssetDir(u.root, assetID)) {
			removed++
		}
	}

	u.logDiskUsage("after cleanup")
	u.logger.Infof("CleanupDevice - removed %d directories", removed)
	return removed, nil
}

// isDone reports whether no pending work can still need the asset's directory.
func (u *cleanupUC) isDone(ctx context.Context, assetID uuid.UUID) (bool, error) {
	asset, err := u.assetsRepo.GetState(ctx, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, err
	}
	if asset.IsDeleted {
		return true, nil
	}
	switch asset.Status {
	case models.AssetStatusReady:
		return true, nil
	case models.AssetStatusProcessing:
		rows, err := u.filesRepo.CountByStatus(ctx, assetID)
		if err != nil {
			return false, err
		}
		return models.NewFileCounts(rows).InFlight == 0, nil
	}
	return false, nil
}

func (u *cleanupUC) PurgeAsset(assetID uuid.UUID) {
	u.removeDir(utils.AssetDir(u.root, assetID))
}

func (u *cleanupUC) PurgeFile(assetID uuid.UUID, height int) {
	u.removeDir(utils.RenditionDir(u.root, assetID, height))
}

func (u *cleanupUC) PurgeAssetIfDone(ctx context.Context, assetID uuid.UUID) {
	done, err := u.isDone(ctx, assetID)
	if err != nil {
		u.logger.Errorf("PurgeAssetIfDone - asset %s error: %v", assetID, err)
		return
	}
	if done {
		u.PurgeAsset(assetID)
	}
}

func (u *cleanupUC) removeDir(dir string) bool {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return false
	}
	if err := os.RemoveAll(dir); err != nil {
		u.logger.Errorf("removeDir - %s error: %v", dir, err)
		return false
	}
	metrics.DirectoriesRemovedTotal.Inc()
	u.logger.Infof("removeDir - removed %s", dir)
	return true
}

func (u *cleanupUC) logDiskUsage(stage string) {
	usage, err := disk.Usage(u.root)
	if err != nil {
		u.logger.Debugf("logDiskUsage - %s: %v", u.root, err)
		return
	}
	u.logger.Infof("Disk usage %s: free=%d total=%d used=%.2f%%", stage, usage.Free, usage.Total, usage.UsedPercent)
	if u.minFreeBytes > 0 && usage.Free < u.minFreeBytes {
		u.logger.Warnf("Disk usage %s: free space %d below threshold %d", stage, usage.Free, u.minFreeBytes)
	}
}
