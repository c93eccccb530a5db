package usecase

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cleanup"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// allowed predecessors of each target status
var fileTransitions = map[models.FileStatus][]models.FileStatus{
	models.FileStatusProcessing: {models.FileStatusQueued},
	models.FileStatusReady:      {models.FileStatusQueued, models.FileStatusProcessing},
	models.FileStatusFailed:     {models.FileStatusQueued, models.FileStatusProcessing},
}

type filesUC struct {
	pgRepo    files.Repository
	router    jobs.Router
	reclaimer cleanup.UseCase
	hooks     files.AssetHooks
	logger    logger.Logger
}

func NewFilesUseCase(pgRepo files.Repository, router jobs.Router, reclaimer cleanup.UseCase, logger logger.Logger) files.UseCase {
	return &filesUC{
		pgRepo:    pgRepo,
		router:    router,
		reclaimer: reclaimer,
		logger:    logger,
	}
}

// RegisterAssetHooks closes the loop with the asset lifecycle, which is
// built after the file lifecycle it depends on.
func (u *filesUC) RegisterAssetHooks(hooks files.AssetHooks) {
	u.hooks = hooks
}

func (u *filesUC) Create(ctx context.Context, file *models.File) (*models.File, error) {
	created, err := u.pgRepo.Create(ctx, file, queuedDetails(file.Type))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u.logger.Infof("Create - %s file for asset %s height %d already exists", file.Type, file.AssetID, file.Height)
			return nil, files.ErrFileExists
		}
		u.logger.Errorf("Create - insert error: %v", err)
		return nil, err
	}

	jobID, err := u.router.PublishForFile(ctx, created)
	if err != nil {
		u.logger.Errorf("Create - publish job for file %s error: %v", created.FileID, err)
		u.failAfterCreate(ctx, created, fmt.Sprintf("Failed to publish job: %v", err))
		return created, nil
	}

	if err := u.pgRepo.SetJobID(ctx, created.FileID, jobID); err != nil {
		u.logger.Errorf("Create - persist job id for file %s error: %v", created.FileID, err)
		u.failAfterCreate(ctx, created, fmt.Sprintf("Failed to record job %s: %v", jobID, err))
		return created, nil
	}
	created.JobID = &jobID
	return created, nil
}

func (u *filesUC) failAfterCreate(ctx context.Context, file *models.File, details string) {
	if _, err := u.UpdateFileStatus(ctx, file.FileID, models.FileStatusFailed, details, nil); err != nil {
		u.logger.Errorf("Create - mark file %s failed error: %v", file.FileID, err)
		return
	}
	file.Status = models.FileStatusFailed
}

func queuedDetails(t models.FileType) string {
	switch t {
	case models.FileTypeThumbnail:
		return "Thumbnail queued for processing"
	case models.FileTypeSource:
		return "Source file queued for uploading"
	}
	return "File queued for processing"
}

func (u *filesUC) UpdateFileStatus(ctx context.Context, fileID uuid.UUID, status models.FileStatus, details string, size *int64) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: file status %q", httpErrors.ErrBadRequest, status)
	}

	current, err := u.pgRepo.GetByID(ctx, fileID)
	if err != nil {
		u.logger.Errorf("UpdateFileStatus - GetByID error: %v", err)
		return false, err
	}

	if current.Status == status {
		if size == nil || current.Type == models.FileTypeSource || *size == current.Size {
			return false, nil
		}
		changed, err := u.pgRepo.UpdateSize(ctx, fileID, *size)
		if err != nil {
			u.logger.Errorf("UpdateFileStatus - UpdateSize error: %v", err)
			return false, err
		}
		return changed, nil
	}

	updated, err := u.pgRepo.UpdateStatus(ctx, fileID, status, fileTransitions[status], details, size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u.logger.Infof("UpdateFileStatus - file %s: %s -> %s rejected", fileID, current.Status, status)
			return false, nil
		}
		u.logger.Errorf("UpdateFileStatus - UpdateStatus error: %v", err)
		return false, err
	}

	switch updated.Status {
	case models.FileStatusReady:
		u.onReady(ctx, updated)
	case models.FileStatusFailed:
		u.onFailed(ctx, updated)
	}
	return true, nil
}

func (u *filesUC) onReady(ctx context.Context, file *models.File) {
	if file.Type == models.FileTypePlaylist {
		u.reclaimer.PurgeFile(file.AssetID, file.Height)
		if u.hooks != nil {
			if err := u.hooks.UpdateMasterManifestVersion(ctx, file.AssetID); err != nil {
				u.logger.Errorf("onReady - UpdateMasterManifestVersion for asset %s error: %v", file.AssetID, err)
			}
		}
	}
	if u.hooks != nil {
		if err := u.hooks.CheckReady(ctx, file.AssetID); err != nil {
			u.logger.Errorf("onReady - CheckReady for asset %s error: %v", file.AssetID, err)
		}
	}
	u.reclaimer.PurgeAssetIfDone(ctx, file.AssetID)
}

func (u *filesUC) onFailed(ctx context.Context, file *models.File) {
	if u.hooks == nil {
		return
	}
	if err := u.hooks.CheckFailed(ctx, file.AssetID); err != nil {
		u.logger.Errorf("onFailed - CheckFailed for asset %s error: %v", file.AssetID, err)
	}
}

func (u *filesUC) GetByID(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	file, err := u.pgRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	logs, err := u.pgRepo.StatusLogs(ctx, fileID)
	if err != nil {
		u.logger.Errorf("GetByID - StatusLogs error: %v", err)
		return nil, err
	}
	file.StatusLogs = logs
	return file, nil
}

func (u *filesUC) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*models.File, error) {
	return u.pgRepo.ListByAsset(ctx, assetID)
}

func (u *filesUC) ListInFlight(ctx context.Context) ([]*models.File, error) {
	return u.pgRepo.ListInFlight(ctx)
}

func (u *filesUC) ResetForRepublish(ctx context.Context, file *models.File, oldJobID, newJobID string) (bool, error) {
	details := fmt.Sprintf("Job %s lost, republished as %s", oldJobID, newJobID)
	reset, err := u.pgRepo.ResetForRepublish(ctx, file.FileID, oldJobID, newJobID, details)
	if err != nil {
		u.logger.Errorf("ResetForRepublish - file %s error: %v", file.FileID, err)
		return false, err
	}
	return reset, nil
}

func (u *filesUC) Counts(ctx context.Context, assetID uuid.UUID) (models.FileCounts, error) {
	rows, err := u.pgRepo.CountByStatus(ctx, assetID)
	if err != nil {
		return models.FileCounts{}, err
	}
	return models.NewFileCounts(rows), nil
}
