package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cleanup"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/cdn"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// allowed predecessors of each target status; UPLOAD_PENDING is entry-only
var assetTransitions = map[models.AssetStatus][]models.AssetStatus{
	models.AssetStatusQueued:      {models.AssetStatusUploadPending},
	models.AssetStatusDownloading: {models.AssetStatusQueued},
	models.AssetStatusDownloaded:  {models.AssetStatusQueued, models.AssetStatusDownloading},
	models.AssetStatusValidated:   {models.AssetStatusDownloaded},
	models.AssetStatusProcessing:  {models.AssetStatusValidated},
	models.AssetStatusReady:       {models.AssetStatusProcessing},
	models.AssetStatusFailed: {
		models.AssetStatusUploadPending,
		models.AssetStatusQueued,
		models.AssetStatusDownloading,
		models.AssetStatusDownloaded,
		models.AssetStatusValidated,
		models.AssetStatusProcessing,
	},
}

type assetsUC struct {
	cfg       *config.Config
	pgRepo    assets.Repository
	awsRepo   assets.AWSRepository
	router    jobs.Router
	filesUC   files.UseCase
	reclaimer cleanup.UseCase
	signer    *cdn.Signer
	logger    logger.Logger
}

func NewAssetsUseCase(
	cfg *config.Config,
	pgRepo assets.Repository,
	awsRepo assets.AWSRepository,
	router jobs.Router,
	filesUC files.UseCase,
	reclaimer cleanup.UseCase,
	signer *cdn.Signer,
	logger logger.Logger,
) assets.UseCase {
	return &assetsUC{
		cfg:       cfg,
		pgRepo:    pgRepo,
		awsRepo:   awsRepo,
		router:    router,
		filesUC:   filesUC,
		reclaimer: reclaimer,
		signer:    signer,
		logger:    logger,
	}
}

func (u *assetsUC) Create(ctx context.Context, input *models.CreateAssetInput) (*models.Asset, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	sourceURL := input.SourceURL
	created, err := u.pgRepo.Create(ctx, &models.Asset{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Tags:        models.NormalizeTags(input.Tags),
		SourceURL:   &sourceURL,
		Status:      models.AssetStatusQueued,
	}, "Video is queued")
	if err != nil {
		u.logger.Errorf("Create - insert error: %v", err)
		return nil, err
	}
	return u.publishDownload(ctx, created), nil
}

func (u *assetsUC) CreateFromUpload(ctx context.Context, input *models.CreateAssetFromUploadInput) (*models.UploadTicket, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	created, err := u.pgRepo.Create(ctx, &models.Asset{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Tags:        models.NormalizeTags(input.Tags),
		Status:      models.AssetStatusUploadPending,
	}, "Waiting for upload")
	if err != nil {
		u.logger.Errorf("CreateFromUpload - insert error: %v", err)
		return nil, err
	}

	key := path.Join("uploads", created.AssetID.String(), path.Base(input.FileName))
	uploadURL, err := u.awsRepo.PresignUpload(ctx, u.cfg.S3.InputBucket, key, u.cfg.S3.UploadURLTTL)
	if err != nil {
		u.logger.Errorf("CreateFromUpload - presign error: %v", err)
		if _, ferr := u.UpdateStatus(ctx, created.AssetID, models.AssetStatusFailed, fmt.Sprintf("Failed to prepare upload: %v", err)); ferr != nil {
			u.logger.Errorf("CreateFromUpload - mark failed error: %v", ferr)
		}
		return nil, err
	}
	return &models.UploadTicket{
		Asset:     created,
		UploadURL: uploadURL,
		Key:       key,
		ExpiresAt: time.Now().Add(u.cfg.S3.UploadURLTTL).UTC(),
	}, nil
}

func (u *assetsUC) CompleteUpload(ctx context.Context, assetID uuid.UUID, sourcePath string) (*models.Asset, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return nil, fmt.Errorf("%w: source path is required", httpErrors.ErrBadRequest)
	}
	ok, err := u.pgRepo.SetSourceURL(ctx, assetID, sourcePath)
	if err != nil {
		u.logger.Errorf("CompleteUpload - SetSourceURL error: %v", err)
		return nil, err
	}
	if !ok {
		if _, err := u.pgRepo.GetByID(ctx, assetID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: asset %s is not awaiting an upload", httpErrors.ErrNoTransition, assetID)
	}

	changed, err := u.UpdateStatus(ctx, assetID, models.AssetStatusQueued, "Video is queued")
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: asset %s is not awaiting an upload", httpErrors.ErrNoTransition, assetID)
	}

	asset, err := u.pgRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return u.publishDownload(ctx, asset), nil
}

// publishDownload queues the download and records the job id, or fails the asset.
func (u *assetsUC) publishDownload(ctx context.Context, asset *models.Asset) *models.Asset {
	jobID, err := u.router.PublishDownload(ctx, asset)
	if err != nil {
		u.logger.Errorf("publishDownload - asset %s error: %v", asset.AssetID, err)
		u.failAsset(ctx, asset, fmt.Sprintf("Error pushing download job. %v", err))
		return asset
	}
	if err := u.pgRepo.SetJobID(ctx, asset.AssetID, jobID); err != nil {
		u.logger.Errorf("publishDownload - SetJobID for asset %s error: %v", asset.AssetID, err)
		u.failAsset(ctx, asset, fmt.Sprintf("Error recording download job %s. %v", jobID, err))
		return asset
	}
	asset.JobID = &jobID
	return asset
}

func (u *assetsUC) failAsset(ctx context.Context, asset *models.Asset, details string) {
	changed, err := u.UpdateStatus(ctx, asset.AssetID, models.AssetStatusFailed, details)
	if err != nil {
		u.logger.Errorf("failAsset - asset %s error: %v", asset.AssetID, err)
		return
	}
	if changed {
		asset.Status = models.AssetStatusFailed
	}
}

func (u *assetsUC) UpdateStatus(ctx context.Context, assetID uuid.UUID, status models.AssetStatus, details string) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: asset status %q", httpErrors.ErrBadRequest, status)
	}
	from, ok := assetTransitions[status]
	if !ok {
		u.logger.Warnf("UpdateStatus - asset %s: %s cannot be entered by a transition", assetID, status)
		return false, nil
	}

	if status == models.AssetStatusValidated {
		current, err := u.pgRepo.GetState(ctx, assetID)
		if err != nil {
			u.logger.Errorf("UpdateStatus - GetState error: %v", err)
			return false, err
		}
		if !current.HasMetadata() {
			u.logger.Warnf("UpdateStatus - asset %s: VALIDATED without metadata ignored", assetID)
			return false, nil
		}
	}

	// READY is derived from the files, whoever asks for it
	if status == models.AssetStatusReady {
		counts, err := u.filesUC.Counts(ctx, assetID)
		if err != nil {
			u.logger.Errorf("UpdateStatus - asset %s counts error: %v", assetID, err)
			return false, err
		}
		if !counts.AllReady() {
			u.logger.Warnf("UpdateStatus - asset %s: READY ignored, %d of %d files ready", assetID, counts.Ready, counts.Total)
			return false, nil
		}
	}

	updated, err := u.pgRepo.UpdateStatus(ctx, assetID, status, from, details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u.logger.Infof("UpdateStatus - asset %s: transition to %s rejected", assetID, status)
			return false, nil
		}
		u.logger.Errorf("UpdateStatus - asset %s error: %v", assetID, err)
		return false, err
	}

	switch updated.Status {
	case models.AssetStatusDownloaded:
		u.onDownloaded(ctx, updated)
	case models.AssetStatusValidated:
		u.fanOut(ctx, updated)
	case models.AssetStatusReady, models.AssetStatusFailed:
		u.reclaimer.PurgeAsset(assetID)
	}
	return true, nil
}

func (u *assetsUC) onDownloaded(ctx context.Context, asset *models.Asset) {
	jobID, err := u.router.PublishValidate(ctx, asset.AssetID)
	if err != nil {
		u.logger.Errorf("onDownloaded - publish validate for asset %s error: %v", asset.AssetID, err)
		u.failAsset(ctx, asset, fmt.Sprintf("Error pushing validate job. %v", err))
		return
	}
	if err := u.pgRepo.SetJobID(ctx, asset.AssetID, jobID); err != nil {
		u.logger.Errorf("onDownloaded - SetJobID for asset %s error: %v", asset.AssetID, err)
		u.failAsset(ctx, asset, fmt.Sprintf("Error recording validate job %s. %v", jobID, err))
	}
}

// fanOut creates the renditions, the thumbnail and the stored source for a
// freshly validated asset. Each file publishes its own job.
func (u *assetsUC) fanOut(ctx context.Context, asset *models.Asset) {
	planned := make([]*models.File, 0, len(jobs.Ladder)+2)
	for _, r := range jobs.LadderFor(asset.Height) {
		planned = append(planned, &models.File{
			AssetID: asset.AssetID,
			Type:    models.FileTypePlaylist,
			Name:    utils.PlaylistFileName(r.Height),
			Height:  r.Height,
			Width:   r.Width,
		})
	}
	planned = append(planned,
		&models.File{
			AssetID: asset.AssetID,
			Type:    models.FileTypeThumbnail,
			Name:    utils.ThumbnailFileName,
			Height:  asset.Height,
			Width:   asset.Width,
		},
		&models.File{
			AssetID: asset.AssetID,
			Type:    models.FileTypeSource,
			Name:    utils.SourceFileName,
			Height:  asset.Height,
			Width:   asset.Width,
			Size:    asset.Size,
		},
	)

	for _, f := range planned {
		current, err := u.pgRepo.GetState(ctx, asset.AssetID)
		if err != nil {
			u.logger.Errorf("fanOut - GetState for asset %s error: %v", asset.AssetID, err)
			return
		}
		if current.Status != models.AssetStatusValidated {
			u.logger.Infof("fanOut - asset %s left VALIDATED (%s), stopping", asset.AssetID, current.Status)
			return
		}
		if _, err := u.filesUC.Create(ctx, f); err != nil {
			if errors.Is(err, files.ErrFileExists) {
				continue
			}
			u.logger.Errorf("fanOut - create %s file for asset %s error: %v", f.Type, asset.AssetID, err)
			u.failAsset(ctx, asset, fmt.Sprintf("Error creating %s file. %v", f.Type, err))
			return
		}
	}

	if _, err := u.UpdateStatus(ctx, asset.AssetID, models.AssetStatusProcessing, "Video processing started"); err != nil {
		u.logger.Errorf("fanOut - PROCESSING for asset %s error: %v", asset.AssetID, err)
		return
	}
	// completions that landed before PROCESSING could not settle the asset
	if err := u.CheckReady(ctx, asset.AssetID); err != nil {
		u.logger.Errorf("fanOut - CheckReady for asset %s error: %v", asset.AssetID, err)
	}
	if err := u.CheckFailed(ctx, asset.AssetID); err != nil {
		u.logger.Errorf("fanOut - CheckFailed for asset %s error: %v", asset.AssetID, err)
	}
}

func (u *assetsUC) UpdateMetadata(ctx context.Context, assetID uuid.UUID, meta *models.AssetMetadata) (bool, error) {
	if err := utils.ValidateStruct(meta); err != nil {
		u.logger.Errorf("UpdateMetadata - asset %s invalid metadata: %v", assetID, err)
		if _, ferr := u.UpdateStatus(ctx, assetID, models.AssetStatusFailed, fmt.Sprintf("Invalid video metadata. %v", err)); ferr != nil {
			u.logger.Errorf("UpdateMetadata - mark failed error: %v", ferr)
		}
		return false, err
	}

	if _, err := u.pgRepo.UpdateMetadata(ctx, assetID, meta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u.logger.Infof("UpdateMetadata - asset %s is not awaiting validation", assetID)
			return false, nil
		}
		u.logger.Errorf("UpdateMetadata - asset %s error: %v", assetID, err)
		return false, err
	}
	return u.UpdateStatus(ctx, assetID, models.AssetStatusValidated, "Video validated")
}

func (u *assetsUC) CheckReady(ctx context.Context, assetID uuid.UUID) error {
	counts, err := u.filesUC.Counts(ctx, assetID)
	if err != nil {
		return err
	}
	if !counts.AllReady() {
		return nil
	}
	_, err = u.UpdateStatus(ctx, assetID, models.AssetStatusReady, "Video ready")
	return err
}

// CheckFailed only judges a complete rendition set, so it waits for PROCESSING.
func (u *assetsUC) CheckFailed(ctx context.Context, assetID uuid.UUID) error {
	current, err := u.pgRepo.GetState(ctx, assetID)
	if err != nil {
		return err
	}
	if current.Status != models.AssetStatusProcessing {
		return nil
	}
	counts, err := u.filesUC.Counts(ctx, assetID)
	if err != nil {
		return err
	}
	if !counts.AllPlaylistsFailed() {
		return nil
	}
	_, err = u.UpdateStatus(ctx, assetID, models.AssetStatusFailed, "All renditions failed")
	return err
}

func (u *assetsUC) UpdateMasterManifestVersion(ctx context.Context, assetID uuid.UUID) error {
	counts, err := u.filesUC.Counts(ctx, assetID)
	if err != nil {
		return err
	}
	if counts.PlaylistReady == 0 {
		return nil
	}
	if _, err := u.pgRepo.UpdateMasterManifestVersion(ctx, assetID, counts.PlaylistReady); err != nil {
		u.logger.Errorf("UpdateMasterManifestVersion - asset %s error: %v", assetID, err)
		return err
	}
	return nil
}

func (u *assetsUC) GetByID(ctx context.Context, assetID uuid.UUID) (*models.Asset, error) {
	asset, err := u.pgRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	logs, err := u.pgRepo.StatusLogs(ctx, assetID)
	if err != nil {
		u.logger.Errorf("GetByID - StatusLogs error: %v", err)
		return nil, err
	}
	asset.StatusLogs = logs
	return asset, nil
}

func (u *assetsUC) List(ctx context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.AssetList, error) {
	return u.pgRepo.List(ctx, userID, pq)
}

func (u *assetsUC) Files(ctx context.Context, assetID uuid.UUID) ([]*models.File, error) {
	if _, err := u.pgRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return u.filesUC.ListByAsset(ctx, assetID)
}

func (u *assetsUC) SoftDelete(ctx context.Context, assetID uuid.UUID) error {
	if err := u.pgRepo.SoftDelete(ctx, assetID); err != nil {
		u.logger.Errorf("SoftDelete - asset %s error: %v", assetID, err)
		return err
	}
	return nil
}

// GetPlaybackURL signs the master playlist and one token per rendition
// directory found in object storage.
func (u *assetsUC) GetPlaybackURL(ctx context.Context, assetID uuid.UUID) (*models.PlaybackURL, error) {
	asset, err := u.pgRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	assetDir := assetStorageDir(u.cfg.S3.AssetPrefix, asset.AssetID)
	dirs, err := u.awsRepo.ListDirectories(ctx, u.cfg.S3.OutputBucket, assetDir)
	if err != nil {
		u.logger.Errorf("GetPlaybackURL - ListDirectories error: %v", err)
		return nil, err
	}

	ttl := u.cfg.CDN.TokenTTL
	main := u.signer.Sign("/"+assetDir+utils.MainManifestFileName, ttl)
	out := &models.PlaybackURL{
		MainPlaylistURL: fmt.Sprintf("%s/%s%s?%s",
			strings.TrimSuffix(u.cfg.CDN.BaseURL, "/"),
			assetDir,
			utils.MainManifestFileName,
			main.Query(asset.MasterManifestVersion),
		),
		ResolutionsToken: make(map[string]string, len(dirs)),
	}
	for _, dir := range dirs {
		resolutionPath := "/" + assetDir + dir + "/"
		out.ResolutionsToken[resolutionPath] = u.signer.Sign(resolutionPath, ttl).Query("")
	}
	return out, nil
}

// assetStorageDir is the object-storage directory of an asset, slash-terminated.
func assetStorageDir(prefix string, assetID uuid.UUID) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return assetID.String() + "/"
	}
	return prefix + "/" + assetID.String() + "/"
}
