package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/metrics"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/google/uuid"
)

type router struct {
	queues    config.QueuesConfig
	redisRepo jobs.RedisRepository
	logger    logger.Logger
	newID     func() string
}

func NewRouter(cfg *config.Config, redisRepo jobs.RedisRepository, logger logger.Logger) jobs.Router {
	return &router{
		queues:    cfg.Queues,
		redisRepo: redisRepo,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

func (r *router) QueueFor(height int) string {
	if !jobs.IsRung(height) {
		r.logger.Warnf("QueueFor - height %d is not on the ladder, routing to %s", height, r.queues.Process360)
		metrics.UnknownHeightFallbackTotal.Inc()
		return r.queues.Process360
	}
	switch height {
	case 1080:
		return r.queues.Process1080
	case 720:
		return r.queues.Process720
	case 540:
		return r.queues.Process540
	case 480:
		return r.queues.Process480
	default:
		return r.queues.Process360
	}
}

func (r *router) QueueForFile(file *models.File) (string, error) {
	switch file.Type {
	case models.FileTypePlaylist:
		return r.QueueFor(file.Height), nil
	case models.FileTypeThumbnail:
		return r.queues.Thumbnail, nil
	case models.FileTypeSource:
		return r.queues.Upload, nil
	}
	return "", fmt.Errorf("%w: file type %q", httpErrors.ErrBadRequest, file.Type)
}

// PublishDownload keys the job by asset id so repeated submissions collapse.
func (r *router) PublishDownload(ctx context.Context, asset *models.Asset) (string, error) {
	jobID := asset.AssetID.String()
	if err := r.publish(ctx, r.queues.Download, jobID, models.JobKindDownload, jobs.DownloadJob(asset)); err != nil {
		return "", err
	}
	return jobID, nil
}

func (r *router) PublishValidate(ctx context.Context, assetID uuid.UUID) (string, error) {
	jobID := r.newID()
	if err := r.publish(ctx, r.queues.Validate, jobID, models.JobKindValidate, jobs.ValidateJob(assetID)); err != nil {
		return "", err
	}
	return jobID, nil
}

func (r *router) PublishForFile(ctx context.Context, file *models.File) (string, error) {
	queue, err := r.QueueForFile(file)
	if err != nil {
		return "", err
	}

	var (
		kind    models.JobKind
		payload interface{}
	)
	switch file.Type {
	case models.FileTypePlaylist:
		kind, payload = models.JobKindProcessing, jobs.ProcessingJob(file)
	case models.FileTypeThumbnail:
		kind, payload = models.JobKindThumbnail, jobs.ThumbnailJob(file)
	default:
		kind, payload = models.JobKindUpload, jobs.UploadJob(file)
	}

	jobID := r.newID()
	if err := r.publish(ctx, queue, jobID, kind, payload); err != nil {
		return "", err
	}
	return jobID, nil
}

func (r *router) JobExists(ctx context.Context, file *models.File) (bool, error) {
	if file.JobID == nil {
		return false, nil
	}
	queue, err := r.QueueForFile(file)
	if err != nil {
		return false, err
	}
	return r.redisRepo.Exists(ctx, queue, *file.JobID)
}

// PromoteDelayed moves delayed jobs that are due back to waiting on every
// queue. A failing queue does not stop the others.
func (r *router) PromoteDelayed(ctx context.Context) (int, error) {
	var (
		total    int
		firstErr error
	)
	now := time.Now()
	for _, queue := range r.queues.Names() {
		n, err := r.redisRepo.PromoteDelayed(ctx, queue, now)
		if err != nil {
			r.logger.Errorf("PromoteDelayed - %s error: %v", queue, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total += n
	}
	if total > 0 {
		r.logger.Infof("PromoteDelayed - %d jobs back to waiting", total)
	}
	return total, firstErr
}

func (r *router) publish(ctx context.Context, queue, jobID string, kind models.JobKind, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	job := &models.Job{
		JobID:     jobID,
		Kind:      kind,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}
	created, err := r.redisRepo.Enqueue(ctx, queue, job)
	if err != nil {
		metrics.JobPublishFailuresTotal.WithLabelValues(queue).Inc()
		r.logger.Errorf("publish - enqueue %s on %s error: %v", jobID, queue, err)
		return fmt.Errorf("%w: %v", httpErrors.ErrQueueUnavailable, err)
	}
	if !created {
		r.logger.Infof("publish - job %s already live on %s", jobID, queue)
		return nil
	}
	metrics.JobsPublishedTotal.WithLabelValues(queue).Inc()
	return nil
}
