package usecase

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/metrics"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/reconcile"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
)

type reconcileUC struct {
	filesUC files.UseCase
	router  jobs.Router
	logger  logger.Logger
}

func NewReconcileUseCase(filesUC files.UseCase, router jobs.Router, logger logger.Logger) reconcile.UseCase {
	return &reconcileUC{filesUC: filesUC, router: router, logger: logger}
}

// VerifyAndRepublish checks that every queued or processing file still has a
// live job and republishes the ones whose job is gone. A file that finishes
// between the check and the reset keeps its state; the extra job it got is
// ignored when its completion arrives.
func (u *reconcileUC) VerifyAndRepublish(ctx context.Context) (*models.ReconcileResult, error) {
	inFlight, err := u.filesUC.ListInFlight(ctx)
	if err != nil {
		u.logger.Errorf("VerifyAndRepublish - ListInFlight error: %v", err)
		return nil, err
	}

	result := &models.ReconcileResult{}
	for _, file := range inFlight {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if file.JobID == nil {
			continue
		}
		oldJobID := *file.JobID

		exists, err := u.router.JobExists(ctx, file)
		if err != nil {
			u.logger.Errorf("VerifyAndRepublish - file %s job %s check error: %v", file.FileID, oldJobID, err)
			continue
		}
		result.VerifiedCount++
		metrics.FilesVerifiedTotal.Inc()
		if exists {
			continue
		}

		newJobID, err := u.router.PublishForFile(ctx, file)
		if err != nil {
			u.logger.Errorf("VerifyAndRepublish - file %s republish error: %v", file.FileID, err)
			continue
		}
		reset, err := u.filesUC.ResetForRepublish(ctx, file, oldJobID, newJobID)
		if err != nil {
			continue
		}
		if !reset {
			u.logger.Infof("VerifyAndRepublish - file %s moved on before reset, job %s is redundant", file.FileID, newJobID)
			continue
		}
		result.RepublishedCount++
		metrics.JobsRepublishedTotal.Inc()
		u.logger.Warnf("VerifyAndRepublish - file %s lost job %s, republished as %s", file.FileID, oldJobID, newJobID)
	}

	u.logger.Infof("VerifyAndRepublish - verified %d files, republished %d", result.VerifiedCount, result.RepublishedCount)
	return result, nil
}
