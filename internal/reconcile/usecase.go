package reconcile

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
)

type UseCase interface {
	VerifyAndRepublish(ctx context.Context) (*models.ReconcileResult, error)
}
