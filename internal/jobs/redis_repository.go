package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
)

// ErrNoJob is returned by Dequeue when nothing became available before the timeout.
var ErrNoJob = errors.New("no job available")

// RedisRepository is the named-queue substrate shared by the orchestrator
// (producer side) and external workers (consumer side).
type RedisRepository interface {
	Enqueue(ctx context.Context, queue string, job *models.Job) (bool, error)
	Exists(ctx context.Context, queue, jobID string) (bool, error)
	Dequeue(ctx context.Context, queue string, timeout time.Duration) (*models.Job, error)
	Complete(ctx context.Context, queue, jobID string) error
	Fail(ctx context.Context, queue, jobID, reason string) error
	Delay(ctx context.Context, queue, jobID string, until time.Time) error
	PromoteDelayed(ctx context.Context, queue string, now time.Time) (int, error)
}
