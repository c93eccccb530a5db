package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/testutil"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct {
	runs atomic.Int32
	err  error
}

func (r *countingReconciler) VerifyAndRepublish(context.Context) (*models.ReconcileResult, error) {
	r.runs.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &models.ReconcileResult{}, nil
}

type countingCleaner struct {
	testutil.Reclaimer
	runs atomic.Int32
}

func (c *countingCleaner) CleanupDevice(context.Context) (int, error) {
	c.runs.Add(1)
	return 0, nil
}

type countingRouter struct {
	jobs.Router
	runs atomic.Int32
}

func (r *countingRouter) PromoteDelayed(context.Context) (int, error) {
	r.runs.Add(1)
	return 0, nil
}

func TestSchedulerRunsEveryTaskUntilCancelled(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		VerifyJobsInterval:     10 * time.Millisecond,
		CleanupInterval:        15 * time.Millisecond,
		PromoteDelayedInterval: 5 * time.Millisecond,
	}}
	rec := &countingReconciler{err: errors.New("db down")}
	cleaner := &countingCleaner{}
	router := &countingRouter{}
	s := NewScheduler(cfg, rec, cleaner, router, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return rec.runs.Load() >= 2 && cleaner.runs.Load() >= 2 && router.runs.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
