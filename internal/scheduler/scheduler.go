// Package scheduler runs job reconciliation and disk reclamation on fixed intervals.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cleanup"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/reconcile"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
)

type Scheduler struct {
	reconcileUC     reconcile.UseCase
	cleanupUC       cleanup.UseCase
	router          jobs.Router
	logger          logger.Logger
	verifyInterval  time.Duration
	sweepInterval   time.Duration
	promoteInterval time.Duration
	wg              sync.WaitGroup
}

func NewScheduler(
	cfg *config.Config,
	reconcileUC reconcile.UseCase,
	cleanupUC cleanup.UseCase,
	router jobs.Router,
	logger logger.Logger,
) *Scheduler {
	return &Scheduler{
		reconcileUC:     reconcileUC,
		cleanupUC:       cleanupUC,
		router:          router,
		logger:          logger,
		verifyInterval:  cfg.Scheduler.VerifyJobsInterval,
		sweepInterval:   cfg.Scheduler.CleanupInterval,
		promoteInterval: cfg.Scheduler.PromoteDelayedInterval,
	}
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Infof("Starting scheduler: verify-jobs every %s, cleanup every %s", s.verifyInterval, s.sweepInterval)
	s.wg.Add(3)
	go s.every(ctx, s.verifyInterval, s.verifyJobs)
	go s.every(ctx, s.sweepInterval, s.cleanupDevice)
	go s.every(ctx, s.promoteInterval, s.promoteDelayed)
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) every(ctx context.Context, interval time.Duration, task func(context.Context)) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}

func (s *Scheduler) verifyJobs(ctx context.Context) {
	start := time.Now()
	result, err := s.reconcileUC.VerifyAndRepublish(ctx)
	if err != nil {
		s.logger.Errorf("Scheduler - verify-jobs error: %v", err)
		return
	}
	s.logger.Infof("Scheduler - verify-jobs verified=%d republished=%d in %s",
		result.VerifiedCount, result.RepublishedCount, time.Since(start))
}

func (s *Scheduler) cleanupDevice(ctx context.Context) {
	start := time.Now()
	removed, err := s.cleanupUC.CleanupDevice(ctx)
	if err != nil {
		s.logger.Errorf("Scheduler - cleanup-device error: %v", err)
		return
	}
	s.logger.Infof("Scheduler - cleanup-device removed=%d in %s", removed, time.Since(start))
}

func (s *Scheduler) promoteDelayed(ctx context.Context) {
	if _, err := s.router.PromoteDelayed(ctx); err != nil {
		s.logger.Errorf("Scheduler - promote-delayed error: %v", err)
	}
}
