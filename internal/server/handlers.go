package server

import (
	"net/http"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	assetsHttp "github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets/delivery/http"
	assetsRepository "github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets/repository"
	assetsUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets/usecase"
	cleanupUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/cleanup/usecase"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/cronjobs"
	cronHttp "github.com/amankumarsingh77/cloud-video-orchestrator/internal/cronjobs/delivery/http"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/events/consumer"
	eventsRepository "github.com/amankumarsingh77/cloud-video-orchestrator/internal/events/repository"
	eventsUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/events/usecase"
	filesRepository "github.com/amankumarsingh77/cloud-video-orchestrator/internal/files/repository"
	filesUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/files/usecase"
	jobsRepository "github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs/repository"
	jobsUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs/usecase"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/middleware"
	reconcileUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/reconcile/usecase"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/scheduler"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/cdn"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type services struct {
	mw            *middleware.MiddlewareManager
	assetHandlers assets.Handlers
	cronHandlers  cronjobs.Handlers
	consumer      *consumer.Consumer
	scheduler     *scheduler.Scheduler
}

func (s *Server) buildServices() *services {
	aRepo := assetsRepository.NewAssetsRepo(s.db)
	aAWSRepo := assetsRepository.NewAwsRepository(s.s3Client, s.preSignClient)
	fRepo := filesRepository.NewFilesRepo(s.db)
	jRedisRepo := jobsRepository.NewJobsRedisRepo(s.redisClient, s.cfg.Queues.JobTTL)
	bus := eventsRepository.NewBusRedisRepo(s.redisClient)

	router := jobsUseCase.NewRouter(s.cfg, jRedisRepo, s.logger)
	cleanupUC := cleanupUseCase.NewCleanupUseCase(s.cfg, aRepo, fRepo, s.logger)
	filesUC := filesUseCase.NewFilesUseCase(fRepo, router, cleanupUC, s.logger)
	assetsUC := assetsUseCase.NewAssetsUseCase(s.cfg, aRepo, aAWSRepo, router, filesUC, cleanupUC, cdn.NewSigner(s.cfg.CDN.Secret), s.logger)
	filesUC.RegisterAssetHooks(assetsUC)
	reconcileUC := reconcileUseCase.NewReconcileUseCase(filesUC, router, s.logger)

	return &services{
		mw:            middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger),
		assetHandlers: assetsHttp.NewAssetsHandlers(s.cfg, assetsUC, s.logger),
		cronHandlers:  cronHttp.NewCronHandlers(reconcileUC, cleanupUC, s.logger),
		consumer:      consumer.NewConsumer(s.cfg, bus, eventsUseCase.NewEventsHandler(assetsUC, filesUC, s.logger), s.logger),
		scheduler:     scheduler.NewScheduler(s.cfg, reconcileUC, cleanupUC, router, s.logger),
	}
}

func (s *Server) MapHandlers(e *echo.Echo, svc *services) error {
	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	assetsGroup := v1.Group("/assets")
	cronGroup := v1.Group("/cron-jobs")

	assetsHttp.MapAssetsRoutes(assetsGroup, svc.assetHandlers)
	cronHttp.MapCronRoutes(cronGroup, svc.cronHandlers)

	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return nil
}
