package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	jobsRepository "github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs/repository"
	jobsUseCase "github.com/amankumarsingh77/cloud-video-orchestrator/internal/jobs/usecase"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/testutil"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type hooks struct {
	mu       sync.Mutex
	ready    int
	failed   int
	manifest int
}

func (h *hooks) CheckReady(context.Context, uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready++
	return nil
}

func (h *hooks) CheckFailed(context.Context, uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed++
	return nil
}

func (h *hooks) UpdateMasterManifestVersion(context.Context, uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.manifest++
	return nil
}

func setup(t *testing.T) (files.UseCase, *testutil.MemDB, *miniredis.Miniredis, *hooks, *testutil.Reclaimer) {
	t.Helper()
	cfg := &config.Config{Queues: config.QueuesConfig{
		Thumbnail: "thumbnail", Upload: "upload",
		Process360: "p360", Process480: "p480", Process540: "p540", Process720: "p720", Process1080: "p1080",
	}}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewNopLogger()
	router := jobsUseCase.NewRouter(cfg, jobsRepository.NewJobsRedisRepo(client, time.Hour), log)
	db := testutil.NewMemDB()
	reclaimer := &testutil.Reclaimer{}
	h := &hooks{}
	uc := NewFilesUseCase(db.Files(), router, reclaimer, log)
	uc.RegisterAssetHooks(h)
	return uc, db, mr, h, reclaimer
}

func playlist(assetID uuid.UUID, height, width int) *models.File {
	return &models.File{AssetID: assetID, Type: models.FileTypePlaylist, Name: "x.m3u8", Height: height, Width: width}
}

func TestCreatePublishesAndRecordsJob(t *testing.T) {
	uc, db, mr, _, _ := setup(t)
	assetID := uuid.New()

	f, err := uc.Create(context.Background(), playlist(assetID, 720, 1280))
	require.NoError(t, err)
	require.NotNil(t, f.JobID)
	require.Equal(t, models.FileStatusQueued, f.Status)

	stored := db.File(f.FileID)
	require.Equal(t, *f.JobID, *stored.JobID)
	require.Equal(t, "File queued for processing", stored.StatusLogs[0].Details)

	items, err := mr.List("queue:p720:wait")
	require.NoError(t, err)
	require.Equal(t, []string{*f.JobID}, items)
}

func TestCreateDuplicateIsRejected(t *testing.T) {
	uc, _, _, _, _ := setup(t)
	assetID := uuid.New()

	_, err := uc.Create(context.Background(), playlist(assetID, 360, 640))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), playlist(assetID, 360, 640))
	require.ErrorIs(t, err, files.ErrFileExists)
}

func TestCreatePublishFailureFailsFile(t *testing.T) {
	uc, db, mr, h, _ := setup(t)
	mr.SetError("ERR queue offline")

	f, err := uc.Create(context.Background(), playlist(uuid.New(), 480, 854))
	require.NoError(t, err)
	require.Equal(t, models.FileStatusFailed, f.Status)

	stored := db.File(f.FileID)
	require.Equal(t, models.FileStatusFailed, stored.Status)
	require.Nil(t, stored.JobID)
	require.Contains(t, stored.StatusLogs[1].Details, "Failed to publish job")
	require.Equal(t, 1, h.failed)
}

func TestTransitions(t *testing.T) {
	uc, db, _, h, reclaimer := setup(t)
	ctx := context.Background()
	assetID := uuid.New()
	f, err := uc.Create(ctx, playlist(assetID, 480, 854))
	require.NoError(t, err)

	changed, err := uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusProcessing, "started", nil)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusProcessing, "started again", nil)
	require.NoError(t, err)
	require.False(t, changed)

	size := int64(2048)
	changed, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusReady, "done", &size)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 1, h.ready)
	require.Equal(t, 1, h.manifest)
	require.Equal(t, 1, reclaimer.FilePurgeCount(assetID, 480))
	require.Len(t, reclaimer.DoneChecks, 1)

	changed, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusProcessing, "late", nil)
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusFailed, "late failure", nil)
	require.NoError(t, err)
	require.False(t, changed)
	require.Zero(t, h.failed)

	stored := db.File(f.FileID)
	require.Equal(t, int64(2048), stored.Size)
	require.Len(t, stored.StatusLogs, 3)
}

func TestSizeOnlyUpdate(t *testing.T) {
	uc, db, _, h, _ := setup(t)
	ctx := context.Background()
	f, err := uc.Create(ctx, playlist(uuid.New(), 360, 640))
	require.NoError(t, err)
	_, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusReady, "done", nil)
	require.NoError(t, err)

	size := int64(99)
	changed, err := uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusReady, "size", &size)
	require.NoError(t, err)
	require.True(t, changed)

	stored := db.File(f.FileID)
	require.Equal(t, int64(99), stored.Size)
	require.Len(t, stored.StatusLogs, 2)
	require.Equal(t, 1, h.ready)
}

func TestSourceKeepsItsSize(t *testing.T) {
	uc, db, mr, h, reclaimer := setup(t)
	ctx := context.Background()
	assetID := uuid.New()
	f, err := uc.Create(ctx, &models.File{
		AssetID: assetID, Type: models.FileTypeSource, Name: "download.mp4", Height: 1080, Width: 1920, Size: 1000,
	})
	require.NoError(t, err)

	items, err := mr.List("queue:upload:wait")
	require.NoError(t, err)
	require.Len(t, items, 1)

	size := int64(5)
	_, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusReady, "uploaded", &size)
	require.NoError(t, err)
	require.Equal(t, int64(1000), db.File(f.FileID).Size)

	require.Zero(t, h.manifest)
	require.Empty(t, reclaimer.FilePurges)
	require.Equal(t, 1, h.ready)

	changed, err := uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusReady, "uploaded", &size)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestResetForRepublish(t *testing.T) {
	uc, db, _, _, _ := setup(t)
	ctx := context.Background()
	f, err := uc.Create(ctx, playlist(uuid.New(), 540, 960))
	require.NoError(t, err)
	_, err = uc.UpdateFileStatus(ctx, f.FileID, models.FileStatusProcessing, "started", nil)
	require.NoError(t, err)

	ok, err := uc.ResetForRepublish(ctx, f, "someone-else", "new")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = uc.ResetForRepublish(ctx, f, *f.JobID, "new")
	require.NoError(t, err)
	require.True(t, ok)

	stored := db.File(f.FileID)
	require.Equal(t, models.FileStatusQueued, stored.Status)
	require.Equal(t, "new", *stored.JobID)
	require.Equal(t, "Job "+*f.JobID+" lost, republished as new", stored.StatusLogs[len(stored.StatusLogs)-1].Details)
}

func TestGetByIDAndCounts(t *testing.T) {
	uc, _, _, _, _ := setup(t)
	ctx := context.Background()
	assetID := uuid.New()
	a, err := uc.Create(ctx, playlist(assetID, 480, 854))
	require.NoError(t, err)
	_, err = uc.Create(ctx, playlist(assetID, 360, 640))
	require.NoError(t, err)
	_, err = uc.UpdateFileStatus(ctx, a.FileID, models.FileStatusReady, "done", nil)
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, a.FileID)
	require.NoError(t, err)
	require.Len(t, got.StatusLogs, 2)

	counts, err := uc.Counts(ctx, assetID)
	require.NoError(t, err)
	require.Equal(t, 2, counts.PlaylistTotal)
	require.Equal(t, 1, counts.PlaylistReady)
	require.Equal(t, 1, counts.InFlight)
	require.False(t, counts.AllReady())

	list, err := uc.ListByAsset(ctx, assetID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
