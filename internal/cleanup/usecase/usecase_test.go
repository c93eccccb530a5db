package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/metrics"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/testutil"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*cleanupUC, *testutil.MemDB, string) {
	t.Helper()
	root := t.TempDir()
	db := testutil.NewMemDB()
	cfg := &config.Config{Storage: config.StorageConfig{LocalRoot: root}}
	uc := NewCleanupUseCase(cfg, db.Assets(), db.Files(), logger.NewNopLogger()).(*cleanupUC)
	return uc, db, root
}

func mkAssetDir(t *testing.T, root string, id uuid.UUID) string {
	t.Helper()
	dir := utils.AssetDir(root, id)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "720"), 0o755))
	require.NoError(t, os.WriteFile(utils.SourceVideoPath(root, id), []byte("x"), 0o644))
	return dir
}

func putAsset(db *testutil.MemDB, status models.AssetStatus, deleted bool) uuid.UUID {
	id := uuid.New()
	db.PutAsset(&models.Asset{AssetID: id, UserID: uuid.New(), Status: status, IsDeleted: deleted})
	return id
}

func TestCleanupDevice(t *testing.T) {
	uc, db, root := setup(t)

	ready := putAsset(db, models.AssetStatusReady, false)
	deleted := putAsset(db, models.AssetStatusDownloading, true)
	orphan := uuid.New()
	downloading := putAsset(db, models.AssetStatusDownloading, false)
	failed := putAsset(db, models.AssetStatusFailed, false)

	idle := putAsset(db, models.AssetStatusProcessing, false)
	db.PutFile(&models.File{FileID: uuid.New(), AssetID: idle, Type: models.FileTypePlaylist, Height: 720, Status: models.FileStatusReady})

	busy := putAsset(db, models.AssetStatusProcessing, false)
	db.PutFile(&models.File{FileID: uuid.New(), AssetID: busy, Type: models.FileTypePlaylist, Height: 720, Status: models.FileStatusProcessing})

	for _, id := range []uuid.UUID{ready, deleted, orphan, downloading, failed, idle, busy} {
		mkAssetDir(t, root, id)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-an-asset"), 0o755))

	before := promtest.ToFloat64(metrics.DirectoriesRemovedTotal)
	removed, err := uc.CleanupDevice(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, removed)
	require.Equal(t, before+4, promtest.ToFloat64(metrics.DirectoriesRemovedTotal))

	for _, id := range []uuid.UUID{ready, deleted, orphan, idle} {
		require.NoDirExists(t, utils.AssetDir(root, id))
	}
	for _, id := range []uuid.UUID{downloading, failed, busy} {
		require.DirExists(t, utils.AssetDir(root, id))
	}
	require.DirExists(t, filepath.Join(root, "not-an-asset"))
}

func TestCleanupDeviceMissingRoot(t *testing.T) {
	uc, _, root := setup(t)
	uc.root = filepath.Join(root, "missing")

	removed, err := uc.CleanupDevice(context.Background())
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestPurgeFileKeepsSiblings(t *testing.T) {
	uc, _, root := setup(t)
	id := uuid.New()
	mkAssetDir(t, root, id)
	require.NoError(t, os.MkdirAll(utils.RenditionDir(root, id, 480), 0o755))

	uc.PurgeFile(id, 720)

	require.NoDirExists(t, utils.RenditionDir(root, id, 720))
	require.DirExists(t, utils.RenditionDir(root, id, 480))
	require.FileExists(t, utils.SourceVideoPath(root, id))
}

func TestPurgeAssetIfDone(t *testing.T) {
	uc, db, root := setup(t)

	busy := putAsset(db, models.AssetStatusProcessing, false)
	db.PutFile(&models.File{FileID: uuid.New(), AssetID: busy, Type: models.FileTypeSource, Status: models.FileStatusQueued})
	mkAssetDir(t, root, busy)

	uc.PurgeAssetIfDone(context.Background(), busy)
	require.DirExists(t, utils.AssetDir(root, busy))

	ready := putAsset(db, models.AssetStatusReady, false)
	mkAssetDir(t, root, ready)
	uc.PurgeAssetIfDone(context.Background(), ready)
	require.NoDirExists(t, utils.AssetDir(root, ready))
}
