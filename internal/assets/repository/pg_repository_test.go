package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var assetCols = []string{
	"asset_id", "user_id", "title", "description", "tags", "source_url", "height", "width", "duration", "size",
	"status", "job_id", "master_manifest_version", "is_deleted", "created_at", "updated_at",
}

func newMock(t *testing.T) (assets.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAssetsRepo(sqlx.NewDb(db, "sqlmock")), mock
}

func assetRow(rows *sqlmock.Rows, id, userID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()
	src := "https://x/video.mp4"
	return rows.AddRow(id.String(), userID.String(), "clip", "", "{a,b}", src, 0, 0, 0.0, 0,
		status, nil, "", false, now, now)
}

func TestCreateAsset(t *testing.T) {
	repo, mock := newMock(t)
	id, userID := uuid.New(), uuid.New()
	src := "https://x/video.mp4"

	mock.ExpectQuery(regexp.QuoteMeta(createAssetQuery)).
		WithArgs(userID, "clip", "", sqlmock.AnyArg(), &src, models.AssetStatusQueued, "Video is queued").
		WillReturnRows(assetRow(sqlmock.NewRows(assetCols), id, userID, "QUEUED"))

	created, err := repo.Create(context.Background(), &models.Asset{
		UserID: userID, Title: "clip", Tags: models.Tags{"a", "b"}, SourceURL: &src, Status: models.AssetStatusQueued,
	}, "Video is queued")
	require.NoError(t, err)
	require.Equal(t, id, created.AssetID)
	require.Equal(t, models.Tags{"a", "b"}, created.Tags)
	require.Equal(t, src, *created.SourceURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssetStatus(t *testing.T) {
	repo, mock := newMock(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(updateAssetStatusQuery)).
		WithArgs(id, models.AssetStatusDownloading, sqlmock.AnyArg(), "downloading").
		WillReturnRows(assetRow(sqlmock.NewRows(assetCols), id, userID, "DOWNLOADING"))
	mock.ExpectQuery(regexp.QuoteMeta(updateAssetStatusQuery)).
		WithArgs(id, models.AssetStatusDownloading, sqlmock.AnyArg(), "downloading").
		WillReturnRows(sqlmock.NewRows(assetCols))

	from := []models.AssetStatus{models.AssetStatusQueued}
	updated, err := repo.UpdateStatus(context.Background(), id, models.AssetStatusDownloading, from, "downloading")
	require.NoError(t, err)
	require.Equal(t, models.AssetStatusDownloading, updated.Status)

	_, err = repo.UpdateStatus(context.Background(), id, models.AssetStatusDownloading, from, "downloading")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAssets(t *testing.T) {
	repo, mock := newMock(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(getTotalAssetsByUserIDQuery)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(getAssetsByUserIDQuery)).
		WithArgs(userID, 2, 2).
		WillReturnRows(assetRow(sqlmock.NewRows(assetCols), uuid.New(), userID, "READY"))

	list, err := repo.List(context.Background(), userID, &utils.Pagination{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Equal(t, 3, list.TotalCount)
	require.Equal(t, 2, list.TotalPages)
	require.False(t, list.HasMore)
	require.Len(t, list.Assets, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMasterManifestVersion(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(updateMasterManifestVersionQuery)).
		WithArgs(id, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateMasterManifestVersionQuery)).
		WithArgs(id, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateMasterManifestVersion(context.Background(), id, 2)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.UpdateMasterManifestVersion(context.Background(), id, 1)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteMissing(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(softDeleteAssetQuery)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), id)
	require.ErrorIs(t, err, sql.ErrNoRows)
}
