package repository

import (
	"context"
	"fmt"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jmoiron/sqlx"
)

type filesRepo struct {
	db *sqlx.DB
}

func NewFilesRepo(db *sqlx.DB) files.Repository {
	return &filesRepo{db: db}
}

// Create inserts the file and its first log entry. A conflicting
// (asset, type, height) row yields sql.ErrNoRows.
func (r *filesRepo) Create(ctx context.Context, file *models.File, details string) (*models.File, error) {
	created := &models.File{}
	if err := r.db.QueryRowxContext(
		ctx,
		createFileQuery,
		file.AssetID,
		file.Type,
		file.Name,
		file.Height,
		file.Width,
		file.Size,
		models.FileStatusQueued,
		details,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return created, nil
}

func (r *filesRepo) GetByID(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	file := &models.File{}
	if err := r.db.QueryRowxContext(ctx, getFileByIDQuery, fileID).StructScan(file); err != nil {
		return nil, fmt.Errorf("failed to get file by id: %w", err)
	}
	return file, nil
}

func (r *filesRepo) StatusLogs(ctx context.Context, fileID uuid.UUID) ([]models.StatusLog, error) {
	logs := make([]models.StatusLog, 0)
	if err := r.db.SelectContext(ctx, &logs, getFileStatusLogsQuery, fileID); err != nil {
		return nil, fmt.Errorf("failed to get file status logs: %w", err)
	}
	return logs, nil
}

func (r *filesRepo) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*models.File, error) {
	list, err := r.selectFiles(ctx, getFilesByAssetIDQuery, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get files by asset id: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, getFileStatusLogsByAssetIDQuery, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file status logs: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*models.File, len(list))
	for _, f := range list {
		f.StatusLogs = make([]models.StatusLog, 0)
		byID[f.FileID] = f
	}
	for rows.Next() {
		var entry struct {
			FileID uuid.UUID `db:"file_id"`
			models.StatusLog
		}
		if err = rows.StructScan(&entry); err != nil {
			return nil, fmt.Errorf("failed to scan file status log: %w", err)
		}
		if f, ok := byID[entry.FileID]; ok {
			f.StatusLogs = append(f.StatusLogs, entry.StatusLog)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file status logs: %w", err)
	}
	return list, nil
}

func (r *filesRepo) ListInFlight(ctx context.Context) ([]*models.File, error) {
	list, err := r.selectFiles(ctx, getInFlightFilesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get in-flight files: %w", err)
	}
	return list, nil
}

func (r *filesRepo) selectFiles(ctx context.Context, query string, args ...interface{}) ([]*models.File, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.File, 0)
	for rows.Next() {
		var f models.File
		if err = rows.StructScan(&f); err != nil {
			return nil, err
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

func (r *filesRepo) SetJobID(ctx context.Context, fileID uuid.UUID, jobID string) error {
	res, err := r.db.ExecContext(ctx, setFileJobIDQuery, fileID, jobID)
	if err != nil {
		return fmt.Errorf("failed to set file job id: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to set file job id: file %s not found", fileID)
	}
	return nil
}

// UpdateStatus moves the file to `to` only when its current status is one of
// from. No matching row yields sql.ErrNoRows.
func (r *filesRepo) UpdateStatus(
	ctx context.Context,
	fileID uuid.UUID,
	to models.FileStatus,
	from []models.FileStatus,
	details string,
	size *int64,
) (*models.File, error) {
	fromSet, err := statusArray(from)
	if err != nil {
		return nil, err
	}
	updated := &models.File{}
	if err := r.db.QueryRowxContext(ctx, updateFileStatusQuery, fileID, to, fromSet, size, details).StructScan(updated); err != nil {
		return nil, fmt.Errorf("failed to update file status: %w", err)
	}
	return updated, nil
}

func (r *filesRepo) UpdateSize(ctx context.Context, fileID uuid.UUID, size int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateFileSizeQuery, fileID, size)
	if err != nil {
		return false, fmt.Errorf("failed to update file size: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update file size: %w", err)
	}
	return n > 0, nil
}

func (r *filesRepo) ResetForRepublish(ctx context.Context, fileID uuid.UUID, oldJobID, newJobID, details string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, resetFileForRepublishQuery, fileID, oldJobID, newJobID, details); err != nil {
		return false, fmt.Errorf("failed to reset file for republish: %w", err)
	}
	return n > 0, nil
}

func (r *filesRepo) CountByStatus(ctx context.Context, assetID uuid.UUID) ([]models.FileStatusCount, error) {
	counts := make([]models.FileStatusCount, 0)
	if err := r.db.SelectContext(ctx, &counts, countFilesByStatusQuery, assetID); err != nil {
		return nil, fmt.Errorf("failed to count files by status: %w", err)
	}
	return counts, nil
}

func statusArray(statuses []models.FileStatus) (*pgtype.TextArray, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	arr := &pgtype.TextArray{}
	if err := arr.Set(values); err != nil {
		return nil, fmt.Errorf("failed to encode statuses: %w", err)
	}
	return arr, nil
}
