package repository

const (
	fileColumns = `file_id, asset_id, type, name, height, width, size, status, job_id, created_at, updated_at`

	createFileQuery = `WITH inserted AS (
			INSERT INTO files (asset_id, type, name, height, width, size, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (asset_id, type, height) DO NOTHING
			RETURNING ` + fileColumns + `
		), logged AS (
			INSERT INTO file_status_logs (file_id, status, details)
			SELECT file_id, status, $8 FROM inserted
		)
		SELECT ` + fileColumns + ` FROM inserted`

	getFileByIDQuery = `SELECT ` + fileColumns + ` FROM files WHERE file_id = $1`

	getFileStatusLogsQuery = `SELECT status, details, created_at FROM file_status_logs WHERE file_id = $1 ORDER BY id`

	getFilesByAssetIDQuery = `SELECT ` + fileColumns + ` FROM files WHERE asset_id = $1 ORDER BY type, height DESC`

	getFileStatusLogsByAssetIDQuery = `SELECT l.file_id, l.status, l.details, l.created_at
		FROM file_status_logs l JOIN files f ON f.file_id = l.file_id
		WHERE f.asset_id = $1 ORDER BY l.id`

	getInFlightFilesQuery = `SELECT ` + fileColumns + ` FROM files
		WHERE status IN ('QUEUED', 'PROCESSING') AND job_id IS NOT NULL ORDER BY created_at`

	setFileJobIDQuery = `UPDATE files SET job_id = $2, updated_at = NOW() WHERE file_id = $1`

	updateFileStatusQuery = `WITH updated AS (
			UPDATE files
			SET status     = $2,
			    size       = CASE WHEN $4::BIGINT IS NULL OR type = 'SOURCE' THEN size ELSE $4::BIGINT END,
			    updated_at = NOW()
			WHERE file_id = $1 AND status = ANY($3::TEXT[])
			RETURNING ` + fileColumns + `
		), logged AS (
			INSERT INTO file_status_logs (file_id, status, details)
			SELECT file_id, status, $5 FROM updated
		)
		SELECT ` + fileColumns + ` FROM updated`

	updateFileSizeQuery = `UPDATE files SET size = $2, updated_at = NOW()
		WHERE file_id = $1 AND type <> 'SOURCE' AND size <> $2`

	resetFileForRepublishQuery = `WITH updated AS (
			UPDATE files SET status = 'QUEUED', job_id = $3, updated_at = NOW()
			WHERE file_id = $1 AND status IN ('QUEUED', 'PROCESSING') AND job_id = $2
			RETURNING file_id
		), logged AS (
			INSERT INTO file_status_logs (file_id, status, details)
			SELECT file_id, 'QUEUED', $4 FROM updated
		)
		SELECT COUNT(*) FROM updated`

	countFilesByStatusQuery = `SELECT type, status, COUNT(*) AS count FROM files WHERE asset_id = $1 GROUP BY type, status`
)
