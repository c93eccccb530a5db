package repository

const (
	assetColumns = `asset_id, user_id, title, description, tags, source_url, height, width, duration, size,
		status, job_id, master_manifest_version, is_deleted, created_at, updated_at`

	createAssetQuery = `WITH inserted AS (
			INSERT INTO assets (user_id, title, description, tags, source_url, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + assetColumns + `
		), logged AS (
			INSERT INTO asset_status_logs (asset_id, status, details)
			SELECT asset_id, status, $7 FROM inserted
		)
		SELECT ` + assetColumns + ` FROM inserted`

	getAssetByIDQuery = `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1 AND is_deleted = FALSE`

	getAssetStateQuery = `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1`

	getAssetStatusLogsQuery = `SELECT status, details, created_at FROM asset_status_logs WHERE asset_id = $1 ORDER BY id`

	getTotalAssetsByUserIDQuery = `SELECT COUNT(asset_id) FROM assets WHERE user_id = $1 AND is_deleted = FALSE`

	getAssetsByUserIDQuery = `SELECT ` + assetColumns + ` FROM assets
		WHERE user_id = $1 AND is_deleted = FALSE ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	updateAssetStatusQuery = `WITH updated AS (
			UPDATE assets SET status = $2, updated_at = NOW()
			WHERE asset_id = $1 AND status = ANY($3::TEXT[])
			RETURNING ` + assetColumns + `
		), logged AS (
			INSERT INTO asset_status_logs (asset_id, status, details)
			SELECT asset_id, status, $4 FROM updated
		)
		SELECT ` + assetColumns + ` FROM updated`

	setAssetJobIDQuery = `UPDATE assets SET job_id = $2, updated_at = NOW() WHERE asset_id = $1`

	setAssetSourceURLQuery = `UPDATE assets SET source_url = $2, updated_at = NOW()
		WHERE asset_id = $1 AND status = 'UPLOAD_PENDING' AND is_deleted = FALSE`

	updateAssetMetadataQuery = `UPDATE assets
		SET size = $2, height = $3, width = $4, duration = $5, updated_at = NOW()
		WHERE asset_id = $1 AND status = 'DOWNLOADED'
		RETURNING ` + assetColumns

	updateMasterManifestVersionQuery = `UPDATE assets SET master_manifest_version = $2::TEXT, updated_at = NOW()
		WHERE asset_id = $1 AND COALESCE(NULLIF(master_manifest_version, ''), '0')::INTEGER < $2::INTEGER`

	softDeleteAssetQuery = `UPDATE assets SET is_deleted = TRUE, updated_at = NOW() WHERE asset_id = $1 AND is_deleted = FALSE`
)
