package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
)

type AssetStatus string

const (
	AssetStatusUploadPending AssetStatus = "UPLOAD_PENDING"
	AssetStatusQueued        AssetStatus = "QUEUED"
	AssetStatusDownloading   AssetStatus = "DOWNLOADING"
	AssetStatusDownloaded    AssetStatus = "DOWNLOADED"
	AssetStatusValidated     AssetStatus = "VALIDATED"
	AssetStatusProcessing    AssetStatus = "PROCESSING"
	AssetStatusReady         AssetStatus = "READY"
	AssetStatusFailed        AssetStatus = "FAILED"
)

// IsTerminal reports whether the automated pipeline can no longer move the asset.
func (s AssetStatus) IsTerminal() bool {
	return s == AssetStatusReady || s == AssetStatusFailed
}

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusUploadPending, AssetStatusQueued, AssetStatusDownloading, AssetStatusDownloaded,
		AssetStatusValidated, AssetStatusProcessing, AssetStatusReady, AssetStatusFailed:
		return true
	}
	return false
}

type StatusLog struct {
	Status    string    `json:"status" db:"status"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Asset struct {
	AssetID               uuid.UUID   `json:"asset_id" db:"asset_id" validate:"omitempty"`
	UserID                uuid.UUID   `json:"user_id" db:"user_id" validate:"required"`
	Title                 string      `json:"title" db:"title" validate:"omitempty,lte=255"`
	Description           string      `json:"description" db:"description" validate:"omitempty"`
	Tags                  Tags        `json:"tags" db:"tags"`
	SourceURL             *string     `json:"source_url" db:"source_url"`
	Height                int         `json:"height" db:"height"`
	Width                 int         `json:"width" db:"width"`
	Duration              float64     `json:"duration" db:"duration"`
	Size                  int64       `json:"size" db:"size"`
	Status                AssetStatus `json:"status" db:"status"`
	StatusLogs            []StatusLog `json:"status_logs" db:"-"`
	JobID                 *string     `json:"job_id" db:"job_id"`
	MasterManifestVersion string      `json:"master_manifest_version" db:"master_manifest_version"`
	IsDeleted             bool        `json:"-" db:"is_deleted"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at" db:"updated_at"`
}

// HasMetadata reports whether validation results have been persisted.
func (a *Asset) HasMetadata() bool {
	return a.Height > 0 && a.Width > 0
}

type AssetMetadata struct {
	Size     int64   `json:"size" validate:"required,gt=0"`
	Height   int     `json:"height" validate:"required,gt=0"`
	Width    int     `json:"width" validate:"required,gt=0"`
	Duration float64 `json:"duration" validate:"required,gt=0"`
}

type CreateAssetInput struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Title       string    `json:"title" validate:"omitempty,lte=255"`
	Description string    `json:"description" validate:"omitempty"`
	SourceURL   string    `json:"source_url" validate:"required,url"`
	Tags        []string  `json:"tags" validate:"omitempty,dive,lte=64"`
}

type CreateAssetFromUploadInput struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Title       string    `json:"title" validate:"omitempty,lte=255"`
	Description string    `json:"description" validate:"omitempty"`
	FileName    string    `json:"file_name" validate:"required,lte=255"`
	Tags        []string  `json:"tags" validate:"omitempty,dive,lte=64"`
}

type UploadCompleteInput struct {
	SourcePath string `json:"source_path" validate:"required"`
}

type AssetList struct {
	Assets     []*Asset `json:"assets"`
	TotalCount int      `json:"total_count"`
	TotalPages int      `json:"total_pages"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	HasMore    bool     `json:"has_more"`
}

// Tags is an ordered set of labels stored as a postgres text[].
type Tags []string

func (t *Tags) Scan(src interface{}) error {
	var arr pgtype.TextArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(Tags, 0, len(arr.Elements))
	for _, e := range arr.Elements {
		if e.Status == pgtype.Present {
			out = append(out, e.String)
		}
	}
	*t = out
	return nil
}

func (t Tags) Value() (driver.Value, error) {
	var arr pgtype.TextArray
	if err := arr.Set([]string(t)); err != nil {
		return nil, err
	}
	return arr.Value()
}

// NormalizeTags drops blanks and duplicates while keeping first-seen order.
func NormalizeTags(in []string) Tags {
	seen := make(map[string]struct{}, len(in))
	out := make(Tags, 0, len(in))
	for _, tag := range in {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// UploadTicket is handed back for the direct-upload flow.
type UploadTicket struct {
	Asset     *Asset    `json:"asset"`
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
