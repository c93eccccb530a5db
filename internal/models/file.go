package models

import (
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	FileTypePlaylist  FileType = "PLAYLIST"
	FileTypeThumbnail FileType = "THUMBNAIL"
	FileTypeSource    FileType = "SOURCE"
)

type FileStatus string

const (
	FileStatusQueued     FileStatus = "QUEUED"
	FileStatusProcessing FileStatus = "PROCESSING"
	FileStatusReady      FileStatus = "READY"
	FileStatusFailed     FileStatus = "FAILED"
)

func (s FileStatus) IsTerminal() bool {
	return s == FileStatusReady || s == FileStatusFailed
}

func (s FileStatus) Valid() bool {
	switch s {
	case FileStatusQueued, FileStatusProcessing, FileStatusReady, FileStatusFailed:
		return true
	}
	return false
}

type File struct {
	FileID     uuid.UUID   `json:"file_id" db:"file_id"`
	AssetID    uuid.UUID   `json:"asset_id" db:"asset_id"`
	Type       FileType    `json:"type" db:"type"`
	Name       string      `json:"name" db:"name"`
	Height     int         `json:"height" db:"height"`
	Width      int         `json:"width" db:"width"`
	Size       int64       `json:"size" db:"size"`
	Status     FileStatus  `json:"status" db:"status"`
	StatusLogs []StatusLog `json:"status_logs" db:"-"`
	JobID      *string     `json:"job_id" db:"job_id"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// FileStatusCount is one row of a per-status aggregation over an asset's files.
type FileStatusCount struct {
	Type   FileType   `db:"type"`
	Status FileStatus `db:"status"`
	Count  int        `db:"count"`
}

// FileCounts summarises the persisted files of one asset.
type FileCounts struct {
	Total          int
	Ready          int
	InFlight       int
	PlaylistTotal  int
	PlaylistReady  int
	PlaylistFailed int
}

func NewFileCounts(rows []FileStatusCount) FileCounts {
	var c FileCounts
	for _, r := range rows {
		c.Total += r.Count
		switch r.Status {
		case FileStatusReady:
			c.Ready += r.Count
		case FileStatusQueued, FileStatusProcessing:
			c.InFlight += r.Count
		}
		if r.Type != FileTypePlaylist {
			continue
		}
		c.PlaylistTotal += r.Count
		switch r.Status {
		case FileStatusReady:
			c.PlaylistReady += r.Count
		case FileStatusFailed:
			c.PlaylistFailed += r.Count
		}
	}
	return c
}

func (c FileCounts) AllReady() bool {
	return c.Total > 0 && c.Ready == c.Total
}

func (c FileCounts) AllPlaylistsFailed() bool {
	return c.PlaylistTotal > 0 && c.PlaylistFailed == c.PlaylistTotal
}
