package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobKindDownload   JobKind = "download"
	JobKindValidate   JobKind = "validate"
	JobKindProcessing JobKind = "processing"
	JobKindThumbnail  JobKind = "thumbnail"
	JobKindUpload     JobKind = "upload"
)

type JobState string

const (
	JobStateWaiting JobState = "waiting"
	JobStateActive  JobState = "active"
	JobStateDelayed JobState = "delayed"
)

// Job is the envelope written to a named queue. Payload holds one of the
// typed job records below.
type Job struct {
	JobID     string          `json:"job_id" redis:"job_id"`
	Kind      JobKind         `json:"kind" redis:"kind"`
	Queue     string          `json:"queue" redis:"queue"`
	Payload   json.RawMessage `json:"payload" redis:"payload"`
	Attempts  int             `json:"attempts" redis:"attempts"`
	CreatedAt time.Time       `json:"created_at" redis:"created_at"`
}

func (j *Job) Decode(v interface{}) error {
	return json.Unmarshal(j.Payload, v)
}

type DownloadJob struct {
	AssetID   uuid.UUID `json:"asset_id"`
	SourceURL string    `json:"source_url"`
}

type ValidateJob struct {
	AssetID uuid.UUID `json:"asset_id"`
}

type ProcessingJob struct {
	AssetID uuid.UUID `json:"asset_id"`
	FileID  uuid.UUID `json:"file_id"`
	Height  int       `json:"height"`
	Width   int       `json:"width"`
}

type ThumbnailJob struct {
	AssetID uuid.UUID `json:"asset_id"`
	FileID  uuid.UUID `json:"file_id"`
}

type UploadJob struct {
	AssetID uuid.UUID `json:"asset_id"`
	FileID  uuid.UUID `json:"file_id"`
	Height  int       `json:"height"`
	Width   int       `json:"width"`
	Type    FileType  `json:"type"`
	Name    string    `json:"name"`
}

type ReconcileResult struct {
	VerifiedCount    int `json:"verified_count"`
	RepublishedCount int `json:"republished_count"`
}
