package models

import "github.com/google/uuid"

type AssetStatusUpdate struct {
	AssetID uuid.UUID   `json:"asset_id" validate:"required"`
	Status  AssetStatus `json:"status" validate:"required"`
	Details string      `json:"details"`
}

type AssetMetadataUpdate struct {
	AssetID  uuid.UUID `json:"asset_id" validate:"required"`
	Size     int64     `json:"size"`
	Height   int       `json:"height"`
	Width    int       `json:"width"`
	Duration float64   `json:"duration"`
}

func (e *AssetMetadataUpdate) Metadata() AssetMetadata {
	return AssetMetadata{
		Size:     e.Size,
		Height:   e.Height,
		Width:    e.Width,
		Duration: e.Duration,
	}
}

type FileStatusUpdate struct {
	FileID  uuid.UUID  `json:"file_id" validate:"required"`
	Status  FileStatus `json:"status" validate:"required"`
	Details string     `json:"details"`
	Size    *int64     `json:"size,omitempty"`
}
