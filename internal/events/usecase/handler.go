package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/events"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type eventsHandler struct {
	assetsUC assets.UseCase
	filesUC  files.UseCase
	logger   logger.Logger
}

func NewEventsHandler(assetsUC assets.UseCase, filesUC files.UseCase, logger logger.Logger) events.Handler {
	return &eventsHandler{assetsUC: assetsUC, filesUC: filesUC, logger: logger}
}

func decode(payload []byte, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", events.ErrInvalidEvent, err)
	}
	if err := utils.ValidateStruct(v); err != nil {
		return fmt.Errorf("%w: %v", events.ErrInvalidEvent, err)
	}
	return nil
}

func (h *eventsHandler) HandleAssetStatus(ctx context.Context, payload []byte) (bool, error) {
	var ev models.AssetStatusUpdate
	if err := decode(payload, &ev); err != nil {
		return false, err
	}
	if !ev.Status.Valid() {
		return false, fmt.Errorf("%w: unknown asset status %q", events.ErrInvalidEvent, ev.Status)
	}
	h.logger.Debugf("HandleAssetStatus - asset %s -> %s", ev.AssetID, ev.Status)
	changed, err := h.assetsUC.UpdateStatus(ctx, ev.AssetID, ev.Status, ev.Details)
	return h.settle("HandleAssetStatus", ev.AssetID.String(), changed, err)
}

func (h *eventsHandler) HandleAssetMetadata(ctx context.Context, payload []byte) (bool, error) {
	var ev models.AssetMetadataUpdate
	if err := decode(payload, &ev); err != nil {
		return false, err
	}
	meta := ev.Metadata()
	h.logger.Debugf("HandleAssetMetadata - asset %s %dx%d", ev.AssetID, meta.Width, meta.Height)
	changed, err := h.assetsUC.UpdateMetadata(ctx, ev.AssetID, &meta)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return false, fmt.Errorf("%w: %v", events.ErrInvalidEvent, err)
	}
	return h.settle("HandleAssetMetadata", ev.AssetID.String(), changed, err)
}

func (h *eventsHandler) HandleFileStatus(ctx context.Context, payload []byte) (bool, error) {
	var ev models.FileStatusUpdate
	if err := decode(payload, &ev); err != nil {
		return false, err
	}
	if !ev.Status.Valid() {
		return false, fmt.Errorf("%w: unknown file status %q", events.ErrInvalidEvent, ev.Status)
	}
	h.logger.Debugf("HandleFileStatus - file %s -> %s", ev.FileID, ev.Status)
	changed, err := h.filesUC.UpdateFileStatus(ctx, ev.FileID, ev.Status, ev.Details, ev.Size)
	return h.settle("HandleFileStatus", ev.FileID.String(), changed, err)
}

// settle drops events about entities that do not exist; redelivering them
// cannot succeed.
func (h *eventsHandler) settle(op, id string, changed bool, err error) (bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		h.logger.Warnf("%s - %s not found, event dropped", op, id)
		return false, nil
	}
	return changed, err
}
