package cleanup

import (
	"context"

	"github.com/google/uuid"
)

// UseCase reclaims local working directories. Every purge is best-effort:
// a missing directory is fine and failures are only logged.
type UseCase interface {
	CleanupDevice(ctx context.Context) (int, error)
	PurgeAsset(assetID uuid.UUID)
	PurgeFile(assetID uuid.UUID, height int)
	PurgeAssetIfDone(ctx context.Context, assetID uuid.UUID)
}
