package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type FilePurge struct {
	AssetID uuid.UUID
	Height  int
}

// Reclaimer records purge requests instead of touching the disk.
type Reclaimer struct {
	mu          sync.Mutex
	AssetPurges []uuid.UUID
	FilePurges  []FilePurge
	DoneChecks  []uuid.UUID
}

func (r *Reclaimer) CleanupDevice(context.Context) (int, error) {
	return 0, nil
}

func (r *Reclaimer) PurgeAsset(assetID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AssetPurges = append(r.AssetPurges, assetID)
}

func (r *Reclaimer) PurgeFile(assetID uuid.UUID, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FilePurges = append(r.FilePurges, FilePurge{AssetID: assetID, Height: height})
}

func (r *Reclaimer) PurgeAssetIfDone(_ context.Context, assetID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DoneChecks = append(r.DoneChecks, assetID)
}

func (r *Reclaimer) AssetPurgeCount(assetID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range r.AssetPurges {
		if id == assetID {
			n++
		}
	}
	return n
}

func (r *Reclaimer) FilePurgeCount(assetID uuid.UUID, height int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.FilePurges {
		if p.AssetID == assetID && p.Height == height {
			n++
		}
	}
	return n
}
