// Package testutil provides an in-memory stand-in for the postgres
// repositories. Every write applies the same conditions the SQL statements do.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/assets"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/files"
	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/models"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/utils"
	"github.com/google/uuid"
)

type MemDB struct {
	mu        sync.Mutex
	clock     time.Time
	assets    map[uuid.UUID]*models.Asset
	files     map[uuid.UUID]*models.File
	fileOrder []uuid.UUID
}

func NewMemDB() *MemDB {
	return &MemDB{
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		assets: make(map[uuid.UUID]*models.Asset),
		files:  make(map[uuid.UUID]*models.File),
	}
}

func (db *MemDB) Assets() assets.Repository { return &assetStore{db: db} }
func (db *MemDB) Files() files.Repository   { return &fileStore{db: db} }

// now must be called with mu held.
func (db *MemDB) now() time.Time {
	db.clock = db.clock.Add(time.Millisecond)
	return db.clock
}

// PutAsset stores a copy of asset as-is, for seeding tests.
func (db *MemDB) PutAsset(asset *models.Asset) {
	db.mu.Lock()
	defer db.mu.Unlock()
	a := copyAsset(asset)
	db.assets[a.AssetID] = a
}

// PutFile stores a copy of file as-is, for seeding tests.
func (db *MemDB) PutFile(file *models.File) {
	db.mu.Lock()
	defer db.mu.Unlock()
	f := copyFile(file)
	if _, ok := db.files[f.FileID]; !ok {
		db.fileOrder = append(db.fileOrder, f.FileID)
	}
	db.files[f.FileID] = f
}

func (db *MemDB) Asset(id uuid.UUID) *models.Asset {
	db.mu.Lock()
	defer db.mu.Unlock()
	if a, ok := db.assets[id]; ok {
		return copyAsset(a)
	}
	return nil
}

func (db *MemDB) File(id uuid.UUID) *models.File {
	db.mu.Lock()
	defer db.mu.Unlock()
	if f, ok := db.files[id]; ok {
		return copyFile(f)
	}
	return nil
}

func (db *MemDB) FilesOf(assetID uuid.UUID) []*models.File {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*models.File, 0)
	for _, id := range db.fileOrder {
		if f := db.files[id]; f.AssetID == assetID {
			out = append(out, copyFile(f))
		}
	}
	return out
}

func copyAsset(a *models.Asset) *models.Asset {
	c := *a
	c.Tags = append(models.Tags{}, a.Tags...)
	c.StatusLogs = append([]models.StatusLog{}, a.StatusLogs...)
	return &c
}

func copyFile(f *models.File) *models.File {
	c := *f
	c.StatusLogs = append([]models.StatusLog{}, f.StatusLogs...)
	return &c
}

func noRows(op string) error {
	return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type assetStore struct {
	db *MemDB
}

func (s *assetStore) Create(_ context.Context, asset *models.Asset, details string) (*models.Asset, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	now := s.db.now()
	a := copyAsset(asset)
	a.AssetID = uuid.New()
	a.CreatedAt, a.UpdatedAt = now, now
	a.StatusLogs = []models.StatusLog{{Status: string(a.Status), Details: details, CreatedAt: now}}
	s.db.assets[a.AssetID] = a
	return withoutLogs(a), nil
}

func withoutLogs(a *models.Asset) *models.Asset {
	c := copyAsset(a)
	c.StatusLogs = nil
	return c
}

func (s *assetStore) GetByID(_ context.Context, assetID uuid.UUID) (*models.Asset, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok || a.IsDeleted {
		return nil, noRows("get asset")
	}
	return withoutLogs(a), nil
}

func (s *assetStore) GetState(_ context.Context, assetID uuid.UUID) (*models.Asset, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok {
		return nil, noRows("get asset state")
	}
	return withoutLogs(a), nil
}

func (s *assetStore) StatusLogs(_ context.Context, assetID uuid.UUID) ([]models.StatusLog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok {
		return []models.StatusLog{}, nil
	}
	return append([]models.StatusLog{}, a.StatusLogs...), nil
}

func (s *assetStore) List(_ context.Context, userID uuid.UUID, pq *utils.Pagination) (*models.AssetList, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	all := make([]*models.Asset, 0)
	for _, a := range s.db.assets {
		if a.UserID == userID && !a.IsDeleted {
			all = append(all, withoutLogs(a))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := pq.GetOffset()
	if start > total {
		start = total
	}
	end := start + pq.GetLimit()
	if end > total {
		end = total
	}
	return &models.AssetList{
		Assets:     all[start:end],
		TotalCount: total,
		TotalPages: utils.GetTotalPages(total, pq.GetLimit()),
		Page:       pq.Page,
		PageSize:   pq.Size,
		HasMore:    utils.GetHasMore(pq.Page, total, pq.Size),
	}, nil
}

func (s *assetStore) UpdateStatus(_ context.Context, assetID uuid.UUID, to models.AssetStatus, from []models.AssetStatus, details string) (*models.Asset, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok || !contains(from, a.Status) {
		return nil, noRows("update asset status")
	}
	now := s.db.now()
	a.Status = to
	a.UpdatedAt = now
	a.StatusLogs = append(a.StatusLogs, models.StatusLog{Status: string(to), Details: details, CreatedAt: now})
	return withoutLogs(a), nil
}

func (s *assetStore) SetJobID(_ context.Context, assetID uuid.UUID, jobID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok {
		return noRows("set asset job id")
	}
	a.JobID = &jobID
	return nil
}

func (s *assetStore) SetSourceURL(_ context.Context, assetID uuid.UUID, sourceURL string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok || a.IsDeleted || a.Status != models.AssetStatusUploadPending {
		return false, nil
	}
	a.SourceURL = &sourceURL
	return true, nil
}

func (s *assetStore) UpdateMetadata(_ context.Context, assetID uuid.UUID, meta *models.AssetMetadata) (*models.Asset, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok || a.Status != models.AssetStatusDownloaded {
		return nil, noRows("update asset metadata")
	}
	a.Size, a.Height, a.Width, a.Duration = meta.Size, meta.Height, meta.Width, meta.Duration
	return withoutLogs(a), nil
}

func (s *assetStore) UpdateMasterManifestVersion(_ context.Context, assetID uuid.UUID, version int) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok {
		return false, nil
	}
	current := 0
	if a.MasterManifestVersion != "" {
		if _, err := fmt.Sscanf(a.MasterManifestVersion, "%d", &current); err != nil {
			return false, err
		}
	}
	if current >= version {
		return false, nil
	}
	a.MasterManifestVersion = fmt.Sprintf("%d", version)
	return true, nil
}

func (s *assetStore) SoftDelete(_ context.Context, assetID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.assets[assetID]
	if !ok || a.IsDeleted {
		return noRows("delete asset")
	}
	a.IsDeleted = true
	return nil
}

type fileStore struct {
	db *MemDB
}

func fileWithoutLogs(f *models.File) *models.File {
	c := copyFile(f)
	c.StatusLogs = nil
	return c
}

func (s *fileStore) Create(_ context.Context, file *models.File, details string) (*models.File, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.files {
		if existing.AssetID == file.AssetID && existing.Type == file.Type && existing.Height == file.Height {
			return nil, noRows("create file")
		}
	}
	now := s.db.now()
	f := copyFile(file)
	f.FileID = uuid.New()
	f.Status = models.FileStatusQueued
	f.JobID = nil
	f.CreatedAt, f.UpdatedAt = now, now
	f.StatusLogs = []models.StatusLog{{Status: string(f.Status), Details: details, CreatedAt: now}}
	s.db.files[f.FileID] = f
	s.db.fileOrder = append(s.db.fileOrder, f.FileID)
	return fileWithoutLogs(f), nil
}

func (s *fileStore) GetByID(_ context.Context, fileID uuid.UUID) (*models.File, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.files[fileID]
	if !ok {
		return nil, noRows("get file")
	}
	return fileWithoutLogs(f), nil
}

func (s *fileStore) StatusLogs(_ context.Context, fileID uuid.UUID) ([]models.StatusLog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.files[fileID]
	if !ok {
		return []models.StatusLog{}, nil
	}
	return append([]models.StatusLog{}, f.StatusLogs...), nil
}

func (s *fileStore) ListByAsset(_ context.Context, assetID uuid.UUID) ([]*models.File, error) {
	return s.db.FilesOf(assetID), nil
}

func (s *fileStore) ListInFlight(_ context.Context) ([]*models.File, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]*models.File, 0)
	for _, id := range s.db.fileOrder {
		f := s.db.files[id]
		if (f.Status == models.FileStatusQueued || f.Status == models.FileStatusProcessing) && f.JobID != nil {
			out = append(out, fileWithoutLogs(f))
		}
	}
	return out, nil
}

func (s *fileStore) SetJobID(_ context.Context, fileID uuid.UUID, jobID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.files[fileID]
	if !ok {
		return noRows("set file job id")
	}
	f.JobID = &jobID
	return nil
}

func (s *fileStore) UpdateStatus(_ context.Context, fileID uuid.UUID, to models.FileStatus, from []models.FileStatus, details string, size *int64) (*models.File, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.files[fileID]
	if !ok || !contains(from, f.Status) {
		return nil, noRows("update file status")
	}
	now := s.db.now()
	f.Status = to
	f.UpdatedAt = now
	if size != nil && f.Type != models.FileTypeSource {
		f.Size = *size
	}
	f.StatusLogs = append(f.StatusLogs, models.StatusLog{Status: string(to), Details: details, CreatedAt: now})
	return fileWithoutLogs(f), nil
}

func (s *fileStore) UpdateSize(_ context.Context, fileID uuid.UUID, size int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.files[fileID]
	if !ok || f.Type == models.FileTypeSource || f.Size == size {
		return false, nil
	}
	f.Size = size
	return true, nil
}

func (s *fileStore) ResetForRepublish(_ context.Context, fileID uuid.UUID, oldJobID, newJobID, details string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.files[fileID]
	if !ok || f.JobID == nil || *f.JobID != oldJobID {
		return false, nil
	}
	if f.Status != models.FileStatusQueued && f.Status != models.FileStatusProcessing {
		return false, nil
	}
	now := s.db.now()
	f.Status = models.FileStatusQueued
	f.JobID = &newJobID
	f.UpdatedAt = now
	f.StatusLogs = append(f.StatusLogs, models.StatusLog{Status: string(models.FileStatusQueued), Details: details, CreatedAt: now})
	return true, nil
}

func (s *fileStore) CountByStatus(_ context.Context, assetID uuid.UUID) ([]models.FileStatusCount, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	type key struct {
		t  models.FileType
		st models.FileStatus
	}
	counts := make(map[key]int)
	for _, f := range s.db.files {
		if f.AssetID == assetID {
			counts[key{f.Type, f.Status}]++
		}
	}
	out := make([]models.FileStatusCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.FileStatusCount{Type: k.t, Status: k.st, Count: n})
	}
	return out, nil
}
