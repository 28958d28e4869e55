package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"territorykeeper/internal/client/models"
	"territorykeeper/internal/common"
)

// storeFileName is the single named entry holding the serialized record
// collection.
const storeFileName = "records.json"

// timeNow is a test seam for the repository clock.
var timeNow = time.Now

// FileRepository implements Repository over a single JSON document on disk.
// The in-memory collection is authoritative between process starts; every
// mutation rewrites the whole file via a temp-file rename.
type FileRepository struct {
	path string

	mu      sync.Mutex
	loaded  bool
	records []models.Record
}

// NewFileRepository returns a FileRepository storing its collection under
// dir. The file is read lazily on first use.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{path: filepath.Join(dir, storeFileName)}
}

// load reads the store file into memory. Missing file means an empty
// collection; an unparseable file also yields an empty collection and the
// ErrorStorageCorrupt sentinel. Requires r.mu held.
func (r *FileRepository) load() error {
	if r.loaded {
		return nil
	}
	r.loaded = true
	r.records = []models.Record{}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrorStorageCorrupt, err)
	}

	var recs []models.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorageCorrupt, err)
	}
	r.records = recs
	return nil
}

// persist rewrites the whole collection. Requires r.mu held.
func (r *FileRepository) persist() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("rename records: %w", err)
	}
	return nil
}

func (r *FileRepository) List(ctx context.Context) ([]models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.load()

	out := make([]models.Record, len(r.records))
	for i := range r.records {
		out[i] = *r.records[i].Clone()
	}
	return out, err
}

func (r *FileRepository) Create(ctx context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a corrupt store is abandoned on the first write
	_ = r.load()

	r.records = append([]models.Record{*record.Clone()}, r.records...)
	return r.persist()
}

func (r *FileRepository) Update(ctx context.Context, id string, patch models.RecordPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_ = r.load()

	for i := range r.records {
		if r.records[i].ID != id {
			continue
		}
		patch.Apply(&r.records[i])
		r.records[i].UpdatedAt = timeNow()
		return r.persist()
	}
	return common.ErrorNotFound
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_ = r.load()

	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return r.persist()
		}
	}
	// idempotent: absent id leaves the store unchanged
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_ = r.load()

	for i := range r.records {
		if r.records[i].ID == id {
			return r.records[i].Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}
