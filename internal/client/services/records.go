// Package services contains the application services of the Territory Keeper
// client: record CRUD with the debounced persistence pipeline, sharing,
// authentication and AI report generation.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"territorykeeper/internal/client/debounce"
	"territorykeeper/internal/client/models"
	"territorykeeper/internal/client/repositories/records"
	"territorykeeper/internal/common"
	"territorykeeper/internal/idgen"
	"territorykeeper/internal/logging"
)

// DefaultDebounceWindow is the idle window after the last field edit to a
// record before its state is written through to the store.
const DefaultDebounceWindow = 800 * time.Millisecond

// RecordService owns the in-memory working copies of records under edit
// and decides when each edit becomes durable: field edits ride the
// debounced pipeline, structural edits (row add/remove) and collection
// operations (create/delete) persist immediately.
type RecordService struct {
	repo   records.Repository
	logger logging.Logger

	mu     sync.Mutex
	open   map[string]*models.Record // working copies keyed by record id
	closed map[string]bool           // ids whose Close waits on a pending save

	debouncer *debounce.Debouncer

	// test seams
	now   func() time.Time
	newID func() string
}

func NewRecordService(repo records.Repository, logger logging.Logger, window time.Duration) *RecordService {
	s := &RecordService{
		repo:   repo,
		logger: logger.With("module", "records"),
		open:   make(map[string]*models.Record),
		closed: make(map[string]bool),
		now:    time.Now,
		newID:  idgen.New,
	}
	s.debouncer = debounce.New(window, s.persistNow)
	return s
}

// List returns all locally owned records, most recently created first.
// A corrupt store is logged and surfaces as an empty list; the CLI keeps
// running and the next write re-creates the store.
func (s *RecordService) List(ctx context.Context) []models.Record {
	recs, err := s.repo.List(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorStorageCorrupt) {
			s.logger.Warn(ctx, "local store unreadable, starting empty", "error", err.Error())
			return []models.Record{}
		}
		s.logger.Error(ctx, "listing records", "error", err.Error())
		return []models.Record{}
	}
	return recs
}

// Create makes a new empty record, prepends it to the store and persists
// synchronously.
func (s *RecordService) Create(ctx context.Context, publisherName string) (*models.Record, error) {
	now := s.now()
	rec := &models.Record{
		ID:            s.newID(),
		PublisherName: publisherName,
		Rows:          []models.Row{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Open loads a working copy of the record for editing. Edits apply to this
// copy synchronously; persistence follows the pipeline rules. Re-opening a
// record that already has a working copy returns that copy: it may be ahead
// of the store while a debounced save is pending, and a fresh read would
// roll the edit back.
func (s *RecordService) Open(ctx context.Context, id string) (*models.Record, error) {
	s.mu.Lock()
	if rec, ok := s.open[id]; ok {
		delete(s.closed, id)
		out := rec.Clone()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.open[id] = rec
	s.mu.Unlock()
	return rec.Clone(), nil
}

// Close drops the working copy without touching any pending save: a
// debounced write scheduled before navigation must still complete. When a
// save is pending, the copy is marked closed instead and persistNow drops
// it once the write lands.
func (s *RecordService) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debouncer.Pending(id) {
		s.closed[id] = true
		return
	}
	delete(s.open, id)
	delete(s.closed, id)
}

// Delete removes the record permanently. Idempotent; published copies are
// unaffected. Any pending save for the record is cancelled first.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	s.debouncer.Cancel(id)

	s.mu.Lock()
	delete(s.open, id)
	delete(s.closed, id)
	s.mu.Unlock()

	return s.repo.Delete(ctx, id)
}

// Get returns the current working copy, falling back to the store.
func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	s.mu.Lock()
	if rec, ok := s.open[id]; ok {
		out := rec.Clone()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()
	return s.repo.GetByID(ctx, id)
}

// UpdateHeader applies a header field edit to the working copy and
// schedules a debounced persist.
func (s *RecordService) UpdateHeader(id string, patch models.RecordPatch) error {
	s.mu.Lock()
	rec, ok := s.open[id]
	if !ok {
		s.mu.Unlock()
		return common.ErrorNotFound
	}
	if rec.ReadOnly {
		s.mu.Unlock()
		return common.ErrorReadOnlyRecord
	}
	patch.Apply(rec)
	s.mu.Unlock()

	s.debouncer.Schedule(id)
	return nil
}

// UpdateRow applies a field edit to one row of the working copy and
// schedules a debounced persist.
func (s *RecordService) UpdateRow(id, rowID string, patch models.RowPatch) error {
	s.mu.Lock()
	rec, ok := s.open[id]
	if !ok {
		s.mu.Unlock()
		return common.ErrorNotFound
	}
	if rec.ReadOnly {
		s.mu.Unlock()
		return common.ErrorReadOnlyRecord
	}

	found := false
	for i := range rec.Rows {
		if rec.Rows[i].ID == rowID {
			patch.Apply(&rec.Rows[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return common.ErrorNotFound
	}
	s.debouncer.Schedule(id)
	return nil
}

// AddRow appends a fresh row (dated today) to the working copy and
// persists immediately: structural edits do not wait out the idle window.
func (s *RecordService) AddRow(ctx context.Context, id string) (*models.Row, error) {
	s.mu.Lock()
	rec, ok := s.open[id]
	if !ok {
		s.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	if rec.ReadOnly {
		s.mu.Unlock()
		return nil, common.ErrorReadOnlyRecord
	}

	row := models.Row{
		ID:     s.newID(),
		Date:   s.now().Format("2006-01-02"),
		Symbol: models.SymbolNone,
	}
	rec.Rows = append(rec.Rows, row)
	s.mu.Unlock()

	s.debouncer.Cancel(id)
	s.persistNow(id)
	return &row, nil
}

// RemoveRow deletes a row from the working copy and persists immediately.
func (s *RecordService) RemoveRow(ctx context.Context, id, rowID string) error {
	s.mu.Lock()
	rec, ok := s.open[id]
	if !ok {
		s.mu.Unlock()
		return common.ErrorNotFound
	}
	if rec.ReadOnly {
		s.mu.Unlock()
		return common.ErrorReadOnlyRecord
	}

	for i := range rec.Rows {
		if rec.Rows[i].ID == rowID {
			rec.Rows = append(rec.Rows[:i], rec.Rows[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.debouncer.Cancel(id)
	s.persistNow(id)
	return nil
}

// Flush writes through every pending debounced save. Called on exit so a
// just-typed edit survives shutdown.
func (s *RecordService) Flush() {
	s.debouncer.Flush()
}

// persistNow is the read-through persist callback: it writes the working
// copy's state as of now, not as of scheduling time. A record deleted
// while its timer was pending is a no-op.
func (s *RecordService) persistNow(id string) {
	s.mu.Lock()
	rec, ok := s.open[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	street, terrNo, publisher := rec.Street, rec.TerrNo, rec.PublisherName
	rows := make([]models.Row, len(rec.Rows))
	copy(rows, rec.Rows)
	patch := models.RecordPatch{
		Street:        &street,
		TerrNo:        &terrNo,
		PublisherName: &publisher,
		Rows:          &rows,
	}
	s.mu.Unlock()

	ctx := context.Background()
	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "skipping save of deleted record", "record_id", id)
		} else {
			s.logger.Error(ctx, "saving record", "record_id", id, "error", err.Error())
		}
	}

	// A copy whose Close was deferred by this save is dropped now, unless
	// the record was reopened or picked up a new pending edit meanwhile.
	s.mu.Lock()
	if s.closed[id] && !s.debouncer.Pending(id) {
		delete(s.open, id)
		delete(s.closed, id)
	}
	s.mu.Unlock()
}
