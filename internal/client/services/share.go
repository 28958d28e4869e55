package services

import (
	"context"
	"strings"

	"territorykeeper/internal/client/client"
	"territorykeeper/internal/client/models"
	"territorykeeper/internal/httpapi"
)

// ShareService publishes read-only snapshots of records and resolves
// share codes back into records.
type ShareService struct {
	api client.Client
}

func NewShareService(api client.Client) *ShareService {
	return &ShareService{api: api}
}

// ShareResult is what the user gets back after publishing: a standalone
// share code and the URL embedding it.
type ShareResult struct {
	ShareID  string
	ShareURL string
}

// Publish sends a deep copy of the record's current state to the server.
// The server mints a fresh share identifier, so re-publishing the same
// record yields a new, independent snapshot and the old links stay valid.
// Requires an authenticated session (client.ErrUnauthorized otherwise).
func (s *ShareService) Publish(ctx context.Context, rec *models.Record) (*ShareResult, error) {
	resp, err := s.api.Publish(ctx, toSnapshot(rec))
	if err != nil {
		return nil, err
	}
	return &ShareResult{ShareID: resp.ShareID, ShareURL: resp.ShareURL}, nil
}

// Resolve fetches the published snapshot for a share code or share URL.
// The returned record carries the share identifier as its ID and is tagged
// read-only; it must never reach a mutating operation.
func (s *ShareService) Resolve(ctx context.Context, codeOrURL string) (*models.Record, error) {
	shareID := ExtractShareID(codeOrURL)

	snap, err := s.api.Resolve(ctx, shareID)
	if err != nil {
		return nil, err
	}

	rec := fromSnapshot(snap)
	rec.ID = shareID
	rec.ReadOnly = true
	return rec, nil
}

// List returns the share codes the logged-in user has published, newest
// first. Requires an authenticated session.
func (s *ShareService) List(ctx context.Context) ([]httpapi.SnapshotListItem, error) {
	return s.api.ListShares(ctx)
}

// ExportURL returns a download link for the archived copy of a published
// snapshot, when the server has archiving configured.
func (s *ShareService) ExportURL(ctx context.Context, codeOrURL string) (string, error) {
	return s.api.ExportURL(ctx, ExtractShareID(codeOrURL))
}

// ExtractShareID accepts either a bare share code or a full share URL and
// returns the code: the substring between "shareId=" and the next '&' or
// the end of the string. Input without a "shareId=" marker is treated as a
// bare code.
func ExtractShareID(input string) string {
	input = strings.TrimSpace(input)
	marker := "shareId="
	idx := strings.Index(input, marker)
	if idx < 0 {
		return input
	}
	id := input[idx+len(marker):]
	if amp := strings.IndexByte(id, '&'); amp >= 0 {
		id = id[:amp]
	}
	return id
}

func toSnapshot(rec *models.Record) httpapi.Snapshot {
	rows := make([]httpapi.Row, len(rec.Rows))
	for i, row := range rec.Rows {
		rows[i] = httpapi.Row{
			ID:      row.ID,
			HouseNo: row.HouseNo,
			Date:    row.Date,
			Symbol:  string(row.Symbol),
			Remarks: row.Remarks,
		}
	}
	return httpapi.Snapshot{
		ID:            rec.ID,
		Street:        rec.Street,
		TerrNo:        rec.TerrNo,
		PublisherName: rec.PublisherName,
		Rows:          rows,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func fromSnapshot(snap *httpapi.Snapshot) *models.Record {
	rows := make([]models.Row, len(snap.Rows))
	for i, row := range snap.Rows {
		rows[i] = models.Row{
			ID:      row.ID,
			HouseNo: row.HouseNo,
			Date:    row.Date,
			Symbol:  models.Symbol(row.Symbol),
			Remarks: row.Remarks,
		}
	}
	return &models.Record{
		ID:            snap.ID,
		Street:        snap.Street,
		TerrNo:        snap.TerrNo,
		PublisherName: snap.PublisherName,
		Rows:          rows,
		CreatedAt:     snap.CreatedAt,
		UpdatedAt:     snap.UpdatedAt,
		OwnerID:       snap.OwnerID,
	}
}
