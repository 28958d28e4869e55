package records

import (
	"context"

	"territorykeeper/internal/client/models"
)

// Repository describes durable CRUD operations over the local record
// collection. Implementations persist the whole collection on every
// mutating call.
type Repository interface {
	// List returns all records in stored order (most recently created
	// first). A corrupt store yields an empty slice together with an
	// error matching common.ErrorStorageCorrupt.
	List(ctx context.Context) ([]models.Record, error)

	// Create prepends the record to the collection and persists.
	Create(ctx context.Context, record *models.Record) error

	// Update merges the patch into the record matching id, refreshes
	// UpdatedAt and persists. Returns common.ErrorNotFound when id is
	// absent.
	Update(ctx context.Context, id string, patch models.RecordPatch) error

	// Delete removes the record matching id and persists. Deleting an
	// absent id is a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// GetByID returns the record matching id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Record, error)
}
