// Package snapshots declares the repository contract for published record
// snapshots. Snapshots are append-only: there is no update operation, and
// none of the implementations provide one.
package snapshots

import (
	"context"

	"territorykeeper/internal/server/models"
)

type Repository interface {
	// Create stores a new snapshot under its share id.
	Create(ctx context.Context, snapshot *models.Snapshot) error

	// GetByShareID returns the snapshot published under shareID, or
	// common.ErrorNotFound.
	GetByShareID(ctx context.Context, shareID string) (*models.Snapshot, error)

	// ListByOwner returns the share ids the owner has published, newest
	// first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Snapshot, error)
}
