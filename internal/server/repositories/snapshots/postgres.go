package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"territorykeeper/internal/common"
	"territorykeeper/internal/dbx"
	"territorykeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, snapshot *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (share_id, owner_id, data, storage_key, shared_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		snapshot.ShareID, snapshot.OwnerID, snapshot.Data, snapshot.StorageKey, snapshot.SharedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByShareID(ctx context.Context, shareID string) (*models.Snapshot, error) {
	query := `
		SELECT share_id, owner_id, data, storage_key, shared_at
		FROM snapshots
		WHERE share_id = $1
	`
	snapshot := &models.Snapshot{}
	err := r.db.QueryRowContext(ctx, query, shareID).Scan(
		&snapshot.ShareID, &snapshot.OwnerID, &snapshot.Data, &snapshot.StorageKey, &snapshot.SharedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return snapshot, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Snapshot, error) {
	query := `
		SELECT share_id, owner_id, data, storage_key, shared_at
		FROM snapshots
		WHERE owner_id = $1
		ORDER BY shared_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Snapshot
	for rows.Next() {
		snapshot := &models.Snapshot{}
		if err := rows.Scan(&snapshot.ShareID, &snapshot.OwnerID, &snapshot.Data,
			&snapshot.StorageKey, &snapshot.SharedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
