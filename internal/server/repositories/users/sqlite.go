package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"territorykeeper/internal/common"
	"territorykeeper/internal/dbx"
	"territorykeeper/internal/server/models"
)

// SqliteRepository mirrors PostgresRepository for the embedded backend
// used in single-binary deployments and tests.
type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, password_hash)
         VALUES (?, ?, ?)
		 `

	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SqliteRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash FROM users
		 WHERE email = ?
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
