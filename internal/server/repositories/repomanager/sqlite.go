package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"territorykeeper/internal/dbx"
	"territorykeeper/internal/server/migrations"
	"territorykeeper/internal/server/repositories/refreshtokens"
	"territorykeeper/internal/server/repositories/snapshots"
	"territorykeeper/internal/server/repositories/users"
)

// SqliteRepositoryManager vends sqlite-backed repository implementations
// for single-binary deployments and tests.
type SqliteRepositoryManager struct{}

func (m *SqliteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Snapshots(db dbx.DBTX) snapshots.Repository {
	return snapshots.NewSqliteRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs the
// sqlite directory against the provided database connection.
func (m *SqliteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}

// NewSqliteRepositoryManager constructs a sqlite-backed RepositoryManager.
func NewSqliteRepositoryManager() (RepositoryManager, error) {
	return &SqliteRepositoryManager{}, nil
}
