package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"territorykeeper/internal/dbx"
	"territorykeeper/internal/server/repositories/refreshtokens"
	"territorykeeper/internal/server/repositories/snapshots"
	"territorykeeper/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations for one database
// dialect and exposes a schema migration hook. Repositories are bound to
// a DBTX per call so the same manager serves plain connections and
// transactions alike.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Snapshots(db dbx.DBTX) snapshots.Repository
}

// New selects the manager matching the DSN: "postgres://" DSNs get the
// pgx-backed manager, everything else is treated as a sqlite file path.
func New(dsn string) (RepositoryManager, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresRepositoryManager()
	case dsn != "":
		return NewSqliteRepositoryManager()
	default:
		return nil, fmt.Errorf("empty database DSN")
	}
}

// Driver returns the database/sql driver name for the DSN, matching the
// manager New would select.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}
