// Package repomanager wires repository constructors to a storage backend.
// Orchestrators depend on the RepositoryManager capability instead of
// concrete repository types, so the same business logic runs against any
// backend that can vend the repositories.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mpolonsky/userauth/internal/dbx"
	"github.com/mpolonsky/userauth/internal/server/repositories/passwords"
	"github.com/mpolonsky/userauth/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a caller-chosen DBTX and
// exposes a schema migration hook. Passing a *sql.Tx puts every repository
// call inside that transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Passwords(db dbx.DBTX) passwords.Repository
}
