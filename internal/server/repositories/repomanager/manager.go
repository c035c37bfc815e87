// Package repomanager hands out repositories bound to a specific database
// handle, so services can use the same repository code inside and outside
// a transaction scope.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkalinin/userkeeper/internal/dbx"
	"github.com/mkalinin/userkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	// Users returns a user repository bound to db, which may be the shared
	// *sql.DB or a per-scope transaction handle.
	Users(db dbx.DBTX) users.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
