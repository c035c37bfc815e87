// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and helpers to run units of work inside a transaction scope.
package dbx

import (
	"context"
	"database/sql"

	"github.com/mkalinin/userkeeper/internal/common"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface, so a repository works
// the same inside and outside a transaction scope.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UnitOfWork is a function executed within a single transaction scope.
// The tx handle it receives is private to the call; concurrent scopes never
// share one.
type UnitOfWork func(ctx context.Context, tx DBTX) error

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. The error returned by fn
// is passed through unchanged; panics are rethrown after rollback.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn UnitOfWork) (err error) {
	if fn == nil {
		return common.ErrNotDecoratable
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// Wrapped is the decorator form of WithTx: it binds fn to db once and
// returns a function that opens a fresh scope on every invocation, so call
// sites never manage the transaction explicitly. A nil fn fails with
// common.ErrNotDecoratable.
func Wrapped(db *sql.DB, opts *sql.TxOptions, fn UnitOfWork) (func(ctx context.Context) error, error) {
	if fn == nil {
		return nil, common.ErrNotDecoratable
	}
	return func(ctx context.Context) error {
		return WithTx(ctx, db, opts, fn)
	}, nil
}
