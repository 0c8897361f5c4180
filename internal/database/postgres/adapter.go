package postgres

import (
	"context"
	"errors"

	"hrcore/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNilDB = errors.New("nil db")

// pgxQuerier is the surface pgxpool.Pool and pgx.Tx share.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// adapter maps a pgxQuerier onto database.Querier. pgx.Rows and pgx.Row
// already satisfy database.Rows and database.Row.
type adapter struct {
	q pgxQuerier
}

func (a adapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if a.q == nil {
		return 0, errNilDB
	}
	tag, err := a.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (a adapter) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if a.q == nil {
		return nil, errNilDB
	}
	rows, err := a.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (a adapter) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if a.q == nil {
		return errRow{err: errNilDB}
	}
	return a.q.QueryRow(ctx, query, args...)
}

type txAdapter struct {
	adapter
	tx pgx.Tx
}

func (t txAdapter) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t txAdapter) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
