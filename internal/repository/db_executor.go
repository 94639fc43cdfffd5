package repository

import (
	"context"
	"database/sql"
)

// DBExecutor defines the query operations repositories need. Both *sqlx.DB
// and *sqlx.Tx implement it, so the same repository code runs either
// directly against the pool or inside a transaction.
type DBExecutor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
