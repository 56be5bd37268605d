package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sqlx.DB and *sqlx.Tx the survey repository needs.
type DBTX interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
