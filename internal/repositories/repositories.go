package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/gameretriever/internal/shared"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// storageErr wraps err as a [shared.ErrStorage] with a short description of the failed action.
func storageErr(action string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", shared.ErrStorage, action, err)
}

// count runs a single-value COUNT query.
func count(ctx context.Context, db DBTX, query string) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
