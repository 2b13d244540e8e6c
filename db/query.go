package db

import (
	"context"
	"database/sql"
	"time"
)

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
}

// RowQuerier runs single-row queries.
type RowQuerier interface {
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// QueryRower is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowQuerierFunc adapts a function to RowQuerier.
type RowQuerierFunc func(ctx context.Context, query string, args ...any) Row

// QueryRow calls f.
func (f RowQuerierFunc) QueryRow(ctx context.Context, query string, args ...any) Row {
	return f(ctx, query, args...)
}

// SQL adapts a database/sql handle to RowQuerier.
func SQL(conn QueryRower) RowQuerier {
	return RowQuerierFunc(func(ctx context.Context, query string, args ...any) Row {
		return conn.QueryRowContext(ctx, query, args...)
	})
}

// WithTimeout returns a context with timeout when provided.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
