package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lopn/routing/db"
)

// Driver is the database/sql driver name registered by pgx.
const Driver = "pgx"

// Open connects to Postgres through the pgx stdlib driver.
func Open(ctx context.Context, dsn string, options db.Options) (*sql.DB, error) {
	return db.Open(ctx, Driver, dsn, options)
}

// NewResolver builds a table resolver using Postgres placeholders.
func NewResolver(conn db.QueryRower, table string, columns []string, timeout time.Duration) db.Resolver {
	return db.Resolver{
		DB:      db.SQL(conn),
		Table:   table,
		Columns: columns,
		Dialect: db.DialectDollar,
		Timeout: timeout,
	}
}
