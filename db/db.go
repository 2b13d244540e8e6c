package db

import (
	"context"
	"database/sql"
	"time"
)

// Options configures database connection pooling.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Open opens a database, applies pool options and pings it within ctx.
func Open(ctx context.Context, driver, dsn string, options Options) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	options.apply(conn)

	pingTimeout := options.PingTimeout
	if pingTimeout == 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func (o Options) apply(conn *sql.DB) {
	if o.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	if o.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(o.ConnMaxIdleTime)
	}
}
