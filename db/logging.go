package db

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// QueryHook receives query timing information. err is the scan error.
type QueryHook func(ctx context.Context, query string, args []any, duration time.Duration, err error)

// WithQueryHook wraps a querier so every row scan reports to hook.
func WithQueryHook(querier RowQuerier, hook QueryHook) RowQuerier {
	if hook == nil {
		return querier
	}
	return RowQuerierFunc(func(ctx context.Context, query string, args ...any) Row {
		return &hookedRow{
			row:   querier.QueryRow(ctx, query, args...),
			ctx:   ctx,
			query: query,
			args:  args,
			start: time.Now(),
			hook:  hook,
		}
	})
}

type hookedRow struct {
	row   Row
	ctx   context.Context
	query string
	args  []any
	start time.Time
	hook  QueryHook
}

func (h *hookedRow) Scan(dest ...any) error {
	err := h.row.Scan(dest...)
	h.hook(h.ctx, h.query, h.args, time.Since(h.start), err)
	return err
}

// LogHook logs each query at debug level, or at error level when it failed
// for a reason other than a missing row.
func LogHook(logger *slog.Logger) QueryHook {
	return func(ctx context.Context, query string, args []any, duration time.Duration, err error) {
		attrs := []slog.Attr{
			slog.String("query", query),
			slog.Int("args", len(args)),
			slog.Duration("duration", duration),
		}
		if err != nil && !errors.Is(err, ErrNoRows) {
			logger.LogAttrs(ctx, slog.LevelError, "query failed", append(attrs, slog.String("error", err.Error()))...)
			return
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "query", attrs...)
	}
}
