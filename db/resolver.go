package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Dialect configures SQL placeholder style.
type Dialect int

const (
	// DialectQuestion uses ? placeholders.
	DialectQuestion Dialect = iota
	// DialectDollar uses $1 style placeholders.
	DialectDollar
)

// ErrNoRows is returned by Row.Scan when a lookup matches nothing.
var ErrNoRows = sql.ErrNoRows

var (
	// ErrMissingTable indicates a missing table name.
	ErrMissingTable = errors.New("table required")
	// ErrMissingColumns indicates a resolver with neither columns nor a scan func.
	ErrMissingColumns = errors.New("columns required")
	// ErrInvalidIdentifier indicates a table or column name that is not a plain identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ScanFunc turns a result row into a model value.
type ScanFunc func(row Row) (any, error)

// Resolver looks up route parameters by key in a table. It satisfies the
// router's ModelResolver, reporting a missing row as (nil, nil).
type Resolver struct {
	DB      RowQuerier
	Table   string
	Key     string
	Columns []string
	Dialect Dialect
	Timeout time.Duration
	// Scan builds the model from the row. Without it the row is returned as
	// a map keyed by Columns.
	Scan ScanFunc
}

// FindByID fetches the row whose key column equals id.
func (r Resolver) FindByID(ctx context.Context, id string) (any, error) {
	query, err := r.Query()
	if err != nil {
		return nil, err
	}

	ctx, cancel := WithTimeout(ctx, r.Timeout)
	defer cancel()

	scan := r.Scan
	if scan == nil {
		scan = scanMap(r.Columns)
	}
	value, err := scan(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s=%q: %w", r.Table, r.key(), id, err)
	}
	return value, nil
}

// Query returns the lookup statement.
func (r Resolver) Query() (string, error) {
	if r.Table == "" {
		return "", ErrMissingTable
	}
	if r.Scan == nil && len(r.Columns) == 0 {
		return "", ErrMissingColumns
	}
	for _, name := range append([]string{r.Table, r.key()}, r.Columns...) {
		if !identifier.MatchString(name) {
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}

	columns := "*"
	if len(r.Columns) > 0 {
		columns = strings.Join(r.Columns, ", ")
	}
	query := "SELECT " + columns + " FROM " + r.Table + " WHERE " + r.key() + " = ? LIMIT 1"
	return normalizePlaceholders(query, r.Dialect), nil
}

func (r Resolver) key() string {
	if r.Key == "" {
		return "id"
	}
	return r.Key
}

func scanMap(columns []string) ScanFunc {
	return func(row Row) (any, error) {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := row.Scan(dest...); err != nil {
			return nil, err
		}

		out := make(map[string]any, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				out[column] = string(b)
				continue
			}
			out[column] = values[i]
		}
		return out, nil
	}
}

func normalizePlaceholders(query string, dialect Dialect) string {
	if dialect != DialectDollar {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query))
	idx := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(idx))
			idx++
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}
