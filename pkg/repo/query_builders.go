package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is the minimal query surface shared by pgx.Tx and *pgxpool.Pool.
// Repositories obtain it from the request context and never manage
// transaction lifecycles themselves.
type Tx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert builds an INSERT statement with positional placeholders for the
// given columns. Extra arguments become a RETURNING clause.
func Insert(table string, fields []string, returning ...string) string {
	placeholders := make([]string, len(fields))
	for i := range fields {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
	)
	if len(returning) > 0 {
		q += " RETURNING " + strings.Join(returning, ", ")
	}
	return q
}

// Update builds an UPDATE statement assigning $1..$n to the given columns,
// followed by the provided WHERE condition (which references later
// placeholders).
func Update(table string, fields []string, where string) string {
	assignments := make([]string, len(fields))
	for i, f := range fields {
		assignments[i] = fmt.Sprintf("%s = $%d", f, i+1)
	}
	q := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(assignments, ", "))
	if where != "" {
		q += " WHERE " + where
	}
	return q
}

// Join concatenates non-empty SQL fragments with single spaces.
func Join(parts ...string) string {
	filtered := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			filtered = append(filtered, p)
		}
	}
	return strings.Join(filtered, " ")
}

// JoinWhere renders a WHERE clause combining all conditions with AND.
func JoinWhere(conditions ...string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

// FormatLimitOffset renders LIMIT/OFFSET, omitting non-positive parts.
func FormatLimitOffset(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf("LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf("OFFSET %d", offset)
	default:
		return ""
	}
}
