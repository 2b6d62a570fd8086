// Package postgres implements the relational half of the remote data
// gateway over a pgx connection pool. Joined selects are rendered as a
// single statement returning each row as one jsonb document, so related
// rows arrive exactly as the backend shapes them (array, object or null).
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daybook-app/daybook/internal/gateway"
)

// Rows implements gateway.Rows over a pgxpool.Pool.
type Rows struct {
	pool *pgxpool.Pool
}

// NewRows returns a gateway bound to the given pool.
func NewRows(pool *pgxpool.Pool) *Rows {
	return &Rows{pool: pool}
}

// renderSelect turns a SelectQuery into one SQL statement that returns each
// matching row as a jsonb document with the joins embedded under their table
// names. Kept pure so the rendering is unit-testable without a database.
func renderSelect(q gateway.SelectQuery) (string, []any) {
	var b strings.Builder

	b.WriteString("SELECT to_jsonb(t)")

	if len(q.Joins) > 0 {
		b.WriteString(" || jsonb_build_object(")
		for i, j := range q.Joins {
			if i > 0 {
				b.WriteString(", ")
			}
			doc := "to_jsonb(c)"
			if len(j.Columns) > 0 {
				pairs := make([]string, len(j.Columns))
				for n, col := range j.Columns {
					pairs[n] = fmt.Sprintf("'%s', c.%s", col, col)
				}
				doc = "jsonb_build_object(" + strings.Join(pairs, ", ") + ")"
			}
			fmt.Fprintf(&b, "'%s', ", j.Table)
			if j.Single {
				fmt.Fprintf(&b, "(SELECT %s FROM %s c WHERE c.%s = t.id LIMIT 1)",
					doc, j.Table, j.On)
			} else {
				fmt.Fprintf(&b, "COALESCE((SELECT jsonb_agg(%s) FROM %s c WHERE c.%s = t.id), '[]'::jsonb)",
					doc, j.Table, j.On)
			}
		}
		b.WriteString(")")
	}

	fmt.Fprintf(&b, " FROM %s t", q.Table)

	var args []any
	if q.Filter != nil {
		args = append(args, q.Filter.Value)
		fmt.Fprintf(&b, " WHERE t.%s = $1", q.Filter.Column)
	}

	if q.OrderBy != "" {
		fmt.Fprintf(&b, " ORDER BY t.%s", q.OrderBy)
		if q.Descending {
			b.WriteString(" DESC")
		}
	}

	return b.String(), args
}

// Select runs a query with join expansion and decodes each jsonb document
// into a gateway.Row.
func (r *Rows) Select(ctx context.Context, q gateway.SelectQuery) ([]gateway.Row, error) {
	sql, args := renderSelect(q)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}
	defer rows.Close()

	var result []gateway.Row
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Table, err)
		}
		row := gateway.Row{}
		if err := json.Unmarshal(doc, &row); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", q.Table, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}
	return result, nil
}

// Insert adds one row and returns it as stored, decoded from a
// RETURNING to_jsonb clause so server-assigned columns come back too.
func (r *Rows) Insert(ctx context.Context, table string, fields map[string]any) (gateway.Row, error) {
	cols := sortedKeys(fields)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fields[c]
	}

	sql := fmt.Sprintf("INSERT INTO %s AS t (%s) VALUES (%s) RETURNING to_jsonb(t)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	var doc []byte
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&doc); err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	row := gateway.Row{}
	if err := json.Unmarshal(doc, &row); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", table, err)
	}
	return row, nil
}

// Update modifies one row by id and refreshes updated_at columns implicitly
// through the table trigger if one exists. Updating a missing row is an error.
func (r *Rows) Update(ctx context.Context, table string, id int64, fields map[string]any) error {
	cols := sortedKeys(fields)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	args = append(args, id)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
		args = append(args, fields[c])
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", table, strings.Join(sets, ", "))

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s id %d: %w", table, id, gateway.ErrNoRow)
	}
	return nil
}

// Delete removes one row by id. Deleting an already-absent row succeeds,
// matching the backend's behaviour and keeping cleanup paths re-runnable.
func (r *Rows) Delete(ctx context.Context, table string, id int64) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
	if _, err := r.pool.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
