package store

import (
	"database/sql"
	"fmt"
)

// Row is one database row with its column order preserved.
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) *Row {
	r := &Row{
		columns: append([]string(nil), columns...),
		values:  make(map[string]any, len(columns)),
	}
	for i, col := range columns {
		if i < len(values) {
			r.values[col] = values[i]
		} else {
			r.values[col] = nil
		}
	}
	return r
}

// Columns returns the loaded column names in SELECT order.
func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// OriginalFields returns the loaded column names in SELECT order.
func (r *Row) OriginalFields() []string {
	return r.Columns()
}

// Lookup returns the value of column key. A NULL column is present with a
// nil value.
func (r *Row) Lookup(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String renders the row for logs and test failures.
func (r *Row) String() string {
	return fmt.Sprintf("Row%v", r.values)
}

// scanRows reads every row of rows. []byte values become strings.
// Returns an empty slice (not nil) for an empty result.
func scanRows(rows *sql.Rows, wrap func(column string, v any) any) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []any{}
	for rows.Next() {
		row, err := scanRow(rows, columns, wrap)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows, columns []string, wrap func(column string, v any) any) (*Row, error) {
	raw := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	for i, v := range raw {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		if wrap != nil && v != nil {
			v = wrap(columns[i], v)
		}
		raw[i] = v
	}
	return NewRow(columns, raw), nil
}
