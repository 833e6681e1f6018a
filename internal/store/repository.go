package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/restview/internal/criteria"
	"github.com/roach88/restview/internal/query"
	"github.com/roach88/restview/internal/querysql"
)

// Table describes a table exposed as a resource.
type Table struct {
	Name       string
	IDColumn   string   // defaults to "id"
	Columns    []string // empty selects every column
	References map[string]ReferenceSpec
}

// Repository runs read queries against one table.
// It implements query.Engine.
type Repository struct {
	store *Store
	table Table
}

var _ query.Engine = (*Repository)(nil)

// Repository returns a query engine for table.
func (s *Store) Repository(table Table) *Repository {
	if table.IDColumn == "" {
		table.IDColumn = "id"
	}
	return &Repository{store: s, table: table}
}

// Table returns the table description.
func (r *Repository) Table() Table {
	return r.table
}

// BuildQuery compiles the list and count statements. Nothing is executed
// until Execute or Count is called.
func (r *Repository) BuildQuery(_ context.Context, limit, page int, pred criteria.Predicate) (query.Handle, error) {
	sel := querysql.Select{
		From:    r.table.Name,
		Columns: r.table.Columns,
		Filter:  pred,
		OrderBy: r.table.IDColumn,
		Limit:   limit,
		Offset:  query.Offset(limit, page),
	}

	listSQL, listParams, err := r.store.compiler.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("compile %s query: %w", r.table.Name, err)
	}
	countSQL, countParams, err := r.store.compiler.CompileCount(sel)
	if err != nil {
		return nil, fmt.Errorf("compile %s count: %w", r.table.Name, err)
	}

	return &Handle{
		repo:        r,
		sql:         listSQL,
		params:      listParams,
		countSQL:    countSQL,
		countParams: countParams,
	}, nil
}

// FindByID returns the row whose identifier column equals id.
func (r *Repository) FindByID(ctx context.Context, id string) (any, bool, error) {
	q, params, err := r.store.compiler.CompileFindByID(r.table.Name, r.table.IDColumn, r.table.Columns, id)
	if err != nil {
		return nil, false, err
	}

	rows, err := r.store.db.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", r.table.Name, err)
	}
	defer rows.Close()

	found, err := scanRows(rows, r.wrapper(ctx))
	if err != nil {
		return nil, false, err
	}
	if len(found) == 0 {
		return nil, false, nil
	}
	return found[0], true, nil
}

// wrapper turns reference columns into lazy References.
func (r *Repository) wrapper(ctx context.Context) func(string, any) any {
	if len(r.table.References) == 0 {
		return nil
	}
	return func(column string, v any) any {
		spec, ok := r.table.References[column]
		if !ok {
			return v
		}
		return newReference(ctx, r.store, spec, v)
	}
}

// Handle is a compiled list query. It implements query.Handle and
// query.Counter.
type Handle struct {
	repo        *Repository
	sql         string
	params      []any
	countSQL    string
	countParams []any
}

// SQL returns the compiled list statement and its parameters.
func (h *Handle) SQL() (string, []any) {
	return h.sql, h.params
}

// Execute runs the list query.
func (h *Handle) Execute(ctx context.Context) ([]any, error) {
	rows, err := h.repo.store.db.QueryContext(ctx, h.sql, h.params...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", h.repo.table.Name, err)
	}
	defer rows.Close()

	return scanRows(rows, h.repo.wrapper(ctx))
}

// Count returns the number of rows matching the criteria on every page.
func (h *Handle) Count(ctx context.Context) (int64, error) {
	var n int64
	err := h.repo.store.db.QueryRowContext(ctx, h.countSQL, h.countParams...).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("count %s: %w", h.repo.table.Name, err)
	}
	return n, nil
}
