package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReferenceSpec declares a foreign-key column and how to label it.
type ReferenceSpec struct {
	Table       string
	IDColumn    string // defaults to "id"
	LabelColumn string
}

// Reference is a lazily loaded foreign-key value.
type Reference struct {
	store *Store
	// ctx is the context of the query that produced the reference.
	ctx  context.Context
	spec ReferenceSpec
	key  any

	loaded bool
	found  bool
	label  string
}

func newReference(ctx context.Context, s *Store, spec ReferenceSpec, key any) *Reference {
	return &Reference{store: s, ctx: ctx, spec: spec, key: key}
}

// Key returns the raw foreign-key value.
func (r *Reference) Key() any {
	return r.key
}

// Loaded reports whether Load has fetched the referenced row.
func (r *Reference) Loaded() bool {
	return r.loaded
}

// Load fetches the label of the referenced row. It is idempotent.
// A dangling key is not an error; String then falls back to the key.
func (r *Reference) Load() error {
	if r.loaded {
		return nil
	}

	query, params, err := r.store.compiler.CompileFindByID(
		r.spec.Table, r.spec.IDColumn, []string{r.spec.LabelColumn}, r.key)
	if err != nil {
		return err
	}

	var label any
	err = r.store.db.QueryRowContext(r.ctx, query, params...).Scan(&label)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		r.found = false
	case err != nil:
		return fmt.Errorf("load %s reference %v: %w", r.spec.Table, r.key, err)
	default:
		r.found = true
		if b, ok := label.([]byte); ok {
			label = string(b)
		}
		if label != nil {
			r.label = fmt.Sprint(label)
		}
	}

	r.loaded = true
	return nil
}

// String returns the label of the referenced row, or the key when the row
// has not been loaded or does not exist.
func (r *Reference) String() string {
	if r.loaded && r.found {
		return r.label
	}
	return fmt.Sprint(r.key)
}
