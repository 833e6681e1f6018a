package query

import (
	"context"
	"fmt"

	"github.com/roach88/restview/internal/criteria"
	"github.com/roach88/restview/internal/property"
)

// Memory is an Engine over a fixed, ordered slice of records.
// Records are matched with criteria.Evaluate and identified by IDField.
type Memory struct {
	records  []any
	idField  string
	resolver *property.Resolver
}

// MemoryOption configures a Memory engine.
type MemoryOption func(*Memory)

// WithIDField sets the field used by FindByID. Default "id".
func WithIDField(field string) MemoryOption {
	return func(m *Memory) {
		m.idField = field
	}
}

// WithResolver sets the resolver used to read record fields.
func WithResolver(r *property.Resolver) MemoryOption {
	return func(m *Memory) {
		m.resolver = r
	}
}

// NewMemory creates an engine serving records in the given order.
func NewMemory(records []any, opts ...MemoryOption) *Memory {
	m := &Memory{
		records: records,
		idField: "id",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.resolver == nil {
		m.resolver = property.NewResolver()
	}
	return m
}

// BuildQuery validates pred and returns a handle over the matching page.
func (m *Memory) BuildQuery(_ context.Context, limit, page int, pred criteria.Predicate) (Handle, error) {
	if pred != nil {
		if err := criteria.Validate(pred).Err(); err != nil {
			return nil, err
		}
	}
	return &memoryHandle{engine: m, pred: pred, limit: limit, offset: Offset(limit, page)}, nil
}

// FindByID returns the first record whose ID field renders as id.
func (m *Memory) FindByID(ctx context.Context, id string) (any, bool, error) {
	for _, rec := range m.records {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		v, ok := m.resolver.TryGetValue(rec, m.idField)
		if ok && v != nil && fmt.Sprint(v) == id {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

type memoryHandle struct {
	engine *Memory
	pred   criteria.Predicate
	limit  int
	offset int
}

func (h *memoryHandle) matching(ctx context.Context) ([]any, error) {
	out := []any{}
	for _, rec := range h.engine.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := criteria.Evaluate(h.pred, rec, h.engine.resolver)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Execute returns the requested page of matching records.
func (h *memoryHandle) Execute(ctx context.Context) ([]any, error) {
	all, err := h.matching(ctx)
	if err != nil {
		return nil, err
	}
	if h.offset >= len(all) {
		return []any{}, nil
	}
	end := len(all)
	if h.limit > 0 && h.limit < end-h.offset {
		end = h.offset + h.limit
	}
	return all[h.offset:end], nil
}

// Count returns the number of matching records across all pages.
func (h *memoryHandle) Count(ctx context.Context) (int64, error) {
	all, err := h.matching(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
