// Package projection converts records into JSON-ready items.
package projection

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/roach88/restview/internal/property"
)

// ErrNoFieldSet is returned for records that neither implement Snapshot
// nor are plain maps.
var ErrNoFieldSet = errors.New("record does not expose its field set")

// Snapshot is implemented by records that know which fields were loaded
// from the backing store, in load order.
type Snapshot interface {
	OriginalFields() []string
}

// FieldTransform rewrites a projected value.
type FieldTransform func(v any) (any, error)

// Projector builds Items from records.
type Projector struct {
	resolver   *property.Resolver
	transforms map[string]FieldTransform
}

// Option configures a Projector.
type Option func(*Projector)

// WithResolver sets the resolver used to read field values.
func WithResolver(r *property.Resolver) Option {
	return func(p *Projector) {
		p.resolver = r
	}
}

// WithFieldTransform registers fn for field. It runs after the built-in
// value conversions.
func WithFieldTransform(field string, fn FieldTransform) Option {
	return func(p *Projector) {
		p.transforms[field] = fn
	}
}

// New creates a Projector.
func New(opts ...Option) *Projector {
	p := &Projector{transforms: make(map[string]FieldTransform)}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = property.NewResolver()
	}
	return p
}

// Project converts record into an Item.
//
// Fields are enumerated from the record's loaded field set. A non-empty
// fields list restricts the output to those names. Each value is read
// through the resolver, so accessors win over raw snapshot data. Fields
// that cannot be resolved are left out.
func (p *Projector) Project(record any, fields []string) (Item, error) {
	var item Item
	if record == nil {
		return item, nil
	}

	if lazy, ok := record.(property.Lazy); ok {
		if err := lazy.Load(); err != nil {
			return item, fmt.Errorf("load record: %w", err)
		}
	}

	names, err := fieldSet(record)
	if err != nil {
		return item, err
	}

	var selected map[string]struct{}
	if len(fields) > 0 {
		selected = make(map[string]struct{}, len(fields))
		for _, f := range fields {
			selected[f] = struct{}{}
		}
	}

	for _, name := range names {
		if selected != nil {
			if _, ok := selected[name]; !ok {
				continue
			}
		}

		v, ok := p.resolver.TryGetValue(record, name)
		if !ok {
			continue
		}

		v, err := p.convert(name, v)
		if err != nil {
			return Item{}, err
		}
		item.Set(name, v)
	}

	return item, nil
}

// ProjectAll projects every record. The result is never nil.
func (p *Projector) ProjectAll(records []any, fields []string) ([]Item, error) {
	items := make([]Item, 0, len(records))
	for i, rec := range records {
		item, err := p.Project(rec, fields)
		if err != nil {
			return nil, fmt.Errorf("project record %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *Projector) convert(field string, v any) (any, error) {
	switch val := v.(type) {
	case time.Time:
		v = val.Format(time.RFC3339Nano)
	case *time.Time:
		if val != nil {
			v = val.Format(time.RFC3339Nano)
		}
	case property.Lazy:
		if err := val.Load(); err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		if s, ok := val.(fmt.Stringer); ok {
			v = s.String()
		}
	}

	if fn, ok := p.transforms[field]; ok && fn != nil {
		out, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		v = out
	}
	return v, nil
}

func fieldSet(record any) ([]string, error) {
	switch rec := record.(type) {
	case Snapshot:
		return rec.OriginalFields(), nil
	case map[string]any:
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNoFieldSet, record)
	}
}
