package property

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Accessor returns a field value. It takes no arguments.
type Accessor func() any

// MethodSet is implemented by records that expose their accessors by
// method name ("GetName", "IsActive", "HasChildren").
type MethodSet interface {
	Accessor(method string) (Accessor, bool)
}

// Mapping is implemented by key-value records.
// Lookup reports whether the key is present, even when its value is nil.
type Mapping interface {
	Lookup(key string) (any, bool)
}

// Lazy is implemented by records whose data is materialized on demand.
// Load must be idempotent.
type Lazy interface {
	Load() error
}

// accessorPrefixes is the fixed probe order for accessor names.
var accessorPrefixes = [...]string{"Get", "Is", "Has"}

// Resolver resolves named fields on records.
// A Resolver is safe for concurrent use once its registry is populated.
type Resolver struct {
	registry *Registry
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry sets the accessor registry consulted for records that do not
// implement MethodSet.
func WithRegistry(r *Registry) Option {
	return func(res *Resolver) {
		res.registry = r
	}
}

// NewResolver creates a new Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TryGetValue resolves field on record.
// Returns (nil, false) when the field cannot be resolved. Never fails.
func (r *Resolver) TryGetValue(record any, field string) (any, bool) {
	value, ok, _ := r.resolve(record, field)
	return value, ok
}

// GetValue resolves field on record or returns a *FieldNotFoundError.
func (r *Resolver) GetValue(record any, field string) (any, error) {
	value, ok, loadErr := r.resolve(record, field)
	if !ok {
		return nil, &FieldNotFoundError{
			Field:  field,
			Record: describeRecord(record),
			cause:  loadErr,
		}
	}
	return value, nil
}

// HasGetter reports whether record exposes a Get, Is or Has accessor for
// field. Direct map keys do not count.
func (r *Resolver) HasGetter(record any, field string) bool {
	if lazy, ok := record.(Lazy); ok {
		if err := lazy.Load(); err != nil {
			return false
		}
	}
	_, ok := r.findAccessor(record, Camelize(field))
	return ok
}

// resolve returns the value, whether it was found, and a load error if the
// record could not be materialized.
func (r *Resolver) resolve(record any, field string) (any, bool, error) {
	if record == nil {
		return nil, false, nil
	}

	if lazy, ok := record.(Lazy); ok {
		if err := lazy.Load(); err != nil {
			return nil, false, err
		}
	}

	switch rec := record.(type) {
	case map[string]any:
		if v, ok := rec[field]; ok {
			return v, true, nil
		}
	case Mapping:
		if v, ok := rec.Lookup(field); ok {
			return v, true, nil
		}
	}

	accessor, ok := r.findAccessor(record, Camelize(field))
	if !ok {
		return nil, false, nil
	}
	return accessor(), true, nil
}

// findAccessor probes Get, Is and Has accessors in order.
func (r *Resolver) findAccessor(record any, suffix string) (Accessor, bool) {
	if suffix == "" {
		return nil, false
	}

	methods, hasMethods := record.(MethodSet)
	for _, prefix := range accessorPrefixes {
		name := prefix + suffix
		if hasMethods {
			if acc, ok := methods.Accessor(name); ok && acc != nil {
				return acc, true
			}
		}
		if acc, ok := r.registry.lookup(record, name); ok {
			return acc, true
		}
	}
	return nil, false
}

// Camelize converts a snake_case field name to its accessor suffix.
// Each underscore-separated word gets an upper-cased first letter and the
// underscores are removed: "created_at" -> "CreatedAt", "id" -> "Id".
// Characters other than the first letter of each word are left untouched.
func Camelize(field string) string {
	if field == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(field))
	for _, word := range strings.Split(field, "_") {
		if word == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(word[size:])
	}
	return b.String()
}
