package filter

import (
	"github.com/roach88/restview/internal/criteria"
)

// Transform converts a raw filter value into a typed value. It receives the
// operator so a transform can, for example, round a date to the start or
// end of a day depending on the comparison direction.
type Transform func(value string, op criteria.Operator) (any, error)

// Builder converts filter triples into a criteria tree.
type Builder struct {
	transforms map[string]Transform
}

// NewBuilder creates a Builder with per-field transforms.
// A nil map means raw string values are used for every field.
func NewBuilder(transforms map[string]Transform) *Builder {
	return &Builder{transforms: transforms}
}

// Build converts triples into a conjunction of comparisons, in input order.
//
// Triples whose field is not in whitelist are skipped, so Build is safe to
// call on triples that did not come from Parse. Unknown operators are
// treated as equality. An equality whose transform yields a Range becomes
// two inclusive bounds. With no remaining triples the result is
// criteria.MatchAll().
//
// Returns *TransformError when a field transform rejects its value.
func (b *Builder) Build(triples []Triple, whitelist []string) (criteria.And, error) {
	allowed := make(map[string]struct{}, len(whitelist))
	for _, name := range whitelist {
		allowed[name] = struct{}{}
	}

	var leaves []criteria.Predicate
	for _, t := range triples {
		if _, ok := allowed[t.Field]; !ok {
			continue
		}

		op := t.Operator
		if !op.Valid() {
			op = criteria.EQ
		}

		var value any = t.Value
		if transform, ok := b.transforms[t.Field]; ok && transform != nil {
			typed, err := transform(t.Value, op)
			if err != nil {
				return criteria.And{}, &TransformError{Field: t.Field, Value: t.Value, cause: err}
			}
			value = typed
		}

		if r, ok := value.(Range); ok && op == criteria.EQ {
			leaves = append(leaves, criteria.Gte(t.Field, r.From), criteria.Lte(t.Field, r.To))
			continue
		}
		leaves = append(leaves, criteria.Comparison{Field: t.Field, Op: op, Value: value})
	}

	if len(leaves) == 0 {
		return criteria.MatchAll(), nil
	}
	return criteria.All(leaves...), nil
}

// FromQuery parses rawQuery and builds the criteria tree in one step.
func (b *Builder) FromQuery(rawQuery string, whitelist []string) (criteria.And, error) {
	triples, err := Parse(rawQuery, whitelist)
	if err != nil {
		return criteria.And{}, err
	}
	return b.Build(triples, whitelist)
}
