package criteria

import (
	"fmt"
	"time"
)

// ValidationResult contains the problems found in a criteria tree.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems lists every issue found, in traversal order.
	Problems []string
}

// Err returns the first problem as an error, or nil when the tree is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid criteria: %s", r.Problems[0])
}

// Validate checks that every leaf has a field name, a known operator and a
// value of a supported type. Nil values are only allowed with = and <>.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validatePredicate(p)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

// addProblem appends a problem message.
func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		return // nil predicates are valid (no filter)
	}

	switch pred := p.(type) {
	case Comparison:
		v.validateComparison(pred)
	case *Comparison:
		v.validateComparison(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateComparison(c Comparison) {
	if c.Field == "" {
		v.addProblem("comparison with empty field name")
	}
	if !c.Op.Valid() {
		v.addProblem("field %q: unknown operator %s", c.Field, c.Op)
	}
	if c.Value == nil {
		if c.Op != EQ && c.Op != NEQ {
			v.addProblem("field %q: nil value only allowed with = and <>", c.Field)
		}
		return
	}
	if !supportedValue(c.Value) {
		v.addProblem("field %q: unsupported value type %T", c.Field, c.Value)
	}
}

// validateAnd validates all sub-predicates.
func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}

// supportedValue reports whether a comparison value can be evaluated and
// bound as a SQL parameter.
func supportedValue(value any) bool {
	switch value.(type) {
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
