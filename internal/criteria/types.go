package criteria

import "fmt"

// Operator is a comparison operator in a filter leaf.
type Operator int

const (
	// EQ is "=".
	EQ Operator = iota
	// NEQ is "<>".
	NEQ
	// GT is ">".
	GT
	// GTE is ">=".
	GTE
	// LT is "<".
	LT
	// LTE is "<=".
	LTE
)

var operatorSymbols = [...]string{
	EQ:  "=",
	NEQ: "<>",
	GT:  ">",
	GTE: ">=",
	LT:  "<",
	LTE: "<=",
}

// String returns the operator symbol as written in query strings and SQL.
func (op Operator) String() string {
	if op < EQ || op > LTE {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operatorSymbols[op]
}

// Valid reports whether op is one of the six known operators.
func (op Operator) Valid() bool {
	return op >= EQ && op <= LTE
}

// ParseOperator maps an operator symbol to an Operator.
// Returns (EQ, false) for unknown symbols.
func ParseOperator(symbol string) (Operator, bool) {
	for op, s := range operatorSymbols {
		if s == symbol {
			return Operator(op), true
		}
	}
	return EQ, false
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Comparison: field <op> value
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Comparison compares a record field to a value.
//
// Semantics:
//
//	<field> <op> <value>
//
// Value is whatever the filter builder produced for the field: the raw
// query-string text, or a typed value (int64, float64, bool, time.Time)
// when a transform is configured.
type Comparison struct {
	Field string
	Op    Operator
	Value any
}

func (Comparison) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// Returns true if Predicates is empty (vacuous truth).
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Eq builds an equality leaf.
func Eq(field string, value any) Comparison {
	return Comparison{Field: field, Op: EQ, Value: value}
}

// Neq builds a not-equals leaf.
func Neq(field string, value any) Comparison {
	return Comparison{Field: field, Op: NEQ, Value: value}
}

// Gt builds a greater-than leaf.
func Gt(field string, value any) Comparison {
	return Comparison{Field: field, Op: GT, Value: value}
}

// Gte builds a greater-or-equal leaf.
func Gte(field string, value any) Comparison {
	return Comparison{Field: field, Op: GTE, Value: value}
}

// Lt builds a less-than leaf.
func Lt(field string, value any) Comparison {
	return Comparison{Field: field, Op: LT, Value: value}
}

// Lte builds a less-or-equal leaf.
func Lte(field string, value any) Comparison {
	return Comparison{Field: field, Op: LTE, Value: value}
}

// All returns the conjunction of preds, in order.
func All(preds ...Predicate) And {
	return And{Predicates: preds}
}

// MatchAll returns the always-true predicate.
func MatchAll() And {
	return And{}
}

// Conjoin appends more to base, flattening a top-level And so the result
// stays a single flat conjunction. A nil base is treated as MatchAll.
func Conjoin(base Predicate, more ...Predicate) Predicate {
	if len(more) == 0 {
		if base == nil {
			return MatchAll()
		}
		return base
	}

	var preds []Predicate
	switch b := base.(type) {
	case nil:
	case And:
		preds = append(preds, b.Predicates...)
	case *And:
		preds = append(preds, b.Predicates...)
	default:
		preds = append(preds, b)
	}
	preds = append(preds, more...)
	return And{Predicates: preds}
}

// Leaves returns the comparisons of p in evaluation order.
func Leaves(p Predicate) []Comparison {
	var out []Comparison
	var walk func(Predicate)
	walk = func(p Predicate) {
		switch pred := p.(type) {
		case Comparison:
			out = append(out, pred)
		case *Comparison:
			out = append(out, *pred)
		case And:
			for _, sub := range pred.Predicates {
				walk(sub)
			}
		case *And:
			for _, sub := range pred.Predicates {
				walk(sub)
			}
		}
	}
	walk(p)
	return out
}
