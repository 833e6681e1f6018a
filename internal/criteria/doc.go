// Package criteria provides the boolean filter expression tree passed from
// the request layer to query engines.
//
// The tree is deliberately small:
//
//	[query string] → [filter triples] → [criteria tree] → [SQL backend]
//	                                                    → [in-memory backend]
//
// SUPPORTED FRAGMENT:
//   - Comparison(field, op, value) with op in =, <>, >, >=, <, <=
//   - And(predicates...) - conjunction, evaluated in input order
//
// EXCLUDED:
//   - OR predicates and grouping
//   - subqueries, joins, aggregations
//
// SEALED INTERFACES:
//
// Predicate is sealed with a marker method. Only types in this package
// implement it, so backends can switch exhaustively:
//
//	switch p := pred.(type) {
//	case Comparison:
//	    // leaf
//	case And:
//	    // conjunction
//	}
//
// An empty And is always true. Leaf order is preserved from construction to
// compilation so backends see a reproducible predicate order.
package criteria
