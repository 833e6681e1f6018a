// Package query defines the contract between request handlers and the
// component that actually runs queries.
//
// An Engine turns (limit, page, criteria) into an executable Handle and
// looks single records up by identifier. The store package provides the
// SQL-backed implementation; Memory serves fixed record sets and tests.
package query

import (
	"context"
	"math"

	"github.com/roach88/restview/internal/criteria"
)

// Engine builds paged queries and finds records by identifier.
type Engine interface {
	// BuildQuery prepares a query returning at most limit records from the
	// given 1-based page, filtered by pred. It does not touch the backend.
	BuildQuery(ctx context.Context, limit, page int, pred criteria.Predicate) (Handle, error)

	// FindByID returns the record with the given identifier.
	// A missing record is reported with found == false and a nil error.
	FindByID(ctx context.Context, id string) (record any, found bool, err error)
}

// Handle is a prepared query.
type Handle interface {
	// Execute runs the query. An empty result is an empty slice, not nil.
	Execute(ctx context.Context) ([]any, error)
}

// Counter is implemented by handles that can count every record matching
// the criteria, ignoring pagination.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Offset converts a 1-based page and a page size into a row offset.
// Pages below 1 are treated as page 1. Offsets that would overflow
// saturate at math.MaxInt, which lies past the end of any result.
func Offset(limit, page int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
