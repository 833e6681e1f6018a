package criteria

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/restview/internal/property"
)

// Evaluate reports whether record satisfies p. Field values are read with
// the resolver's TryGetValue; a field that cannot be resolved never matches,
// the way SQL comparisons against a missing column value never hold.
//
// Returns an error only for trees that fail Validate.
func Evaluate(p Predicate, record any, r *property.Resolver) (bool, error) {
	switch pred := p.(type) {
	case nil:
		return true, nil
	case Comparison:
		return evalComparison(pred, record, r)
	case *Comparison:
		return evalComparison(*pred, record, r)
	case And:
		return evalAnd(pred, record, r)
	case *And:
		return evalAnd(*pred, record, r)
	default:
		return false, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func evalAnd(and And, record any, r *property.Resolver) (bool, error) {
	for _, sub := range and.Predicates {
		ok, err := Evaluate(sub, record, r)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalComparison(c Comparison, record any, r *property.Resolver) (bool, error) {
	if !c.Op.Valid() {
		return false, fmt.Errorf("field %q: unknown operator %s", c.Field, c.Op)
	}

	actual, ok := r.TryGetValue(record, c.Field)
	if !ok {
		return false, nil
	}

	if actual == nil || c.Value == nil {
		both := actual == nil && c.Value == nil
		switch c.Op {
		case EQ:
			return both, nil
		case NEQ:
			return !both, nil
		default:
			return false, nil
		}
	}

	cmp, orderable := Compare(actual, c.Value)
	if !orderable {
		// Incomparable values are only ever "not equal".
		return c.Op == NEQ, nil
	}

	switch c.Op {
	case EQ:
		return cmp == 0, nil
	case NEQ:
		return cmp != 0, nil
	case GT:
		return cmp > 0, nil
	case GTE:
		return cmp >= 0, nil
	case LT:
		return cmp < 0, nil
	default: // LTE
		return cmp <= 0, nil
	}
}

// Compare orders a against b, returning -1, 0 or 1.
//
// Numbers compare numerically across integer and float types. A string
// compares numerically against a number when it parses as one, and as a
// timestamp against a time.Time when it parses as RFC 3339 or a date.
// Booleans only compare for equality with booleans (false < true).
// Returns false when no ordering applies.
func Compare(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return compareOrdered(af, bf), true
		}
		if bs, ok := b.(string); ok {
			if bf, err := strconv.ParseFloat(strings.TrimSpace(bs), 64); err == nil {
				return compareOrdered(af, bf), true
			}
		}
		return 0, false
	}

	switch av := a.(type) {
	case string:
		switch bv := b.(type) {
		case string:
			return strings.Compare(av, bv), true
		case time.Time:
			if at, ok := parseTime(av); ok {
				return at.Compare(bv), true
			}
			return 0, false
		case bool:
			if ab, err := strconv.ParseBool(av); err == nil {
				return compareBool(ab, bv), true
			}
			return 0, false
		default:
			if bf, ok := toFloat(b); ok {
				if af, err := strconv.ParseFloat(strings.TrimSpace(av), 64); err == nil {
					return compareOrdered(af, bf), true
				}
			}
			return 0, false
		}
	case time.Time:
		switch bv := b.(type) {
		case time.Time:
			return av.Compare(bv), true
		case string:
			if bt, ok := parseTime(bv); ok {
				return av.Compare(bt), true
			}
		}
		return 0, false
	case bool:
		switch bv := b.(type) {
		case bool:
			return compareBool(av, bv), true
		case string:
			if bb, err := strconv.ParseBool(bv); err == nil {
				return compareBool(av, bb), true
			}
		}
		return 0, false
	}
	return 0, false
}

func compareOrdered(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// timeLayouts are tried in order when a string is compared to a time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
