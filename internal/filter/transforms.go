package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/restview/internal/criteria"
)

// Int parses the value as a base-10 int64.
func Int(value string, _ criteria.Operator) (any, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// Float parses the value as a float64.
func Float(value string, _ criteria.Operator) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// Bool parses the value with strconv.ParseBool ("1", "true", "f", ...).
func Bool(value string, _ criteria.Operator) (any, error) {
	return strconv.ParseBool(strings.TrimSpace(value))
}

// Lower lower-cases the value.
func Lower(value string, _ criteria.Operator) (any, error) {
	return strings.ToLower(value), nil
}

// Range is a transformed value covering an inclusive interval. Builder
// expands an equality against a Range into From <= field <= To.
type Range struct {
	From any
	To   any
}

// Date parses a YYYY-MM-DD day in UTC. For > and <= the end of the day is
// used so "created_at<=2024-01-31" includes the whole of January 31st.
// Equality matches any instant of that day. Other operators, including
// <>, compare against midnight.
func Date(value string, op criteria.Operator) (any, error) {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	end := day.Add(24*time.Hour - time.Nanosecond)
	switch op {
	case criteria.GT, criteria.LTE:
		return end, nil
	case criteria.EQ:
		return Range{From: day, To: end}, nil
	}
	return day, nil
}

// DateTime parses an RFC 3339 timestamp, falling back to a bare date.
func DateTime(value string, op criteria.Operator) (any, error) {
	v := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateTime, v); err == nil {
		return t, nil
	}
	return Date(v, op)
}

var namedTransforms = map[string]Transform{
	"int":      Int,
	"float":    Float,
	"bool":     Bool,
	"lower":    Lower,
	"date":     Date,
	"datetime": DateTime,
}

// Named returns the built-in transform registered under name.
func Named(name string) (Transform, bool) {
	t, ok := namedTransforms[name]
	return t, ok
}

// NamedTransforms returns the names of the built-in transforms, sorted.
func NamedTransforms() []string {
	names := make([]string, 0, len(namedTransforms))
	for name := range namedTransforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTransforms maps field → transform name to field → Transform.
func ResolveTransforms(byField map[string]string) (map[string]Transform, error) {
	out := make(map[string]Transform, len(byField))
	for field, name := range byField {
		if name == "" {
			continue
		}
		t, ok := Named(name)
		if !ok {
			return nil, fmt.Errorf("field %q: unknown transform %q (known: %s)",
				field, name, strings.Join(NamedTransforms(), ", "))
		}
		out[field] = t
	}
	return out, nil
}
