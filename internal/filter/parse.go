// Package filter turns raw query strings into criteria trees.
//
// Parse scans a query string for FIELD OP VALUE triples and keeps only the
// whitelisted fields. Builder converts the triples into a criteria.And,
// applying per-field value transforms.
//
// Grammar (bit-exact):
//
//	FIELD = [A-Za-z0-9_-]+
//	OP    = ">=" | "<=" | "<>" | ">" | "<" | "="   (two-character operators first)
//	VALUE = [^&]+
//
// The whole query string is percent-decoded before scanning; FIELD and
// VALUE are form-decoded again after extraction. Anything that does not
// match the grammar is skipped.
package filter

import (
	"fmt"
	"regexp"

	"github.com/roach88/restview/internal/criteria"
)

// triplePattern matches one FIELD OP VALUE occurrence. The alternation lists
// two-character operators first so ">=" is never split into ">" and "=".
var triplePattern = regexp.MustCompile(`([A-Za-z0-9_-]+)(>=|<=|<>|>|<|=)([^&]+)`)

// Triple is one whitelisted field comparison taken from a query string.
type Triple struct {
	Field    string
	Operator criteria.Operator
	Value    string
}

// String renders the triple back in query-string form.
func (t Triple) String() string {
	return t.Field + t.Operator.String() + t.Value
}

// Parse extracts filter triples for whitelisted fields from rawQuery.
//
// Fields absent from whitelist are dropped without error. A field may occur
// more than once; every occurrence is kept in query-string order. Empty or
// malformed query strings yield an empty slice.
//
// Returns *ParseError only if the scanner itself fails.
func Parse(rawQuery string, whitelist []string) ([]Triple, error) {
	allowed := make(map[string]struct{}, len(whitelist))
	for _, name := range whitelist {
		allowed[name] = struct{}{}
	}

	matches, err := scan(decodeRaw(rawQuery))
	if err != nil {
		return nil, err
	}

	triples := []Triple{}
	for _, m := range matches {
		field := decodeForm(m[1])
		if _, ok := allowed[field]; !ok {
			continue
		}

		op, _ := criteria.ParseOperator(m[2])
		triples = append(triples, Triple{
			Field:    field,
			Operator: op,
			Value:    decodeForm(m[3]),
		})
	}

	return triples, nil
}

// scan runs the triple pattern over the decoded query string. A panic in
// the regexp engine is converted to a ParseError.
func scan(decoded string) (matches [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = &ParseError{Query: decoded, cause: fmt.Errorf("%v", r)}
		}
	}()

	return triplePattern.FindAllStringSubmatch(decoded, -1), nil
}
