package handler

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameters with a fixed meaning. They are never filters.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamFields = "fields"
)

// Params are the paging and projection parameters of a query string.
type Params struct {
	Page   int
	Limit  int
	Fields []string
}

// ParseParams reads page, limit and fields from q. Missing or malformed
// numbers are zero, which List replaces with the defaults. Fields fall
// back to defaultFields when absent or empty.
func ParseParams(q url.Values, defaultFields []string) Params {
	return Params{
		Page:   intParam(q, ParamPage),
		Limit:  intParam(q, ParamLimit),
		Fields: FieldsParam(q, defaultFields),
	}
}

// FieldsParam splits "fields=a,b" and falls back to defaults.
func FieldsParam(q url.Values, defaults []string) []string {
	raw, ok := q[ParamFields]
	if !ok || len(raw) == 0 {
		return defaults
	}
	var fields []string
	for _, f := range strings.Split(raw[0], ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return defaults
	}
	return fields
}

func intParam(q url.Values, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(name)))
	if err != nil {
		return 0
	}
	return n
}
