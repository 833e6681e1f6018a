package extension

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/restview/internal/query"
)

const (
	// HeaderInclude lists optional response decorations the client wants.
	HeaderInclude = "X-Include"

	// HeaderTotalCount carries the number of matching records on all pages.
	HeaderTotalCount = "X-Include-Total-Count"

	includeTotalCount = "totalcount"
)

// TotalCount answers list requests carrying "X-Include: totalCount" with
// the X-Include-Total-Count header.
type TotalCount struct{}

// Supports list responses whose request asked for the total and whose
// query can count.
func (TotalCount) Supports(c *Context) bool {
	if c.Action != ActionList || c.Request == nil {
		return false
	}
	if _, ok := c.Value(ValueQuery).(query.Counter); !ok {
		return false
	}
	for _, header := range c.Request.Header.Values(HeaderInclude) {
		for _, part := range strings.Split(header, ",") {
			if strings.ToLower(strings.TrimSpace(part)) == includeTotalCount {
				return true
			}
		}
	}
	return false
}

// Handle runs the count query.
func (TotalCount) Handle(ctx context.Context, c *Context) error {
	counter := c.Value(ValueQuery).(query.Counter)
	n, err := counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("total count: %w", err)
	}
	c.Response.Header.Set(HeaderTotalCount, strconv.FormatInt(n, 10))
	return nil
}
