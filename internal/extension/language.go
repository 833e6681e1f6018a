package extension

import (
	"context"

	"github.com/roach88/restview/internal/locale"
)

// ContentLanguage sets Content-Language from the request's locale.
type ContentLanguage struct{}

// Supports requests that carry a locale.
func (ContentLanguage) Supports(c *Context) bool {
	if c.Request == nil {
		return false
	}
	_, ok := locale.FromContext(c.Request.Context())
	return ok
}

// Handle sets the header.
func (ContentLanguage) Handle(_ context.Context, c *Context) error {
	loc, _ := locale.FromContext(c.Request.Context())
	c.Response.Header.Set("Content-Language", locale.Tag(loc))
	return nil
}
