// Package locale attaches the requested locale to REST API requests.
//
// The locale comes from the "locale" query parameter and is only honoured
// for paths under the REST prefix. Values are canonicalized as BCP 47 tags
// and rendered with underscores ("pt-br" → "pt_BR").
package locale

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// Param is the query parameter carrying the locale.
const Param = "locale"

// DefaultPrefix is the path prefix under which locales are honoured.
const DefaultPrefix = "/api/rest/"

type contextKey struct{}

// WithLocale returns a copy of ctx carrying loc.
func WithLocale(ctx context.Context, loc string) context.Context {
	return context.WithValue(ctx, contextKey{}, loc)
}

// FromContext returns the locale stored by WithLocale.
func FromContext(ctx context.Context) (string, bool) {
	loc, ok := ctx.Value(contextKey{}).(string)
	return loc, ok && loc != ""
}

// Normalize canonicalizes raw and renders it with underscores.
// Returns false when raw is not a well-formed language tag.
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(tag.String(), "-", "_"), true
}

// Tag converts an underscore locale back to a BCP 47 tag, as used by the
// Content-Language header.
func Tag(loc string) string {
	return strings.ReplaceAll(loc, "_", "-")
}

// Middleware stores the request's locale on its context for paths under
// prefix. An empty prefix uses DefaultPrefix. Malformed locales are ignored.
func Middleware(prefix string) gin.HandlerFunc {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			if loc, ok := Normalize(c.Query(Param)); ok {
				c.Request = c.Request.WithContext(WithLocale(c.Request.Context(), loc))
			}
		}
		c.Next()
	}
}
