package locale

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"en-US", "en_US", true},
		{"pt-br", "pt_BR", true},
		{"de_AT", "de_AT", true},
		{"", "", false},
		{"not a locale!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	loc, ok := FromContext(WithLocale(context.Background(), "fr_CA"))
	assert.True(t, ok)
	assert.Equal(t, "fr_CA", loc)
	assert.Equal(t, "fr-CA", Tag(loc))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"rest path", "/api/rest/products?locale=en-gb", "en_GB"},
		{"other path", "/health?locale=en-gb", ""},
		{"no param", "/api/rest/products", ""},
		{"bad value", "/api/rest/products?locale=%21%21", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := gin.New()
			r.Use(Middleware(""))
			r.GET("/*path", func(c *gin.Context) {
				got, _ = FromContext(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}
