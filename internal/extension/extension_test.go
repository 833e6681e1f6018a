package extension

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/restview/internal/criteria"
	"github.com/roach88/restview/internal/locale"
	"github.com/roach88/restview/internal/metrics"
	"github.com/roach88/restview/internal/query"
)

func newContext(action Action, req *http.Request, values map[string]any) *Context {
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/api/rest/products", nil)
	}
	return &Context{
		Action:   action,
		Resource: "products",
		Request:  req,
		Response: NewResponse(http.StatusOK, []any{}),
		Values:   values,
	}
}

// recorder appends its name to a shared log.
func recorder(name string, log *[]string, supports bool) Func {
	return Func{
		SupportsFunc: func(*Context) bool { return supports },
		HandleFunc: func(context.Context, *Context) error {
			*log = append(*log, name)
			return nil
		},
	}
}

func TestChain_RunsInRegistrationOrder(t *testing.T) {
	var log []string
	chain := NewChain(
		recorder("a", &log, true),
		recorder("skipped", &log, false),
		nil,
		recorder("b", &log, true),
		recorder("c", &log, true),
	)

	require.NoError(t, chain.Dispatch(context.Background(), newContext(ActionList, nil, nil)))
	assert.Equal(t, []string{"a", "b", "c"}, log)
	assert.Equal(t, 4, chain.Len())
}

func TestChain_FirstErrorAborts(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	chain := NewChain(
		recorder("a", &log, true),
		Func{HandleFunc: func(context.Context, *Context) error { return boom }},
		recorder("never", &log, true),
	)

	err := chain.Dispatch(context.Background(), newContext(ActionList, nil, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, log)
}

func TestChain_ExtensionsMayReplaceBody(t *testing.T) {
	chain := NewChain(Func{HandleFunc: func(_ context.Context, c *Context) error {
		c.Response.Body = map[string]any{"data": c.Response.Body}
		return nil
	}})

	ec := newContext(ActionRead, nil, nil)
	ec.Response.Body = "x"
	require.NoError(t, chain.Dispatch(context.Background(), ec))
	assert.Equal(t, map[string]any{"data": "x"}, ec.Response.Body)
}

func TestChain_Nil(t *testing.T) {
	var chain *Chain
	assert.NoError(t, chain.Dispatch(context.Background(), newContext(ActionList, nil, nil)))
	assert.Equal(t, 0, chain.Len())
}

func TestRequestID(t *testing.T) {
	ext := NewRequestID(NewFixedGenerator("req-1"))

	ec := newContext(ActionList, nil, nil)
	require.True(t, ext.Supports(ec))
	require.NoError(t, ext.Handle(context.Background(), ec))
	assert.Equal(t, "req-1", ec.Response.Header.Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/api/rest/products", nil)
	req.Header.Set(HeaderRequestID, "caller-id")
	ec = newContext(ActionList, req, nil)
	require.NoError(t, ext.Handle(context.Background(), ec))
	assert.Equal(t, "caller-id", ec.Response.Header.Get(HeaderRequestID))
}

func TestRequestID_DefaultGeneratorIsUUIDv7(t *testing.T) {
	ec := newContext(ActionRead, nil, nil)
	require.NoError(t, NewRequestID(nil).Handle(context.Background(), ec))

	id := ec.Response.Header.Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, byte('7'), id[14])
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestContentLanguage(t *testing.T) {
	ext := ContentLanguage{}

	ec := newContext(ActionList, nil, nil)
	assert.False(t, ext.Supports(ec))

	req := httptest.NewRequest(http.MethodGet, "/api/rest/products", nil)
	req = req.WithContext(locale.WithLocale(req.Context(), "pt_BR"))
	ec = newContext(ActionList, req, nil)
	require.True(t, ext.Supports(ec))
	require.NoError(t, ext.Handle(context.Background(), ec))
	assert.Equal(t, "pt-BR", ec.Response.Header.Get("Content-Language"))
}

func TestTotalCount(t *testing.T) {
	ctx := context.Background()
	engine := query.NewMemory([]any{
		map[string]any{"id": 1}, map[string]any{"id": 2}, map[string]any{"id": 3},
	})
	handle, err := engine.BuildQuery(ctx, 1, 1, criteria.MatchAll())
	require.NoError(t, err)
	values := map[string]any{ValueQuery: handle}

	ext := TotalCount{}

	// Not requested.
	assert.False(t, ext.Supports(newContext(ActionList, nil, values)))

	req := httptest.NewRequest(http.MethodGet, "/api/rest/products", nil)
	req.Header.Set(HeaderInclude, "links, totalCount")

	// Reads never count.
	assert.False(t, ext.Supports(newContext(ActionRead, req, values)))
	// Lists without a counting query are skipped.
	assert.False(t, ext.Supports(newContext(ActionList, req, nil)))

	ec := newContext(ActionList, req, values)
	require.True(t, ext.Supports(ec))
	require.NoError(t, ext.Handle(ctx, ec))
	assert.Equal(t, "3", ec.Response.Header.Get(HeaderTotalCount))
}

func TestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	ext := NewMetrics(m)

	ec := newContext(ActionList, nil, nil)
	ec.Response.Body = []int{1, 2}
	require.True(t, ext.Supports(ec))
	require.NoError(t, ext.Handle(context.Background(), ec))

	ec = newContext(ActionRead, nil, nil)
	ec.Response.Status = http.StatusNotFound
	ec.Response.Body = nil
	require.NoError(t, ext.Handle(context.Background(), ec))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesTotal.WithLabelValues("products", "list", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesTotal.WithLabelValues("products", "read", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ListItems))
}
