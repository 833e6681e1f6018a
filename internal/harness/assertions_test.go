package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exchange(status int, body string) Exchange {
	return Exchange{Name: "r", Status: status, Body: json.RawMessage(body)}
}

func TestCheckExchange_NilExpectRequires200(t *testing.T) {
	assert.Empty(t, checkExchange(exchange(200, `[]`), nil))

	errs := checkExchange(exchange(500, `{}`), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Check)
	assert.Equal(t, "200", errs[0].Expected)
	assert.Equal(t, "500", errs[0].Actual)
}

func TestCheckExchange_Count(t *testing.T) {
	one := 1
	assert.Empty(t, checkExchange(exchange(200, `[{"id":1}]`), &Expect{Count: &one}))

	errs := checkExchange(exchange(200, `[]`), &Expect{Count: &one})
	require.Len(t, errs, 1)
	assert.Equal(t, "count", errs[0].Check)

	errs = checkExchange(exchange(200, `{"id":1}`), &Expect{Count: &one})
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Check)
}

func TestCheckExchange_ItemsSubsetMatch(t *testing.T) {
	body := `[{"id":1,"name":"pen","price":5},{"id":2,"name":"book"}]`

	assert.Empty(t, checkExchange(exchange(200, body), &Expect{
		Items: []map[string]any{{"id": 1, "name": "pen"}, {"id": 2}},
	}))

	errs := checkExchange(exchange(200, body), &Expect{
		Items: []map[string]any{{"id": 1, "name": "book"}, {}, {"id": 3}},
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "item 0", errs[0].Check)
	assert.Equal(t, "item 2", errs[1].Check)
	assert.Equal(t, "missing", errs[1].Actual)
}

func TestCheckExchange_HeadersAndContains(t *testing.T) {
	ex := exchange(200, `{"name":"lamp"}`)
	ex.Headers = map[string]string{"X-Request-ID": "req-0001"}

	assert.Empty(t, checkExchange(ex, &Expect{
		Headers:  map[string]string{"x-request-id": "req-0001"},
		Contains: []string{`"lamp"`},
	}))

	errs := checkExchange(ex, &Expect{
		Headers:  map[string]string{"X-Request-ID": "other"},
		Contains: []string{"desk"},
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "header X-Request-ID", errs[0].Check)
	assert.Equal(t, "contains", errs[1].Check)
}

func TestAssertionError_Message(t *testing.T) {
	err := &AssertionError{
		Request:  "cheap",
		Check:    "count",
		Expected: "2",
		Actual:   "3",
		Body:     json.RawMessage(`[1,2,3]`),
	}

	assert.Equal(t, "cheap: count mismatch\n  Expected: 2\n  Actual: 3\n  Body: [1,2,3]\n", err.Error())
}
