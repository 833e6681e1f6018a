package harness

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
)

// AssertionError is returned when an expectation fails.
// It includes the response body to help debug the failure.
type AssertionError struct {
	Request  string // Request name
	Check    string // status, count, header, item or contains
	Expected string
	Actual   string
	Body     json.RawMessage
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s: %s mismatch\n", e.Request, e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Body) > 0 {
		fmt.Fprintf(&buf, "  Body: %s\n", e.Body)
	}
	return buf.String()
}

// checkExchange evaluates expect against ex. A nil expect only requires
// a 200 status.
func checkExchange(ex Exchange, expect *Expect) []*AssertionError {
	if expect == nil {
		expect = &Expect{}
	}

	fail := func(check, expected, actual string) *AssertionError {
		return &AssertionError{
			Request:  ex.Name,
			Check:    check,
			Expected: expected,
			Actual:   actual,
			Body:     ex.Body,
		}
	}

	var errs []*AssertionError

	status := expect.Status
	if status == 0 {
		status = http.StatusOK
	}
	if ex.Status != status {
		errs = append(errs, fail("status", fmt.Sprint(status), fmt.Sprint(ex.Status)))
	}

	names := make([]string, 0, len(expect.Headers))
	for name := range expect.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	header := toHeader(ex.Headers)
	for _, name := range names {
		want := expect.Headers[name]
		got := header.Get(name)
		if got != want {
			errs = append(errs, fail("header "+name, fmt.Sprintf("%q", want), fmt.Sprintf("%q", got)))
		}
	}

	for _, sub := range expect.Contains {
		if !strings.Contains(string(ex.Body), sub) {
			errs = append(errs, fail("contains", fmt.Sprintf("body containing %q", sub), "not found"))
		}
	}

	if expect.Count == nil && len(expect.Items) == 0 {
		return errs
	}

	var items []any
	if err := json.Unmarshal(ex.Body, &items); err != nil || items == nil {
		return append(errs, fail("body", "JSON array", "not an array"))
	}

	if expect.Count != nil && len(items) != *expect.Count {
		errs = append(errs, fail("count", fmt.Sprint(*expect.Count), fmt.Sprint(len(items))))
	}

	for i, want := range expect.Items {
		if i >= len(items) {
			errs = append(errs, fail(fmt.Sprintf("item %d", i), formatJSON(want), "missing"))
			continue
		}
		if !matchItem(items[i], want) {
			errs = append(errs, fail(fmt.Sprintf("item %d", i), formatJSON(want), formatJSON(items[i])))
		}
	}
	return errs
}

// matchItem reports whether actual holds every key of expected with an
// equal value. Extra keys in actual are OK (subset match).
func matchItem(actual any, expected map[string]any) bool {
	actualMap, ok := actual.(map[string]any)
	if !ok {
		return false
	}

	want, ok := normalize(expected).(map[string]any)
	if !ok {
		return false
	}

	for key, expectedVal := range want {
		actualVal, exists := actualMap[key]
		if !exists {
			return false
		}
		if !reflect.DeepEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// normalize round-trips v through JSON so YAML integers compare equal to
// decoded JSON numbers.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func formatJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func toHeader(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}
