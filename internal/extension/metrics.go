package extension

import (
	"context"
	"reflect"
	"strconv"

	"github.com/roach88/restview/internal/metrics"
)

// Metrics records every response in Prometheus collectors.
type Metrics struct {
	m *metrics.Metrics
}

// NewMetrics creates the extension.
func NewMetrics(m *metrics.Metrics) *Metrics {
	return &Metrics{m: m}
}

// Supports every response.
func (e *Metrics) Supports(*Context) bool { return e.m != nil }

// Handle increments the response counter and, for lists, observes the
// number of items.
func (e *Metrics) Handle(_ context.Context, c *Context) error {
	e.m.ResponsesTotal.
		WithLabelValues(c.Resource, string(c.Action), strconv.Itoa(c.Response.Status)).
		Inc()

	if c.Action == ActionList {
		e.m.ListItems.WithLabelValues(c.Resource).Observe(float64(bodyLen(c.Response.Body)))
	}
	return nil
}

func bodyLen(body any) int {
	if body == nil {
		return 0
	}
	v := reflect.ValueOf(body)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return v.Len()
	}
	return 1
}
