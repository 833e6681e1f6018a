// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector. Create one per registry.
type Metrics struct {
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal *prometheus.CounterVec
	// RequestDuration is the latency of HTTP requests.
	RequestDuration *prometheus.HistogramVec
	// ResponsesTotal counts handler responses by resource, action and status.
	ResponsesTotal *prometheus.CounterVec
	// ListItems observes the number of items returned per list response.
	ListItems *prometheus.HistogramVec
}

// New registers the collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restview_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restview_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ResponsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restview_responses_total",
				Help: "Total number of resource responses",
			},
			[]string{"resource", "action", "status"},
		),
		ListItems: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restview_list_items",
				Help:    "Number of items per list response",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
			[]string{"resource"},
		),
	}
}
