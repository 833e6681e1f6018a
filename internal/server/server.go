// Package server exposes configured resources over HTTP with gin.
//
// Routes:
//
//	GET /api/rest/:resource       list, filtered by the query string
//	GET /api/rest/:resource/:id   read one record
//	GET /metrics                  Prometheus metrics
//	GET /health                   liveness
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/restview/internal/config"
	"github.com/roach88/restview/internal/extension"
	"github.com/roach88/restview/internal/filter"
	"github.com/roach88/restview/internal/handler"
	"github.com/roach88/restview/internal/locale"
	"github.com/roach88/restview/internal/metrics"
	"github.com/roach88/restview/internal/projection"
	"github.com/roach88/restview/internal/property"
	"github.com/roach88/restview/internal/query"
)

// Prefix is the path under which resources are served.
const Prefix = "/api/rest/"

// EngineFactory returns the query engine backing a resource.
type EngineFactory func(config.Resource) (query.Engine, error)

// Options configures a Server.
type Options struct {
	// Registry receives the Prometheus collectors and backs /metrics.
	// Nil uses a fresh registry.
	Registry *prometheus.Registry

	// RateLimit is the per-client request rate; zero disables limiting.
	RateLimit float64
	Burst     int

	// MaxLimit applies to resources without their own max_limit.
	MaxLimit int

	// IDGenerator produces request IDs. Nil uses UUIDv7.
	IDGenerator extension.IDGenerator

	// Resolver reads record fields for filtering and projection.
	Resolver *property.Resolver

	// Extensions replaces DefaultExtensions when non-nil.
	Extensions []extension.Extension
}

// resource is a routable resource.
type resource struct {
	cfg     config.Resource
	handler *handler.Handler
	builder *filter.Builder
}

// Server is the HTTP transport.
type Server struct {
	router    *gin.Engine
	resources map[string]*resource
	metrics   *metrics.Metrics
}

// DefaultExtensions returns the built-in extensions in dispatch order:
// request ID, content language, total count, then metrics so it records
// the final status.
func DefaultExtensions(m *metrics.Metrics, gen extension.IDGenerator) []extension.Extension {
	return []extension.Extension{
		extension.NewRequestID(gen),
		extension.ContentLanguage{},
		extension.TotalCount{},
		extension.NewMetrics(m),
	}
}

// New builds the router for every resource in cfg.
func New(cfg *config.File, engines EngineFactory, opts Options) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	exts := opts.Extensions
	if exts == nil {
		exts = DefaultExtensions(m, opts.IDGenerator)
	}
	chain := extension.NewChain(exts...)

	resolver := opts.Resolver
	if resolver == nil {
		resolver = property.NewResolver()
	}
	projector := projection.New(projection.WithResolver(resolver))

	s := &Server{
		resources: make(map[string]*resource, len(cfg.Resources)),
		metrics:   m,
	}

	for _, rc := range cfg.Resources {
		engine, err := engines(rc)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", rc.Name, err)
		}
		transforms, err := rc.Transforms()
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", rc.Name, err)
		}

		maxLimit := rc.MaxLimit
		if maxLimit == 0 {
			maxLimit = opts.MaxLimit
		}

		s.resources[rc.Name] = &resource{
			cfg: rc,
			handler: handler.New(rc.Name, engine,
				handler.WithProjector(projector),
				handler.WithChain(chain),
				handler.WithMaxLimit(maxLimit)),
			builder: filter.NewBuilder(transforms),
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(instrument(m))
	if opts.RateLimit > 0 {
		router.Use(RateLimit(opts.RateLimit, opts.Burst))
	}
	router.Use(locale.Middleware(Prefix))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := router.Group(strings.TrimSuffix(Prefix, "/"))
	api.GET("/:resource", s.list)
	api.GET("/:resource/:id", s.get)

	s.router = router
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}
