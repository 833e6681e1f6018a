// Package handler implements the list and read operations of a resource.
//
// A Handler ties a query engine, a projector and an extension chain
// together. It knows nothing about HTTP routing: the transport parses the
// request into a ListRequest or GetRequest and writes the returned
// Response.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/roach88/restview/internal/criteria"
	"github.com/roach88/restview/internal/extension"
	"github.com/roach88/restview/internal/projection"
	"github.com/roach88/restview/internal/query"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Handler serves one resource.
type Handler struct {
	resource  string
	engine    query.Engine
	projector *projection.Projector
	chain     *extension.Chain
	maxLimit  int
}

// Option configures a Handler.
type Option func(*Handler)

// WithProjector sets the projector. Default projection.New().
func WithProjector(p *projection.Projector) Option {
	return func(h *Handler) {
		h.projector = p
	}
}

// WithChain sets the extension chain.
func WithChain(c *extension.Chain) Option {
	return func(h *Handler) {
		h.chain = c
	}
}

// WithMaxLimit clamps requested page sizes. Zero means no clamp.
func WithMaxLimit(n int) Option {
	return func(h *Handler) {
		h.maxLimit = n
	}
}

// New creates a handler for resource backed by engine.
func New(resource string, engine query.Engine, opts ...Option) *Handler {
	h := &Handler{resource: resource, engine: engine}
	for _, opt := range opts {
		opt(h)
	}
	if h.projector == nil {
		h.projector = projection.New()
	}
	return h
}

// Resource returns the resource name.
func (h *Handler) Resource() string {
	return h.resource
}

// ListRequest describes one page of a resource listing.
type ListRequest struct {
	Page  int
	Limit int

	// Criteria is the parsed filter expression. Nil matches everything.
	Criteria criteria.Predicate

	// Filters are extra equality constraints, applied after Criteria in
	// key order.
	Filters map[string]any

	// Fields restricts the projected fields. Empty keeps all of them.
	Fields []string

	Request *http.Request
}

// GetRequest identifies one record.
type GetRequest struct {
	ID      string
	Fields  []string
	Request *http.Request
}

// Response is the outcome of a handler call. Header holds headers set by
// extensions.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// List runs the query, projects every record and dispatches the list
// context through the extension chain.
func (h *Handler) List(ctx context.Context, req ListRequest) (*Response, error) {
	page, limit := h.pagination(req.Page, req.Limit)
	pred := withFilters(req.Criteria, req.Filters)

	handle, err := h.engine.BuildQuery(ctx, limit, page, pred)
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", h.resource, err)
	}
	records, err := handle.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("execute %s query: %w", h.resource, err)
	}

	items, err := h.projector.ProjectAll(records, req.Fields)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", h.resource, err)
	}

	ec := &extension.Context{
		Action:   extension.ActionList,
		Resource: h.resource,
		Request:  req.Request,
		Response: extension.NewResponse(http.StatusOK, items),
		Values: map[string]any{
			extension.ValueResult: records,
			extension.ValueQuery:  handle,
			extension.ValuePage:   page,
			extension.ValueLimit:  limit,
		},
	}
	return h.dispatch(ctx, ec)
}

// Get looks a record up by identifier. A missing record yields a 404
// response with a nil body; the extension chain still runs.
func (h *Handler) Get(ctx context.Context, req GetRequest) (*Response, error) {
	record, found, err := h.engine.FindByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", h.resource, req.ID, err)
	}

	resp := extension.NewResponse(http.StatusNotFound, nil)
	if found {
		item, err := h.projector.Project(record, req.Fields)
		if err != nil {
			return nil, fmt.Errorf("project %s %q: %w", h.resource, req.ID, err)
		}
		resp.Status = http.StatusOK
		resp.Body = item
	} else {
		record = nil
	}

	ec := &extension.Context{
		Action:   extension.ActionRead,
		Resource: h.resource,
		Request:  req.Request,
		Response: resp,
		Values: map[string]any{
			extension.ValueResult: record,
		},
	}
	return h.dispatch(ctx, ec)
}

func (h *Handler) dispatch(ctx context.Context, ec *extension.Context) (*Response, error) {
	if err := h.chain.Dispatch(ctx, ec); err != nil {
		return nil, fmt.Errorf("%s %s extensions: %w", h.resource, ec.Action, err)
	}
	return &Response{
		Status: ec.Response.Status,
		Header: ec.Response.Header,
		Body:   ec.Response.Body,
	}, nil
}

// pagination applies defaults to out-of-range values and the max limit.
func (h *Handler) pagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}
	return page, limit
}

// withFilters appends an equality leaf per filter, in key order.
func withFilters(pred criteria.Predicate, filters map[string]any) criteria.Predicate {
	if len(filters) == 0 {
		if pred == nil {
			return criteria.MatchAll()
		}
		return pred
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	extra := make([]criteria.Predicate, 0, len(keys))
	for _, k := range keys {
		extra = append(extra, criteria.Eq(k, filters[k]))
	}
	return criteria.Conjoin(pred, extra...)
}
