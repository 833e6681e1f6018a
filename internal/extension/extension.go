// Package extension lets independent components decorate responses.
//
// After a handler has produced its payload it dispatches a Context through
// a Chain. Every registered Extension whose Supports returns true gets a
// chance to Handle it: to add headers, record metrics or replace the body.
// Extensions run in registration order. The first error aborts the chain.
package extension

import (
	"context"
	"net/http"
)

// Action identifies the handler that produced a response.
type Action string

const (
	ActionList Action = "list"
	ActionRead Action = "read"
)

// Well-known keys of Context.Values.
const (
	ValueResult = "result" // engine output: []any for list, the record (or nil) for read
	ValueQuery  = "query"  // the query.Handle that produced a list
	ValuePage   = "page"
	ValueLimit  = "limit"
)

// Response is the mutable response under construction.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// NewResponse creates a response with an empty header set.
func NewResponse(status int, body any) *Response {
	return &Response{Status: status, Header: make(http.Header), Body: body}
}

// Context carries everything an extension may inspect or change.
type Context struct {
	Action   Action
	Resource string
	Request  *http.Request
	Response *Response
	Values   map[string]any
}

// Value returns Values[key], or nil.
func (c *Context) Value(key string) any {
	if c.Values == nil {
		return nil
	}
	return c.Values[key]
}

// Extension decorates responses.
type Extension interface {
	// Supports reports whether Handle should run for c.
	Supports(c *Context) bool

	// Handle decorates c.Response.
	Handle(ctx context.Context, c *Context) error
}

// Chain is an immutable, ordered list of extensions.
// It is safe for concurrent use.
type Chain struct {
	exts []Extension
}

// NewChain creates a chain running exts in the given order.
// Nil extensions are skipped.
func NewChain(exts ...Extension) *Chain {
	c := &Chain{exts: make([]Extension, 0, len(exts))}
	for _, e := range exts {
		if e != nil {
			c.exts = append(c.exts, e)
		}
	}
	return c
}

// Len returns the number of extensions.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.exts)
}

// Dispatch runs every supporting extension in order.
// A nil chain does nothing.
func (c *Chain) Dispatch(ctx context.Context, ec *Context) error {
	if c == nil {
		return nil
	}
	for _, e := range c.exts {
		if !e.Supports(ec) {
			continue
		}
		if err := e.Handle(ctx, ec); err != nil {
			return err
		}
	}
	return nil
}

// Func adapts a pair of functions to an Extension.
type Func struct {
	SupportsFunc func(*Context) bool
	HandleFunc   func(context.Context, *Context) error
}

// Supports calls SupportsFunc; a nil SupportsFunc supports everything.
func (f Func) Supports(c *Context) bool {
	if f.SupportsFunc == nil {
		return true
	}
	return f.SupportsFunc(c)
}

// Handle calls HandleFunc.
func (f Func) Handle(ctx context.Context, c *Context) error {
	if f.HandleFunc == nil {
		return nil
	}
	return f.HandleFunc(ctx, c)
}
