package extension

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

// IDGenerator produces request identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
// It is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined identifiers, in order, for tests.
// It is safe for concurrent use.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next identifier.
// Panics when all identifiers have been consumed.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// RequestID echoes the caller's X-Request-ID, or sets a generated one.
type RequestID struct {
	gen IDGenerator
}

// NewRequestID creates the extension. A nil gen uses UUIDv7Generator.
func NewRequestID(gen IDGenerator) *RequestID {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &RequestID{gen: gen}
}

// Supports every response.
func (e *RequestID) Supports(*Context) bool { return true }

// Handle sets the response header.
func (e *RequestID) Handle(_ context.Context, c *Context) error {
	id := ""
	if c.Request != nil {
		id = c.Request.Header.Get(HeaderRequestID)
	}
	if id == "" {
		id = e.gen.Generate()
	}
	c.Response.Header.Set(HeaderRequestID, id)
	return nil
}
