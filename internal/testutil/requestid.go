// Package testutil holds deterministic helpers for tests and scenario runs.
package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator produces request IDs "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike extension.FixedGenerator it never runs out, which makes it suitable
// for scenario files with an arbitrary number of requests. The same sequence
// of calls always yields the same IDs, so responses can be compared against
// golden files.
//
// Thread-safety: all methods are safe for concurrent use.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequenceGenerator creates a generator. An empty prefix uses "req".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "req"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence. The next call to Generate returns the
// first ID again.
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
