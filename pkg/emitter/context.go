package emitter

import (
	"fmt"
	"strings"
)

// allocRef records where one closure memory's storage lives once an
// Allocation has reserved it: the shared allocator cell's name, and this
// member's positional field within it.
type allocRef struct {
	target string
	index  int
}

// ctx carries the mutable state threaded through one FnDef's rendering:
// the output buffer, the current indent level, and the allocator-slot map
// built while emitting Allocation statements so later closure
// predefinitions and their store_env mutations know which ones were
// allocator-backed. The whole program is rendered in memory before Emit
// returns it as one string; nothing is flushed incrementally.
type ctx struct {
	w       *strings.Builder
	indent  int
	allocOf map[string]allocRef
	stats   *Stats
}

func newCtx(stats *Stats) *ctx {
	return &ctx{w: &strings.Builder{}, allocOf: make(map[string]allocRef), stats: stats}
}

func (c *ctx) line(format string, args ...interface{}) {
	c.w.WriteString(strings.Repeat("    ", c.indent))
	c.w.WriteString(fmt.Sprintf(format, args...))
	c.w.WriteString("\n")
}
