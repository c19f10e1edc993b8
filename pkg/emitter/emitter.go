package emitter

import "lazylift/pkg/mir"

// Emit renders prog as the runtime library's target source text: the
// shared include line, every nominal union type in dependency order, then
// every FnDef in the order the lowering compiler produced them
// (nested lambdas first, Main last — the same order that guarantees a
// FnDef referencing an earlier one by value, such as an Allocator struct
// local to Main's body, never needs a forward declaration). Stats
// accumulates counters for the CLI's -v flag; pass nil to skip counting.
func Emit(prog *mir.Program, stats *Stats) string {
	if stats == nil {
		stats = NewStats()
	}
	c := newCtx(stats)

	c.line("%s", includeLine)
	c.line("")

	renderTypeDefs(prog.TypeDefs, c)

	for _, fn := range prog.FnDefs {
		renderFnDef(fn, c)
	}

	return c.w.String()
}
