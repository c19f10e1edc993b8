package ir

import "fmt"

// Invariant reports a compiler-internal invariant violation — a
// malformed-by-construction IR that a well-formed front-end should never
// produce. Passes raise it by panicking; the CLI is the only place it is
// recovered.
type Invariant struct {
	Tag    string // stable, machine-readable: e.g. "non-fn-value-in-fn-position"
	Detail string
}

func (e *Invariant) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invariant violated: %s", e.Tag)
	}
	return fmt.Sprintf("invariant violated: %s: %s", e.Tag, e.Detail)
}

// Fail panics with an Invariant. The decoder, the dead-code analyzer and
// the lowering compiler use this instead of returning an error for
// conditions that indicate a compiler bug rather than user-correctable
// input; the emitter raises its own emitter.Invariant.
func Fail(tag, format string, args ...interface{}) {
	panic(&Invariant{Tag: tag, Detail: fmt.Sprintf(format, args...)})
}
