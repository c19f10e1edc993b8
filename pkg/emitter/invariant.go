package emitter

import "fmt"

// Invariant reports an emitter-internal invariant violation — machine IR
// that violates one of the shape guarantees the lowering compiler and
// cycle weakener are supposed to uphold. Only the emitter raises one; the
// CLI is the only place it is recovered.
type Invariant struct {
	Tag    string
	Detail string
}

func (e *Invariant) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invariant violated: %s", e.Tag)
	}
	return fmt.Sprintf("invariant violated: %s: %s", e.Tag, e.Detail)
}

// Fail panics with an Invariant, mirroring ir.Fail: a stable,
// machine-readable tag rather than an ad hoc error string.
func Fail(tag, format string, args ...interface{}) {
	panic(&Invariant{Tag: tag, Detail: fmt.Sprintf(format, args...)})
}
