package emitter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Stats tracks what one Emit call produced: a flat struct of counters
// plus a String()/Summary() pair. Purely observational — printed only
// when the CLI's -v flag is set; never changes the emitted output.
type Stats struct {
	TypeDefs           int // constructor structs rendered
	FnDefs             int // FnDef structs rendered
	Declarations       int // Declaration statements rendered
	Allocators         int // joint Allocation statements rendered
	ClosuresPredefined int // ClosureInstantiation{env: Some} predefinitions emitted
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) String() string {
	var sb strings.Builder
	sb.WriteString("=== Emission Statistics ===\n\n")
	sb.WriteString(fmt.Sprintf("Type definitions:      %s\n", humanize.Comma(int64(s.TypeDefs))))
	sb.WriteString(fmt.Sprintf("Function definitions:  %s\n", humanize.Comma(int64(s.FnDefs))))
	sb.WriteString(fmt.Sprintf("Declarations:          %s\n", humanize.Comma(int64(s.Declarations))))
	sb.WriteString(fmt.Sprintf("Joint allocators:      %s\n", humanize.Comma(int64(s.Allocators))))
	sb.WriteString(fmt.Sprintf("Closures predefined:   %s\n", humanize.Comma(int64(s.ClosuresPredefined))))
	return sb.String()
}

// Summary returns a one-line report for the CLI's -v flag.
func (s *Stats) Summary() string {
	return fmt.Sprintf("emitted %s type defs, %s fn defs, %s declarations, %s allocators",
		humanize.Comma(int64(s.TypeDefs)), humanize.Comma(int64(s.FnDefs)),
		humanize.Comma(int64(s.Declarations)), humanize.Comma(int64(s.Allocators)))
}
