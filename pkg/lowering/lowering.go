package lowering

import (
	"fmt"

	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

// Compiler performs direct IR -> machine IR lowering. It is used once per
// program: construct with New, call Compile, discard.
type Compiler struct {
	locations map[ir.Register]*mir.Memory
	lazy      []map[ir.Register]*mir.Value
	eager     []map[ir.Register]*mir.Value

	memCounter int
	fnCounter  int

	fnDefs   []*mir.FnDef
	typeDefs []*mir.TypeDef

	typeNames  map[*ir.Type]string
	typeLookup map[*ir.Type]*mir.UnionType
}

// New creates a Compiler ready to lower one program.
func New() *Compiler {
	return &Compiler{
		locations:  make(map[ir.Register]*mir.Memory),
		lazy:       []map[ir.Register]*mir.Value{make(map[ir.Register]*mir.Value)},
		eager:      []map[ir.Register]*mir.Value{make(map[ir.Register]*mir.Value)},
		typeNames:  make(map[*ir.Type]string),
		typeLookup: make(map[*ir.Type]*mir.UnionType),
	}
}

// Compile lowers prog into a machine-IR program.
func Compile(prog *ir.Program) *mir.Program {
	c := New()
	c.compileTypeDefs(prog.Types)
	c.lowerLambdaBody(prog.Main, "Main", nil, nil)
	return &mir.Program{TypeDefs: c.typeDefs, FnDefs: c.fnDefs}
}

// memoryFor returns the stable Memory name for a location, assigning a
// fresh one on first reference.
func (c *Compiler) memoryFor(r ir.Register) *mir.Memory {
	if m, ok := c.locations[r]; ok {
		return m
	}
	m := c.newMemory()
	c.locations[r] = m
	return m
}

func (c *Compiler) newMemory() *mir.Memory {
	m := &mir.Memory{Name: fmt.Sprintf("m%d", c.memCounter)}
	c.memCounter++
	return m
}

func (c *Compiler) pushScope() {
	c.lazy = append(c.lazy, make(map[ir.Register]*mir.Value))
	c.eager = append(c.eager, make(map[ir.Register]*mir.Value))
}

func (c *Compiler) popScope() {
	c.lazy = c.lazy[:len(c.lazy)-1]
	c.eager = c.eager[:len(c.eager)-1]
}

// resetScopes snapshots and clears both scope stacks for a fresh lambda
// body; restoreScopes puts the caller's scopes back.
func (c *Compiler) resetScopes() (savedLazy, savedEager []map[ir.Register]*mir.Value) {
	savedLazy, savedEager = c.lazy, c.eager
	c.lazy = []map[ir.Register]*mir.Value{make(map[ir.Register]*mir.Value)}
	c.eager = []map[ir.Register]*mir.Value{make(map[ir.Register]*mir.Value)}
	return
}

func (c *Compiler) restoreScopes(savedLazy, savedEager []map[ir.Register]*mir.Value) {
	c.lazy, c.eager = savedLazy, savedEager
}

func (c *Compiler) getLazy(r ir.Register) (*mir.Value, bool) {
	for i := len(c.lazy) - 1; i >= 0; i-- {
		if v, ok := c.lazy[i][r]; ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Compiler) setLazy(r ir.Register, v *mir.Value) {
	c.lazy[len(c.lazy)-1][r] = v
}

func (c *Compiler) getEager(r ir.Register) (*mir.Value, bool) {
	for i := len(c.eager) - 1; i >= 0; i-- {
		if v, ok := c.eager[i][r]; ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Compiler) setEager(r ir.Register, v *mir.Value) {
	c.eager[len(c.eager)-1][r] = v
}
