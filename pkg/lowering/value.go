package lowering

import (
	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

func convertBuiltIn(b *ir.BuiltIn) *mir.BuiltIn {
	switch b.Kind {
	case ir.BuiltInBool:
		return &mir.BuiltIn{Kind: mir.BuiltInBool, Bool: b.Bool}
	case ir.BuiltInInt:
		return &mir.BuiltIn{Kind: mir.BuiltInInt, Int: b.Int}
	default:
		return &mir.BuiltIn{Kind: mir.BuiltInFn, FnName: b.FnName}
	}
}

// lowerValueEager produces the eager machine value for v, coercing from a
// cached lazy representation if that's all that's on hand: await the lazy
// cell, then unwrap it into a fresh eager cell.
func (c *Compiler) lowerValueEager(v *ir.Value) (*mir.Value, []*mir.Statement) {
	if v.Kind == ir.ValueBuiltIn {
		return mir.ValueOfBuiltIn(convertBuiltIn(v.BuiltIn)), nil
	}

	reg, _ := v.Register()
	if ev, ok := c.getEager(reg); ok {
		return ev, nil
	}
	lv, ok := c.getLazy(reg)
	if !ok {
		ir.Fail("undefined-register", "reference to register %s before its defining statement was lowered", reg.String())
	}

	m := c.newMemory()
	t := c.typeOf(v.Type())
	m.Type = t
	stmts := []*mir.Statement{
		mir.NewAwait(lv.Memory),
		mir.NewAssignment(m, mir.ExprOfUnwrap(lv), false),
	}
	ev := mir.ValueOfMemory(m)
	c.setEager(reg, ev)
	return ev, stmts
}

// lowerValueLazy produces the lazy machine value for v, wrapping an eager
// value (or a builtin literal/function) if that's all that's on hand.
func (c *Compiler) lowerValueLazy(v *ir.Value) (*mir.Value, []*mir.Statement) {
	if v.Kind == ir.ValueBuiltIn {
		m := c.newMemory()
		t := c.typeOf(v.Type())
		m.Type = mir.Lazy(t)
		stmts := []*mir.Statement{
			mir.NewAssignment(m, mir.ExprOfWrap(mir.ValueOfBuiltIn(convertBuiltIn(v.BuiltIn)), t), false),
		}
		lv := mir.ValueOfMemory(m)
		return lv, stmts
	}

	reg, _ := v.Register()
	if lv, ok := c.getLazy(reg); ok {
		return lv, nil
	}
	ev, ok := c.getEager(reg)
	if !ok {
		// Use before definition: a closure capturing itself or a sibling
		// bound later in the same block (mutual recursion). The reference
		// resolves to the location's own cell — it carries a standing
		// Declaration and is published by setup_closure before any body
		// that reads it can run, and the weakener needs the direct cell
		// reference to see the cycle.
		m := c.memoryFor(reg)
		if m.Type == nil {
			m.Type = mir.Lazy(c.typeOf(v.Type()))
		}
		lv := mir.ValueOfMemory(m)
		c.setLazy(reg, lv)
		return lv, nil
	}

	m := c.newMemory()
	t := c.typeOf(v.Type())
	m.Type = mir.Lazy(t)
	stmts := []*mir.Statement{
		mir.NewAssignment(m, mir.ExprOfWrap(ev, t), false),
	}
	lv := mir.ValueOfMemory(m)
	c.setLazy(reg, lv)
	return lv, stmts
}

// batchAwaits merges awaits for a batch: when several values are lowered
// together (a call's arguments, a tuple's elements),
// every Await statement produced along the way is merged into a single
// leading Await, with the remaining setup statements following in stable
// order.
func batchAwaits(perValue [][]*mir.Statement) []*mir.Statement {
	var awaits []*mir.Memory
	var rest []*mir.Statement
	for _, stmts := range perValue {
		for _, st := range stmts {
			if st.Kind == mir.StmtAwait {
				awaits = append(awaits, st.Await...)
			} else {
				rest = append(rest, st)
			}
		}
	}
	if len(awaits) == 0 {
		return rest
	}
	return append([]*mir.Statement{mir.NewAwait(awaits...)}, rest...)
}

// tupleFieldType resolves the IR type of the idx-th field of v's (tuple)
// type, following Reference indirection first.
func tupleFieldType(v *ir.Value, idx int) *ir.Type {
	t := v.Type().Resolve()
	if t == nil || t.Kind != ir.TypeTuple || idx >= len(t.Tuple) {
		ir.Fail("untyped-undeclared", "element access on a non-tuple or out-of-range index")
	}
	return t.Tuple[idx]
}
