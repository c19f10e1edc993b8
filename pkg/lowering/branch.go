package lowering

import (
	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

// lowerIf lowers a two-armed conditional. Both arms are lowered into
// their own scope frame (pushed on entry, popped on exit, so nothing a
// branch declares is visible outside its own frame) and each ends by
// assigning its lazily-coerced result into the single memory cell that
// represents the if-expression's own result register — which, because
// locations are keyed globally by register, both arms necessarily agree
// on without any extra bookkeeping. That target declaration is hoisted
// above the IfStatement, and afterward the result is reachable in the
// enclosing scope only through its lazy form: neither branch's eager
// name is reliably resolved once control flow has rejoined.
func (c *Compiler) lowerIf(r ir.Register, e *ir.If) []*mir.Statement {
	condVal, setup := c.lowerValueEager(e.Cond)
	mem := c.memoryFor(r)

	thenBody, thenType := c.lowerBranch(mem, e.Then)
	elseBody, elseType := c.lowerBranch(mem, e.Else)

	if !mir.Equal(thenType, elseType) {
		ir.Fail("branch-type-mismatch", "if branches disagree on the result type of register %s", r.String())
	}

	setup = append(setup, mir.NewDeclaration(mem, thenType), mir.NewIf(condVal, thenBody, elseBody))
	c.setLazy(r, mir.ValueOfMemory(mem))
	return setup
}

func (c *Compiler) lowerBranch(target *mir.Memory, b *ir.Block) ([]*mir.Statement, *mir.MachineType) {
	c.pushScope()
	defer c.popScope()

	body := c.lowerBlockStatements(b.Statements)
	ret, retStmts := c.lowerValueLazy(b.Ret)
	body = append(body, retStmts...)
	body = append(body, mir.NewAssignment(target, mir.ExprOfValue(ret), true))
	return body, ret.Memory.Type
}

// lowerMatch lowers union dispatch. Each branch gets its own scope frame
// in which the (optional) payload target is bound to the lazy value read
// out of the match's auxiliary staging cell, mirroring lowerIf's approach
// to the shared result register.
func (c *Compiler) lowerMatch(r ir.Register, m *ir.Match) []*mir.Statement {
	subjVal, setup := c.lowerValueEager(m.Subject)

	ut, ok := c.typeLookup[resolveUnion(m.Subject.Type())]
	if !ok {
		ir.Fail("untyped-undeclared", "match subject is not a registered union type")
	}

	mem := c.memoryFor(r)
	aux := c.newMemory()

	var branches []*mir.MatchStatementBranch
	var resultType *mir.MachineType
	for _, br := range m.Branches {
		c.pushScope()

		var targetMem *mir.Memory
		var targetType *mir.MachineType
		if br.Target != nil {
			targetType = mir.Lazy(c.typeOf(br.Target.Type))
			targetMem = c.newMemory()
			c.setLazy(br.Target.Register, mir.ValueOfMemory(targetMem))
		}

		body := c.lowerBlockStatements(br.Block.Statements)
		ret, retStmts := c.lowerValueLazy(br.Block.Ret)
		body = append(body, retStmts...)
		body = append(body, mir.NewAssignment(mem, mir.ExprOfValue(ret), true))
		c.popScope()

		if resultType == nil {
			resultType = ret.Memory.Type
		} else if !mir.Equal(resultType, ret.Memory.Type) {
			ir.Fail("branch-type-mismatch", "match branches disagree on the result type of register %s", r.String())
		}

		branches = append(branches, &mir.MatchStatementBranch{Target: targetMem, TargetType: targetType, Statements: body})
	}

	setup = append(setup, mir.NewDeclaration(mem, resultType), mir.NewMatch(subjVal, ut, branches, aux))
	c.setLazy(r, mir.ValueOfMemory(mem))
	return setup
}
