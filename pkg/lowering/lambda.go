package lowering

import (
	"fmt"

	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

// collectOpenVars walks a lambda's body and returns, in first-reference
// order, every value referenced that is neither one of the lambda's own
// arguments nor produced by a statement inside the body. The returned
// map lets the caller recover each open register's IR value (and
// therefore its type) without re-walking the body.
func collectOpenVars(l *ir.Lambda) ([]ir.Register, map[ir.Register]*ir.Value) {
	bound := make(map[ir.Register]bool, len(l.Args))
	for _, a := range l.Args {
		bound[a.Register] = true
	}

	captured := make(map[ir.Register]*ir.Value)
	var order []ir.Register

	noteIn := func(v *ir.Value, bound map[ir.Register]bool) {
		if v == nil {
			return
		}
		reg, ok := v.Register()
		if !ok || bound[reg] {
			return
		}
		if _, seen := captured[reg]; !seen {
			captured[reg] = v
			order = append(order, reg)
		}
	}

	var walkBlock func(b *ir.Block, bound map[ir.Register]bool)
	walkBlock = func(b *ir.Block, bound map[ir.Register]bool) {
		note := func(v *ir.Value) { noteIn(v, bound) }
		for _, stmt := range b.Statements {
			e := stmt.Expression
			switch e.Kind {
			case ir.ExprValue:
				note(e.Value)
			case ir.ExprTuple:
				for _, v := range e.Tuple {
					note(v)
				}
			case ir.ExprElementAccess:
				note(e.ElementAccess.Value)
			case ir.ExprCtorCall:
				if e.CtorCall.Data != nil {
					note(e.CtorCall.Data)
				}
			case ir.ExprFnCall:
				note(e.FnCall.Fn)
				for _, a := range e.FnCall.Args {
					note(a)
				}
			case ir.ExprIf:
				note(e.If.Cond)
				walkBlock(e.If.Then, copyBoundSet(bound))
				walkBlock(e.If.Else, copyBoundSet(bound))
			case ir.ExprMatch:
				note(e.Match.Subject)
				for _, br := range e.Match.Branches {
					innerBound := copyBoundSet(bound)
					if br.Target != nil {
						innerBound[br.Target.Register] = true
					}
					walkBlock(br.Block, innerBound)
				}
			case ir.ExprLambda:
				innerBound := copyBoundSet(bound)
				for _, a := range e.Lambda.Args {
					innerBound[a.Register] = true
				}
				walkBlock(e.Lambda.Block, innerBound)
			}
			bound[stmt.Register] = true
		}
		note(b.Ret)
	}

	walkBlock(l.Block, bound)
	return order, captured
}

func copyBoundSet(bound map[ir.Register]bool) map[ir.Register]bool {
	out := make(map[ir.Register]bool, len(bound))
	for k, v := range bound {
		out[k] = v
	}
	return out
}

// lowerLambdaStatement handles an Assignment whose expression is a Lambda
// literal: capture the lambda's open variables into an environment tuple,
// lower its body into its own FnDef, and leave a
// ClosureInstantiation bound to the statement's register.
func (c *Compiler) lowerLambdaStatement(r ir.Register, l *ir.Lambda) []*mir.Statement {
	opens, captured := collectOpenVars(l)

	var setup []*mir.Statement
	lazyCaps := make([]*mir.Value, len(opens))
	capTypes := make([]*mir.MachineType, len(opens))
	for i, reg := range opens {
		lv, stmts := c.lowerValueLazy(captured[reg])
		setup = append(setup, stmts...)
		lazyCaps[i] = lv
		capTypes[i] = lv.Memory.Type
	}

	name := fmt.Sprintf("F%d", c.fnCounter)
	c.fnCounter++
	fnDef := c.lowerLambdaBody(l, name, opens, capTypes)

	var envVal *mir.Value
	if len(opens) > 0 {
		envMem := c.newMemory()
		envType := &mir.MachineType{Kind: mir.MTTuple, Tuple: capTypes}
		envMem.Type = envType
		setup = append(setup, mir.NewAssignment(envMem, mir.ExprOfTuple(lazyCaps), false))
		envVal = mir.ValueOfMemory(envMem)
	}

	mem := c.memoryFor(r)
	// The declared function type mirrors what a call site derives from the
	// source IR's (laziness-agnostic) function type, so the two structurally
	// compare equal: plain argument and return types, even though the
	// FnDef's own Arguments/RetType are the lazy forms actually passed at
	// runtime.
	fnType := &mir.MachineType{Kind: mir.MTFn, FnArgs: eagerAll(argTypesOf(fnDef)), FnRet: mir.Eager(fnDef.RetType)}
	lazyFnType := mir.Lazy(fnType)
	// Every closure cell carries a standing Declaration. A capturing
	// closure may end up inside a reference cycle the weakener only
	// discovers after the fact, so the weakener needs the Declaration to
	// anchor a joint allocator ahead of; an environment-free closure's
	// instantiation reads the declared cell's own type to wrap the shared
	// G singleton into it.
	setup = append(setup, mir.NewDeclaration(mem, lazyFnType), mir.NewAssignment(mem, mir.ExprOfClosureInstantiation(name, envVal), false))
	c.setLazy(r, mir.ValueOfMemory(mem))
	return setup
}

// lowerLambdaBody lowers one lambda (the program's main entry, or a nested
// lambda statement) into its own FnDef. opens/capTypes are nil for main,
// which has nothing to capture.
func (c *Compiler) lowerLambdaBody(l *ir.Lambda, name string, opens []ir.Register, capTypes []*mir.MachineType) *mir.FnDef {
	savedLazy, savedEager := c.resetScopes()
	defer c.restoreScopes(savedLazy, savedEager)

	var prologue []*mir.Statement
	env := &mir.Memory{Name: "env"}
	for i, reg := range opens {
		cellType := capTypes[i]
		m := c.newMemory()
		m.Type = cellType
		prologue = append(prologue, mir.NewAssignment(m, mir.ExprOfElementAccess(mir.ValueOfMemory(env), i), false))
		c.setLazy(reg, mir.ValueOfMemory(m))
	}

	argDefs := make([]mir.FnArgument, len(l.Args))
	for i, a := range l.Args {
		lt := mir.Lazy(c.typeOf(a.Type))
		m := c.newMemory()
		m.Type = lt
		argDefs[i] = mir.FnArgument{Memory: m, Type: lt}
		c.setLazy(a.Register, mir.ValueOfMemory(m))
	}

	body := c.lowerBlockStatements(l.Block.Statements)
	ret, retStmts := c.lowerValueLazy(l.Block.Ret)
	body = append(body, retStmts...)

	var envType *mir.MachineType
	if len(opens) > 0 {
		envType = &mir.MachineType{Kind: mir.MTTuple, Tuple: capTypes}
	}

	fnDef := &mir.FnDef{
		Name:       name,
		Arguments:  argDefs,
		Statements: append(prologue, body...),
		Ret:        ret,
		RetType:    ret.Memory.Type,
		Env:        envType,
	}
	c.fnDefs = append(c.fnDefs, fnDef)
	return fnDef
}

func argTypesOf(fn *mir.FnDef) []*mir.MachineType {
	out := make([]*mir.MachineType, len(fn.Arguments))
	for i, a := range fn.Arguments {
		out[i] = a.Type
	}
	return out
}

func eagerAll(ts []*mir.MachineType) []*mir.MachineType {
	out := make([]*mir.MachineType, len(ts))
	for i, t := range ts {
		out[i] = mir.Eager(t)
	}
	return out
}
