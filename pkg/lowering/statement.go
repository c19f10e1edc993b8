package lowering

import (
	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

func (c *Compiler) lowerBlockStatements(stmts []*ir.Statement) []*mir.Statement {
	var out []*mir.Statement
	for _, s := range stmts {
		out = append(out, c.lowerStatement(s)...)
	}
	return out
}

func (c *Compiler) lowerStatement(s *ir.Statement) []*mir.Statement {
	switch s.Expression.Kind {
	case ir.ExprIf:
		return c.lowerIf(s.Register, s.Expression.If)
	case ir.ExprMatch:
		return c.lowerMatch(s.Register, s.Expression.Match)
	case ir.ExprLambda:
		return c.lowerLambdaStatement(s.Register, s.Expression.Lambda)
	default:
		return c.lowerSimpleStatement(s.Register, s.Expression)
	}
}

// lowerSimpleStatement handles every expression kind whose machine-IR
// shape is a single statement binding a fresh cell: values, tuples,
// element access, calls, and constructor calls. Calls are the only one of
// these that assigns into an already-declared cell (flagged
// check_null=true); the rest bind their cell and initialize it in the same
// auto-assignment, with no separate Declaration. If/Match and Lambda each
// need more than one hoisted statement and are handled by their own
// lowerIf/lowerMatch/lowerLambdaStatement.
func (c *Compiler) lowerSimpleStatement(r ir.Register, e *ir.Expression) []*mir.Statement {
	var setup []*mir.Statement
	var resultExpr *mir.Expression
	var resultType *mir.MachineType
	lazy := false

	switch e.Kind {
	case ir.ExprValue:
		v, st := c.lowerValueEager(e.Value)
		setup = st
		resultExpr = mir.ExprOfValue(v)
		resultType = c.typeOf(e.Value.Type())

	case ir.ExprTuple:
		values := make([]*mir.Value, len(e.Tuple))
		perValue := make([][]*mir.Statement, len(e.Tuple))
		fieldTypes := make([]*mir.MachineType, len(e.Tuple))
		for i, el := range e.Tuple {
			v, st := c.lowerValueEager(el)
			values[i] = v
			perValue[i] = st
			fieldTypes[i] = c.typeOf(el.Type())
		}
		setup = batchAwaits(perValue)
		resultExpr = mir.ExprOfTuple(values)
		resultType = &mir.MachineType{Kind: mir.MTTuple, Tuple: fieldTypes}

	case ir.ExprElementAccess:
		v, st := c.lowerValueEager(e.ElementAccess.Value)
		setup = st
		resultExpr = mir.ExprOfElementAccess(v, e.ElementAccess.Index)
		resultType = c.typeOf(tupleFieldType(e.ElementAccess.Value, e.ElementAccess.Index))

	case ir.ExprFnCall:
		fnVal, fnStmts := c.lowerValueEager(e.FnCall.Fn)
		args := make([]*mir.Value, len(e.FnCall.Args))
		perArg := make([][]*mir.Statement, len(e.FnCall.Args))
		for i, a := range e.FnCall.Args {
			av, st := c.lowerValueLazy(a)
			args[i] = av
			perArg[i] = st
		}
		setup = append(fnStmts, batchAwaits(perArg)...)
		fnType := c.typeOf(e.FnCall.Fn.Type())
		resultExpr = mir.ExprOfFnCall(fnVal, fnType, args)
		resultType = fnType.FnRet
		lazy = true // call results are produced in lazy form

	case ir.ExprCtorCall:
		var data *mir.ConstructorData
		if e.CtorCall.Data != nil {
			dv, st := c.lowerValueEager(e.CtorCall.Data)
			setup = st
			ut, ok := c.typeLookup[resolveUnion(e.CtorCall.Type)]
			if !ok {
				ir.Fail("untyped-undeclared", "constructor call on an unregistered union type")
			}
			data = &mir.ConstructorData{VariantName: ut.Variants[e.CtorCall.Index], Value: dv}
		}
		resultExpr = mir.ExprOfCtorCall(e.CtorCall.Index, data)
		resultType = c.typeOf(e.CtorCall.Type)

	default:
		ir.Fail("unknown-expression-kind", "lowering: unhandled expression kind %v", e.Kind)
	}

	mem := c.memoryFor(r)
	declType := resultType
	if lazy && !mir.IsLazy(resultType) {
		declType = mir.Lazy(resultType)
	}
	if e.Kind == ir.ExprFnCall {
		setup = append(setup, mir.NewDeclaration(mem, declType), mir.NewAssignment(mem, resultExpr, true))
	} else {
		mem.Type = declType
		setup = append(setup, mir.NewAssignment(mem, resultExpr, false))
	}

	if lazy {
		c.setLazy(r, mir.ValueOfMemory(mem))
	} else {
		c.setEager(r, mir.ValueOfMemory(mem))
	}
	return setup
}
