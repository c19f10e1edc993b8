package deadcode

import "lazylift/pkg/ir"

// lambdaTable maps a Register to the Lambda it was bound to by a direct
// `Assignment{register, Lambda{...}}` statement. Known call sites (a
// memory-typed FnCall whose callee is exactly that register) need it to
// recover the callee's formal parameter list.
type lambdaTable map[ir.Register]*ir.Lambda

// collectConstraints walks every block reachable from prog.Main —
// including nested If/Match branches and nested Lambda bodies — building
// the full single/double constraint system in one pass, regardless of
// what later turns out to be live. Liveness itself is purely a property
// of the solved fixpoint; generation never has to guess it up front.
func collectConstraints(prog *ir.Program) (*ConstraintSet, lambdaTable) {
	cs := NewConstraintSet()
	lt := lambdaTable{}
	walkBlock(prog.Main.Block, cs, lt)
	return cs, lt
}

func registerOf(v *ir.Value) (ir.Register, bool) {
	if v == nil {
		return ir.Register{}, false
	}
	return v.Register()
}

func walkBlock(b *ir.Block, cs *ConstraintSet, lt lambdaTable) {
	for _, stmt := range b.Statements {
		walkStatement(stmt, cs, lt)
	}
}

func walkStatement(stmt *ir.Statement, cs *ConstraintSet, lt lambdaTable) {
	r := stmt.Register
	e := stmt.Expression
	switch e.Kind {
	case ir.ExprValue:
		if dep, ok := registerOf(e.Value); ok {
			cs.AddSingle(r, dep)
		}

	case ir.ExprTuple:
		for _, v := range e.Tuple {
			if dep, ok := registerOf(v); ok {
				cs.AddSingle(r, dep)
			}
		}

	case ir.ExprElementAccess:
		if dep, ok := registerOf(e.ElementAccess.Value); ok {
			cs.AddSingle(r, dep)
		}

	case ir.ExprCtorCall:
		if e.CtorCall.Data != nil {
			if dep, ok := registerOf(e.CtorCall.Data); ok {
				cs.AddSingle(r, dep)
			}
		}

	case ir.ExprLambda:
		// The binding itself generates no constraint beyond whatever
		// context later references r (a call site, a tuple element, a
		// return); record it so calls can be resolved precisely, and
		// recurse into its body so nested liveness is always available.
		lt[r] = e.Lambda
		walkBlock(e.Lambda.Block, cs, lt)

	case ir.ExprIf:
		if dep, ok := registerOf(e.If.Cond); ok {
			cs.AddSingle(r, dep)
		}
		if dep, ok := registerOf(e.If.Then.Ret); ok {
			cs.AddSingle(r, dep)
		}
		if dep, ok := registerOf(e.If.Else.Ret); ok {
			cs.AddSingle(r, dep)
		}
		walkBlock(e.If.Then, cs, lt)
		walkBlock(e.If.Else, cs, lt)

	case ir.ExprMatch:
		if dep, ok := registerOf(e.Match.Subject); ok {
			cs.AddSingle(r, dep)
		}
		for _, br := range e.Match.Branches {
			if dep, ok := registerOf(br.Block.Ret); ok {
				cs.AddSingle(r, dep)
			}
			walkBlock(br.Block, cs, lt)
		}

	case ir.ExprFnCall:
		walkFnCall(r, e.FnCall, cs, lt)

	default:
		ir.Fail("unknown-expression-kind", "deadcode: unhandled expression kind %v", e.Kind)
	}
}

func walkFnCall(r ir.Register, call *ir.FnCall, cs *ConstraintSet, lt lambdaTable) {
	calleeReg, calleeIsReg := registerOf(call.Fn)
	if calleeIsReg {
		cs.AddSingle(r, calleeReg)
	}

	if calleeIsReg {
		if lambda, known := lt[calleeReg]; known {
			// Known call site: the call's result depends on the body's
			// own return value being computed, and each argument is
			// needed only when both the call result and the
			// corresponding parameter are live.
			if dep, ok := registerOf(lambda.Block.Ret); ok {
				cs.AddSingle(r, dep)
			}
			for i, arg := range call.Args {
				if i >= len(lambda.Args) {
					ir.Fail("arity-mismatch", "call supplies more arguments than callee declares")
				}
				if argReg, ok := registerOf(arg); ok {
					cs.AddDouble(lambda.Args[i].Register, r, argReg)
				}
			}
			return
		}
	}

	// Indirect call (callee reached through an argument or another
	// non-lambda binding) or a direct builtin call: conservatively, every
	// argument is needed whenever the call's result is.
	for _, arg := range call.Args {
		if argReg, ok := registerOf(arg); ok {
			cs.AddSingle(r, argReg)
		}
	}
}
