package deadcode

import "lazylift/pkg/ir"

// lambdaRewrite records that a Lambda bound at some Register has one or
// more dead parameters, and what the narrowed optimized variant looks
// like.
type lambdaRewrite struct {
	OptRegister ir.Register
	LiveIndices []int
	OptLambda   *ir.Lambda
}

// Analyze runs the dead-code analyzer over prog and returns a rewritten
// program. It never errors: pure rewriting cannot fail on well-formed
// input. The initial live set is the single register of main's return
// value; if that return value is not a memory/arg reference, there is
// nothing to root the analysis at and the program is returned unchanged.
func Analyze(prog *ir.Program) *ir.Program {
	rootReg, ok := registerOf(prog.Main.Block.Ret)
	if !ok {
		return prog
	}

	cs, lt := collectConstraints(prog)
	live := cs.Solve(rootReg)
	rewrites := computeRewrites(lt, live)

	return &ir.Program{
		Main:  &ir.Lambda{Args: prog.Main.Args, Block: rewriteBlock(prog.Main.Block, live, rewrites)},
		Types: prog.Types,
	}
}

func computeRewrites(lt lambdaTable, live map[ir.Register]bool) map[ir.Register]*lambdaRewrite {
	rewrites := make(map[ir.Register]*lambdaRewrite)
	for fReg, lambda := range lt {
		var liveIdx []int
		for i, a := range lambda.Args {
			if live[a.Register] {
				liveIdx = append(liveIdx, i)
			}
		}
		if len(liveIdx) == len(lambda.Args) {
			continue // every parameter is used; nothing to narrow
		}
		rewrites[fReg] = &lambdaRewrite{
			OptRegister: ir.NewRegister(),
			LiveIndices: liveIdx,
		}
	}
	// OptLambda bodies are filled in a second pass (not inline above) so
	// that rewriteBlock — which itself consults `rewrites` to redirect
	// recursive/self calls to the optimized register — can be called
	// uniformly for every lambda, including ones rewriting themselves.
	for fReg, rw := range rewrites {
		lambda := lt[fReg]
		optArgs := make([]*ir.Arg, len(rw.LiveIndices))
		for j, i := range rw.LiveIndices {
			optArgs[j] = lambda.Args[i]
		}
		rw.OptLambda = &ir.Lambda{
			Args:  optArgs,
			Block: rewriteBlock(lambda.Block, live, rewrites),
		}
	}
	return rewrites
}

func rewriteBlock(b *ir.Block, live map[ir.Register]bool, rewrites map[ir.Register]*lambdaRewrite) *ir.Block {
	out := &ir.Block{Ret: b.Ret}
	for _, stmt := range b.Statements {
		if !live[stmt.Register] {
			continue
		}

		if stmt.Expression.Kind == ir.ExprLambda {
			out.Statements = append(out.Statements, rewriteLambdaStatement(stmt, live, rewrites)...)
			continue
		}

		out.Statements = append(out.Statements, &ir.Statement{
			Register:   stmt.Register,
			Expression: rewriteExpression(stmt.Expression, live, rewrites),
		})
	}
	return out
}

func rewriteLambdaStatement(stmt *ir.Statement, live map[ir.Register]bool, rewrites map[ir.Register]*lambdaRewrite) []*ir.Statement {
	rw, rewritten := rewrites[stmt.Register]
	if !rewritten {
		original := stmt.Expression.Lambda
		return []*ir.Statement{{
			Register:   stmt.Register,
			Expression: &ir.Expression{Kind: ir.ExprLambda, Lambda: &ir.Lambda{Args: original.Args, Block: rewriteBlock(original.Block, live, rewrites)}},
		}}
	}

	optFnType := &ir.Type{
		Kind:   ir.TypeFn,
		FnArgs: argTypes(rw.OptLambda.Args),
		FnRet:  rw.OptLambda.Block.Ret.Type(),
	}

	original := stmt.Expression.Lambda
	wrapperArgs := make([]*ir.Arg, len(original.Args))
	for i, a := range original.Args {
		wrapperArgs[i] = &ir.Arg{Register: ir.NewRegister(), Type: a.Type}
	}
	var callArgs []*ir.Value
	for _, i := range rw.LiveIndices {
		callArgs = append(callArgs, ir.ValueOfArg(wrapperArgs[i]))
	}
	callResult := ir.NewRegister()
	wrapperBlock := &ir.Block{
		Statements: []*ir.Statement{{
			Register: callResult,
			Expression: &ir.Expression{
				Kind: ir.ExprFnCall,
				FnCall: &ir.FnCall{
					Fn:   ir.ValueOfMemory(&ir.Memory{Register: rw.OptRegister, Type: optFnType}),
					Args: callArgs,
				},
			},
		}},
		Ret: ir.ValueOfMemory(&ir.Memory{Register: callResult, Type: optFnType.FnRet}),
	}

	return []*ir.Statement{
		{Register: rw.OptRegister, Expression: &ir.Expression{Kind: ir.ExprLambda, Lambda: rw.OptLambda}},
		{Register: stmt.Register, Expression: &ir.Expression{Kind: ir.ExprLambda, Lambda: &ir.Lambda{Args: wrapperArgs, Block: wrapperBlock}}},
	}
}

func argTypes(args []*ir.Arg) []*ir.Type {
	out := make([]*ir.Type, len(args))
	for i, a := range args {
		out[i] = a.Type
	}
	return out
}

func rewriteExpression(e *ir.Expression, live map[ir.Register]bool, rewrites map[ir.Register]*lambdaRewrite) *ir.Expression {
	switch e.Kind {
	case ir.ExprValue, ir.ExprTuple, ir.ExprElementAccess, ir.ExprCtorCall:
		return e // pure data references; nothing to delete inside them

	case ir.ExprFnCall:
		return rewriteFnCall(e.FnCall, rewrites)

	case ir.ExprIf:
		return &ir.Expression{
			Kind: ir.ExprIf,
			If: &ir.If{
				Cond: e.If.Cond,
				Then: rewriteBlock(e.If.Then, live, rewrites),
				Else: rewriteBlock(e.If.Else, live, rewrites),
			},
		}

	case ir.ExprMatch:
		branches := make([]*ir.MatchBranch, len(e.Match.Branches))
		for i, br := range e.Match.Branches {
			target := br.Target
			if target != nil && !live[target.Register] {
				target = nil
			}
			branches[i] = &ir.MatchBranch{Target: target, Block: rewriteBlock(br.Block, live, rewrites)}
		}
		return &ir.Expression{Kind: ir.ExprMatch, Match: &ir.Match{Subject: e.Match.Subject, Branches: branches}}

	default:
		ir.Fail("unknown-expression-kind", "deadcode rewrite: unhandled expression kind %v", e.Kind)
		return nil
	}
}

func rewriteFnCall(call *ir.FnCall, rewrites map[ir.Register]*lambdaRewrite) *ir.Expression {
	calleeReg, isReg := registerOf(call.Fn)
	if !isReg {
		return &ir.Expression{Kind: ir.ExprFnCall, FnCall: call}
	}
	rw, ok := rewrites[calleeReg]
	if !ok {
		return &ir.Expression{Kind: ir.ExprFnCall, FnCall: call}
	}

	fnType := &ir.Type{Kind: ir.TypeFn, FnArgs: argTypes(rw.OptLambda.Args), FnRet: rw.OptLambda.Block.Ret.Type()}
	filtered := make([]*ir.Value, len(rw.LiveIndices))
	for j, i := range rw.LiveIndices {
		filtered[j] = call.Args[i]
	}
	return &ir.Expression{
		Kind: ir.ExprFnCall,
		FnCall: &ir.FnCall{
			Fn:   ir.ValueOfMemory(&ir.Memory{Register: rw.OptRegister, Type: fnType}),
			Args: filtered,
		},
	}
}
