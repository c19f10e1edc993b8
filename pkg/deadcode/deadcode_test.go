package deadcode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lazylift/pkg/ir"
)

var intType = &ir.Type{Kind: ir.TypeAtomic, Atomic: ir.AtomicInt}

// TestConstraintSetSingleFixpoint exercises the worklist solver directly:
// a chain of single constraints a=>b=>c must all become live from a root
// of a, and an unrelated register must not.
func TestConstraintSetSingleFixpoint(t *testing.T) {
	a, b, c, unrelated := ir.NewRegister(), ir.NewRegister(), ir.NewRegister(), ir.NewRegister()
	cs := NewConstraintSet()
	cs.AddSingle(a, b)
	cs.AddSingle(b, c)

	live := cs.Solve(a)
	require.True(t, live[a])
	require.True(t, live[b])
	require.True(t, live[c])
	require.False(t, live[unrelated])
}

// TestConstraintSetDoubleRequiresBothEndpoints checks that a double
// constraint only fires once both of its registers are independently
// live, and that the order the two registers are supplied in doesn't
// matter.
func TestConstraintSetDoubleRequiresBothEndpoints(t *testing.T) {
	param, callResult, dep := ir.NewRegister(), ir.NewRegister(), ir.NewRegister()
	cs := NewConstraintSet()
	cs.AddDouble(callResult, param, dep)

	live := cs.Solve(callResult)
	require.False(t, live[dep], "dep must stay dead until param is independently live")

	live = cs.Solve(callResult, param)
	require.True(t, live[dep])

	// Order independence: supplying (param, callResult) at construction
	// time must behave identically.
	cs2 := NewConstraintSet()
	cs2.AddDouble(param, callResult, dep)
	live2 := cs2.Solve(callResult, param)
	require.True(t, live2[dep])
}

// buildDeadArgProgram constructs a program whose second parameter is dead:
//
//	f = lambda(x, y). x
//	main = lambda(). f(7, 99)
func buildDeadArgProgram() (*ir.Program, ir.Register, ir.Register) {
	xArg := &ir.Arg{Register: ir.NewRegister(), Type: intType}
	yArg := &ir.Arg{Register: ir.NewRegister(), Type: intType}
	fLambda := &ir.Lambda{
		Args:  []*ir.Arg{xArg, yArg},
		Block: &ir.Block{Ret: ir.ValueOfArg(xArg)},
	}

	fReg := ir.NewRegister()
	fType := &ir.Type{Kind: ir.TypeFn, FnArgs: []*ir.Type{intType, intType}, FnRet: intType}

	callResult := ir.NewRegister()
	mainBlock := &ir.Block{
		Statements: []*ir.Statement{
			{Register: fReg, Expression: &ir.Expression{Kind: ir.ExprLambda, Lambda: fLambda}},
			{Register: callResult, Expression: &ir.Expression{
				Kind: ir.ExprFnCall,
				FnCall: &ir.FnCall{
					Fn: ir.ValueOfMemory(&ir.Memory{Register: fReg, Type: fType}),
					Args: []*ir.Value{
						ir.ValueOfBuiltIn(&ir.BuiltIn{Kind: ir.BuiltInInt, Int: 7}),
						ir.ValueOfBuiltIn(&ir.BuiltIn{Kind: ir.BuiltInInt, Int: 99}),
					},
				},
			}},
		},
		Ret: ir.ValueOfMemory(&ir.Memory{Register: callResult, Type: intType}),
	}

	return &ir.Program{Main: &ir.Lambda{Block: mainBlock}}, fReg, callResult
}

// TestSolveLiveSetIsLeastFixpoint pins the solved live set for the
// dead-argument program: exactly the call result, the callee binding, and
// the used parameter x — never the dead parameter y.
func TestSolveLiveSetIsLeastFixpoint(t *testing.T) {
	prog, fReg, callResult := buildDeadArgProgram()
	yReg := prog.Main.Block.Statements[0].Expression.Lambda.Args[1].Register

	cs, _ := collectConstraints(prog)
	live := cs.Solve(callResult)

	names := liveRegisterList(live)
	require.Len(t, names, 3)
	require.Contains(t, names, fReg.String())
	require.NotContains(t, names, yReg.String())
}

func TestAnalyzeDeadArgumentAcrossKnownCallSite(t *testing.T) {
	prog, fReg, callResult := buildDeadArgProgram()
	rewritten := Analyze(prog)

	require.Len(t, rewritten.Main.Block.Statements, 3, "expect f_opt, the f wrapper, and the rewritten call")

	optStmt := rewritten.Main.Block.Statements[0]
	wrapperStmt := rewritten.Main.Block.Statements[1]
	callStmt := rewritten.Main.Block.Statements[2]

	require.Equal(t, ir.ExprLambda, optStmt.Expression.Kind)
	require.Len(t, optStmt.Expression.Lambda.Args, 1, "f_opt must take strictly fewer parameters than f")

	require.True(t, wrapperStmt.Register.Equal(fReg), "f itself keeps its original register")
	require.Equal(t, ir.ExprLambda, wrapperStmt.Expression.Kind)
	wrapper := wrapperStmt.Expression.Lambda
	require.Len(t, wrapper.Args, 2, "the wrapper keeps the original arity")
	require.Len(t, wrapper.Block.Statements, 1, "the wrapper's only statement is a call to the optimized variant")
	require.Equal(t, ir.ExprFnCall, wrapper.Block.Statements[0].Expression.Kind)

	require.Equal(t, ir.ExprFnCall, callStmt.Expression.Kind)
	call := callStmt.Expression.FnCall
	require.Len(t, call.Args, 1, "the known call site must be rewritten to call f_opt with only the live argument")
	require.True(t, callStmt.Register.Equal(callResult))

	litArg, ok := call.Args[0].BuiltIn, call.Args[0].Kind == ir.ValueBuiltIn
	require.True(t, ok)
	require.EqualValues(t, 7, litArg.Int, "the dead literal 99 must not appear in the rewritten call")
}

// TestAnalyzeNoOpOnTrivialReturn: a main returning a bare literal gives
// the analysis nothing to root at, so the program must come back
// unchanged rather than emptied out or rejected.
func TestAnalyzeNoOpOnTrivialReturn(t *testing.T) {
	prog := &ir.Program{Main: &ir.Lambda{Block: &ir.Block{
		Ret: ir.ValueOfBuiltIn(&ir.BuiltIn{Kind: ir.BuiltInInt, Int: 0}),
	}}}
	rewritten := Analyze(prog)
	require.Same(t, prog, rewritten)
}

// TestAnalyzeReachesFixpoint: repeated runs must stabilize. The first
// pass narrows f's parameters and redirects the known call site straight
// to f_opt; that rewrite orphans the unoptimized
// trampoline entirely (nothing calls it anymore), so the second pass drops
// it. From there every surviving lambda's parameters are already all live,
// so a third pass changes nothing further.
func TestAnalyzeReachesFixpoint(t *testing.T) {
	prog, _, _ := buildDeadArgProgram()
	once := Analyze(prog)
	require.Len(t, once.Main.Block.Statements, 3)

	twice := Analyze(once)
	require.Len(t, twice.Main.Block.Statements, 2, "the now-uncalled trampoline is dropped on the second pass")

	thrice := Analyze(twice)
	require.Equal(t, len(twice.Main.Block.Statements), len(thrice.Main.Block.Statements))
}
