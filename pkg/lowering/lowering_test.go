package lowering

import (
	"testing"

	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

// intLiteralMain builds `main() = let x = 42 in x`.
func intLiteralMain() *ir.Program {
	r := ir.NewRegister()
	block := &ir.Block{
		Statements: []*ir.Statement{
			{Register: r, Expression: &ir.Expression{Kind: ir.ExprValue, Value: ir.ValueOfBuiltIn(&ir.BuiltIn{Kind: ir.BuiltInInt, Int: 42})}},
		},
		Ret: ir.ValueOfMemory(&ir.Memory{Register: r, Type: &ir.Type{Kind: ir.TypeAtomic, Atomic: ir.AtomicInt}}),
	}
	return &ir.Program{Main: &ir.Lambda{Block: block}}
}

func TestCompileIntLiteralMain(t *testing.T) {
	prog := Compile(intLiteralMain())
	if len(prog.FnDefs) != 1 {
		t.Fatalf("expected exactly one FnDef, got %d", len(prog.FnDefs))
	}
	main := prog.FnDefs[0]
	if main.Name != "Main" {
		t.Fatalf("expected entry point named Main, got %s", main.Name)
	}
	if !mir.IsLazy(main.RetType) {
		t.Fatalf("expected a lazy return type, got %+v", main.RetType)
	}
	if len(main.Statements) == 0 {
		t.Fatalf("expected at least one statement lowering the literal")
	}
}

// identityLambdaMain builds `main() = (lambda (x) x)`: a closure with no
// captures and a single passthrough argument.
func identityLambdaMain() *ir.Program {
	argReg := ir.NewRegister()
	argType := &ir.Type{Kind: ir.TypeAtomic, Atomic: ir.AtomicInt}
	arg := &ir.Arg{Register: argReg, Type: argType}

	lamBody := &ir.Block{Ret: ir.ValueOfArg(arg)}
	lam := &ir.Lambda{Args: []*ir.Arg{arg}, Block: lamBody}

	fReg := ir.NewRegister()
	fType := &ir.Type{Kind: ir.TypeFn, FnArgs: []*ir.Type{argType}, FnRet: argType}

	mainBlock := &ir.Block{
		Statements: []*ir.Statement{
			{Register: fReg, Expression: &ir.Expression{Kind: ir.ExprLambda, Lambda: lam}},
		},
		Ret: ir.ValueOfMemory(&ir.Memory{Register: fReg, Type: fType}),
	}
	return &ir.Program{Main: &ir.Lambda{Block: mainBlock}}
}

func TestCompileIdentityLambdaHasNoEnvironment(t *testing.T) {
	prog := Compile(identityLambdaMain())
	if len(prog.FnDefs) != 2 {
		t.Fatalf("expected one nested FnDef plus Main, got %d", len(prog.FnDefs))
	}

	nested := prog.FnDefs[0]
	if nested.Name != "F0" {
		t.Fatalf("expected the nested lambda to be named F0, got %s", nested.Name)
	}
	if nested.Env != nil {
		t.Fatalf("expected no captured environment for a closed lambda, got %+v", nested.Env)
	}
	if len(nested.Arguments) != 1 {
		t.Fatalf("expected exactly one argument, got %d", len(nested.Arguments))
	}

	main := prog.FnDefs[1]
	if main.Name != "Main" {
		t.Fatalf("expected the outer entry point to be named Main, got %s", main.Name)
	}
}
