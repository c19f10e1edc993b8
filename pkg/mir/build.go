package mir

// The constructors below give each Statement variant a single call site
// that also sets its Kind tag, the same way the source ir package pairs a
// tagged union with ValueOf* helpers — keeping callers from forgetting to
// set Kind when they build a Statement by hand.

func NewAwait(mems ...*Memory) *Statement {
	return &Statement{Kind: StmtAwait, Await: mems}
}

func NewDeclaration(m *Memory, t *MachineType) *Statement {
	m.Type = t
	return &Statement{Kind: StmtDeclaration, Declaration: &Declaration{Memory: m, Type: t}}
}

func NewAssignment(target *Memory, value *Expression, checkNull bool) *Statement {
	return &Statement{Kind: StmtAssignment, Assignment: &Assignment{Target: target, Value: value, CheckNull: checkNull}}
}

func NewAllocation(name string, target *Memory, fns []AllocatedFn) *Statement {
	return &Statement{Kind: StmtAllocation, Allocation: &Allocation{Name: name, Target: target, Fns: fns}}
}

func NewIf(cond *Value, then, els []*Statement) *Statement {
	return &Statement{Kind: StmtIf, If: &IfStatement{Cond: cond, Then: then, Else: els}}
}

func NewMatch(subject *Value, ut *UnionType, branches []*MatchStatementBranch, aux *Memory) *Statement {
	return &Statement{Kind: StmtMatch, Match: &MatchStatement{Subject: subject, UnionType: ut, Branches: branches, AuxiliaryMemory: aux}}
}

func ExprOfValue(v *Value) *Expression { return &Expression{Kind: ExprValue, Value: v} }

func ExprOfTuple(vs []*Value) *Expression { return &Expression{Kind: ExprTuple, Tuple: vs} }

func ExprOfElementAccess(v *Value, idx int) *Expression {
	return &Expression{Kind: ExprElementAccess, ElementAccess: &ElementAccess{Value: v, Index: idx}}
}

func ExprOfFnCall(fn *Value, fnType *MachineType, args []*Value) *Expression {
	return &Expression{Kind: ExprFnCall, FnCall: &FnCall{Fn: fn, FnType: fnType, Args: args}}
}

func ExprOfCtorCall(idx int, data *ConstructorData) *Expression {
	return &Expression{Kind: ExprConstructorCall, ConstructorCall: &ConstructorCall{Index: idx, Data: data}}
}

func ExprOfClosureInstantiation(name string, env *Value) *Expression {
	return &Expression{Kind: ExprClosureInstantiation, ClosureInstantiation: &ClosureInstantiation{Name: name, Env: env}}
}

func ExprOfWrap(v *Value, t *MachineType) *Expression {
	return &Expression{Kind: ExprWrap, WrapValue: v, WrapType: t}
}

func ExprOfUnwrap(v *Value) *Expression {
	return &Expression{Kind: ExprUnwrap, UnwrapValue: v}
}
