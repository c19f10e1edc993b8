package weakener

import (
	"testing"

	"lazylift/pkg/mir"
)

func fnType() *mir.MachineType {
	return &mir.MachineType{Kind: mir.MTFn, FnRet: &mir.MachineType{Kind: mir.MTAtomic, AtomicName: "int"}}
}

// TestWeakenSelfCycleNoAllocator builds a single self-capturing closure:
// its own environment tuple holds a reference back to itself. The raw
// reference graph forms a two-node cycle (the closure cell and its
// environment cell), but since the environment cell isn't a real closure
// it's filtered out of the final group, leaving a size-1 cyclic group that
// gets no separate allocator but does get its self-referential slot marked
// weak.
func TestWeakenSelfCycleNoAllocator(t *testing.T) {
	memF := &mir.Memory{Name: "m0"}
	env := &mir.Memory{Name: "m1"}

	stmts := []*mir.Statement{
		mir.NewDeclaration(memF, mir.Lazy(fnType())),
		mir.NewAssignment(env, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(memF)}), false),
		mir.NewAssignment(memF, mir.ExprOfClosureInstantiation("F0", mir.ValueOfMemory(env)), true),
	}

	fn0 := &mir.FnDef{
		Name: "F0",
		Env:  &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{fnType()}},
	}
	main := &mir.FnDef{Name: "Main", Statements: stmts}
	prog := &mir.Program{FnDefs: []*mir.FnDef{main, fn0}}

	Weaken(prog)

	for _, st := range main.Statements {
		if st.Kind == mir.StmtAllocation {
			t.Fatalf("size-1 self cycle must not get a separate allocator, found %+v", st.Allocation)
		}
	}

	if fn0.Env.Tuple[0].Kind != mir.MTWeakFn {
		t.Fatalf("expected the self-captured slot to be retagged WeakFn, got %+v", fn0.Env.Tuple[0])
	}
}

// TestWeakenMutualCycleInsertsJointAllocator builds two closures that
// capture each other. The four-node raw cycle (two closures, two
// environment cells) filters down to a two-member group, which must get
// one joint Allocation spliced in immediately before the first member's
// Declaration, and both environment slots marked weak.
func TestWeakenMutualCycleInsertsJointAllocator(t *testing.T) {
	memF0 := &mir.Memory{Name: "m0"}
	memF1 := &mir.Memory{Name: "m1"}
	env0 := &mir.Memory{Name: "m2"}
	env1 := &mir.Memory{Name: "m3"}

	stmts := []*mir.Statement{
		mir.NewDeclaration(memF0, mir.Lazy(fnType())),
		mir.NewDeclaration(memF1, mir.Lazy(fnType())),
		mir.NewAssignment(env0, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(memF1)}), false),
		mir.NewAssignment(memF0, mir.ExprOfClosureInstantiation("F0", mir.ValueOfMemory(env0)), true),
		mir.NewAssignment(env1, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(memF0)}), false),
		mir.NewAssignment(memF1, mir.ExprOfClosureInstantiation("F1", mir.ValueOfMemory(env1)), true),
	}

	fn0 := &mir.FnDef{Name: "F0", Env: &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{fnType()}}}
	fn1 := &mir.FnDef{Name: "F1", Env: &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{fnType()}}}
	main := &mir.FnDef{Name: "Main", Statements: stmts}
	prog := &mir.Program{FnDefs: []*mir.FnDef{main, fn0, fn1}}

	Weaken(prog)

	if main.Statements[0].Kind != mir.StmtAllocation {
		t.Fatalf("expected a joint allocator hoisted before the first member's Declaration, got %+v", main.Statements[0].Kind)
	}
	alloc := main.Statements[0].Allocation
	if len(alloc.Fns) != 2 {
		t.Fatalf("expected the allocator to cover both cycle members, got %d", len(alloc.Fns))
	}
	if alloc.Fns[0].Memory.Name != "m0" || alloc.Fns[1].Memory.Name != "m1" {
		t.Fatalf("expected allocator members in canonical name order, got %+v", alloc.Fns)
	}

	allocCount := 0
	for _, st := range main.Statements {
		if st.Kind == mir.StmtAllocation {
			allocCount++
		}
	}
	if allocCount != 1 {
		t.Fatalf("expected exactly one allocator for the whole cycle, found %d", allocCount)
	}

	if fn0.Env.Tuple[0].Kind != mir.MTWeakFn {
		t.Fatalf("expected F0's captured reference to F1 to be weak, got %+v", fn0.Env.Tuple[0])
	}
	if fn1.Env.Tuple[0].Kind != mir.MTWeakFn {
		t.Fatalf("expected F1's captured reference to F0 to be weak, got %+v", fn1.Env.Tuple[0])
	}
}

// TestWeakenLazyWrappedSlotRetaggedInsideLazy mirrors what the lowering
// compiler actually hands this pass: environment tuples of Lazy-wrapped
// capture types. The cycle-closing slot must come out as Lazy<WeakFn>,
// with the Lazy layer intact.
func TestWeakenLazyWrappedSlotRetaggedInsideLazy(t *testing.T) {
	memF := &mir.Memory{Name: "m0"}
	env := &mir.Memory{Name: "m1"}

	stmts := []*mir.Statement{
		mir.NewDeclaration(memF, mir.Lazy(fnType())),
		mir.NewAssignment(env, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(memF)}), false),
		mir.NewAssignment(memF, mir.ExprOfClosureInstantiation("F0", mir.ValueOfMemory(env)), false),
	}

	fn0 := &mir.FnDef{
		Name: "F0",
		Env:  &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{mir.Lazy(fnType())}},
	}
	main := &mir.FnDef{Name: "Main", Statements: stmts}
	prog := &mir.Program{FnDefs: []*mir.FnDef{main, fn0}}

	Weaken(prog)

	slot := fn0.Env.Tuple[0]
	if slot.Kind != mir.MTLazy || slot.Inner.Kind != mir.MTWeakFn {
		t.Fatalf("expected the lazy-wrapped slot to become Lazy<WeakFn>, got %+v", slot)
	}
}

// TestWeakenTwiceInsertsNoDuplicateAllocator re-runs the pass on its own
// output: the same cycle is re-detected, but the allocation is keyed by
// its name and must not be spliced in a second time.
func TestWeakenTwiceInsertsNoDuplicateAllocator(t *testing.T) {
	memF0 := &mir.Memory{Name: "m0"}
	memF1 := &mir.Memory{Name: "m1"}
	env0 := &mir.Memory{Name: "m2"}
	env1 := &mir.Memory{Name: "m3"}

	stmts := []*mir.Statement{
		mir.NewDeclaration(memF0, mir.Lazy(fnType())),
		mir.NewDeclaration(memF1, mir.Lazy(fnType())),
		mir.NewAssignment(env0, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(memF1)}), false),
		mir.NewAssignment(memF0, mir.ExprOfClosureInstantiation("F0", mir.ValueOfMemory(env0)), true),
		mir.NewAssignment(env1, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(memF0)}), false),
		mir.NewAssignment(memF1, mir.ExprOfClosureInstantiation("F1", mir.ValueOfMemory(env1)), true),
	}

	fn0 := &mir.FnDef{Name: "F0", Env: &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{mir.Lazy(fnType())}}}
	fn1 := &mir.FnDef{Name: "F1", Env: &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{mir.Lazy(fnType())}}}
	main := &mir.FnDef{Name: "Main", Statements: stmts}
	prog := &mir.Program{FnDefs: []*mir.FnDef{main, fn0, fn1}}

	Weaken(prog)
	Weaken(prog)

	allocCount := 0
	for _, st := range main.Statements {
		if st.Kind == mir.StmtAllocation {
			allocCount++
		}
	}
	if allocCount != 1 {
		t.Fatalf("expected the second pass to insert no duplicate allocator, found %d", allocCount)
	}
}

// TestWeakenAcyclicCapturesUntouched makes sure a plain, non-recursive
// closure capture produces no allocator and no weak slot.
func TestWeakenAcyclicCapturesUntouched(t *testing.T) {
	captured := &mir.Memory{Name: "m0"}
	env := &mir.Memory{Name: "m1"}
	memF := &mir.Memory{Name: "m2"}

	stmts := []*mir.Statement{
		mir.NewDeclaration(captured, mir.Lazy(&mir.MachineType{Kind: mir.MTAtomic, AtomicName: "int"})),
		mir.NewAssignment(env, mir.ExprOfTuple([]*mir.Value{mir.ValueOfMemory(captured)}), false),
		mir.NewDeclaration(memF, mir.Lazy(fnType())),
		mir.NewAssignment(memF, mir.ExprOfClosureInstantiation("F0", mir.ValueOfMemory(env)), false),
	}

	fn0 := &mir.FnDef{Name: "F0", Env: &mir.MachineType{Kind: mir.MTTuple, Tuple: []*mir.MachineType{{Kind: mir.MTAtomic, AtomicName: "int"}}}}
	main := &mir.FnDef{Name: "Main", Statements: stmts}
	prog := &mir.Program{FnDefs: []*mir.FnDef{main, fn0}}

	Weaken(prog)

	for _, st := range main.Statements {
		if st.Kind == mir.StmtAllocation {
			t.Fatalf("acyclic capture must not get an allocator")
		}
	}
	if fn0.Env.Tuple[0].Kind == mir.MTWeakFn {
		t.Fatalf("acyclic capture must not be weakened")
	}
}
