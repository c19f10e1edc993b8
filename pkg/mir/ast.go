package mir

// Value is either a BuiltIn literal/named-fn or a reference to a Memory
// cell. Unlike source ir.Value there is no separate Arg variant: by the
// time a value reaches machine IR, every argument has already been
// assigned a Memory name.
type Value struct {
	BuiltIn *BuiltIn
	Memory  *Memory
}

func ValueOfMemory(m *Memory) *Value   { return &Value{Memory: m} }
func ValueOfBuiltIn(b *BuiltIn) *Value { return &Value{BuiltIn: b} }

func (v *Value) IsMemory() bool { return v.Memory != nil }

// BuiltInKind mirrors ir.BuiltInKind.
type BuiltInKind int

const (
	BuiltInBool BuiltInKind = iota
	BuiltInInt
	BuiltInFn
)

type BuiltIn struct {
	Kind   BuiltInKind
	Bool   bool
	Int    int64
	FnName string
}

// ExpressionKind tags the variant of an Expression.
type ExpressionKind int

const (
	ExprValue ExpressionKind = iota
	ExprTuple
	ExprElementAccess
	ExprFnCall
	ExprConstructorCall
	ExprClosureInstantiation
	ExprWrap
	ExprUnwrap
)

type ElementAccess struct {
	Value *Value
	Index int
}

type FnCall struct {
	Fn     *Value
	FnType *MachineType
	Args   []*Value
}

// ConstructorData names the payload's constructor variant alongside its
// value, since the emitter needs the variant name to select the right C++
// type alias.
type ConstructorData struct {
	VariantName string
	Value       *Value
}

type ConstructorCall struct {
	Index int
	Data  *ConstructorData // nil for payload-less constructors
}

// ClosureInstantiation allocates a closure object of a named FnDef,
// optionally wiring in a captured environment cell.
type ClosureInstantiation struct {
	Name string
	Env  *Value // nil when the closure captures nothing
}

type Expression struct {
	Kind ExpressionKind

	Value                *Value
	Tuple                []*Value
	ElementAccess        *ElementAccess
	FnCall               *FnCall
	ConstructorCall      *ConstructorCall
	ClosureInstantiation *ClosureInstantiation
	WrapValue            *Value       // valid when Kind == ExprWrap
	WrapType             *MachineType // valid when Kind == ExprWrap
	UnwrapValue          *Value       // valid when Kind == ExprUnwrap
}

// StatementKind tags the variant of a Statement.
type StatementKind int

const (
	StmtAwait StatementKind = iota
	StmtDeclaration
	StmtAssignment
	StmtAllocation
	StmtIf
	StmtMatch
)

// Declaration introduces a fresh, as-yet-unassigned Memory cell of a given
// type.
type Declaration struct {
	Memory *Memory
	Type   *MachineType
}

// Assignment writes an Expression's value into target. CheckNull is true
// when target was already declared by a separate Declaration statement —
// call results, and each if/match branch's write into the shared result
// cell; every other assignment binds and initializes a fresh cell.
type Assignment struct {
	Target    *Memory
	Value     *Expression
	CheckNull bool
}

// AllocatedFn names one member of a joint allocator: the closure memory
// cell and the FnDef name it will be instantiated from.
type AllocatedFn struct {
	Memory *Memory
	FnName string
}

// Allocation reserves storage, under a single shared name, for every
// member of one closure-reference SCC.
type Allocation struct {
	Name   string
	Target *Memory
	Fns    []AllocatedFn
}

type IfStatement struct {
	Cond *Value
	Then []*Statement
	Else []*Statement
}

// UnionType is the lightweight view of a nominal union the lowering
// compiler exposes to the rest of the pipeline via its type-lookup table:
// just the flat name and each variant's constructor name, without the
// payload types a full TypeDef also carries.
type UnionType struct {
	Name     string
	Variants []string
}

// MatchStatement dispatches on subject's union tag; AuxiliaryMemory is a
// scratch cell the emitter uses to stage the matched payload before
// binding it to each branch's target (if any).
type MatchStatement struct {
	Subject         *Value
	UnionType       *UnionType
	Branches        []*MatchStatementBranch
	AuxiliaryMemory *Memory
}

type MatchStatementBranch struct {
	Target     *Memory // nil for anonymous patterns
	TargetType *MachineType
	Statements []*Statement
}

type Statement struct {
	Kind StatementKind

	Await       []*Memory
	Declaration *Declaration
	Assignment  *Assignment
	Allocation  *Allocation
	If          *IfStatement
	Match       *MatchStatement
}

// FnDef is one emitted function: its machine-level signature, its body,
// the hoisted declarations the runtime must provision on entry, and its
// optional captured-environment tuple type.
//
// Allocations is a pre-body declaration slot for memories whose cell must
// exist before the body's own statement stream runs. The current lowering
// never populates it: lowerIf/lowerMatch hoist merged declarations inline
// into the if/match's own statement list, and the emitter's block
// partitioning already floats any Declaration to the top of its block
// regardless of which branch produced it. The field is read (as a no-op
// today) by renderFnDef.
type FnDef struct {
	Name        string
	Arguments   []FnArgument
	Statements  []*Statement
	Ret         *Value
	RetType     *MachineType
	Env         *MachineType // Kind == MTTuple when non-nil
	Allocations []*Declaration
}

type FnArgument struct {
	Memory *Memory
	Type   *MachineType
}

// TypeDef is one nominal union type: a name and its constructor list.
type TypeDef struct {
	Name         string
	Constructors []Constructor
}

type Constructor struct {
	Name    string
	Payload *MachineType // nil for payload-less constructors
}

// Program is the whole machine-IR translation unit.
type Program struct {
	TypeDefs []*TypeDef
	FnDefs   []*FnDef
}
