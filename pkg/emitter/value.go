package emitter

import (
	"fmt"
	"strings"

	"lazylift/pkg/mir"
)

func builtInToCxx(b *mir.BuiltIn) string {
	switch b.Kind {
	case mir.BuiltInBool:
		return fmt.Sprintf("%s{%t}", capitalize("bool"), b.Bool)
	case mir.BuiltInInt:
		return fmt.Sprintf("%s{%d LL}", capitalize("int"), b.Int)
	case mir.BuiltInFn:
		return fmt.Sprintf("%s<decltype(%s_G)>(%s_G)", rtMakeLazy, b.FnName, b.FnName)
	default:
		Fail("unknown-builtin-kind", "emitter: unhandled BuiltIn kind %v", b.Kind)
		return ""
	}
}

// valueToCxx renders a Value: a memory name verbatim, or a builtin
// literal/named-fn constructor.
func valueToCxx(v *mir.Value) string {
	if v.IsMemory() {
		return v.Memory.Name
	}
	return builtInToCxx(v.BuiltIn)
}

// exprToCxx renders the right-hand side of a non-closure-instantiation
// Expression. Closure instantiations never reach here: both the
// environment-carrying and the environment-free form render as whole
// statements in renderAssignment.
func exprToCxx(target *mir.Memory, e *mir.Expression) string {
	switch e.Kind {
	case mir.ExprValue:
		return valueToCxx(e.Value)

	case mir.ExprTuple:
		parts := make([]string, len(e.Tuple))
		for i, v := range e.Tuple {
			parts[i] = valueToCxx(v)
		}
		return "make_tuple(" + strings.Join(parts, ", ") + ")"

	case mir.ExprElementAccess:
		base := valueToCxx(e.ElementAccess.Value)
		if e.ElementAccess.Value.IsMemory() && e.ElementAccess.Value.Memory.Name == "env" {
			return fmt.Sprintf("%s(get<%d>(%s))", rtLoadEnv, e.ElementAccess.Index, base)
		}
		return fmt.Sprintf("get<%d>(%s)", e.ElementAccess.Index, base)

	case mir.ExprFnCall:
		return fnCallToCxx(e.FnCall)

	case mir.ExprConstructorCall:
		return ctorCallToCxx(target, e.ConstructorCall)

	case mir.ExprClosureInstantiation:
		Fail("closure-instantiation-outside-statement", "closure %q reached exprToCxx; instantiations render at statement level only", e.ClosureInstantiation.Name)
		return ""

	case mir.ExprWrap:
		return fmt.Sprintf("wrap<%s>(%s)", typeName(e.WrapType), valueToCxx(e.WrapValue))

	case mir.ExprUnwrap:
		return fmt.Sprintf("%s(%s)", rtExtractLazy, valueToCxx(e.UnwrapValue))

	default:
		Fail("unknown-expression-kind", "emitter: unhandled Expression kind %v", e.Kind)
		return ""
	}
}

func fnCallToCxx(c *mir.FnCall) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = valueToCxx(a)
	}
	argList := strings.Join(args, ", ")

	if !c.Fn.IsMemory() {
		if c.Fn.BuiltIn.Kind != mir.BuiltInFn {
			Fail("non-fn-value-in-fn-position", "call target is a non-function builtin: %+v", c.Fn.BuiltIn)
		}
		if argList == "" {
			return fmt.Sprintf("%s()", c.Fn.BuiltIn.FnName)
		}
		return fmt.Sprintf("%s(%s)", c.Fn.BuiltIn.FnName, argList)
	}

	callee := fmt.Sprintf("%s(%s)", rtExtractLazy, valueToCxx(c.Fn))
	if argList == "" {
		return fmt.Sprintf("%s(%s)", rtFnCall, callee)
	}
	return fmt.Sprintf("%s(%s, %s)", rtFnCall, callee, argList)
}

func ctorCallToCxx(target *mir.Memory, c *mir.ConstructorCall) string {
	unionName := unionNameOf(target.Type)
	if c.Data == nil {
		return fmt.Sprintf("%s{int_const<%d>}", unionName, c.Index)
	}
	return fmt.Sprintf("%s{int_const<%d>, %s{%s(%s)}}", unionName, c.Index, c.Data.VariantName, rtEnsureLazy, valueToCxx(c.Data.Value))
}
