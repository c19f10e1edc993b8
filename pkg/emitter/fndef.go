package emitter

import (
	"strings"

	"lazylift/pkg/mir"
)

// renderFnDef: a FnDef becomes a struct inheriting from
// TypedClosureI<EnvTuple, Ret, ArgTypes…>, with a body method taking the
// lazy argument forms, a static init factory, and — for env-less
// functions only — a static G singleton (an FnT built through
// TypedClosureG over init) that every environment-free instantiation of
// the function shares instead of allocating a fresh closure object.
func renderFnDef(fn *mir.FnDef, c *ctx) {
	envType := rtEmpty
	if fn.Env != nil {
		envType = typeName(fn.Env)
	}

	// The base class, init factory, and G singleton all speak in the
	// external (eager) types; laziness appears only in the body signature.
	argTypes := make([]string, len(fn.Arguments))
	for i, a := range fn.Arguments {
		argTypes[i] = typeName(mir.Eager(a.Type))
	}
	retType := typeName(mir.Eager(fn.RetType))
	external := strings.Join(append([]string{retType}, argTypes...), ", ")

	c.line("struct %s : %s<%s, %s> {", fn.Name, rtTypedClosureI, envType, external)
	c.indent++

	params := make([]string, len(fn.Arguments))
	for i, a := range fn.Arguments {
		params[i] = typeName(a.Type) + " " + a.Memory.Name
	}
	c.line("%s<%s> body(%s) {", rtLazy, retType, strings.Join(params, ", "))
	c.indent++

	for _, decl := range fn.Allocations {
		c.line("%s %s;", typeName(decl.Type), decl.Memory.Name)
		c.stats.Declarations++
	}
	renderBlock(fn.Statements, c)
	c.line("return %s(%s);", rtEnsureLazy, valueToCxx(fn.Ret))

	c.indent--
	c.line("}")

	c.line("static %s *init() { return new %s(); }", fn.Name, fn.Name)

	if fn.Env == nil {
		c.line("static inline %s<%s> G = std::make_shared<%s<%s, %s>>(init);",
			rtFn, external, rtTypedClosureG, rtEmpty, external)
	}

	c.indent--
	c.line("};")
	c.line("")

	c.stats.FnDefs++
}
