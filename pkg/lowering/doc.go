// Package lowering translates source IR into machine IR, making
// lazy/eager coercions, closure environment capture, and recursive union
// flattening explicit.
//
// The Compiler walks the tree exactly once, threading a scope stack of
// name bindings and a monotonic temp counter through a family of lowerX
// methods that each return the lowered value plus whatever setup
// statements it needed. Every value can exist in two machine forms, T and
// Lazy<T>, so the scope stack is really two parallel stacks — one mapping
// a register to its current lazy representation, one to its eager one.
package lowering
