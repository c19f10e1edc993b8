// Package weakener walks each FnDef's statement list, finds closure cells
// that reference each other in a cycle, inserts a joint allocator ahead of
// the first such cell's declaration, and retags the environment slot that
// closes the cycle as a weak function reference so the emitted runtime can
// free the group without leaking or dangling.
//
// Cycle detection is Kosaraju's algorithm: a topological pass over the
// forward reference graph, then a second pass over its transpose in
// reverse postorder, one component per tree. A shared *cyclicGroup handle
// is recorded under each member's key so allocator insertion sees a cycle
// exactly once no matter which member's declaration it reaches first.
package weakener
