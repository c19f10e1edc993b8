// Package emitter renders a machine-IR Program into the runtime's
// C++-style source text: type definitions, then one struct per FnDef. It
// never redefines the runtime surface it targets (LazyT, FnT,
// TypedClosureI, WorkManager::await, …) — those names are emitted verbatim
// and documented in runtime.go.
package emitter
