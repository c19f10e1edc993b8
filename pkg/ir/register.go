// Package ir defines the source intermediate representation: the typed,
// lambda-lifted program produced by the front-end (parser, name resolver,
// type checker — all external collaborators; only their output is modeled
// here).
package ir

import "github.com/google/uuid"

// A Register (also called a Location) is an opaque, globally
// unique handle. Two Registers are equal iff they are the same handle —
// nominal identity, never structural. Registers are created fresh by the
// front-end for the input program, and by the dead-code analyzer when it
// synthesizes new bindings (fresh wrapper arguments, the optimized
// variant's own binding, the wrapper's call result). They are never
// mutated once created.
type Register struct {
	id uuid.UUID
}

// NewRegister allocates a fresh, globally unique Register. Every pass that
// synthesizes a new binding (the dead-code analyzer's wrapper arguments,
// for instance) must go through here rather than reusing an existing
// handle, since Register identity is exactly what makes liveness
// constraints and call-site rewriting sound.
func NewRegister() Register {
	return Register{id: uuid.New()}
}

// Equal reports whether two Registers are the same handle.
func (r Register) Equal(other Register) bool {
	return r.id == other.id
}

// String returns a stable debug form; it is never emitted as source text —
// the lowering compiler assigns separate, human-readable Memory names.
func (r Register) String() string {
	return r.id.String()
}

// Location is an alias kept for readability at call sites that talk about
// "the location a value was bound at" rather than "the register"; both
// words name the same concept.
type Location = Register
