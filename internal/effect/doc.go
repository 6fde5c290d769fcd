// Package effect describes reservation work as data: a small closed set of
// instruction nodes plus a bind operation that attaches continuations, so
// that what should happen is decoupled from how it is executed.
//
// INSTRUCTION VOCABULARY:
//
// Four effectful instructions and three structural ones:
//
//	Search    search-trains(date) -> sequence of train ids
//	Lookup    find-train(id)      -> the train, or absent
//	Reserve   place-reservation(candidate) -> bool
//	Log       log(message)        -> unit
//	Pure      an already-known value; resolves without performing anything
//	Sequence  ordered member nodes; resolves to their ordered results
//	Bound     a node plus a continuation from its result to the next node
//
// Any interpreter must cover all of them to be usable as an executor.
//
// SEALED INTERFACE:
//
// Node is a sealed interface using the marker method pattern: only types in
// this package implement it. Interpreters dispatch with an exhaustive type
// switch; the default arm is a wiring fault, not a recoverable condition.
//
//	switch n := node.(type) {
//	case effect.Search:
//	    // ...
//	case effect.Bound:
//	    // ...
//	default:
//	    // out-of-vocabulary node: fail loudly
//	}
//
// CONTINUATIONS:
//
// A Continuation is an ordinary function from the prior node's result to
// the next node. Chains are therefore built incrementally, never fully
// materialized up front; each continuation constructs its successor
// once the prior result is known. Nodes are immutable once constructed and
// a chain is consumed by exactly one interpreter walk.
//
// Evaluation order is fixed for all interpreters: depth-first, the current
// node evaluated fully (including any nested chain its continuation
// produces) before its result returns to an outer continuation.
package effect
