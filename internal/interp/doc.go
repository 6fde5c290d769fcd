// Package interp evaluates effect chains built by the effect package.
//
// Two interpreters share one walk:
//
// Executor:
// Runs a chain for real against the shared seat store. Search and Lookup
// read store snapshots, Reserve attempts an atomic booking, Log writes a
// line to the configured writer. The result of the walk is whatever the
// chain resolves to; for reservation chains that is a
// *rail.CandidateReservation (nil when no booking happened).
//
// Renderer:
// Walks the same chain without booking anything. Search and Lookup read
// the store so continuations see real data, but Reserve is only described
// and resolved as "failed", which forces the walk through every fallback
// candidate. The output is the full worst-case instruction listing, one
// line per leaf instruction.
//
// CONTRACT: Both interpreters visit leaf instructions in the same order
// up to the point where their Reserve answers diverge. A chain that the
// renderer can describe is a chain the executor can run.
//
// Structural nodes (Pure, Sequence, Bound) produce no instructions and no
// trace events; only the four leaf instructions do. Evaluation is
// depth-first and sequential within one walk. Concurrency happens at a
// coarser grain: many walks may run at once against one store and one
// trace recorder.
package interp
