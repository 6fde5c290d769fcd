// Package ledger provides the SQLite-backed booking journal.
//
// The ledger is an append-only audit record of committed reservations. It
// is deliberately not the seat inventory: availability lives in the
// in-memory seat store, and a ledger row is written only after a booking
// has already been committed there. Losing the ledger loses history, not
// seats.
//
// # Conventions
//
// Logical Identity and Time
//   - Booking ids are content-addressed: SHA-256 with domain separation
//     over canonical JSON of the booking payload
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//
// Idempotency
//   - INSERT ... ON CONFLICT(id) DO NOTHING; Append reports whether a row
//     was actually inserted
//
// Deterministic Query Results
//   - All queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The default path is ":memory:"; a file-backed journal is an operator
// choice, not a requirement.
package ledger
