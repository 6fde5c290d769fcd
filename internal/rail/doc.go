// Package rail provides the core domain types for the berth reservation
// engine: trains, coaches, seat sets, reservation requests, and the
// occupancy arithmetic derived from them.
//
// This package contains type definitions and pure derivations only. All
// other internal packages import rail; rail imports nothing internal. This
// keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Seat sets are unordered for storage but iterate sorted, so seat
//     assignment is deterministic
//   - Occupancy is computed on demand, never stored
//   - Seat counts are positive by construction; a zero-seat coach or train
//     is a configuration fault caught by Validate, not a runtime case
package rail
