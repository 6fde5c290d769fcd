// Package seats holds the shared, mutable seat inventory behind an atomic
// snapshot pointer. Booking is optimistic: read a snapshot, build the next
// state, compare-and-swap, retry on interference.
package seats

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/berthd/berth/internal/rail"
)

// snapshot is one immutable generation of the catalog. Once published via
// the store's pointer it is never mutated; TryReserve builds a successor
// instead. Unaffected trains are shared between generations.
type snapshot struct {
	trains map[rail.TrainID]rail.Train
}

// Store is the concurrent seat inventory. A single Store is shared by all
// reservation requests in a process; all other reservation state (request,
// candidate list, effect chain) is private per call.
type Store struct {
	state atomic.Pointer[snapshot]
}

// New builds a store seeded with the given catalog. The catalog is
// validated (zero-seat coaches, out-of-range seat numbers and duplicate
// train ids are configuration faults) and deep-copied, so the caller's
// slice can be reused freely.
func New(trains []rail.Train) (*Store, error) {
	if errs := rail.ValidateCatalog(trains); len(errs) > 0 {
		return nil, fmt.Errorf("seats: invalid catalog: %w", errs[0])
	}

	snap := &snapshot{trains: make(map[rail.TrainID]rail.Train, len(trains))}
	for _, t := range trains {
		snap.trains[t.ID] = t.Clone()
	}

	s := &Store{}
	s.state.Store(snap)
	return s, nil
}

// TrainIDs returns all train ids in sorted order.
func (s *Store) TrainIDs() []rail.TrainID {
	snap := s.state.Load()
	ids := make([]rail.TrainID, 0, len(snap.trains))
	for id := range snap.trains {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Train returns a deep copy of the named train, or false when absent.
// Copying keeps published snapshots immutable no matter what callers do
// with the result.
func (s *Store) Train(id rail.TrainID) (rail.Train, bool) {
	snap := s.state.Load()
	t, ok := snap.trains[id]
	if !ok {
		return rail.Train{}, false
	}
	return t.Clone(), true
}

// Trains returns deep copies of every train, sorted by id.
func (s *Store) Trains() []rail.Train {
	snap := s.state.Load()
	out := make([]rail.Train, 0, len(snap.trains))
	for _, id := range s.TrainIDs() {
		out = append(out, snap.trains[id].Clone())
	}
	return out
}

// TryReserve atomically removes the candidate's exact seat set from its
// coach, provided every seat is currently free. All-or-nothing: if any
// seat is taken, or the train or coach does not exist, it returns false
// without booking anything.
//
// Interference from concurrent bookings is handled by retrying against a
// fresh snapshot; the retry is unbounded and cheap, with no backoff since
// contention stays low. A reservation that read seats as free fails cleanly
// if a concurrent booking claimed any of them in between: the swap only
// publishes against the exact snapshot the check saw.
func (s *Store) TryReserve(c rail.CandidateReservation) bool {
	if len(c.Seats) == 0 {
		return false
	}

	for {
		cur := s.state.Load()

		train, ok := cur.trains[c.TrainID]
		if !ok {
			return false
		}
		coach, ok := train.Coaches[c.CoachID]
		if !ok {
			return false
		}
		if !coach.Available.HasAll(c.Seats) {
			return false
		}

		if s.state.CompareAndSwap(cur, cur.withReserved(c)) {
			return true
		}
		// Lost the race: another booking published first. Re-check from
		// the fresh state.
	}
}

// withReserved builds the successor snapshot with the candidate's seats
// removed. Only the affected train is copied; the rest is shared with the
// current generation.
func (snap *snapshot) withReserved(c rail.CandidateReservation) *snapshot {
	next := &snapshot{trains: make(map[rail.TrainID]rail.Train, len(snap.trains))}
	for id, t := range snap.trains {
		next.trains[id] = t
	}

	prev := snap.trains[c.TrainID]
	updated := rail.Train{ID: prev.ID, Coaches: make(map[rail.CoachID]rail.Coach, len(prev.Coaches))}
	for id, coach := range prev.Coaches {
		updated.Coaches[id] = coach
	}

	coach := updated.Coaches[c.CoachID]
	updated.Coaches[c.CoachID] = rail.Coach{
		Seats:     coach.Seats,
		Available: coach.Available.Without(c.Seats),
	}

	next.trains[c.TrainID] = updated
	return next
}
