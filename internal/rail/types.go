package rail

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// TrainID identifies a train in the catalog.
type TrainID string

// CoachID identifies a coach within a train.
type CoachID string

// SeatNumber is a 1-based seat position within a coach.
type SeatNumber int

// TravelDate is an opaque catalog-selection token. It is accepted on
// requests but does not filter the catalog: there is a single fixed catalog
// regardless of date. Deliberate simplification, not a bug.
type TravelDate string

// SeatSet is a set of seat numbers. Storage is unordered; Sorted provides
// the deterministic ascending view used for seat assignment.
type SeatSet map[SeatNumber]struct{}

// NewSeatSet builds a SeatSet from the given seat numbers.
func NewSeatSet(nums ...SeatNumber) SeatSet {
	s := make(SeatSet, len(nums))
	for _, n := range nums {
		s[n] = struct{}{}
	}
	return s
}

// SeatRange builds a SeatSet containing every seat number in [lo, hi].
// Returns an empty set when hi < lo.
func SeatRange(lo, hi SeatNumber) SeatSet {
	if hi < lo {
		return SeatSet{}
	}
	s := make(SeatSet, hi-lo+1)
	for n := lo; n <= hi; n++ {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether n is in the set.
func (s SeatSet) Has(n SeatNumber) bool {
	_, ok := s[n]
	return ok
}

// HasAll reports whether every seat number in nums is in the set.
// Vacuously true for an empty nums.
func (s SeatSet) HasAll(nums []SeatNumber) bool {
	for _, n := range nums {
		if !s.Has(n) {
			return false
		}
	}
	return true
}

// Len returns the number of seats in the set.
func (s SeatSet) Len() int {
	return len(s)
}

// Sorted returns the seat numbers in ascending order.
func (s SeatSet) Sorted() []SeatNumber {
	nums := make([]SeatNumber, 0, len(s))
	for n := range s {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// Clone returns an independent copy of the set.
func (s SeatSet) Clone() SeatSet {
	out := make(SeatSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Without returns a copy of the set with the given seat numbers removed.
// The receiver is not modified.
func (s SeatSet) Without(nums []SeatNumber) SeatSet {
	out := s.Clone()
	for _, n := range nums {
		delete(out, n)
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON array of seat numbers.
func (s SeatSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of seat numbers into the set.
func (s *SeatSet) UnmarshalJSON(data []byte) error {
	var nums []SeatNumber
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("seat set: %w", err)
	}
	*s = NewSeatSet(nums...)
	return nil
}

// Coach is a block of seats within a train. Seats is the total seat count
// (positive); Available holds the seat numbers currently free, a subset of
// 1..=Seats.
type Coach struct {
	Seats     int     `json:"seats"`
	Available SeatSet `json:"available"`
}

// Clone returns an independent copy of the coach.
func (c Coach) Clone() Coach {
	return Coach{Seats: c.Seats, Available: c.Available.Clone()}
}

// Train is an identified collection of coaches. The identifier is
// immutable; seat contents change only through the seat store's atomic
// reservation operation.
type Train struct {
	ID      TrainID           `json:"id"`
	Coaches map[CoachID]Coach `json:"coaches"`
}

// Clone returns an independent deep copy of the train.
func (t Train) Clone() Train {
	out := Train{ID: t.ID, Coaches: make(map[CoachID]Coach, len(t.Coaches))}
	for id, c := range t.Coaches {
		out.Coaches[id] = c.Clone()
	}
	return out
}

// CoachIDs returns the train's coach identifiers in sorted order. Coach
// maps must never be ranged over directly where ordering matters.
func (t Train) CoachIDs() []CoachID {
	ids := make([]CoachID, 0, len(t.Coaches))
	for id := range t.Coaches {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ReservationRequest asks for a number of seats on some travel date.
type ReservationRequest struct {
	Seats int        `json:"seats"`
	Date  TravelDate `json:"date"`
}

// Validate rejects requests that ask for fewer than one seat.
func (r ReservationRequest) Validate() error {
	if r.Seats < 1 {
		return fmt.Errorf("reservation request: seat count must be positive, got %d", r.Seats)
	}
	return nil
}

// CandidateReservation is a proposed, not-yet-committed booking of specific
// seats on a specific coach. Seats are ascending and number at most the
// requested count (fewer only when the coach had fewer free). A candidate
// is consumed once when booking succeeds, otherwise discarded.
type CandidateReservation struct {
	TrainID TrainID      `json:"train_id"`
	CoachID CoachID      `json:"coach_id"`
	Seats   []SeatNumber `json:"seats"`
}

// String renders the candidate as "train/coach seats [..]" for logs and
// rendered instruction chains.
func (c CandidateReservation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s seats [", c.TrainID, c.CoachID)
	for i, n := range c.Seats {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteByte(']')
	return b.String()
}
