package rail

import "fmt"

// Occupancy is the derived utilization of a coach or train: how many seats
// are taken out of how many exist. Computed on demand from availability
// data, never stored.
type Occupancy struct {
	Occupied int `json:"occupied"`
	Total    int `json:"total"`
}

// CoachOccupancy derives the occupancy of a single coach.
// Occupied is floored at zero so an inconsistent availability set (more
// seats listed free than the coach has) can never produce a negative count.
func CoachOccupancy(c Coach) Occupancy {
	occupied := c.Seats - c.Available.Len()
	if occupied < 0 {
		occupied = 0
	}
	return Occupancy{Occupied: occupied, Total: c.Seats}
}

// TrainOccupancy derives the occupancy of a whole train: the element-wise
// sum of its coaches' occupancies.
func TrainOccupancy(t Train) Occupancy {
	var o Occupancy
	for _, c := range t.Coaches {
		co := CoachOccupancy(c)
		o.Occupied += co.Occupied
		o.Total += co.Total
	}
	return o
}

// Projected returns the occupancy ratio that would result from committing
// a request for the given number of seats: (occupied + requested) / total.
//
// A zero Total means a zero-seat coach or train reached occupancy math.
// That is a configuration fault, not a runtime case: seat counts are
// positive by construction and Validate rejects zero-seat data at load
// time. Rather than silently produce NaN or Inf, Projected panics.
func (o Occupancy) Projected(requested int) float64 {
	if o.Total == 0 {
		panic(fmt.Sprintf("rail: projected occupancy over zero total seats (occupied=%d requested=%d)", o.Occupied, requested))
	}
	return float64(o.Occupied+requested) / float64(o.Total)
}
