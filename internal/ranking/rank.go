// Package ranking orders reservation candidates by ascending projected
// occupancy: the least-loaded coaches of the least-loaded trains first.
package ranking

import (
	"slices"

	"github.com/berthd/berth/internal/rail"
)

// Load thresholds. A train is dropped entirely once a request would push
// it past TrainLoadLimit; a coach survives up to exactly full.
const (
	TrainLoadLimit = 0.7
	CoachLoadLimit = 1.0
)

// rankedCoach pairs a candidate coach with its sort key.
type rankedCoach struct {
	trainID   rail.TrainID
	coachID   rail.CoachID
	coach     rail.Coach
	projected float64
}

// Rank produces the ordered candidate reservations for a request of the
// given seat count against a train catalog. Pure: identical inputs yield
// an identical ordered result.
//
// Algorithm, in order:
//  1. Drop trains whose projected train occupancy exceeds TrainLoadLimit,
//     coaches and all.
//  2. Enumerate surviving coaches: trains in caller order, coaches in
//     sorted id order, so the enumeration is deterministic.
//  3. Drop coaches whose projected coach occupancy exceeds CoachLoadLimit.
//  4. Stable-sort ascending by projected coach occupancy; ties keep
//     enumeration order.
//  5. Materialize each coach into a CandidateReservation claiming its
//     numerically smallest free seats.
func Rank(requested int, trains []rail.Train) []rail.CandidateReservation {
	var survivors []rankedCoach

	for _, t := range trains {
		if rail.TrainOccupancy(t).Projected(requested) > TrainLoadLimit {
			continue
		}
		for _, coachID := range t.CoachIDs() {
			c := t.Coaches[coachID]
			projected := rail.CoachOccupancy(c).Projected(requested)
			if projected > CoachLoadLimit {
				continue
			}
			survivors = append(survivors, rankedCoach{
				trainID:   t.ID,
				coachID:   coachID,
				coach:     c,
				projected: projected,
			})
		}
	}

	slices.SortStableFunc(survivors, func(a, b rankedCoach) int {
		switch {
		case a.projected < b.projected:
			return -1
		case a.projected > b.projected:
			return 1
		default:
			return 0
		}
	})

	candidates := make([]rail.CandidateReservation, 0, len(survivors))
	for _, rc := range survivors {
		candidates = append(candidates, materialize(requested, rc))
	}
	return candidates
}

// materialize claims the numerically smallest requested seats from the
// coach's available set; all of them if fewer remain. The seat store's
// all-or-nothing reservation rule is what ultimately holds the line on
// short candidates.
func materialize(requested int, rc rankedCoach) rail.CandidateReservation {
	seats := rc.coach.Available.Sorted()
	if len(seats) > requested {
		seats = seats[:requested]
	}
	return rail.CandidateReservation{
		TrainID: rc.trainID,
		CoachID: rc.coachID,
		Seats:   seats,
	}
}
