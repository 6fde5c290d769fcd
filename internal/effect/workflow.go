package effect

import (
	"strings"

	"github.com/berthd/berth/internal/rail"
	"github.com/berthd/berth/internal/ranking"
)

// ReserveSeats builds the reservation workflow as an effect chain:
// search the catalog, look up every train, rank the candidates (a Pure
// step, since ranking is deduced rather than performed), log the ranking,
// then attempt the candidates in priority order until one books or the
// list runs out.
//
// The chain resolves to a *rail.CandidateReservation: the committed
// candidate, or nil when no reservation could be made. Exhaustion is a
// normal result, not an error.
func ReserveSeats(req rail.ReservationRequest) (Node, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	chain := Bind(Search{Date: req.Date}, func(r Result) Node {
		ids := r.([]rail.TrainID)
		lookups := make([]Node, len(ids))
		for i, id := range ids {
			lookups[i] = Lookup{TrainID: id}
		}

		return BindAll(lookups, func(r Result) Node {
			results := r.([]Result)
			trains := make([]rail.Train, 0, len(results))
			for _, res := range results {
				if train, ok := res.(*rail.Train); ok && train != nil {
					trains = append(trains, *train)
				}
			}

			candidates := ranking.Rank(req.Seats, trains)

			return Bind(Pure{Value: candidates}, func(r Result) Node {
				cands := r.([]rail.CandidateReservation)
				return Bind(Log{Message: describeRanking(cands)}, func(Result) Node {
					return attempt(cands)
				})
			})
		})
	})

	return chain, nil
}

// attempt books the head candidate and recurses down the tail on failure.
// An empty list resolves the chain to "no reservation".
func attempt(cands []rail.CandidateReservation) Node {
	if len(cands) == 0 {
		return Pure{Value: (*rail.CandidateReservation)(nil)}
	}

	head := cands[0]
	rest := cands[1:]

	return Bind(Reserve{Candidate: head}, func(r Result) Node {
		if booked := r.(bool); booked {
			committed := head
			return Pure{Value: &committed}
		}
		return attempt(rest)
	})
}

func describeRanking(cands []rail.CandidateReservation) string {
	if len(cands) == 0 {
		return "ranking: no candidates"
	}
	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = c.String()
	}
	return "ranking: " + strings.Join(parts, ", ")
}
