package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/berthd/berth/internal/rail"
)

// CompileTrain parses a CUE value into a rail.Train.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the train struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`train: T3: coach: B: {seats: 40, available: "all"}`)
//	t, err := CompileTrain(v.LookupPath(cue.ParsePath("train.T3")))
func CompileTrain(v cue.Value) (*rail.Train, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	train := &rail.Train{Coaches: make(map[rail.CoachID]rail.Coach)}

	// Train id comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		train.ID = rail.TrainID(labels[len(labels)-1].String())
	}

	coachVal := v.LookupPath(cue.ParsePath("coach"))
	if !coachVal.Exists() {
		return nil, &CompileError{
			Field:   "coach",
			Message: "at least one coach is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := coachVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		coach, err := compileCoach(iter.Value())
		if err != nil {
			return nil, err
		}
		train.Coaches[rail.CoachID(iter.Label())] = *coach
	}

	if len(train.Coaches) == 0 {
		return nil, &CompileError{
			Field:   "coach",
			Message: "at least one coach is required",
			Pos:     coachVal.Pos(),
		}
	}

	return train, nil
}

// compileCoach parses a single coach declaration.
func compileCoach(v cue.Value) (*rail.Coach, error) {
	seatsVal := v.LookupPath(cue.ParsePath("seats"))
	if !seatsVal.Exists() {
		return nil, &CompileError{
			Field:   "seats",
			Message: "seats is required",
			Pos:     v.Pos(),
		}
	}
	seats, err := seatsVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}

	availVal := v.LookupPath(cue.ParsePath("available"))
	if !availVal.Exists() {
		return nil, &CompileError{
			Field:   "available",
			Message: `available is required: "all", a seat list, or {from, to}`,
			Pos:     v.Pos(),
		}
	}
	available, err := parseAvailable(availVal, int(seats))
	if err != nil {
		return nil, err
	}

	return &rail.Coach{Seats: int(seats), Available: available}, nil
}

// parseAvailable parses a free-seat declaration. Supports:
// - "all": every seat from 1 through seats
// - {from: 41, to: 80}: an inclusive seat number range
// - [1, 2, 3]: explicit seat numbers (an empty list means fully booked)
func parseAvailable(v cue.Value, seats int) (rail.SeatSet, error) {
	// Try as keyword first
	if s, err := v.String(); err == nil {
		if s == "all" {
			return rail.SeatRange(1, rail.SeatNumber(seats)), nil
		}
		return nil, &CompileError{
			Field:   "available",
			Message: fmt.Sprintf("unsupported keyword %q (only \"all\")", s),
			Pos:     v.Pos(),
		}
	}

	// Try as inclusive range object
	fromVal := v.LookupPath(cue.ParsePath("from"))
	if fromVal.Exists() {
		from, err := fromVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		to, err := v.LookupPath(cue.ParsePath("to")).Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rail.SeatRange(rail.SeatNumber(from), rail.SeatNumber(to)), nil
	}

	// Try as explicit seat list
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	nums := []rail.SeatNumber{}
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		nums = append(nums, rail.SeatNumber(n))
	}
	return rail.NewSeatSet(nums...), nil
}

// CompileError represents a catalog compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
