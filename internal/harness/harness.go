package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/berthd/berth/internal/catalog"
	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/interp"
	"github.com/berthd/berth/internal/ledger"
	"github.com/berthd/berth/internal/rail"
	"github.com/berthd/berth/internal/seats"
	"github.com/berthd/berth/internal/testutil"
)

// Harness is the scenario execution engine.
// It plays requests with a deterministic booking clock and ref generator.
type Harness struct {
	store   *seats.Store
	exec    *interp.Executor
	journal *ledger.Ledger
	clock   *testutil.DeterministicClock
	refs    *testutil.SequentialRefGenerator
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in isolation:
//  1. Compile the scenario's CUE catalog
//  2. Build a fresh seat store from it
//  3. Open a fresh in-memory booking journal
//  4. Play each request through the executor, journaling committed
//     reservations with deterministic refs and seqs
//  5. Check per-request expectations, then evaluate trace and journal
//     assertions
//
// Run returns an error only for infrastructure failures (bad catalog,
// broken journal). Expectation and assertion failures land in
// Result.Errors with Pass set to false.
func Run(scenario *Scenario) (*Result, error) {
	cat, errs := catalog.Load(scenario.Catalog, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load catalog: %w", errs[0])
	}

	store, err := seats.New(cat.Trains)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat store: %w", err)
	}

	// Fresh in-memory journal for isolation
	journal, err := ledger.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer journal.Close()

	// Deterministic helpers
	prefix := scenario.RefPrefix
	if prefix == "" {
		prefix = scenario.Name
	}

	var logBuf bytes.Buffer
	exec := interp.NewExecutor(store, &logBuf)
	exec.Trace = interp.NewRecorder()

	h := &Harness{
		store:   store,
		exec:    exec,
		journal: journal,
		clock:   testutil.NewDeterministicClock(),
		refs:    testutil.NewSequentialRefGenerator(prefix),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()

	if err := h.playRequests(ctx, cat, scenario.Requests, result); err != nil {
		return nil, fmt.Errorf("failed to play requests: %w", err)
	}

	result.Trace = exec.Trace.Events()
	result.Log = logBuf.String()

	bookings, err := journal.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.Bookings = bookings

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// playRequests executes each request in order and records its outcome.
//
// A committed reservation is journaled immediately: the booking seq is the
// commit position from the scenario clock, the ref comes from the
// sequential generator. Expectation mismatches mark the result failed but
// do not stop the flow, so later requests still play against the state the
// earlier ones produced.
func (h *Harness) playRequests(ctx context.Context, cat *catalog.Catalog, requests []Request, result *Result) error {
	for i, req := range requests {
		date := rail.TravelDate(req.Date)
		if date == "" {
			date = cat.Date
		}

		node, err := effect.ReserveSeats(rail.ReservationRequest{Seats: req.Seats, Date: date})
		if err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}

		res, err := h.exec.Execute(node)
		if err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}

		// The workflow always resolves to a candidate pointer, nil when
		// nothing was booked.
		cand := res.(*rail.CandidateReservation)

		var outcome Outcome
		if cand != nil {
			booking, err := ledger.NewBooking(h.refs, *cand, h.clock.Next())
			if err != nil {
				return fmt.Errorf("request %d: failed to build booking: %w", i, err)
			}
			if _, err := h.journal.Append(ctx, booking); err != nil {
				return fmt.Errorf("request %d: failed to journal booking: %w", i, err)
			}

			outcome = Outcome{
				Booked: true,
				Train:  string(cand.TrainID),
				Coach:  string(cand.CoachID),
				Seats:  seatInts(cand.Seats),
				Ref:    booking.Ref,
			}
			h.logger.Info("request booked",
				"request", i,
				"ref", booking.Ref,
				"candidate", cand.String(),
			)
		} else {
			h.logger.Info("request ended without booking", "request", i)
		}

		result.Outcomes = append(result.Outcomes, outcome)
		checkExpectation(i, req.Expect, outcome, result)
	}

	return nil
}

// checkExpectation compares one request's outcome against its expect
// clause, if any.
func checkExpectation(index int, expect *ExpectClause, outcome Outcome, result *Result) {
	if expect == nil {
		return
	}

	if expect.None {
		if outcome.Booked {
			result.AddError(fmt.Sprintf(
				"request[%d]: expected no booking, got %s/%s seats %v",
				index, outcome.Train, outcome.Coach, outcome.Seats))
		}
		return
	}

	want := expect.Booked
	if !outcome.Booked {
		result.AddError(fmt.Sprintf(
			"request[%d]: expected booking on %s/%s, got none",
			index, want.Train, want.Coach))
		return
	}

	if outcome.Train != want.Train || outcome.Coach != want.Coach {
		result.AddError(fmt.Sprintf(
			"request[%d]: expected booking on %s/%s, got %s/%s",
			index, want.Train, want.Coach, outcome.Train, outcome.Coach))
		return
	}

	if len(want.Seats) > 0 && !slices.Equal(outcome.Seats, want.Seats) {
		result.AddError(fmt.Sprintf(
			"request[%d]: expected seats %v on %s/%s, got %v",
			index, want.Seats, want.Train, want.Coach, outcome.Seats))
	}
}

// seatInts converts seat numbers to plain ints for YAML-comparable
// outcomes.
func seatInts(seats []rail.SeatNumber) []int {
	out := make([]int, len(seats))
	for i, n := range seats {
		out[i] = int(n)
	}
	return out
}
