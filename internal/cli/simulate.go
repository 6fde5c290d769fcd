package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/interp"
	"github.com/berthd/berth/internal/ledger"
	"github.com/berthd/berth/internal/rail"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Catalog  string
	Seats    int
	Date     string
	Requests int
	Parallel int
	Ledger   string

	// Refs allows overriding the booking ref generator (for testing).
	// If nil, defaults to UUIDRefGenerator.
	Refs ledger.RefGenerator
}

// SimOutcome is the JSON shape of one simulated request's result.
type SimOutcome struct {
	Request int    `json:"request"`
	Booked  bool   `json:"booked"`
	Train   string `json:"train,omitempty"`
	Coach   string `json:"coach,omitempty"`
	Seats   []int  `json:"seats,omitempty"`
	Ref     string `json:"ref,omitempty"`
}

// CoachAvailability reports one coach's free seats after the simulation.
type CoachAvailability struct {
	Train string `json:"train"`
	Coach string `json:"coach"`
	Free  int    `json:"free"`
	Total int    `json:"total"`
}

// SimulateResult holds the simulate command's output payload.
type SimulateResult struct {
	Requests     int                 `json:"requests"`
	Parallel     int                 `json:"parallel"`
	Seats        int                 `json:"seats"`
	Booked       int                 `json:"booked"`
	Unbooked     int                 `json:"unbooked"`
	Outcomes     []SimOutcome        `json:"outcomes"`
	Availability []CoachAvailability `json:"availability"`
	Instructions int                 `json:"instructions"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Race concurrent reservation requests against one catalog",
		Long: `Run many identical reservation requests concurrently against one
shared seat store.

Requests race through the lock-free reservation path: candidates that
lose a seat to a concurrent booking retry down their ranking, so the
outcome set shows how the engine degrades under contention. Committed
reservations are journaled in request order when --ledger is set.

Examples:
  berth simulate --catalog ./catalog --seats 2 --requests 8
  berth simulate --catalog ./catalog --seats 2 --requests 8 --parallel 4
  berth simulate --catalog ./catalog --seats 2 --requests 8 --ledger ./sim.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to CUE catalog file or directory (required)")
	cmd.Flags().IntVar(&opts.Seats, "seats", 0, "seats per request (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "travel date (defaults to the catalog date)")
	cmd.Flags().IntVar(&opts.Requests, "requests", 0, "number of concurrent requests (required)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "max requests in flight (0 = unbounded)")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "path to SQLite booking ledger (omit to skip journaling)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("seats")
	_ = cmd.MarkFlagRequired("requests")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	if opts.Requests < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("requests must be at least 1, got %d", opts.Requests))
	}
	if opts.Parallel < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("parallel must be non-negative, got %d", opts.Parallel))
	}

	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, store, err := loadStore(opts.Catalog, formatter)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts.Seats, opts.Date, cat)
	if err != nil {
		return err
	}

	// One executor, one recorder: the trace interleaves all requests on a
	// single logical clock.
	exec := interp.NewExecutor(store, io.Discard)
	exec.Trace = interp.NewRecorder()

	outcomes := make([]SimOutcome, opts.Requests)

	var g errgroup.Group
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}

	for i := 0; i < opts.Requests; i++ {
		i := i
		g.Go(func() error {
			node, err := effect.ReserveSeats(req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}

			res, err := exec.Execute(node)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}

			cand := res.(*rail.CandidateReservation)
			outcome := SimOutcome{Request: i}
			if cand != nil {
				outcome.Booked = true
				outcome.Train = string(cand.TrainID)
				outcome.Coach = string(cand.CoachID)
				outcome.Seats = seatNumbers(cand.Seats)
			}
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "simulation failed", err)
	}

	if opts.Ledger != "" {
		if err := journalOutcomes(cmd.Context(), opts, outcomes); err != nil {
			return err
		}
	}

	result := SimulateResult{
		Requests:     opts.Requests,
		Parallel:     opts.Parallel,
		Seats:        req.Seats,
		Outcomes:     outcomes,
		Availability: availabilityReport(store.Trains()),
		Instructions: len(exec.Trace.Events()),
	}
	for _, o := range outcomes {
		if o.Booked {
			result.Booked++
		} else {
			result.Unbooked++
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	return outputSimulateText(formatter, result)
}

// journalOutcomes appends the committed reservations to the ledger in
// request order, so the journal stays deterministic for a given outcome
// set even though execution interleaved.
func journalOutcomes(ctx context.Context, opts *SimulateOptions, outcomes []SimOutcome) error {
	if ctx == nil {
		ctx = context.Background()
	}

	journal, err := ledger.Open(opts.Ledger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := journal.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	existing, err := journal.List(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read ledger", err)
	}
	seq := int64(len(existing))

	refs := opts.Refs
	if refs == nil {
		refs = ledger.UUIDRefGenerator{}
	}

	for i, outcome := range outcomes {
		if !outcome.Booked {
			continue
		}
		seq++

		cand := rail.CandidateReservation{
			TrainID: rail.TrainID(outcome.Train),
			CoachID: rail.CoachID(outcome.Coach),
			Seats:   toSeatNumbers(outcome.Seats),
		}
		booking, err := ledger.NewBooking(refs, cand, seq)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to build booking", err)
		}
		if _, err := journal.Append(ctx, booking); err != nil {
			return WrapExitError(ExitCommandError, "failed to journal booking", err)
		}
		outcomes[i].Ref = booking.Ref
	}

	return nil
}

// availabilityReport summarizes free seats per coach after the run.
func availabilityReport(trains []rail.Train) []CoachAvailability {
	var report []CoachAvailability
	for _, t := range trains {
		for _, coachID := range t.CoachIDs() {
			c := t.Coaches[coachID]
			report = append(report, CoachAvailability{
				Train: string(t.ID),
				Coach: string(coachID),
				Free:  c.Available.Len(),
				Total: c.Seats,
			})
		}
	}
	return report
}

func outputSimulateText(formatter *OutputFormatter, result SimulateResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Simulated %d request(s) of %d seat(s)", result.Requests, result.Seats)
	if result.Parallel > 0 {
		fmt.Fprintf(w, ", parallel %d", result.Parallel)
	}
	fmt.Fprintln(w, ":")
	fmt.Fprintf(w, "  booked:   %d\n", result.Booked)
	fmt.Fprintf(w, "  unbooked: %d\n", result.Unbooked)

	if formatter.Verbose {
		fmt.Fprintln(w)
		for _, o := range result.Outcomes {
			if o.Booked {
				fmt.Fprintf(w, "  request %d: %s/%s seats %v\n", o.Request, o.Train, o.Coach, o.Seats)
			} else {
				fmt.Fprintf(w, "  request %d: no seats\n", o.Request)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Final availability:")
	for _, a := range result.Availability {
		fmt.Fprintf(w, "  %s/%s: %d/%d free\n", a.Train, a.Coach, a.Free, a.Total)
	}
	return nil
}

// toSeatNumbers converts plain ints back to seat numbers.
func toSeatNumbers(seats []int) []rail.SeatNumber {
	out := make([]rail.SeatNumber, len(seats))
	for i, n := range seats {
		out[i] = rail.SeatNumber(n)
	}
	return out
}
