package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/interp"
	"github.com/berthd/berth/internal/ledger"
	"github.com/berthd/berth/internal/rail"
)

// ReserveOptions holds flags for the reserve command.
type ReserveOptions struct {
	*RootOptions
	Catalog string
	Seats   int
	Date    string
	Ledger  string

	// Refs allows overriding the booking ref generator (for testing).
	// If nil, defaults to UUIDRefGenerator.
	Refs ledger.RefGenerator
}

// ReserveResult holds the reserve command's output payload.
type ReserveResult struct {
	Booked    bool   `json:"booked"`
	Date      string `json:"date,omitempty"`
	Train     string `json:"train,omitempty"`
	Coach     string `json:"coach,omitempty"`
	Seats     []int  `json:"seats,omitempty"`
	Ref       string `json:"ref,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	LedgerSeq int64  `json:"ledger_seq,omitempty"`
}

// NewReserveCommand creates the reserve command.
func NewReserveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReserveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Reserve seats on the least-loaded coach",
		Long: `Run the reservation workflow against a catalog and book seats.

The request is ranked onto the least-loaded coaches and the candidates
are attempted in order until one books. With --ledger the committed
reservation is appended to the SQLite booking journal; without it the
booking lives only for this invocation.

Exit codes:
  0 - Seats booked
  1 - No coach could take the request
  2 - Command error (bad catalog, broken ledger, invalid flags)

Examples:
  berth reserve --catalog ./catalog --seats 2
  berth reserve --catalog ./catalog --seats 2 --ledger ./bookings.db
  berth reserve --catalog ./catalog --seats 2 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReserve(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to CUE catalog file or directory (required)")
	cmd.Flags().IntVar(&opts.Seats, "seats", 0, "number of seats to reserve (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "travel date (defaults to the catalog date)")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "path to SQLite booking ledger (omit to skip journaling)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("seats")

	return cmd
}

func runReserve(opts *ReserveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, store, err := loadStore(opts.Catalog, formatter)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts.Seats, opts.Date, cat)
	if err != nil {
		return err
	}

	node, err := effect.ReserveSeats(req)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid request", err)
	}

	// Workflow log lines are diagnostics; surface them only in verbose mode.
	var logSink io.Writer = io.Discard
	if opts.Verbose {
		logSink = cmd.ErrOrStderr()
	}
	exec := interp.NewExecutor(store, logSink)
	exec.Trace = interp.NewRecorder()

	res, err := exec.Execute(node)
	if err != nil {
		return WrapExitError(ExitFailure, "workflow execution failed", err)
	}
	slog.Debug("workflow executed", "instructions", len(exec.Trace.Events()))

	cand := res.(*rail.CandidateReservation)
	if cand == nil {
		return outputNoSeats(formatter, req)
	}

	result := ReserveResult{
		Booked: true,
		Date:   string(req.Date),
		Train:  string(cand.TrainID),
		Coach:  string(cand.CoachID),
		Seats:  seatNumbers(cand.Seats),
	}

	if opts.Ledger != "" {
		booking, err := journalBooking(cmd.Context(), opts, *cand)
		if err != nil {
			return err
		}
		result.Ref = booking.Ref
		result.BookingID = booking.ID
		result.LedgerSeq = booking.Seq
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Booked %s\n", cand.String())
	if result.Ref != "" {
		fmt.Fprintf(w, "  ref: %s (journaled at seq %d)\n", result.Ref, result.LedgerSeq)
	}
	return nil
}

// journalBooking appends the committed reservation to the booking ledger.
// The booking seq is the journal's next commit position.
func journalBooking(ctx context.Context, opts *ReserveOptions, cand rail.CandidateReservation) (ledger.Booking, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	journal, err := ledger.Open(opts.Ledger)
	if err != nil {
		return ledger.Booking{}, WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := journal.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	existing, err := journal.List(ctx)
	if err != nil {
		return ledger.Booking{}, WrapExitError(ExitCommandError, "failed to read ledger", err)
	}

	refs := opts.Refs
	if refs == nil {
		refs = ledger.UUIDRefGenerator{}
	}

	booking, err := ledger.NewBooking(refs, cand, int64(len(existing))+1)
	if err != nil {
		return ledger.Booking{}, WrapExitError(ExitCommandError, "failed to build booking", err)
	}

	inserted, err := journal.Append(ctx, booking)
	if err != nil {
		return ledger.Booking{}, WrapExitError(ExitCommandError, "failed to journal booking", err)
	}
	if !inserted {
		slog.Debug("booking already journaled", "id", booking.ID)
	}
	slog.Info("booking journaled", "ref", booking.Ref, "seq", booking.Seq)

	return booking, nil
}

// outputNoSeats reports reservation exhaustion: a domain failure, not a
// command error.
func outputNoSeats(formatter *OutputFormatter, req rail.ReservationRequest) error {
	message := fmt.Sprintf("no coach can take %d seat(s)", req.Seats)

	if formatter.Format == "json" {
		_ = formatter.Error("E_NO_SEATS", message, ReserveResult{
			Booked: false,
			Date:   string(req.Date),
		})
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintf(formatter.Writer, "✗ No seats: %s\n", message)
	return NewExitError(ExitFailure, message)
}
