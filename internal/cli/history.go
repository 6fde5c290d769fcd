package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/berthd/berth/internal/ledger"
	"github.com/berthd/berth/internal/rail"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Ledger string
	Train  string
}

// BookingInfo is the JSON shape of one journaled booking.
type BookingInfo struct {
	ID    string `json:"id"`
	Ref   string `json:"ref"`
	Train string `json:"train"`
	Coach string `json:"coach"`
	Seats []int  `json:"seats"`
	Seq   int64  `json:"seq"`
}

// HistoryResult holds the history command's output payload.
type HistoryResult struct {
	Ledger   string        `json:"ledger"`
	Train    string        `json:"train,omitempty"`
	Count    int           `json:"count"`
	Bookings []BookingInfo `json:"bookings"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled bookings",
		Long: `List the bookings in a SQLite booking ledger, in commit order.

With --train, only that train's bookings are listed.

Examples:
  berth history --ledger ./bookings.db
  berth history --ledger ./bookings.db --train T1
  berth history --ledger ./bookings.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "path to SQLite booking ledger (required)")
	cmd.Flags().StringVar(&opts.Train, "train", "", "only list bookings for this train")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Open would create an empty database at a bad path; reads should not.
	if _, err := os.Stat(opts.Ledger); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("ledger not found: %s", opts.Ledger))
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var bookings []ledger.Booking
	if opts.Train != "" {
		bookings, err = journal.ListTrain(ctx, rail.TrainID(opts.Train))
	} else {
		bookings, err = journal.List(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read ledger", err)
	}

	result := HistoryResult{
		Ledger:   opts.Ledger,
		Train:    opts.Train,
		Count:    len(bookings),
		Bookings: make([]BookingInfo, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, BookingInfo{
			ID:    b.ID,
			Ref:   b.Ref,
			Train: string(b.TrainID),
			Coach: string(b.CoachID),
			Seats: seatNumbers(b.Seats),
			Seq:   b.Seq,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(bookings) == 0 {
		fmt.Fprintln(w, "No bookings.")
		return nil
	}

	fmt.Fprintf(w, "%d booking(s):\n", len(bookings))
	for _, b := range bookings {
		fmt.Fprintf(w, "  seq %d: %s/%s seats %s (ref %s)\n",
			b.Seq, b.TrainID, b.CoachID, formatSeats(b.Seats), b.Ref)
	}
	return nil
}
