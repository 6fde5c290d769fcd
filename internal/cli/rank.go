package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berthd/berth/internal/rail"
	"github.com/berthd/berth/internal/ranking"
)

// RankOptions holds flags for the rank command.
type RankOptions struct {
	*RootOptions
	Catalog string
	Seats   int
	Date    string
}

// CandidateInfo is the JSON shape of one ranked candidate.
type CandidateInfo struct {
	Train string `json:"train"`
	Coach string `json:"coach"`
	Seats []int  `json:"seats"`
}

// RankResult holds the rank command's output payload.
type RankResult struct {
	Date       string          `json:"date,omitempty"`
	Seats      int             `json:"seats"`
	Candidates []CandidateInfo `json:"candidates"`
}

// NewRankCommand creates the rank command.
func NewRankCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RankOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank candidate reservations without booking",
		Long: `Rank the candidate reservations for a request against a catalog.

Candidates are ordered by ascending projected occupancy: the
least-loaded coaches of the least-loaded trains first. Trains a request
would push past the load limit are dropped entirely. Nothing is booked.

Examples:
  berth rank --catalog ./catalog --seats 2
  berth rank --catalog ./catalog.cue --seats 4 --date 2026-09-14 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to CUE catalog file or directory (required)")
	cmd.Flags().IntVar(&opts.Seats, "seats", 0, "number of seats to reserve (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "travel date (defaults to the catalog date)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("seats")

	return cmd
}

func runRank(opts *RankOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := loadCatalog(opts.Catalog, formatter)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts.Seats, opts.Date, cat)
	if err != nil {
		return err
	}

	candidates := ranking.Rank(req.Seats, cat.Trains)

	if opts.Format == "json" {
		return formatter.Success(rankResult(req, candidates))
	}

	w := formatter.Writer
	if len(candidates) == 0 {
		fmt.Fprintf(w, "No candidates for %d seat(s): every train is too loaded.\n", req.Seats)
		return nil
	}

	fmt.Fprintf(w, "Ranked candidates for %d seat(s)", req.Seats)
	if req.Date != "" {
		fmt.Fprintf(w, " on %s", req.Date)
	}
	fmt.Fprintln(w, ":")
	for i, c := range candidates {
		fmt.Fprintf(w, "  %d. %s\n", i+1, c.String())
	}
	return nil
}

func rankResult(req rail.ReservationRequest, candidates []rail.CandidateReservation) RankResult {
	result := RankResult{
		Date:       string(req.Date),
		Seats:      req.Seats,
		Candidates: make([]CandidateInfo, 0, len(candidates)),
	}
	for _, c := range candidates {
		result.Candidates = append(result.Candidates, CandidateInfo{
			Train: string(c.TrainID),
			Coach: string(c.CoachID),
			Seats: seatNumbers(c.Seats),
		})
	}
	return result
}
