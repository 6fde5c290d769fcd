package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/interp"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Catalog string
	Seats   int
	Date    string
}

// RenderResult holds the render command's output payload.
type RenderResult struct {
	Date  string   `json:"date,omitempty"`
	Seats int      `json:"seats"`
	Lines []string `json:"lines"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print a reservation's instruction chain without booking",
		Long: `Render the instruction chain a reservation request would perform.

The chain is walked against the catalog without reserving anything:
every attempt resolves as "not booked", so the listing shows the full
worst-case path through the candidates. One "op(arg)" line per
instruction.

Examples:
  berth render --catalog ./catalog --seats 2
  berth render --catalog ./catalog --seats 2 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to CUE catalog file or directory (required)")
	cmd.Flags().IntVar(&opts.Seats, "seats", 0, "number of seats to reserve (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "travel date (defaults to the catalog date)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("seats")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command) error {
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

	lines, err := interp.NewRenderer(store).Render(node)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to render chain", err)
	}

	if opts.Format == "json" {
		return formatter.Success(RenderResult{
			Date:  string(req.Date),
			Seats: req.Seats,
			Lines: lines,
		})
	}

	for _, line := range lines {
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}
