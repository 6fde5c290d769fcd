package cli

import (
	"errors"
	"fmt"

	"github.com/berthd/berth/internal/catalog"
	"github.com/berthd/berth/internal/rail"
	"github.com/berthd/berth/internal/seats"
)

// loadCatalog loads a CUE catalog (file or directory) fail-fast and maps
// load failures onto command-level exit errors. The first error's code is
// reported through the formatter so JSON consumers see it.
func loadCatalog(path string, formatter *OutputFormatter) (*catalog.Catalog, error) {
	cat, errs := catalog.Load(path, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		code := catalog.ErrCodeGeneric
		var loadErr *catalog.LoadError
		if errors.As(errs[0], &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, errs[0].Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", errs[0])
	}

	formatter.VerboseLog("Loaded %d train(s) from %d CUE file(s)", len(cat.Trains), cat.FileCount)
	return cat, nil
}

// loadStore loads the catalog and builds the seat store the interpreters
// run against.
func loadStore(path string, formatter *OutputFormatter) (*catalog.Catalog, *seats.Store, error) {
	cat, err := loadCatalog(path, formatter)
	if err != nil {
		return nil, nil, err
	}

	store, err := seats.New(cat.Trains)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to build seat store", err)
	}
	return cat, store, nil
}

// buildRequest validates the seat count and resolves the travel date,
// falling back to the catalog's date label.
func buildRequest(seatCount int, date string, cat *catalog.Catalog) (rail.ReservationRequest, error) {
	travelDate := rail.TravelDate(date)
	if travelDate == "" {
		travelDate = cat.Date
	}

	req := rail.ReservationRequest{Seats: seatCount, Date: travelDate}
	if err := req.Validate(); err != nil {
		return rail.ReservationRequest{}, WrapExitError(ExitCommandError, "invalid request", err)
	}
	return req, nil
}

// seatNumbers converts seat numbers to plain ints for JSON payloads.
func seatNumbers(seats []rail.SeatNumber) []int {
	out := make([]int, len(seats))
	for i, n := range seats {
		out[i] = int(n)
	}
	return out
}

// formatSeats renders seat numbers as "[1 2 3]" for text output.
func formatSeats(seats []rail.SeatNumber) string {
	return fmt.Sprintf("%v", seatNumbers(seats))
}
