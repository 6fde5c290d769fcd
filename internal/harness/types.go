package harness

import (
	"github.com/berthd/berth/internal/interp"
	"github.com/berthd/berth/internal/ledger"
)

// Outcome records how one scenario request ended.
type Outcome struct {
	// Booked is true when the request committed a reservation.
	Booked bool `json:"booked"`

	// Train, Coach and Seats describe the committed reservation.
	// Zero-valued when Booked is false.
	Train string `json:"train,omitempty"`
	Coach string `json:"coach,omitempty"`
	Seats []int  `json:"seats,omitempty"`

	// Ref is the journaled booking ref. Empty when Booked is false.
	Ref string `json:"ref,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all expectations and assertions hold.
	Pass bool `json:"pass"`

	// Trace contains every leaf instruction the executor performed,
	// in seq order across all requests.
	Trace []interp.TraceEvent `json:"trace"`

	// Outcomes holds one entry per request, in request order.
	Outcomes []Outcome `json:"outcomes"`

	// Bookings is the journal content after the scenario, in seq order.
	Bookings []ledger.Booking `json:"bookings"`

	// Log is the captured executor log output.
	Log string `json:"log,omitempty"`

	// Errors contains expectation and assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []interp.TraceEvent{},
		Outcomes: []Outcome{},
		Bookings: []ledger.Booking{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
