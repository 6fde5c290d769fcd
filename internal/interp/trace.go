package interp

import "sync"

// Instruction op names as they appear in trace events and rendered
// listings. These strings are the stable vocabulary of the engine; tests
// and the scenario harness match against them.
const (
	OpSearch  = "search-trains"
	OpLookup  = "find-train"
	OpReserve = "place-reservation"
	OpLog     = "log"
)

// TraceEvent is one leaf instruction observed during a walk.
type TraceEvent struct {
	// Seq is the logical timestamp, strictly increasing across all walks
	// sharing a recorder.
	Seq int64 `json:"seq"`

	// Op is one of the Op* constants.
	Op string `json:"op"`

	// Detail is the instruction argument: the date for search-trains, the
	// train id for find-train, the candidate for place-reservation, the
	// message for log.
	Detail string `json:"detail"`
}

// Recorder collects trace events from one or more concurrent walks.
// The zero value is not usable; construct with NewRecorder.
//
// Seq assignment and append happen under one lock, so Events is always
// sorted by Seq even when walks interleave.
type Recorder struct {
	mu     sync.Mutex
	clock  *Clock
	events []TraceEvent
}

// NewRecorder creates a recorder with a fresh clock.
func NewRecorder() *Recorder {
	return &Recorder{clock: NewClock()}
}

// Record stamps and stores one event. Safe for concurrent use.
func (r *Recorder) Record(op, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, TraceEvent{
		Seq:    r.clock.Next(),
		Op:     op,
		Detail: detail,
	})
}

// Events returns a copy of the recorded trace in seq order.
func (r *Recorder) Events() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len reports the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
