package interp

import (
	"fmt"
	"io"

	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/rail"
	"github.com/berthd/berth/internal/seats"
)

// Executor runs effect chains against the live seat store.
//
// Each leaf instruction resolves to a value the chain's continuations
// consume:
//
//	Search  -> []rail.TrainID (sorted)
//	Lookup  -> *rail.Train (nil when the train does not exist)
//	Reserve -> bool (booked or not)
//	Log     -> nil
//
// One Executor may serve many goroutines: it holds no per-walk state, and
// both the store and the recorder are concurrency-safe.
type Executor struct {
	store *seats.Store
	logs  io.Writer

	// Trace, when non-nil, receives one event per leaf instruction.
	Trace *Recorder
}

// NewExecutor creates an executor over the given store. Log instructions
// write to logs; pass io.Discard (or nil) to drop them.
func NewExecutor(store *seats.Store, logs io.Writer) *Executor {
	if logs == nil {
		logs = io.Discard
	}
	return &Executor{store: store, logs: logs}
}

// Execute evaluates a chain depth-first and returns its final value.
// Returns UnknownNodeError for nodes outside the closed vocabulary; the
// only other failure mode is a log write error.
func (e *Executor) Execute(node effect.Node) (effect.Result, error) {
	if node == nil {
		return nil, &UnknownNodeError{}
	}

	switch n := node.(type) {
	case effect.Search:
		return e.execSearch(n)
	case *effect.Search:
		return e.execSearch(*n)
	case effect.Lookup:
		return e.execLookup(n)
	case *effect.Lookup:
		return e.execLookup(*n)
	case effect.Reserve:
		return e.execReserve(n)
	case *effect.Reserve:
		return e.execReserve(*n)
	case effect.Log:
		return e.execLog(n)
	case *effect.Log:
		return e.execLog(*n)
	case effect.Pure:
		return n.Value, nil
	case *effect.Pure:
		return n.Value, nil
	case effect.Sequence:
		return e.execSequence(n)
	case *effect.Sequence:
		return e.execSequence(*n)
	case effect.Bound:
		return e.execBound(n)
	case *effect.Bound:
		return e.execBound(*n)
	default:
		return nil, &UnknownNodeError{Node: node}
	}
}

func (e *Executor) execSearch(n effect.Search) (effect.Result, error) {
	e.record(OpSearch, string(n.Date))
	return e.store.TrainIDs(), nil
}

func (e *Executor) execLookup(n effect.Lookup) (effect.Result, error) {
	e.record(OpLookup, string(n.TrainID))
	t, ok := e.store.Train(n.TrainID)
	if !ok {
		// Typed nil: continuations type-assert on *rail.Train and treat
		// nil as "train absent".
		return (*rail.Train)(nil), nil
	}
	return &t, nil
}

func (e *Executor) execReserve(n effect.Reserve) (effect.Result, error) {
	e.record(OpReserve, n.Candidate.String())
	return e.store.TryReserve(n.Candidate), nil
}

func (e *Executor) execLog(n effect.Log) (effect.Result, error) {
	e.record(OpLog, n.Message)
	if _, err := fmt.Fprintln(e.logs, n.Message); err != nil {
		return nil, fmt.Errorf("write log line: %w", err)
	}
	return nil, nil
}

func (e *Executor) execSequence(n effect.Sequence) (effect.Result, error) {
	results := make([]effect.Result, 0, len(n.Nodes))
	for _, child := range n.Nodes {
		r, err := e.Execute(child)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (e *Executor) execBound(n effect.Bound) (effect.Result, error) {
	if n.Next == nil {
		return nil, fmt.Errorf("bound node without continuation")
	}

	inner, err := e.Execute(n.Node)
	if err != nil {
		return nil, err
	}
	return e.Execute(n.Next(inner))
}

func (e *Executor) record(op, detail string) {
	if e.Trace != nil {
		e.Trace.Record(op, detail)
	}
}
