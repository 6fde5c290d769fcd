package interp

import (
	"fmt"

	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/rail"
	"github.com/berthd/berth/internal/seats"
)

// Renderer describes effect chains without performing them.
//
// The walk reads the store so continuations receive real data, but every
// Reserve resolves as "not booked" and nothing is written anywhere. For a
// reservation chain the listing is therefore the worst-case path: every
// candidate attempt appears, in the order the executor would try them.
type Renderer struct {
	store *seats.Store
}

// NewRenderer creates a renderer over the given store.
func NewRenderer(store *seats.Store) *Renderer {
	return &Renderer{store: store}
}

// Render walks the chain and returns one "op(arg)" line per leaf
// instruction, e.g.
//
//	search-trains(2026-09-14)
//	find-train(T2)
//	log(ranking: T3/B seats [1 2], T2/B seats [41 42])
//	place-reservation(T3/B seats [1 2])
func (r *Renderer) Render(node effect.Node) ([]string, error) {
	w := &renderWalk{store: r.store}
	if _, err := w.eval(node); err != nil {
		return nil, err
	}
	return w.lines, nil
}

// renderWalk carries the line buffer for a single Render call, keeping
// the Renderer itself stateless and safe for concurrent use.
type renderWalk struct {
	store *seats.Store
	lines []string
}

func (w *renderWalk) eval(node effect.Node) (effect.Result, error) {
	if node == nil {
		return nil, &UnknownNodeError{}
	}

	switch n := node.(type) {
	case effect.Search:
		return w.evalSearch(n)
	case *effect.Search:
		return w.evalSearch(*n)
	case effect.Lookup:
		return w.evalLookup(n)
	case *effect.Lookup:
		return w.evalLookup(*n)
	case effect.Reserve:
		return w.evalReserve(n)
	case *effect.Reserve:
		return w.evalReserve(*n)
	case effect.Log:
		return w.evalLog(n)
	case *effect.Log:
		return w.evalLog(*n)
	case effect.Pure:
		return n.Value, nil
	case *effect.Pure:
		return n.Value, nil
	case effect.Sequence:
		return w.evalSequence(n)
	case *effect.Sequence:
		return w.evalSequence(*n)
	case effect.Bound:
		return w.evalBound(n)
	case *effect.Bound:
		return w.evalBound(*n)
	default:
		return nil, &UnknownNodeError{Node: node}
	}
}

func (w *renderWalk) evalSearch(n effect.Search) (effect.Result, error) {
	w.line(OpSearch, string(n.Date))
	return w.store.TrainIDs(), nil
}

func (w *renderWalk) evalLookup(n effect.Lookup) (effect.Result, error) {
	w.line(OpLookup, string(n.TrainID))
	t, ok := w.store.Train(n.TrainID)
	if !ok {
		return (*rail.Train)(nil), nil
	}
	return &t, nil
}

func (w *renderWalk) evalReserve(n effect.Reserve) (effect.Result, error) {
	w.line(OpReserve, n.Candidate.String())
	// Described, never performed. Resolving false drives the walk down
	// every fallback attempt.
	return false, nil
}

func (w *renderWalk) evalLog(n effect.Log) (effect.Result, error) {
	w.line(OpLog, n.Message)
	return nil, nil
}

func (w *renderWalk) evalSequence(n effect.Sequence) (effect.Result, error) {
	results := make([]effect.Result, 0, len(n.Nodes))
	for _, child := range n.Nodes {
		r, err := w.eval(child)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (w *renderWalk) evalBound(n effect.Bound) (effect.Result, error) {
	if n.Next == nil {
		return nil, fmt.Errorf("bound node without continuation")
	}

	inner, err := w.eval(n.Node)
	if err != nil {
		return nil, err
	}
	return w.eval(n.Next(inner))
}

func (w *renderWalk) line(op, detail string) {
	w.lines = append(w.lines, fmt.Sprintf("%s(%s)", op, detail))
}
