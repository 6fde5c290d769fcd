package effect

import "github.com/berthd/berth/internal/rail"

// Result is the untyped value an instruction evaluates to. The vocabulary
// fixes the concrete type per instruction: []rail.TrainID for Search,
// *rail.Train (nil when absent) for Lookup, bool for Reserve, nil for Log,
// the wrapped value for Pure, []Result for Sequence.
type Result = any

// Continuation builds the next node from the prior node's result.
type Continuation func(Result) Node

// Node is one instruction in an effect chain. Sealed: the closed variant
// set lives in this package and interpreters may rely on it exhaustively.
type Node interface {
	effectNode()
}

// Search asks for all known train ids. The date is carried but does not
// filter the catalog.
type Search struct {
	Date rail.TravelDate
}

// Lookup asks for one train by id.
type Lookup struct {
	TrainID rail.TrainID
}

// Reserve attempts to commit a candidate reservation.
type Reserve struct {
	Candidate rail.CandidateReservation
}

// Log emits a message on the executor's log sink.
type Log struct {
	Message string
}

// Pure wraps an already-known value as a leaf instruction. Interpreters
// resolve it to the value without performing any effect.
type Pure struct {
	Value any
}

// Sequence holds ordered member nodes; it resolves to the ordered slice of
// their results.
type Sequence struct {
	Nodes []Node
}

// Bound links a node to the continuation that receives its result.
type Bound struct {
	Node Node
	Next Continuation
}

func (Search) effectNode()   {}
func (Lookup) effectNode()   {}
func (Reserve) effectNode()  {}
func (Log) effectNode()      {}
func (Pure) effectNode()     {}
func (Sequence) effectNode() {}
func (Bound) effectNode()    {}
