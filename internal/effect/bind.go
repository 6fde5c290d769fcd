package effect

// Bind attaches a continuation to a single instruction node.
func Bind(node Node, next Continuation) Bound {
	return Bound{Node: node, Next: next}
}

// BindAll wraps ordered nodes in a Sequence and binds the continuation to
// the whole sequence result: the continuation receives the members'
// results as a []Result in input order.
func BindAll(nodes []Node, next Continuation) Bound {
	return Bound{Node: Sequence{Nodes: nodes}, Next: next}
}
