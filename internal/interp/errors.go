package interp

import (
	"errors"
	"fmt"
)

// UnknownNodeError reports an effect node no interpreter case handles.
//
// This is a fatal programming fault, not a runtime condition: the effect
// vocabulary is closed, so an unknown node means the interpreter and the
// chain builder disagree about the language. Callers should stop rather
// than skip the node.
type UnknownNodeError struct {
	// Node is the unhandled node. May be nil when a continuation
	// produced no node at all.
	Node any
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	if e.Node == nil {
		return "unknown instruction: nil effect node"
	}
	return fmt.Sprintf("unknown instruction: unsupported effect node type %T", e.Node)
}

// IsUnknownNode returns true if the error is an unknown-instruction error.
// Uses errors.As to handle wrapped errors.
func IsUnknownNode(err error) bool {
	var ue *UnknownNodeError
	return errors.As(err, &ue)
}
