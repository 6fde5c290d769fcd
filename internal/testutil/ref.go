package testutil

import (
	"fmt"
	"sync"
)

// SequentialRefGenerator generates numbered booking refs for tests.
//
// This enables deterministic test execution and golden snapshot comparison.
// The same scenario with the same SequentialRefGenerator produces
// byte-identical booking records.
//
// Unlike ledger.UUIDRefGenerator which returns random UUIDv7 refs, this
// generator numbers refs from a fixed prefix. Refs stay unique, which the
// journal's UNIQUE constraint requires, while remaining predictable:
//
//	ref-0001, ref-0002, ref-0003, ...
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialRefGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRefGenerator creates a new sequential ref generator.
//
// The prefix is typically set per scenario so refs read as
// "scenario-0001". If prefix is empty, "test-ref" is used.
func NewSequentialRefGenerator(prefix string) *SequentialRefGenerator {
	if prefix == "" {
		prefix = "test-ref"
	}
	return &SequentialRefGenerator{prefix: prefix}
}

// NewRef returns the next numbered ref.
//
// Implements ledger.RefGenerator.
func (g *SequentialRefGenerator) NewRef() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
