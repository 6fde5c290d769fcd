package testutil

import "sync"

// DeterministicClock hands out booking commit positions for scenario runs.
//
// interp.Clock is the engine's atomic trace clock; this one exists so a
// scenario's journal seqs start at 1 every run and stay inspectable
// through Current. The same scenario therefore produces byte-identical
// booking records run after run.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock at position 0.
//
// The first call to Next() returns 1, matching the journal's first
// commit position.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next commit position.
//
// Monotonic: always returns seq+1, never decreases.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the latest handed-out position without advancing.
// Zero means Next has not been called yet.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
