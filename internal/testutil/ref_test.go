package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialRefGenerator_NumbersRefs(t *testing.T) {
	gen := NewSequentialRefGenerator("booking")

	assert.Equal(t, "booking-0001", gen.NewRef())
	assert.Equal(t, "booking-0002", gen.NewRef())
	assert.Equal(t, "booking-0003", gen.NewRef())
}

func TestSequentialRefGenerator_EmptyPrefixDefault(t *testing.T) {
	gen := NewSequentialRefGenerator("")

	assert.Equal(t, "test-ref-0001", gen.NewRef())
}

func TestSequentialRefGenerator_RefsAreUnique(t *testing.T) {
	gen := NewSequentialRefGenerator("scenario")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := gen.NewRef()
		require.False(t, seen[ref], "duplicate ref %q", ref)
		seen[ref] = true
	}
}

func TestSequentialRefGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialRefGenerator("concurrent")
	const numGoroutines = 10
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	refs := make(chan string, numGoroutines*callsPerGoroutine)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				refs <- gen.NewRef()
			}
		}()
	}

	wg.Wait()
	close(refs)

	seen := make(map[string]bool)
	for ref := range refs {
		require.False(t, seen[ref], "duplicate ref %q under concurrency", ref)
		seen[ref] = true
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
}
