package interp

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berthd/berth/internal/effect"
	"github.com/berthd/berth/internal/rail"
)

func renderReservation(t *testing.T, r *Renderer, seatCount int) []string {
	t.Helper()
	chain, err := effect.ReserveSeats(rail.ReservationRequest{Seats: seatCount, Date: "2026-09-14"})
	require.NoError(t, err)
	lines, err := r.Render(chain)
	require.NoError(t, err)
	return lines
}

func TestRenderer_WorstCasePath(t *testing.T) {
	store := newDemoStore(t)
	lines := renderReservation(t, NewRenderer(store), 10)

	// Every candidate attempt appears, because a rendered Reserve never
	// succeeds.
	assert.Equal(t, []string{
		"search-trains(2026-09-14)",
		"find-train(T1)",
		"find-train(T2)",
		"find-train(T3)",
		"log(ranking: T3/B seats [1 2 3 4 5 6 7 8 9 10], T3/A seats [11 12 13 14 15 16 17 18 19 20], T2/B seats [41 42 43 44 45 46 47 48 49 50])",
		"place-reservation(T3/B seats [1 2 3 4 5 6 7 8 9 10])",
		"place-reservation(T3/A seats [11 12 13 14 15 16 17 18 19 20])",
		"place-reservation(T2/B seats [41 42 43 44 45 46 47 48 49 50])",
	}, lines)
}

func TestRenderer_Golden(t *testing.T) {
	store := newDemoStore(t)
	lines := renderReservation(t, NewRenderer(store), 10)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render_worst_case", []byte(strings.Join(lines, "\n")+"\n"))
}

func TestRenderer_DoesNotBook(t *testing.T) {
	store := newDemoStore(t)
	renderReservation(t, NewRenderer(store), 10)

	after, _ := store.Train("T3")
	assert.Equal(t, rail.SeatRange(1, 40), after.Coaches["B"].Available,
		"rendering must leave the store untouched")
}

func TestRenderer_NoCandidates(t *testing.T) {
	store := newDemoStore(t)
	lines := renderReservation(t, NewRenderer(store), 150)

	assert.Equal(t, []string{
		"search-trains(2026-09-14)",
		"find-train(T1)",
		"find-train(T2)",
		"find-train(T3)",
		"log(ranking: no candidates)",
	}, lines)
}

func TestRenderer_MatchesExecutorPrefix(t *testing.T) {
	store := newDemoStore(t)

	// Render first; it does not mutate, so the executor then sees the
	// same catalog state.
	lines := renderReservation(t, NewRenderer(store), 10)

	exec := NewExecutor(store, io.Discard)
	exec.Trace = NewRecorder()
	chain, err := effect.ReserveSeats(rail.ReservationRequest{Seats: 10, Date: "2026-09-14"})
	require.NoError(t, err)
	_, err = exec.Execute(chain)
	require.NoError(t, err)

	events := exec.Trace.Events()
	require.LessOrEqual(t, len(events), len(lines),
		"the executor stops at the first successful booking, the renderer never does")

	for i, ev := range events {
		assert.Equal(t, lines[i], fmt.Sprintf("%s(%s)", ev.Op, ev.Detail),
			"instruction %d diverges between interpreters", i)
	}
}

func TestRenderer_NilNode(t *testing.T) {
	r := NewRenderer(newDemoStore(t))

	_, err := r.Render(nil)
	require.Error(t, err)
	assert.True(t, IsUnknownNode(err))
}
