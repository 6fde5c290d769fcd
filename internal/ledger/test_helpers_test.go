package ledger

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/berthd/berth/internal/rail"
)

// createTestLedger creates a new on-disk ledger for testing.
func createTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// createTestBooking builds a journal-ready booking with a content-addressed
// id derived from the remaining fields.
func createTestBooking(ref string, trainID rail.TrainID, coachID rail.CoachID, seats []rail.SeatNumber, seq int64) Booking {
	c := rail.CandidateReservation{TrainID: trainID, CoachID: coachID, Seats: seats}
	return Booking{
		ID:      MustBookingID(c, seq),
		Ref:     ref,
		TrainID: trainID,
		CoachID: coachID,
		Seats:   seats,
		Seq:     seq,
	}
}

// fixedRefs hands out predictable refs so tests can assert on them.
type fixedRefs struct {
	prefix string
	n      int
}

func (g *fixedRefs) NewRef() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
