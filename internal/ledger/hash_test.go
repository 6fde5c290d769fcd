package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berthd/berth/internal/rail"
)

func TestBookingIDDeterminism(t *testing.T) {
	c := rail.CandidateReservation{
		TrainID: "T3",
		CoachID: "B",
		Seats:   []rail.SeatNumber{1, 2, 10},
	}

	// Same inputs must produce same ID
	id1, err := BookingID(c, 1)
	require.NoError(t, err)

	id2, err := BookingID(c, 1)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "BookingID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestBookingIDChangesWithInput(t *testing.T) {
	seats := []rail.SeatNumber{1, 2}
	base := rail.CandidateReservation{TrainID: "T1", CoachID: "A", Seats: seats}

	id1 := MustBookingID(base, 1)
	id2 := MustBookingID(rail.CandidateReservation{TrainID: "T2", CoachID: "A", Seats: seats}, 1)
	id3 := MustBookingID(rail.CandidateReservation{TrainID: "T1", CoachID: "B", Seats: seats}, 1)
	id4 := MustBookingID(base, 2)

	assert.NotEqual(t, id1, id2, "different trains should produce different IDs")
	assert.NotEqual(t, id1, id3, "different coaches should produce different IDs")
	assert.NotEqual(t, id1, id4, "different seq should produce different IDs")
}

func TestBookingIDChangesWithSeats(t *testing.T) {
	id1 := MustBookingID(rail.CandidateReservation{
		TrainID: "T1", CoachID: "A", Seats: []rail.SeatNumber{1, 2},
	}, 1)
	id2 := MustBookingID(rail.CandidateReservation{
		TrainID: "T1", CoachID: "A", Seats: []rail.SeatNumber{1, 3},
	}, 1)

	assert.NotEqual(t, id1, id2, "different seats should produce different IDs")
}

func TestBookingIDSeatOrderSignificant(t *testing.T) {
	// Candidates carry ascending seats; the id does not re-sort them.
	id1 := MustBookingID(rail.CandidateReservation{
		TrainID: "T1", CoachID: "A", Seats: []rail.SeatNumber{1, 2},
	}, 1)
	id2 := MustBookingID(rail.CandidateReservation{
		TrainID: "T1", CoachID: "A", Seats: []rail.SeatNumber{2, 1},
	}, 1)

	assert.NotEqual(t, id1, id2)
}

func TestBookingIDIgnoresRef(t *testing.T) {
	// Reissuing a ticket must not change the booking's identity: two
	// bookings from different ref generators share the same id.
	c := rail.CandidateReservation{
		TrainID: "T3",
		CoachID: "B",
		Seats:   []rail.SeatNumber{7},
	}

	b1, err := NewBooking(&fixedRefs{prefix: "first"}, c, 4)
	require.NoError(t, err)

	b2, err := NewBooking(&fixedRefs{prefix: "second"}, c, 4)
	require.NoError(t, err)

	assert.Equal(t, b1.ID, b2.ID, "id excludes the ref")
	assert.NotEqual(t, b1.Ref, b2.Ref)
}

func TestUUIDRefGenerator(t *testing.T) {
	gen := UUIDRefGenerator{}

	r1 := gen.NewRef()
	r2 := gen.NewRef()

	assert.Len(t, r1, 36, "canonical UUID string is 36 characters")
	assert.NotEqual(t, r1, r2, "refs must be unique")
}
