package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/berthd/berth/internal/rail"
)

// Booking is one committed reservation as journaled.
type Booking struct {
	ID      string            `json:"id"`
	Ref     string            `json:"ref"`
	TrainID rail.TrainID      `json:"train_id"`
	CoachID rail.CoachID      `json:"coach_id"`
	Seats   []rail.SeatNumber `json:"seats"`
	Seq     int64             `json:"seq"`
}

// NewBooking builds a journal-ready booking for a committed candidate:
// content-addressed id, a fresh ref from gen, and the candidate's seats.
func NewBooking(gen RefGenerator, c rail.CandidateReservation, seq int64) (Booking, error) {
	id, err := BookingID(c, seq)
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		ID:      id,
		Ref:     gen.NewRef(),
		TrainID: c.TrainID,
		CoachID: c.CoachID,
		Seats:   slices.Clone(c.Seats),
		Seq:     seq,
	}, nil
}

// Append journals a booking.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a booking that is
// already journaled is silently ignored and inserted=false is returned.
// Other constraint violations (e.g. reusing a ref for different content)
// still return errors.
func (l *Ledger) Append(ctx context.Context, b Booking) (inserted bool, err error) {
	seatsJSON, err := marshalSeats(b.Seats)
	if err != nil {
		return false, fmt.Errorf("append booking: %w", err)
	}

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO bookings
		(id, ref, train_id, coach_id, seats, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		b.ID,
		b.Ref,
		string(b.TrainID),
		string(b.CoachID),
		seatsJSON,
		b.Seq,
	)
	if err != nil {
		return false, fmt.Errorf("append booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append booking: rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// marshalSeats serializes seat numbers to the canonical JSON array stored
// in the seats column.
func marshalSeats(seats []rail.SeatNumber) (string, error) {
	arr := make([]any, len(seats))
	for i, n := range seats {
		arr[i] = int(n)
	}

	data, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal seats: %w", err)
	}
	return string(data), nil
}
