package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/berthd/berth/internal/rail"
)

// List returns every journaled booking.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE
// BINARY.
//
// Returns an empty slice (not nil) if the journal is empty.
func (l *Ledger) List(ctx context.Context) ([]Booking, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, ref, train_id, coach_id, seats, seq
		FROM bookings
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListTrain returns the journaled bookings for one train, in the same
// deterministic order as List.
func (l *Ledger) ListTrain(ctx context.Context, trainID rail.TrainID) ([]Booking, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, ref, train_id, coach_id, seats, seq
		FROM bookings
		WHERE train_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, string(trainID))
	if err != nil {
		return nil, fmt.Errorf("query bookings for train: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]Booking, error) {
	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	// Return empty slice instead of nil
	if bookings == nil {
		bookings = []Booking{}
	}

	return bookings, nil
}

func scanBooking(rows *sql.Rows) (Booking, error) {
	var b Booking
	var trainID, coachID, seatsJSON string

	if err := rows.Scan(&b.ID, &b.Ref, &trainID, &coachID, &seatsJSON, &b.Seq); err != nil {
		return Booking{}, fmt.Errorf("scan booking: %w", err)
	}

	b.TrainID = rail.TrainID(trainID)
	b.CoachID = rail.CoachID(coachID)
	if err := json.Unmarshal([]byte(seatsJSON), &b.Seats); err != nil {
		return Booking{}, fmt.Errorf("decode seats: %w", err)
	}

	return b, nil
}
