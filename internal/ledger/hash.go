package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/berthd/berth/internal/rail"
)

// Domain prefix for content-addressed booking identity.
// Version suffix enables future algorithm migration.
const domainBooking = "berth/booking/v1"

// hashWithDomain computes a SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00}) // Null separator - CRITICAL for security
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// BookingID computes the content-addressed id for a booking.
// The id is stable across restarts given the same candidate and seq,
// which is what makes Append idempotent under replay.
//
// DESIGN DECISION: the operator-facing ref is intentionally EXCLUDED.
// The id represents "what was booked", not "which ticket was issued for
// it"; reissuing a ticket for the same booking must not change its
// identity in the journal.
func BookingID(c rail.CandidateReservation, seq int64) (string, error) {
	seats := make([]any, len(c.Seats))
	for i, n := range c.Seats {
		seats[i] = int(n)
	}

	obj := map[string]any{
		"train_id": string(c.TrainID),
		"coach_id": string(c.CoachID),
		"seats":    seats,
		"seq":      seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("BookingID: failed to marshal: %w", err)
	}

	return hashWithDomain(domainBooking, canonical), nil
}

// MustBookingID is like BookingID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustBookingID(c rail.CandidateReservation, seq int64) string {
	id, err := BookingID(c, seq)
	if err != nil {
		panic(err)
	}
	return id
}
