package ledger

import "github.com/google/uuid"

// RefGenerator issues operator-facing reservation references.
// The interpreter pipeline never reads refs back; they exist for humans
// and downstream systems, so tests may substitute a fixed generator.
type RefGenerator interface {
	NewRef() string
}

// UUIDRefGenerator issues UUIDv7 reservation references.
//
// UUIDv7 is time-ordered, so refs sort roughly by issue time while
// staying globally unique. Uses github.com/google/uuid for RFC 4122
// compliant UUIDs.
type UUIDRefGenerator struct{}

// NewRef returns a new UUIDv7 reference.
// Panics only if the system entropy source fails.
func (UUIDRefGenerator) NewRef() string {
	return uuid.Must(uuid.NewV7()).String()
}
