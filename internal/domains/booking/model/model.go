package model

import (
	"database/sql"
	"time"

	"tarmac/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldReference     = "reference"
	FieldSlotID        = "slot_id"
	FieldCandidateID   = "candidate_id"
	FieldStatus        = "status"
	FieldHoldExpiresAt = "hold_expires_at"

	// Name of the unique constraint on the reference column, used to detect
	// a generated reference colliding with an existing one.
	ConstraintReference = "bookings_reference_key"
)

// Booking statuses. PENDING_HOLD is the only transient state: it either moves
// to CONFIRMED through an explicit confirmation, or to EXPIRED once the hold
// deadline passes.
const (
	StatusPendingHold = "PENDING_HOLD"
	StatusConfirmed   = "CONFIRMED"
	StatusExpired     = "EXPIRED"
	StatusCancelled   = "CANCELLED"
)

type Booking struct {
	ID                 string         `db:"id"`
	Reference          string         `db:"reference"`
	SlotID             string         `db:"slot_id"`
	CandidateID        string         `db:"candidate_id"`
	ContactEmail       string         `db:"contact_email"`
	ContactPhone       sql.NullString `db:"contact_phone"`
	SpecialRequirement sql.NullString `db:"special_requirement"`
	Status             string         `db:"status"`
	SlotLockToken      int64          `db:"slot_lock_token"`
	HoldExpiresAt      time.Time      `db:"hold_expires_at"`
	CancelledAt        sql.NullTime   `db:"cancelled_at"`
	CancellationReason sql.NullString `db:"cancellation_reason"`
	model.Metadata
}
