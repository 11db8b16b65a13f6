package model

import (
	"time"

	"tarmac/shared/model"
)

const (
	TableName  = "slots"
	EntityName = "slot"

	FieldID              = "id"
	FieldHubID           = "hub_id"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldStatus          = "status"
	FieldLockToken       = "lock_token"
)

// Slot statuses. A slot is the contended resource: every transition between
// these states goes through a conditional write guarded by the current status
// and lock token.
const (
	StatusAvailable = "AVAILABLE"
	StatusHeld      = "HELD"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

type Slot struct {
	ID              string    `db:"id"`
	HubID           string    `db:"hub_id"`
	StartTime       time.Time `db:"start_time"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	LockToken       int64     `db:"lock_token"`
	model.Metadata
}

func (s *Slot) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
