package dto

import (
	"database/sql"
	"time"

	"tarmac/internal/domains/booking/model"
	"tarmac/shared/constant"
	gDto "tarmac/shared/dto"
)

type CreateBookingRequest struct {
	SlotID             string `json:"slot_id"             validate:"required,uuid"`
	CandidateID        string `json:"candidate_id"        validate:"required,max=64"`
	ContactEmail       string `json:"contact_email"       validate:"required,email"`
	ContactPhone       string `json:"contact_phone"       validate:"omitempty,e164"`
	SpecialRequirement string `json:"special_requirement" validate:"omitempty,max=500"`
}

func (r *CreateBookingRequest) ToModel(id, reference string, holdExpiresAt time.Time) model.Booking {
	return model.Booking{
		ID:                 id,
		Reference:          reference,
		SlotID:             r.SlotID,
		CandidateID:        r.CandidateID,
		ContactEmail:       r.ContactEmail,
		ContactPhone:       sql.NullString{String: r.ContactPhone, Valid: r.ContactPhone != constant.Empty},
		SpecialRequirement: sql.NullString{String: r.SpecialRequirement, Valid: r.SpecialRequirement != constant.Empty},
		Status:             model.StatusPendingHold,
		HoldExpiresAt:      holdExpiresAt,
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type BookingResponse struct {
	ID                 string `json:"id"`
	Reference          string `json:"reference"`
	SlotID             string `json:"slot_id"`
	CandidateID        string `json:"candidate_id"`
	ContactEmail       string `json:"contact_email"`
	ContactPhone       string `json:"contact_phone,omitempty"`
	SpecialRequirement string `json:"special_requirement,omitempty"`
	Status             string `json:"status"`
	HoldExpiresAt      string `json:"hold_expires_at"`
	CancelledAt        string `json:"cancelled_at,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.Reference = mod.Reference
	r.SlotID = mod.SlotID
	r.CandidateID = mod.CandidateID
	r.ContactEmail = mod.ContactEmail
	r.Status = mod.Status

	if mod.ContactPhone.Valid {
		r.ContactPhone = mod.ContactPhone.String
	}

	if mod.SpecialRequirement.Valid {
		r.SpecialRequirement = mod.SpecialRequirement.String
	}
	r.HoldExpiresAt = mod.HoldExpiresAt.Format(constant.DateFormat)

	if mod.CancelledAt.Valid {
		r.CancelledAt = mod.CancelledAt.Time.Format(constant.DateFormat)
	}

	if mod.CancellationReason.Valid {
		r.CancellationReason = mod.CancellationReason.String
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking) {
	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
