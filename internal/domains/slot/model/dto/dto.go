package dto

import (
	"tarmac/internal/domains/slot/model"
	"tarmac/shared/constant"
)

type SlotResponse struct {
	ID              string `json:"id"`
	HubID           string `json:"hub_id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

func (r *SlotResponse) FromModel(model model.Slot) {
	r.ID = model.ID
	r.HubID = model.HubID
	r.StartTime = model.StartTime.Format(constant.DateFormat)
	r.EndTime = model.EndTime().Format(constant.DateFormat)
	r.DurationMinutes = model.DurationMinutes
	r.Status = model.Status
}

type GetSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot) {
	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}

type CalendarSummary struct {
	TotalSlots     int `json:"total_slots"`
	AvailableSlots int `json:"available_slots"`
	BookedSlots    int `json:"booked_slots"`
	HeldSlots      int `json:"held_slots"`
	CancelledSlots int `json:"cancelled_slots"`
}

type GetCalendarResponse struct {
	HubID     string          `json:"hub_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Slots     []SlotResponse  `json:"slots"`
	Summary   CalendarSummary `json:"summary"`
}

func (r *GetCalendarResponse) FromModels(hubID, startDate, endDate string, models []model.Slot) {
	r.HubID = hubID
	r.StartDate = startDate
	r.EndDate = endDate
	r.Slots = make([]SlotResponse, len(models))

	for i, mod := range models {
		r.Slots[i].FromModel(mod)
		r.Summary.TotalSlots++

		switch mod.Status {
		case model.StatusAvailable:
			r.Summary.AvailableSlots++
		case model.StatusConfirmed:
			r.Summary.BookedSlots++
		case model.StatusHeld:
			r.Summary.HeldSlots++
		case model.StatusCancelled:
			r.Summary.CancelledSlots++
		}
	}
}
