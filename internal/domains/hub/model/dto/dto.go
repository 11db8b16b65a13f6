package dto

import (
	"tarmac/internal/domains/hub/model"
	gDto "tarmac/shared/dto"
)

type HubResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Location            string `json:"location"`
	Address             string `json:"address"`
	Timezone            string `json:"timezone"`
	OperatingHoursStart string `json:"operating_hours_start"`
	OperatingHoursEnd   string `json:"operating_hours_end"`
	OperatingDays       string `json:"operating_days"`
	Capacity            int    `json:"capacity"`
	gDto.Metadata
}

func (r *HubResponse) FromModel(model model.Hub) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Address = model.Address
	r.Timezone = model.Timezone
	r.OperatingHoursStart = model.OperatingHoursStart
	r.OperatingHoursEnd = model.OperatingHoursEnd
	r.OperatingDays = model.OperatingDays
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetHubsResponse struct {
	Hubs []HubResponse `json:"hubs"`
}

func (r *GetHubsResponse) FromModels(models []model.Hub) {
	r.Hubs = make([]HubResponse, len(models))
	for i, mod := range models {
		r.Hubs[i].FromModel(mod)
	}
}
