package model

import (
	"tarmac/shared/model"
)

const (
	TableName  = "hubs"
	EntityName = "hub"

	FieldID       = "id"
	FieldName     = "name"
	FieldIsActive = "is_active"
)

type Hub struct {
	ID                  string `db:"id"`
	Name                string `db:"name"`
	Location            string `db:"location"`
	Address             string `db:"address"`
	Timezone            string `db:"timezone"`
	OperatingHoursStart string `db:"operating_hours_start"`
	OperatingHoursEnd   string `db:"operating_hours_end"`
	OperatingDays       string `db:"operating_days"`
	Capacity            int    `db:"capacity"`
	IsActive            bool   `db:"is_active"`
	model.Metadata
}
