package model

import "time"

// GasSupply records a refuelling of a gas forklift.
type GasSupply struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Date            string    `gorm:"size:10;index" json:"date" yaml:"date"`
	ForkliftID      string    `gorm:"size:64;index;not null" json:"forkliftId" yaml:"forklift_id"`
	ForkliftModel   string    `gorm:"size:128" json:"forkliftModel" yaml:"forklift_model"`
	Quantity        float64   `gorm:"not null" json:"quantity" yaml:"quantity"`
	HourMeterBefore int       `gorm:"not null" json:"hourMeterBefore" yaml:"hour_meter_before"`
	HourMeterAfter  int       `gorm:"not null" json:"hourMeterAfter" yaml:"hour_meter_after"`
	Operator        string    `gorm:"size:128" json:"operator" yaml:"operator"`
	CreatedAt       time.Time `json:"-" yaml:"-"`
	UpdatedAt       time.Time `json:"-" yaml:"-"`
}
