package model

import "time"

// ForkliftType is the power source of a forklift.
type ForkliftType string

const (
	ForkliftGas         ForkliftType = "gas"
	ForkliftElectric    ForkliftType = "electric"
	ForkliftRetractable ForkliftType = "retractable"
)

// ForkliftStatus is the operator-entered state of a forklift.
type ForkliftStatus string

const (
	ForkliftOperational ForkliftStatus = "operational"
	ForkliftStopped     ForkliftStatus = "stopped"
	ForkliftMaintenance ForkliftStatus = "maintenance"
)

// ForkliftStatuses lists every forklift status in display order.
var ForkliftStatuses = []ForkliftStatus{ForkliftOperational, ForkliftStopped, ForkliftMaintenance}

// Forklift represents a single asset of the fleet.
type Forklift struct {
	ID                         string         `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Model                      string         `gorm:"size:128;not null" json:"model" yaml:"model"`
	Type                       ForkliftType   `gorm:"size:32;not null" json:"type" yaml:"type"`
	Capacity                   string         `gorm:"size:64" json:"capacity" yaml:"capacity"`
	AcquisitionDate            string         `gorm:"size:10" json:"acquisitionDate" yaml:"acquisition_date"`
	LastMaintenance            string         `gorm:"size:10" json:"lastMaintenance" yaml:"last_maintenance"`
	Status                     ForkliftStatus `gorm:"size:32;index;not null" json:"status" yaml:"status"`
	HourMeter                  int            `gorm:"not null" json:"hourMeter" yaml:"hour_meter"`
	HourMeterAtLastMaintenance int            `gorm:"not null" json:"hourMeterAtLastMaintenance" yaml:"hour_meter_at_last_maintenance"`
	CreatedAt                  time.Time      `json:"-" yaml:"-"`
	UpdatedAt                  time.Time      `json:"-" yaml:"-"`
}
