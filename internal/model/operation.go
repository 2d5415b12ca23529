package model

import "time"

// OperationStatus tells whether a shift on a forklift is still running.
type OperationStatus string

const (
	OperationActive    OperationStatus = "active"
	OperationCompleted OperationStatus = "completed"
)

// Operation is an operator working a forklift in a sector.
type Operation struct {
	ID               string          `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	OperatorID       string          `gorm:"size:64;index;not null" json:"operatorId" yaml:"operator_id"`
	OperatorName     string          `gorm:"size:128" json:"operatorName" yaml:"operator_name"`
	ForkliftID       string          `gorm:"size:64;index;not null" json:"forkliftId" yaml:"forklift_id"`
	ForkliftModel    string          `gorm:"size:128" json:"forkliftModel" yaml:"forklift_model"`
	Sector           string          `gorm:"size:64" json:"sector" yaml:"sector"`
	InitialHourMeter int             `gorm:"not null" json:"initialHourMeter" yaml:"initial_hour_meter"`
	CurrentHourMeter int             `json:"currentHourMeter,omitempty" yaml:"current_hour_meter,omitempty"`
	GasConsumption   float64         `json:"gasConsumption,omitempty" yaml:"gas_consumption,omitempty"`
	StartTime        string          `gorm:"size:32" json:"startTime" yaml:"start_time"`
	EndTime          string          `gorm:"size:32" json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Status           OperationStatus `gorm:"size:16;index;not null" json:"status" yaml:"status"`
	CreatedAt        time.Time       `json:"-" yaml:"-"`
	UpdatedAt        time.Time       `json:"-" yaml:"-"`
}
