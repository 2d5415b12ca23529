package model

import "time"

// MaintenanceStatus is the progress of a maintenance log.
type MaintenanceStatus string

const (
	MaintenanceWaiting    MaintenanceStatus = "waiting"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// Maintenance is a reported issue on a forklift. CompletedDate is set iff
// Status is MaintenanceCompleted.
type Maintenance struct {
	ID            string            `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	ForkliftID    string            `gorm:"size:64;index;not null" json:"forkliftId" yaml:"forklift_id"`
	ForkliftModel string            `gorm:"size:128" json:"forkliftModel" yaml:"forklift_model"`
	Issue         string            `gorm:"size:1024;not null" json:"issue" yaml:"issue"`
	ReportedBy    string            `gorm:"size:128" json:"reportedBy" yaml:"reported_by"`
	ReportedDate  string            `gorm:"size:10" json:"reportedDate" yaml:"reported_date"`
	Status        MaintenanceStatus `gorm:"size:32;index;not null" json:"status" yaml:"status"`
	CompletedDate string            `gorm:"size:10" json:"completedDate,omitempty" yaml:"completed_date,omitempty"`
	CreatedAt     time.Time         `json:"-" yaml:"-"`
	UpdatedAt     time.Time         `json:"-" yaml:"-"`
}
