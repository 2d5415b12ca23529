package summary

import (
	"time"

	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/parse"
	"forklift-fleet-backend/internal/status"
)

// Snapshot is the state of every collection at one instant.
type Snapshot struct {
	Forklifts    []model.Forklift    `yaml:"forklifts"`
	Operators    []model.Operator    `yaml:"operators"`
	Maintenances []model.Maintenance `yaml:"maintenances"`
	GasSupplies  []model.GasSupply   `yaml:"gas_supplies"`
	Operations   []model.Operation   `yaml:"operations"`

	// At is the reference time for day-based counters. A zero value skips
	// them.
	At time.Time `yaml:"-"`
	// WarningWindowDays overrides the default certificate warning window.
	WarningWindowDays int `yaml:"-"`
}

// Summarize counts forklifts and operators by status.
func Summarize(forklifts []model.Forklift, operators []model.Operator) model.DashboardStats {
	return SummarizeSnapshot(Snapshot{Forklifts: forklifts, Operators: operators})
}

// SummarizeSnapshot folds every collection of s into dashboard counters.
func SummarizeSnapshot(s Snapshot) model.DashboardStats {
	stats := model.DashboardStats{
		Forklifts: CountForklifts(s.Forklifts),
		Operators: CountOperators(s.Operators),
	}

	for _, op := range s.Operations {
		if op.Status == model.OperationActive {
			stats.ActiveOperations++
		}
	}
	for _, m := range s.Maintenances {
		if m.Status != model.MaintenanceCompleted {
			stats.PendingMaintenances++
		}
	}

	if s.At.IsZero() {
		return stats
	}

	for _, g := range s.GasSupplies {
		if parse.SameDay(g.Date, s.At) {
			stats.SuppliesToday++
		}
	}

	window := s.WarningWindowDays
	if window <= 0 {
		window = status.DefaultWarningWindowDays
	}
	for _, op := range s.Operators {
		for _, exp := range []string{op.ASOExpirationDate, op.NRExpirationDate} {
			d, err := parse.ParseDate(exp)
			if err != nil {
				continue
			}
			if status.ClassifyExpiryDate(d, s.At, window) == model.CertificateWarning {
				stats.CertificatesDueSoon++
			}
		}
	}
	return stats
}

// CountForklifts partitions forklifts by their stored status.
func CountForklifts(forklifts []model.Forklift) model.ForkliftCounts {
	c := model.ForkliftCounts{Total: len(forklifts)}
	for _, f := range forklifts {
		switch f.Status {
		case model.ForkliftOperational:
			c.Operational++
		case model.ForkliftStopped:
			c.Stopped++
		case model.ForkliftMaintenance:
			c.Maintenance++
		default:
			c.Unknown++
		}
	}
	return c
}

// CountOperators partitions operators by the worse of their stored ASO and
// NR statuses.
func CountOperators(operators []model.Operator) model.OperatorCounts {
	c := model.OperatorCounts{Total: len(operators)}
	for _, op := range operators {
		switch status.OverallStatus(op.ASOStatus, op.NRStatus) {
		case model.CertificateRegular:
			c.Regular++
		case model.CertificateWarning:
			c.Warning++
		case model.CertificateExpired:
			c.Expired++
		default:
			c.Unknown++
		}
	}
	return c
}
