package status

import (
	"fmt"

	"forklift-fleet-backend/internal/model"
)

// DefaultMaintenanceIntervalHours is the service interval of a forklift.
const DefaultMaintenanceIntervalHours = 1000

// Due is the maintenance estimate for a forklift.
type Due struct {
	ForkliftID     string `json:"forkliftId"`
	HourMeter      int    `json:"hourMeter"`
	IntervalHours  int    `json:"intervalHours"`
	HoursRemaining int    `json:"hoursRemaining"`
	Due            bool   `json:"due"`
}

// HoursRemaining returns interval - (hourMeter - atLastMaintenance). Zero or
// a negative value means maintenance is due now.
func HoursRemaining(hourMeter, atLastMaintenance, interval int) (int, error) {
	if hourMeter < 0 || atLastMaintenance < 0 {
		return 0, fmt.Errorf("%w: readings must not be negative", ErrInvalidHourMeter)
	}
	if hourMeter < atLastMaintenance {
		return 0, fmt.Errorf("%w: hour meter %d is below last maintenance reading %d", ErrInvalidHourMeter, hourMeter, atLastMaintenance)
	}
	if interval <= 0 {
		interval = DefaultMaintenanceIntervalHours
	}
	return interval - (hourMeter - atLastMaintenance), nil
}

// MaintenanceDue estimates when f needs its next service.
func MaintenanceDue(f model.Forklift, interval int) (Due, error) {
	if interval <= 0 {
		interval = DefaultMaintenanceIntervalHours
	}
	remaining, err := HoursRemaining(f.HourMeter, f.HourMeterAtLastMaintenance, interval)
	if err != nil {
		return Due{}, fmt.Errorf("forklift %s: %w", f.ID, err)
	}
	return Due{
		ForkliftID:     f.ID,
		HourMeter:      f.HourMeter,
		IntervalHours:  interval,
		HoursRemaining: remaining,
		Due:            remaining <= 0,
	}, nil
}
