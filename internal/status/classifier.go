package status

import (
	"errors"
	"fmt"
	"time"

	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/parse"
)

// DefaultWarningWindowDays is how many days before expiry a certificate
// starts being reported as a warning.
const DefaultWarningWindowDays = 30

var (
	// ErrInvalidDate is returned when an expiration date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidHourMeter is returned when an hour meter runs backwards.
	ErrInvalidHourMeter = errors.New("invalid hour meter")
)

// ClassifyExpiry classifies an expiration date against the calendar day of
// now using the default warning window.
func ClassifyExpiry(expiration string, now time.Time) (model.CertificateStatus, error) {
	return classify(expiration, now, DefaultWarningWindowDays)
}

// ClassifyExpiryDate classifies an already parsed expiration day.
func ClassifyExpiryDate(expiration, now time.Time, windowDays int) model.CertificateStatus {
	today := parse.Day(now)
	exp := parse.Day(expiration)
	switch {
	case exp.Before(today):
		return model.CertificateExpired
	case exp.Before(today.AddDate(0, 0, windowDays)):
		return model.CertificateWarning
	default:
		return model.CertificateRegular
	}
}

func classify(expiration string, now time.Time, windowDays int) (model.CertificateStatus, error) {
	exp, err := parse.ParseDate(expiration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return ClassifyExpiryDate(exp, now, windowDays), nil
}

// Classifier classifies certificates with a configurable warning window and
// clock.
type Classifier struct {
	WarningWindowDays int
	Now               func() time.Time
}

// NewClassifier creates a classifier using the wall clock in loc.
func NewClassifier(windowDays int, loc *time.Location) *Classifier {
	if windowDays <= 0 {
		windowDays = DefaultWarningWindowDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{
		WarningWindowDays: windowDays,
		Now:               func() time.Time { return time.Now().In(loc) },
	}
}

// Classify classifies expiration against the classifier's current time.
func (c *Classifier) Classify(expiration string) (model.CertificateStatus, error) {
	return c.ClassifyAt(expiration, c.Today())
}

// ClassifyAt classifies expiration against an explicit reference time.
func (c *Classifier) ClassifyAt(expiration string, at time.Time) (model.CertificateStatus, error) {
	return classify(expiration, at, c.window())
}

// Today returns the classifier's current time, falling back to the wall
// clock when Now is unset.
func (c *Classifier) Today() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Classifier) window() int {
	if c.WarningWindowDays <= 0 {
		return DefaultWarningWindowDays
	}
	return c.WarningWindowDays
}

// severity ranks statuses so the worse one wins; unknown values rank lowest.
func severity(s model.CertificateStatus) int {
	switch s {
	case model.CertificateRegular:
		return 1
	case model.CertificateWarning:
		return 2
	case model.CertificateExpired:
		return 3
	}
	return 0
}

// OverallStatus returns the worse of two certificate statuses. It returns
// the empty status if either input is not a known status.
func OverallStatus(a, b model.CertificateStatus) model.CertificateStatus {
	if severity(a) == 0 || severity(b) == 0 {
		return ""
	}
	if severity(b) > severity(a) {
		return b
	}
	return a
}
