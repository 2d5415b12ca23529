package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// dd/mm/yyyy, also tolerating "-" or "." as separators.
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)
	// yyyy-mm-dd, as written by the maintenance and gas screens.
	isoRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// DisplayLayout is the external date format used by the dashboard.
const DisplayLayout = "02/01/2006"

// ISOLayout is the alternate format accepted on input.
const ISOLayout = "2006-01-02"

// ErrMalformedDate is returned when a string is not a calendar date.
var ErrMalformedDate = errors.New("malformed date")

// ParseDate converts a dd/mm/yyyy or yyyy-mm-dd string into midnight UTC of
// that calendar day. Out-of-range days such as 31/02/2024 are rejected
// instead of being normalized into the next month.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	var year, month, day string
	if m := isoRe.FindStringSubmatch(s); m != nil {
		year, month, day = m[1], m[2], m[3]
	} else if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, month, year = m[1], m[2], m[3]
	} else {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}

	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid calendar day", ErrMalformedDate, raw)
	}
	return t, nil
}

// FormatDate renders t in the external dd/mm/yyyy format.
func FormatDate(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Day truncates t to midnight UTC of its calendar day in t's own location,
// so it can be compared with values returned by ParseDate.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether raw names the same calendar day as t.
func SameDay(raw string, t time.Time) bool {
	d, err := ParseDate(raw)
	if err != nil {
		return false
	}
	return d.Equal(Day(t))
}
