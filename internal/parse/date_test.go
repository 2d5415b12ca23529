package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "Day first",
			raw:      "15/03/2024",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Day first single digits",
			raw:      "5/1/2024",
			expected: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "ISO",
			raw:      "2023-11-15",
			expected: time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Surrounding spaces",
			raw:      "  20/05/2024 ",
			expected: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Leap day",
			raw:      "29/02/2024",
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{name: "Not a leap year", raw: "29/02/2023", expectErr: true},
		{name: "Month out of range", raw: "10/13/2024", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Garbage", raw: "tomorrow", expectErr: true},
		{name: "Two digit year", raw: "15/03/24", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseDate(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrMalformedDate)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/01/2024", FormatDate(time.Date(2024, 1, 5, 13, 0, 0, 0, time.UTC)))
}

func TestDayUsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	late := time.Date(2024, 3, 1, 23, 30, 0, 0, loc) // already 2 March in UTC
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Day(late))
	assert.True(t, SameDay("01/03/2024", late))
	assert.False(t, SameDay("02/03/2024", late))
	assert.False(t, SameDay("bogus", late))
}
