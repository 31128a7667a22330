package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingOverlaps(t *testing.T) {
	b := Booking{StartDate: date(5), EndDate: date(10)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", date(6), date(8), true},
		{"covers", date(1), date(20), true},
		{"touches start day", date(1), date(5), true},
		{"touches end day", date(10), date(12), true},
		{"before", date(1), date(4), false},
		{"after", date(11), date(12), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Overlaps(tc.start, tc.end))
		})
	}
}

func TestBookingContains(t *testing.T) {
	b := Booking{StartDate: date(5), EndDate: date(10)}

	assert.True(t, b.Contains(date(5)))
	assert.True(t, b.Contains(date(7).Add(12*time.Hour)))
	assert.True(t, b.Contains(date(10)))
	assert.False(t, b.Contains(date(4)))
	assert.False(t, b.Contains(date(11)))
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingApproved.IsTerminal())
	assert.True(t, BookingDeclined.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
}
